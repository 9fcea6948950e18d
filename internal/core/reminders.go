package core

import (
	"context"
	"fmt"
	"time"
)

// ReminderPayload is the fire-and-forget contract with the external
// notification collaborator: a title, body, and trigger instant. Store state
// stays authoritative regardless of delivery outcome.
type ReminderPayload struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	TriggerAt time.Time `json:"trigger_at"`
}

// Notifier schedules reminder payloads. Implementations live outside the
// store; permission handling and delivery are entirely their concern.
type Notifier interface {
	Schedule(ctx context.Context, payload ReminderPayload) error
}

// PendingReminders builds reminder payloads for every incomplete event whose
// reminder timestamp has not yet passed, honoring the settings toggles. The
// caller hands them to a Notifier; the store never waits on delivery.
func (s *Service) PendingReminders() []ReminderPayload {
	settings := s.store.Settings()
	if !settings.EventReminders {
		return nil
	}
	now := s.clock.Now()
	var out []ReminderPayload
	for _, event := range s.store.ListFarmEvents() {
		if event.IsCompleted || event.ReminderDate == nil || event.ReminderDate.Before(now) {
			continue
		}
		body := event.Description
		if body == "" {
			body = fmt.Sprintf("%s is scheduled for %s", event.Title, event.Date.Format("Jan 2 15:04"))
		}
		out = append(out, ReminderPayload{
			Title:     event.Title,
			Body:      body,
			TriggerAt: *event.ReminderDate,
		})
	}
	return out
}

// TaskReminderFor builds the daily reminder payload for a task, triggered at
// the configured reminder time on the task's due date. The boolean is false
// when task reminders are disabled or the task is already complete.
func (s *Service) TaskReminderFor(task Task) (ReminderPayload, bool) {
	settings := s.store.Settings()
	if !settings.TaskReminders || task.IsCompleted {
		return ReminderPayload{}, false
	}
	due := task.DueDate
	trigger := time.Date(due.Year(), due.Month(), due.Day(), settings.ReminderHour, settings.ReminderMinute, 0, 0, due.Location())
	return ReminderPayload{
		Title:     task.Title,
		Body:      task.Description,
		TriggerAt: trigger,
	}, true
}
