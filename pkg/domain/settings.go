package domain

// AppSettings is the singleton preference record. It is replaced wholesale on
// update; there is no partial-field API.
type AppSettings struct {
	WeightUnit  string `json:"weight_unit"`
	VolumeUnit  string `json:"volume_unit"`
	AreaUnit    string `json:"area_unit"`
	PrimaryUnit string `json:"primary_unit"`

	TaskReminders  bool `json:"task_reminders"`
	EventReminders bool `json:"event_reminders"`
	LowStockAlerts bool `json:"low_stock_alerts"`

	ReminderHour   int `json:"reminder_hour"`
	ReminderMinute int `json:"reminder_minute"`
}

// DefaultSettings returns the settings used when no record has been persisted
// or the stored record failed to decode.
func DefaultSettings() AppSettings {
	return AppSettings{
		WeightUnit:     "kg",
		VolumeUnit:     "L",
		AreaUnit:       "m²",
		PrimaryUnit:    "kg",
		TaskReminders:  true,
		EventReminders: true,
		LowStockAlerts: true,
		ReminderHour:   8,
		ReminderMinute: 0,
	}
}
