// Command farmctl operates a farm journal store from the terminal: seed
// sample data, print rollup summaries, sweep the farmboard, and archive
// snapshots to blob storage. Storage backends are selected through
// FARMCORE_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"farmcore/internal/core"
)

var (
	exitFunc = os.Exit
	osArgs   = os.Args

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if err := run(osArgs[1:]); err != nil {
		fmt.Fprintf(stderr, "farmctl: %v\n", err)
		exitFunc(1)
	}
}

func usage() string {
	return `usage: farmctl [-v] <command>

commands:
  seed      populate empty tables with sample data
  summary   print pending work and production rollups
  sweep     remove expired farmboard items
  archive   write a snapshot archive to blob storage
`
}

func run(args []string) error {
	fs := flag.NewFlagSet("farmctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one command\n%s", usage())
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore(store)
	svc := core.NewService(store, core.WithLogger(core.NewSlogLogger(logger)))

	ctx := context.Background()
	switch cmd := fs.Arg(0); cmd {
	case "seed":
		return runSeed(ctx, svc)
	case "summary":
		return runSummary(ctx, svc)
	case "sweep":
		return runSweep(ctx, svc)
	case "archive":
		return runArchive(ctx, svc)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage())
	}
}

func closeStore(store core.PersistentStore) {
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
}

func runSeed(ctx context.Context, svc *core.Service) error {
	seeded, err := svc.SeedSampleData(ctx)
	if err != nil {
		return err
	}
	if seeded {
		fmt.Fprintln(stdout, "sample data seeded")
	} else {
		fmt.Fprintln(stdout, "tables already populated; nothing seeded")
	}
	return nil
}

func runSummary(ctx context.Context, svc *core.Service) error {
	// Expired farmboard entries are cleaned up on read.
	if _, _, err := svc.SweepExpiredFarmboard(ctx); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "pending tasks: %d\n", len(svc.PendingTasks()))
	fmt.Fprintf(stdout, "upcoming events: %d\n", len(svc.UpcomingEvents()))
	fmt.Fprintf(stdout, "weekly harvest: %.1f (eggs %d, milk %.1f L)\n", svc.WeeklyHarvest(), svc.WeeklyEggs(), svc.WeeklyMilk())

	low := svc.LowStockItems()
	if len(low) > 0 {
		fmt.Fprintln(stdout, "low stock:")
		for _, item := range low {
			fmt.Fprintf(stdout, "  %s: %.1f %s on hand, minimum %.1f\n", item.Name, item.Current, item.Unit, item.Minimum)
		}
	}

	for _, animal := range svc.Store().ListAnimals() {
		label := string(animal.Species)
		if animal.Name != nil {
			label = fmt.Sprintf("%s (%s)", *animal.Name, animal.Species)
		}
		weight, _ := svc.CurrentWeight(animal.ID)
		amount, product, _ := svc.TodayProduction(animal.ID)
		fmt.Fprintf(stdout, "%s %s: %d head, %.1f kg, %s today %.1f\n",
			animal.Species.Icon(), label, animal.Count, weight, product, amount)
	}
	return nil
}

func runSweep(ctx context.Context, svc *core.Service) error {
	removed, _, err := svc.SweepExpiredFarmboard(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "swept %d expired farmboard items\n", len(removed))
	return nil
}

func runArchive(ctx context.Context, svc *core.Service) error {
	target, err := core.OpenBlobStore(ctx)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	info, err := svc.ArchiveSnapshot(ctx, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "archived %s (%d bytes) via %s\n", info.Key, info.Size, target.Driver())
	return nil
}
