package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/interview_scheduler/internal/app"
	"github.com/Freeeeeet/interview_scheduler/internal/config"
	"github.com/Freeeeeet/interview_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/interview_scheduler/internal/service"
	"go.uber.org/zap"
)

// Заполняет хранилище слотами по YAML-плану.
// Уже существующие слоты пропускаются, так что запуск можно повторять
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	if err != nil {
		log.Printf("seed_slots: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("seed_slots", flag.ContinueOnError)
	planPath := flags.String("plan", "slots.yaml", "path to the YAML slot plan")
	dryRun := flags.Bool("dry-run", false, "print planned slots without writing them")
	if err := flags.Parse(args); err != nil {
		return err
	}

	data, err := os.ReadFile(*planPath)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}

	plan, err := service.ParseSeedPlan(data, time.Now())
	if err != nil {
		return fmt.Errorf("parse plan: %w", err)
	}

	if *dryRun {
		slots := plan.Slots()
		for _, slot := range slots {
			fmt.Fprintf(out, "%s  %s\n", slot.ID, formatting.FormatSlotID(slot.ID))
		}
		fmt.Fprintf(out, "%s planned\n", formatting.PluralizeSlots(len(slots)))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStore()

	created, err := service.NewSlotService(store, logger).Seed(ctx, plan)
	if err != nil {
		logger.Error("Failed to seed slots", zap.Error(err))
		return fmt.Errorf("seed slots: %w", err)
	}

	fmt.Fprintf(out, "%s created\n", formatting.PluralizeSlots(created))
	return nil
}
