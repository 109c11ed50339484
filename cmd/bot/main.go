package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ivanoskov/payments_bot/internal/bot"
	"github.com/ivanoskov/payments_bot/internal/config"
	"github.com/ivanoskov/payments_bot/internal/repository"
	"github.com/ivanoskov/payments_bot/internal/scheduler"
	"github.com/ivanoskov/payments_bot/internal/service"
	"github.com/ivanoskov/payments_bot/pkg/logging"
)

func main() {
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	tracker := service.NewPaymentTracker(store)

	b, err := bot.NewBot(cfg.TelegramToken, tracker)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	reminder := scheduler.NewReminder(store, b, loc)
	if err := reminder.Start(cfg.Reminder.Hour, cfg.Reminder.Minute); err != nil {
		return err
	}
	defer reminder.Stop()

	return b.Start()
}

func newStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return repository.NewSQLiteRepository(cfg.Storage.SQLitePath)
	case "supabase":
		return repository.NewSupabaseRepository(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
