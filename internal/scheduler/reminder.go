// Package scheduler рассылает ежедневные напоминания о платежах,
// у которых число месяца совпадает с сегодняшним.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/ivanoskov/payments_bot/internal/model"
)

// Store — часть хранилища, нужная планировщику
type Store interface {
	ListActivePaymentsDueOn(ctx context.Context, day int) ([]model.DuePayment, error)
}

// Notifier доставляет уведомление получателю
type Notifier interface {
	Deliver(telegramID int64, text string) error
}

type Reminder struct {
	store    Store
	notifier Notifier
	loc      *time.Location
	cron     *cron.Cron
	log      *slog.Logger
	now      func() time.Time
}

func NewReminder(store Store, notifier Notifier, loc *time.Location) *Reminder {
	return &Reminder{
		store:    store,
		notifier: notifier,
		loc:      loc,
		log:      slog.Default(),
		now:      time.Now,
	}
}

// Start планирует ежедневную рассылку в указанное время настроенного пояса
func (r *Reminder) Start(hour, minute int) error {
	r.cron = cron.New(cron.WithLocation(r.loc))

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := r.cron.AddFunc(spec, func() {
		r.Fire(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	r.cron.Start()
	r.log.Info("reminder scheduler started", "hour", hour, "minute", minute, "timezone", r.loc.String())
	return nil
}

func (r *Reminder) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Fire выполняет одну рассылку: по уведомлению на каждый платёж,
// наступающий сегодня. Неудачная доставка одному получателю
// логируется и не мешает остальным.
func (r *Reminder) Fire(ctx context.Context) {
	runID := uuid.New().String()
	day := r.now().In(r.loc).Day()

	due, err := r.store.ListActivePaymentsDueOn(ctx, day)
	if err != nil {
		r.log.Error("failed to list due payments", "run_id", runID, "day", day, "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	delivered := 0
	for _, d := range due {
		text := fmt.Sprintf("Напоминание о платеже:\n\n%s — %.2f ₽ сегодня.", d.Title, d.Amount)
		if err := r.notifier.Deliver(d.TelegramID, text); err != nil {
			r.log.Error("failed to deliver reminder",
				"run_id", runID, "tg_id", d.TelegramID, "payment_id", d.ID, "error", err)
			continue
		}
		delivered++
	}

	r.log.Info("reminders delivered", "run_id", runID, "day", day, "matched", len(due), "delivered", delivered)
}
