package repository

import (
	"context"
	"errors"

	"github.com/ivanoskov/payments_bot/internal/model"
)

// ErrNotFound возвращается, когда платёж не существует или уже деактивирован
var ErrNotFound = errors.New("payment not found")

// Store определяет интерфейс хранилища пользователей и платежей
type Store interface {
	// Пользователи
	ResolveOrCreateUser(ctx context.Context, telegramID int64) (int64, error)

	// Платежи
	CreatePayment(ctx context.Context, payment *model.Payment) error
	GetPayment(ctx context.Context, userID, paymentID int64) (*model.Payment, error)
	ListActivePayments(ctx context.Context, userID int64) ([]model.Payment, error)
	UpdatePayment(ctx context.Context, userID, paymentID int64, title string, amount float64, dayOfMonth int) error
	DeletePayment(ctx context.Context, userID, paymentID int64) error
	CleanupInactivePayments(ctx context.Context) (int64, error)

	// Суммы и напоминания
	SumActiveAmounts(ctx context.Context, userID int64) (float64, error)
	SumActiveAmountsFromDay(ctx context.Context, userID int64, day int) (float64, error)
	ListActivePaymentsDueOn(ctx context.Context, day int) ([]model.DuePayment, error)
}
