package service

import (
	"context"

	"github.com/ivanoskov/payments_bot/internal/model"
	"github.com/ivanoskov/payments_bot/internal/repository"
)

// PaymentTracker предоставляет методы для работы с регулярными платежами
type PaymentTracker struct {
	store repository.Store
}

// NewPaymentTracker создает новый экземпляр PaymentTracker
func NewPaymentTracker(store repository.Store) *PaymentTracker {
	return &PaymentTracker{
		store: store,
	}
}

// ResolveUser возвращает внутренний ID пользователя, создавая запись при первом обращении
func (s *PaymentTracker) ResolveUser(ctx context.Context, telegramID int64) (int64, error) {
	return s.store.ResolveOrCreateUser(ctx, telegramID)
}

func (s *PaymentTracker) AddPayment(ctx context.Context, userID int64, title string, amount float64, dayOfMonth int) (*model.Payment, error) {
	payment := &model.Payment{
		UserID:     userID,
		Title:      title,
		Amount:     amount,
		DayOfMonth: dayOfMonth,
		Active:     true,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentTracker) GetPayment(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	return s.store.GetPayment(ctx, userID, paymentID)
}

func (s *PaymentTracker) ListPayments(ctx context.Context, userID int64) ([]model.Payment, error) {
	return s.store.ListActivePayments(ctx, userID)
}

// UpdateTitle перечитывает платёж и переписывает только название,
// сохраняя сумму и дату без изменений. Платёж мог быть удалён
// параллельным действием, тогда возвращается repository.ErrNotFound.
func (s *PaymentTracker) UpdateTitle(ctx context.Context, userID, paymentID int64, title string) (*model.Payment, error) {
	payment, err := s.store.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}
	payment.Title = title
	if err := s.store.UpdatePayment(ctx, userID, paymentID, payment.Title, payment.Amount, payment.DayOfMonth); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdateAmount переписывает только сумму платежа
func (s *PaymentTracker) UpdateAmount(ctx context.Context, userID, paymentID int64, amount float64) (*model.Payment, error) {
	payment, err := s.store.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}
	payment.Amount = amount
	if err := s.store.UpdatePayment(ctx, userID, paymentID, payment.Title, payment.Amount, payment.DayOfMonth); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdateDay переписывает только число месяца
func (s *PaymentTracker) UpdateDay(ctx context.Context, userID, paymentID int64, dayOfMonth int) (*model.Payment, error) {
	payment, err := s.store.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return nil, err
	}
	payment.DayOfMonth = dayOfMonth
	if err := s.store.UpdatePayment(ctx, userID, paymentID, payment.Title, payment.Amount, payment.DayOfMonth); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentTracker) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	return s.store.DeletePayment(ctx, userID, paymentID)
}

func (s *PaymentTracker) CleanupInactivePayments(ctx context.Context) (int64, error) {
	return s.store.CleanupInactivePayments(ctx)
}

// MonthlyTotal возвращает сумму всех активных платежей пользователя за месяц
func (s *PaymentTracker) MonthlyTotal(ctx context.Context, userID int64) (float64, error) {
	return s.store.SumActiveAmounts(ctx, userID)
}

// RemainingTotal возвращает сумму платежей с числом месяца не раньше указанного
func (s *PaymentTracker) RemainingTotal(ctx context.Context, userID int64, day int) (float64, error) {
	return s.store.SumActiveAmountsFromDay(ctx, userID, day)
}
