package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/payments_bot/internal/model"
	"github.com/ivanoskov/payments_bot/internal/repository"
)

// stubStore реализует только то, что нужно тестам PaymentTracker
type stubStore struct {
	repository.Store
	payment *model.Payment // nil означает «не найден»
	updated *model.Payment
}

func (s *stubStore) GetPayment(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	if s.payment == nil {
		return nil, repository.ErrNotFound
	}
	copied := *s.payment
	return &copied, nil
}

func (s *stubStore) UpdatePayment(ctx context.Context, userID, paymentID int64, title string, amount float64, dayOfMonth int) error {
	if s.payment == nil {
		return repository.ErrNotFound
	}
	s.updated = &model.Payment{ID: paymentID, UserID: userID, Title: title, Amount: amount, DayOfMonth: dayOfMonth, Active: true}
	return nil
}

func TestUpdateSingleFieldPreservesOthers(t *testing.T) {
	base := &model.Payment{ID: 7, UserID: 1, Title: "Аренда", Amount: 20000, DayOfMonth: 1, Active: true}
	ctx := context.Background()

	t.Run("title", func(t *testing.T) {
		store := &stubStore{payment: base}
		tracker := NewPaymentTracker(store)

		updated, err := tracker.UpdateTitle(ctx, 1, 7, "Квартира")
		require.NoError(t, err)
		assert.Equal(t, "Квартира", updated.Title)
		assert.Equal(t, 20000.0, store.updated.Amount)
		assert.Equal(t, 1, store.updated.DayOfMonth)
	})

	t.Run("amount", func(t *testing.T) {
		store := &stubStore{payment: base}
		tracker := NewPaymentTracker(store)

		updated, err := tracker.UpdateAmount(ctx, 1, 7, 1.50)
		require.NoError(t, err)
		assert.Equal(t, 1.50, updated.Amount)
		assert.Equal(t, "Аренда", store.updated.Title)
		assert.Equal(t, 1, store.updated.DayOfMonth)
	})

	t.Run("day", func(t *testing.T) {
		store := &stubStore{payment: base}
		tracker := NewPaymentTracker(store)

		updated, err := tracker.UpdateDay(ctx, 1, 7, 28)
		require.NoError(t, err)
		assert.Equal(t, 28, updated.DayOfMonth)
		assert.Equal(t, "Аренда", store.updated.Title)
		assert.Equal(t, 20000.0, store.updated.Amount)
	})
}

func TestUpdateMissingPayment(t *testing.T) {
	store := &stubStore{}
	tracker := NewPaymentTracker(store)

	_, err := tracker.UpdateAmount(context.Background(), 1, 7, 1.50)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, store.updated, "no write may happen after a failed lookup")
}
