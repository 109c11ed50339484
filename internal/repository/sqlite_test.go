package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/payments_bot/internal/model"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "payments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createPayment(t *testing.T, repo *SQLiteRepository, userID int64, title string, amount float64, day int) *model.Payment {
	t.Helper()

	p := &model.Payment{UserID: userID, Title: title, Amount: amount, DayOfMonth: day}
	require.NoError(t, repo.CreatePayment(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestResolveOrCreateUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.ResolveOrCreateUser(ctx, 12345)
	require.NoError(t, err)

	// Повторное обращение возвращает тот же внутренний ID
	again, err := repo.ResolveOrCreateUser(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := repo.ResolveOrCreateUser(ctx, 67890)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestPaymentLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	userID, err := repo.ResolveOrCreateUser(ctx, 12345)
	require.NoError(t, err)

	created := createPayment(t, repo, userID, "Интернет", 800, 15)

	got, err := repo.GetPayment(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Интернет", got.Title)
	assert.Equal(t, 800.0, got.Amount)
	assert.Equal(t, 15, got.DayOfMonth)
	assert.True(t, got.Active)

	require.NoError(t, repo.UpdatePayment(ctx, userID, created.ID, "Интернет", 900, 20))
	got, err = repo.GetPayment(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 900.0, got.Amount)
	assert.Equal(t, 20, got.DayOfMonth)

	require.NoError(t, repo.DeletePayment(ctx, userID, created.ID))
	_, err = repo.GetPayment(ctx, userID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotFoundCases(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	userID, err := repo.ResolveOrCreateUser(ctx, 12345)
	require.NoError(t, err)
	otherID, err := repo.ResolveOrCreateUser(ctx, 67890)
	require.NoError(t, err)

	created := createPayment(t, repo, userID, "Интернет", 800, 15)

	// Чужой платёж недоступен
	_, err = repo.GetPayment(ctx, otherID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePayment(ctx, otherID, created.ID, "x", 1, 1), ErrNotFound)
	assert.ErrorIs(t, repo.DeletePayment(ctx, otherID, created.ID), ErrNotFound)

	// Повторное удаление — ErrNotFound
	require.NoError(t, repo.DeletePayment(ctx, userID, created.ID))
	assert.ErrorIs(t, repo.DeletePayment(ctx, userID, created.ID), ErrNotFound)
}

func TestListActivePaymentsOrderedByDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	userID, err := repo.ResolveOrCreateUser(ctx, 12345)
	require.NoError(t, err)

	createPayment(t, repo, userID, "Интернет", 800, 15)
	createPayment(t, repo, userID, "Аренда", 20000, 1)
	deleted := createPayment(t, repo, userID, "Телефон", 500, 7)
	require.NoError(t, repo.DeletePayment(ctx, userID, deleted.ID))

	payments, err := repo.ListActivePayments(ctx, userID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "Аренда", payments[0].Title)
	assert.Equal(t, "Интернет", payments[1].Title)
}

func TestSums(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	userID, err := repo.ResolveOrCreateUser(ctx, 12345)
	require.NoError(t, err)

	// Пустое хранилище — ноль, а не ошибка
	total, err := repo.SumActiveAmounts(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, total)

	createPayment(t, repo, userID, "Аренда", 20000, 1)
	createPayment(t, repo, userID, "Интернет", 800, 15)
	createPayment(t, repo, userID, "Телефон", 500, 25)

	total, err = repo.SumActiveAmounts(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 21300.0, total)

	remaining, err := repo.SumActiveAmountsFromDay(ctx, userID, 15)
	require.NoError(t, err)
	assert.Equal(t, 1300.0, remaining)
}

func TestListActivePaymentsDueOn(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	firstUser, err := repo.ResolveOrCreateUser(ctx, 111)
	require.NoError(t, err)
	secondUser, err := repo.ResolveOrCreateUser(ctx, 222)
	require.NoError(t, err)
	thirdUser, err := repo.ResolveOrCreateUser(ctx, 333)
	require.NoError(t, err)

	createPayment(t, repo, firstUser, "Интернет", 800, 15)
	createPayment(t, repo, secondUser, "Аренда", 20000, 15)
	createPayment(t, repo, thirdUser, "Телефон", 500, 20)

	due, err := repo.ListActivePaymentsDueOn(ctx, 15)
	require.NoError(t, err)
	require.Len(t, due, 2)

	telegramIDs := []int64{due[0].TelegramID, due[1].TelegramID}
	assert.ElementsMatch(t, []int64{111, 222}, telegramIDs)

	due, err = repo.ListActivePaymentsDueOn(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestCleanupInactivePayments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	userID, err := repo.ResolveOrCreateUser(ctx, 12345)
	require.NoError(t, err)

	kept := createPayment(t, repo, userID, "Аренда", 20000, 1)
	dropped := createPayment(t, repo, userID, "Интернет", 800, 15)
	require.NoError(t, repo.DeletePayment(ctx, userID, dropped.ID))

	deleted, err := repo.CleanupInactivePayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetPayment(ctx, userID, kept.ID)
	assert.NoError(t, err)

	deleted, err = repo.CleanupInactivePayments(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
