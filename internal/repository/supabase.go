package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/payments_bot/internal/model"
)

var _ Store = (*SupabaseRepository)(nil)

// SupabaseRepository реализует Store поверх Supabase (PostgREST)
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

func (r *SupabaseRepository) ResolveOrCreateUser(ctx context.Context, telegramID int64) (int64, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Eq("tg_id", strconv.FormatInt(telegramID, 10)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("failed to parse users: %w", err)
	}
	if len(users) > 0 {
		return users[0].ID, nil
	}

	data, _, err = r.client.From("users").
		Insert(model.User{TelegramID: telegramID}, false, "", "representation", "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("failed to parse created user: %w", err)
	}
	if len(users) == 0 {
		return 0, fmt.Errorf("empty response on user insert")
	}
	return users[0].ID, nil
}

func (r *SupabaseRepository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	payment.Active = true
	data, _, err := r.client.From("payments").
		Insert(payment, false, "", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	var created []model.Payment
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created payment: %w", err)
	}
	if len(created) > 0 {
		payment.ID = created[0].ID
	}
	return nil
}

func (r *SupabaseRepository) GetPayment(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	data, _, err := r.client.From("payments").
		Select("*", "", false).
		Eq("id", strconv.FormatInt(paymentID, 10)).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Eq("active", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	var payments []model.Payment
	if err := json.Unmarshal(data, &payments); err != nil {
		return nil, fmt.Errorf("failed to parse payment: %w", err)
	}
	if len(payments) == 0 {
		return nil, ErrNotFound
	}
	return &payments[0], nil
}

func (r *SupabaseRepository) ListActivePayments(ctx context.Context, userID int64) ([]model.Payment, error) {
	data, _, err := r.client.From("payments").
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Eq("active", "true").
		Order("day_of_month.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	var payments []model.Payment
	if err := json.Unmarshal(data, &payments); err != nil {
		return nil, fmt.Errorf("failed to parse payments: %w", err)
	}
	return payments, nil
}

func (r *SupabaseRepository) UpdatePayment(ctx context.Context, userID, paymentID int64, title string, amount float64, dayOfMonth int) error {
	update := map[string]interface{}{
		"title":        title,
		"amount":       amount,
		"day_of_month": dayOfMonth,
	}
	data, _, err := r.client.From("payments").
		Update(update, "representation", "").
		Eq("id", strconv.FormatInt(paymentID, 10)).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Eq("active", "true").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	var updated []model.Payment
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("failed to parse updated payment: %w", err)
	}
	if len(updated) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupabaseRepository) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	update := map[string]interface{}{
		"active": false,
	}
	data, _, err := r.client.From("payments").
		Update(update, "representation", "").
		Eq("id", strconv.FormatInt(paymentID, 10)).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Eq("active", "true").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	var updated []model.Payment
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("failed to parse deleted payment: %w", err)
	}
	if len(updated) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupabaseRepository) CleanupInactivePayments(ctx context.Context) (int64, error) {
	data, _, err := r.client.From("payments").
		Delete("representation", "").
		Eq("active", "false").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup payments: %w", err)
	}

	var deleted []model.Payment
	if err := json.Unmarshal(data, &deleted); err != nil {
		return 0, fmt.Errorf("failed to parse cleanup response: %w", err)
	}
	return int64(len(deleted)), nil
}

// Сумма считается на клиенте, как и остальная агрегация в этом репозитории:
// PostgREST не отдаёт SUM без отдельной хранимой функции
func (r *SupabaseRepository) SumActiveAmounts(ctx context.Context, userID int64) (float64, error) {
	payments, err := r.ListActivePayments(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, p := range payments {
		total += p.Amount
	}
	return total, nil
}

func (r *SupabaseRepository) SumActiveAmountsFromDay(ctx context.Context, userID int64, day int) (float64, error) {
	payments, err := r.ListActivePayments(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, p := range payments {
		if p.DayOfMonth >= day {
			total += p.Amount
		}
	}
	return total, nil
}

func (r *SupabaseRepository) ListActivePaymentsDueOn(ctx context.Context, day int) ([]model.DuePayment, error) {
	data, _, err := r.client.From("payments").
		Select("*", "", false).
		Eq("day_of_month", strconv.Itoa(day)).
		Eq("active", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list due payments: %w", err)
	}

	var payments []model.Payment
	if err := json.Unmarshal(data, &payments); err != nil {
		return nil, fmt.Errorf("failed to parse due payments: %w", err)
	}
	if len(payments) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, strconv.FormatInt(p.UserID, 10))
	}

	data, _, err = r.client.From("users").
		Select("*", "", false).
		In("id", ids).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list due users: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse due users: %w", err)
	}

	telegramIDs := make(map[int64]int64, len(users))
	for _, u := range users {
		telegramIDs[u.ID] = u.TelegramID
	}

	due := make([]model.DuePayment, 0, len(payments))
	for _, p := range payments {
		due = append(due, model.DuePayment{
			Payment:    p,
			TelegramID: telegramIDs[p.UserID],
		})
	}
	return due, nil
}
