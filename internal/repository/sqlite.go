package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // чистый Go-драйвер, без CGO

	"github.com/ivanoskov/payments_bot/internal/model"
)

var _ Store = (*SQLiteRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tg_id INTEGER UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    amount REAL NOT NULL,
    day_of_month INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id);
CREATE INDEX IF NOT EXISTS idx_payments_day ON payments(day_of_month);
`

// SQLiteRepository реализует Store поверх локальной базы SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository открывает базу по указанному пути,
// создавая каталог и схему при необходимости
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close закрывает соединение с базой
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) ResolveOrCreateUser(ctx context.Context, telegramID int64) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM users WHERE tg_id = ?", telegramID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	res, err := r.db.ExecContext(ctx, "INSERT INTO users (tg_id) VALUES (?)", telegramID)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get created user id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payments (user_id, title, amount, day_of_month, active) VALUES (?, ?, ?, ?, 1)",
		payment.UserID, payment.Title, payment.Amount, payment.DayOfMonth,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get created payment id: %w", err)
	}
	payment.ID = id
	payment.Active = true
	return nil
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	var p model.Payment
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, amount, day_of_month, active FROM payments WHERE id = ? AND user_id = ? AND active = 1",
		paymentID, userID,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.Amount, &p.DayOfMonth, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) ListActivePayments(ctx context.Context, userID int64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, title, amount, day_of_month, active FROM payments WHERE user_id = ? AND active = 1 ORDER BY day_of_month",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Amount, &p.DayOfMonth, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, userID, paymentID int64, title string, amount float64, dayOfMonth int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE payments SET title = ?, amount = ?, day_of_month = ? WHERE id = ? AND user_id = ? AND active = 1",
		title, amount, dayOfMonth, paymentID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE payments SET active = 0 WHERE id = ? AND user_id = ? AND active = 1",
		paymentID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CleanupInactivePayments(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE active = 0")
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup payments: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return deleted, nil
}

func (r *SQLiteRepository) SumActiveAmounts(ctx context.Context, userID int64) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(amount) FROM payments WHERE user_id = ? AND active = 1",
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total.Float64, nil
}

func (r *SQLiteRepository) SumActiveAmountsFromDay(ctx context.Context, userID int64, day int) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(amount) FROM payments WHERE user_id = ? AND active = 1 AND day_of_month >= ?",
		userID, day,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum remaining payments: %w", err)
	}
	return total.Float64, nil
}

func (r *SQLiteRepository) ListActivePaymentsDueOn(ctx context.Context, day int) ([]model.DuePayment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.title, p.amount, p.day_of_month, p.active, u.tg_id
		 FROM payments p
		 JOIN users u ON p.user_id = u.id
		 WHERE p.active = 1 AND p.day_of_month = ?`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list due payments: %w", err)
	}
	defer rows.Close()

	var due []model.DuePayment
	for rows.Next() {
		var d model.DuePayment
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Amount, &d.DayOfMonth, &d.Active, &d.TelegramID); err != nil {
			return nil, fmt.Errorf("failed to scan due payment: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}
