package model

// Payment — регулярный ежемесячный платёж пользователя
type Payment struct {
	ID         int64   `json:"id,omitempty"`
	UserID     int64   `json:"user_id"`
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	DayOfMonth int     `json:"day_of_month"`
	Active     bool    `json:"active"`
}

// DuePayment — платёж вместе с Telegram ID владельца,
// используется планировщиком напоминаний
type DuePayment struct {
	Payment
	TelegramID int64 `json:"tg_id"`
}
