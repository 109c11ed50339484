package model

// User создаётся лениво при первом обращении и никогда не удаляется
type User struct {
	ID         int64 `json:"id,omitempty"`
	TelegramID int64 `json:"tg_id"`
}
