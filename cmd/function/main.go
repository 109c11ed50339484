package main

import (
	"context"
	"fmt"

	"github.com/ivanoskov/payments_bot/internal/bot"
	"github.com/ivanoskov/payments_bot/internal/config"
	"github.com/ivanoskov/payments_bot/internal/repository"
	"github.com/ivanoskov/payments_bot/internal/service"
)

// Request — структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response — структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler обрабатывает одно webhook-обновление. Напоминания в serverless-режиме
// запускаются отдельным триггером по расписанию, не отсюда.
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}

	store, err := newStore(cfg)
	if err != nil {
		return errorResponse(err)
	}

	tracker := service.NewPaymentTracker(store)

	b, err := bot.NewBot(cfg.TelegramToken, tracker)
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
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

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
