package bot

import (
	"context"
	"log/slog"
	"sort"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/payments_bot/internal/model"
	"github.com/ivanoskov/payments_bot/internal/repository"
	"github.com/ivanoskov/payments_bot/internal/service"
)

// fakeAPI записывает всё, что бот отправляет в Telegram
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

// sentTexts возвращает тексты отправленных и отредактированных сообщений
func (f *fakeAPI) sentTexts() []string {
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	texts := f.sentTexts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

// alertTexts возвращает тексты callback-ответов с show_alert
func (f *fakeAPI) alertTexts() []string {
	var out []string
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok && cb.ShowAlert {
			out = append(out, cb.Text)
		}
	}
	return out
}

// memStore — хранилище в памяти для тестов
type memStore struct {
	users       map[int64]int64 // telegram id -> внутренний id
	payments    map[int64]*model.Payment
	nextUser    int64
	nextPayment int64
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]int64),
		payments:    make(map[int64]*model.Payment),
		nextUser:    100,
		nextPayment: 1,
	}
}

func (s *memStore) ResolveOrCreateUser(ctx context.Context, telegramID int64) (int64, error) {
	if id, ok := s.users[telegramID]; ok {
		return id, nil
	}
	s.nextUser++
	s.users[telegramID] = s.nextUser
	return s.nextUser, nil
}

func (s *memStore) CreatePayment(ctx context.Context, payment *model.Payment) error {
	payment.ID = s.nextPayment
	payment.Active = true
	s.nextPayment++
	copied := *payment
	s.payments[payment.ID] = &copied
	return nil
}

func (s *memStore) GetPayment(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	p, ok := s.payments[paymentID]
	if !ok || p.UserID != userID || !p.Active {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *memStore) ListActivePayments(ctx context.Context, userID int64) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range s.payments {
		if p.UserID == userID && p.Active {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfMonth < out[j].DayOfMonth })
	return out, nil
}

func (s *memStore) UpdatePayment(ctx context.Context, userID, paymentID int64, title string, amount float64, dayOfMonth int) error {
	p, ok := s.payments[paymentID]
	if !ok || p.UserID != userID || !p.Active {
		return repository.ErrNotFound
	}
	p.Title = title
	p.Amount = amount
	p.DayOfMonth = dayOfMonth
	return nil
}

func (s *memStore) DeletePayment(ctx context.Context, userID, paymentID int64) error {
	p, ok := s.payments[paymentID]
	if !ok || p.UserID != userID || !p.Active {
		return repository.ErrNotFound
	}
	p.Active = false
	return nil
}

func (s *memStore) CleanupInactivePayments(ctx context.Context) (int64, error) {
	var deleted int64
	for id, p := range s.payments {
		if !p.Active {
			delete(s.payments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memStore) SumActiveAmounts(ctx context.Context, userID int64) (float64, error) {
	total := 0.0
	for _, p := range s.payments {
		if p.UserID == userID && p.Active {
			total += p.Amount
		}
	}
	return total, nil
}

func (s *memStore) SumActiveAmountsFromDay(ctx context.Context, userID int64, day int) (float64, error) {
	total := 0.0
	for _, p := range s.payments {
		if p.UserID == userID && p.Active && p.DayOfMonth >= day {
			total += p.Amount
		}
	}
	return total, nil
}

func (s *memStore) ListActivePaymentsDueOn(ctx context.Context, day int) ([]model.DuePayment, error) {
	var out []model.DuePayment
	for _, p := range s.payments {
		if !p.Active || p.DayOfMonth != day {
			continue
		}
		var tgID int64
		for tg, id := range s.users {
			if id == p.UserID {
				tgID = tg
				break
			}
		}
		out = append(out, model.DuePayment{Payment: *p, TelegramID: tgID})
	}
	return out, nil
}

func newTestBot(store repository.Store) (*Bot, *fakeAPI) {
	api := &fakeAPI{}
	b := &Bot{
		api:      api,
		service:  service.NewPaymentTracker(store),
		sessions: newSessions(),
		log:      slog.Default(),
	}
	return b, api
}

func textMessage(telegramID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: telegramID},
		Chat:      &tgbotapi.Chat{ID: telegramID},
		Text:      text,
	}
}

func buttonPress(telegramID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "test-callback",
		From:    &tgbotapi.User{ID: telegramID},
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: telegramID}},
		Data:    data,
	}
}
