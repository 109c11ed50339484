package bot

import (
	"context"
	"encoding/json"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/payments_bot/internal/service"
)

// telegramAPI — часть Bot API, которой пользуется бот.
// *tgbotapi.BotAPI реализует интерфейс целиком.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type Bot struct {
	api      telegramAPI
	service  *service.PaymentTracker
	sessions *sessions
	log      *slog.Logger
}

func NewBot(token string, service *service.PaymentTracker) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		service:  service,
		sessions: newSessions(),
		log:      slog.Default(),
	}, nil
}

// Start запускает бота в режиме long polling
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if err := b.handleUpdate(update); err != nil {
			// Логируем ошибку, но продолжаем работу
			b.log.Error("failed to handle update", "error", err)
		}
	}

	return nil
}

// HandleWebhook — точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	return b.handleUpdate(update)
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return b.handleCallback(update.CallbackQuery)
	}

	if update.Message == nil {
		return nil
	}

	if update.Message.IsCommand() {
		return b.handleCommand(update.Message)
	}

	return b.handleMessage(update.Message)
}

// handleMessage обрабатывает свободный текст: сначала активный диалог,
// затем кнопки главного меню
func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	ctx := context.Background()

	userID, err := b.service.ResolveUser(ctx, message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать сообщение, попробуйте позже.")
		return err
	}

	if session, ok := b.sessions.get(userID); ok {
		return b.handleFlowMessage(ctx, message, session)
	}

	switch message.Text {
	case btnAdd:
		return b.handleAdd(message)
	case btnList:
		return b.handleList(message)
	case btnMonth:
		return b.handleMonth(message)
	case btnRest:
		return b.handleRest(message)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Выберите действие:")
	msg.ReplyMarkup = mainKeyboard()
	b.api.Send(msg)
	return nil
}

// Deliver отправляет пользователю текстовое уведомление.
// Используется планировщиком напоминаний.
func (b *Bot) Deliver(telegramID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(telegramID, text))
	return err
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.api.Send(msg)
}
