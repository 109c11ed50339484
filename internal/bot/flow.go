package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/payments_bot/internal/repository"
)

var (
	errAmountNotNumber   = errors.New("amount is not a number")
	errAmountNotPositive = errors.New("amount is not positive")
	errDayNotNumber      = errors.New("day is not a number")
	errDayOutOfRange     = errors.New("day out of range")
)

// parseAmount разбирает сумму; запятая принимается как десятичный разделитель
func parseAmount(text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, errAmountNotNumber
	}
	if amount <= 0 {
		return 0, errAmountNotPositive
	}
	return amount, nil
}

// parseDay разбирает число месяца в диапазоне [1, 31]
func parseDay(text string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errDayNotNumber
	}
	if day < 1 || day > 31 {
		return 0, errDayOutOfRange
	}
	return day, nil
}

// handleFlowMessage продвигает активный диалог пользователя на один шаг.
// Невалидный ввод оставляет диалог на том же этапе; диалог завершается
// только успешной записью или пропажей редактируемого платежа.
func (b *Bot) handleFlowMessage(ctx context.Context, message *tgbotapi.Message, session *Session) error {
	switch session.Stage {
	case StageAddTitle:
		return b.flowAddTitle(message, session)
	case StageAddAmount:
		return b.flowAddAmount(message, session)
	case StageAddDay:
		return b.flowAddDay(ctx, message, session)
	case StageEditTitle:
		return b.flowEditTitle(ctx, message, session)
	case StageEditAmount:
		return b.flowEditAmount(ctx, message, session)
	case StageEditDay:
		return b.flowEditDay(ctx, message, session)
	}
	return nil
}

func (b *Bot) flowAddTitle(message *tgbotapi.Message, session *Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		b.reply(message.Chat.ID, "Название не может быть пустым. Введите ещё раз:")
		return nil
	}

	session.Title = title
	session.Stage = StageAddAmount
	b.reply(message.Chat.ID, "Введите сумму (например: 15000.50):")
	return nil
}

func (b *Bot) flowAddAmount(message *tgbotapi.Message, session *Session) error {
	amount, err := parseAmount(message.Text)
	if err != nil {
		b.reply(message.Chat.ID, amountErrorText(err))
		return nil
	}

	session.Amount = amount
	session.Stage = StageAddDay
	b.reply(message.Chat.ID, "Введите число месяца, когда нужно платить (1–31):")
	return nil
}

func (b *Bot) flowAddDay(ctx context.Context, message *tgbotapi.Message, session *Session) error {
	day, err := parseDay(message.Text)
	if err != nil {
		b.reply(message.Chat.ID, dayErrorText(err))
		return nil
	}

	payment, err := b.service.AddPayment(ctx, session.UserID, session.Title, session.Amount, day)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось сохранить платёж.")
		b.sessions.clear(session.UserID)
		return err
	}

	b.reply(message.Chat.ID, fmt.Sprintf(
		"Платёж добавлен:\n\n%s: %.2f ₽, каждый месяц %d-го числа",
		payment.Title, payment.Amount, payment.DayOfMonth,
	))
	b.sessions.clear(session.UserID)
	return nil
}

func (b *Bot) flowEditTitle(ctx context.Context, message *tgbotapi.Message, session *Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		b.reply(message.Chat.ID, "Название не может быть пустым. Введите ещё раз:")
		return nil
	}

	payment, err := b.service.UpdateTitle(ctx, session.UserID, session.PaymentID, title)
	if err != nil {
		return b.finishEditError(message.Chat.ID, session, err)
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Название платежа #%d обновлено на: %s", payment.ID, payment.Title))
	b.sessions.clear(session.UserID)
	return nil
}

func (b *Bot) flowEditAmount(ctx context.Context, message *tgbotapi.Message, session *Session) error {
	amount, err := parseAmount(message.Text)
	if err != nil {
		b.reply(message.Chat.ID, amountErrorText(err))
		return nil
	}

	payment, err := b.service.UpdateAmount(ctx, session.UserID, session.PaymentID, amount)
	if err != nil {
		return b.finishEditError(message.Chat.ID, session, err)
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Сумма платежа #%d обновлена на: %.2f ₽", payment.ID, payment.Amount))
	b.sessions.clear(session.UserID)
	return nil
}

func (b *Bot) flowEditDay(ctx context.Context, message *tgbotapi.Message, session *Session) error {
	day, err := parseDay(message.Text)
	if err != nil {
		b.reply(message.Chat.ID, dayErrorText(err))
		return nil
	}

	payment, err := b.service.UpdateDay(ctx, session.UserID, session.PaymentID, day)
	if err != nil {
		return b.finishEditError(message.Chat.ID, session, err)
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Дата платежа #%d обновлена на: %d-е число", payment.ID, payment.DayOfMonth))
	b.sessions.clear(session.UserID)
	return nil
}

// finishEditError завершает edit-диалог: платёж мог быть удалён
// параллельным нажатием кнопки между запросом и вводом значения
func (b *Bot) finishEditError(chatID int64, session *Session, err error) error {
	b.sessions.clear(session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		b.reply(chatID, "Платёж не найден или уже удалён.")
		return nil
	}
	b.sendErrorMessage(chatID, "Не удалось обновить платёж.")
	return err
}

func amountErrorText(err error) string {
	if errors.Is(err, errAmountNotPositive) {
		return "Сумма должна быть больше нуля. Введите ещё раз:"
	}
	return "Не получилось распознать сумму. Попробуйте ещё раз (пример: 15000.50)"
}

func dayErrorText(err error) string {
	if errors.Is(err, errDayOutOfRange) {
		return "Число месяца должно быть от 1 до 31. Попробуйте ещё раз:"
	}
	return "Нужно число от 1 до 31. Попробуйте ещё раз:"
}

func (b *Bot) reply(chatID int64, text string) {
	b.api.Send(tgbotapi.NewMessage(chatID, text))
}
