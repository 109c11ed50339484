package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/payments_bot/internal/callback"
	"github.com/ivanoskov/payments_bot/internal/repository"
)

// handleCallback разбирает токен нажатой кнопки и выполняет действие.
// Любая ссылка на исчезнувший платёж превращается в алерт «не найден»,
// до изменения данных дело в этом случае не доходит.
func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) error {
	action, paymentID, err := callback.Decode(cb.Data)
	if err != nil {
		b.answerAlert(cb, "Некорректные данные.")
		return nil
	}

	ctx := context.Background()
	userID, err := b.service.ResolveUser(ctx, cb.From.ID)
	if err != nil {
		b.answerAlert(cb, "Не удалось обработать запрос.")
		return err
	}

	switch action {
	case callback.ActionOpenList:
		return b.cbOpenList(ctx, cb, userID)
	case callback.ActionDelete:
		return b.cbDeleteRequest(ctx, cb, userID, paymentID)
	case callback.ActionDeleteConfirm:
		return b.cbDeleteConfirm(ctx, cb, userID, paymentID)
	case callback.ActionDeleteCancel:
		return b.cbDeleteCancel(ctx, cb, userID, paymentID)
	case callback.ActionEditTitle:
		return b.cbEditField(ctx, cb, userID, paymentID, StageEditTitle)
	case callback.ActionEditAmount:
		return b.cbEditField(ctx, cb, userID, paymentID, StageEditAmount)
	case callback.ActionEditDay:
		return b.cbEditField(ctx, cb, userID, paymentID, StageEditDay)
	}

	b.answer(cb, "")
	return nil
}

// cbOpenList отправляет платежи по одному сообщению,
// каждое с собственными кнопками редактирования и удаления
func (b *Bot) cbOpenList(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64) error {
	chatID := cb.Message.Chat.ID

	payments, err := b.service.ListPayments(ctx, userID)
	if err != nil {
		b.answerAlert(cb, "Не удалось получить список платежей.")
		return err
	}

	if len(payments) == 0 {
		b.reply(chatID, "У вас пока нет регулярных платежей. Используйте /add, чтобы добавить.")
		b.answer(cb, "")
		return nil
	}

	b.reply(chatID, "Ваши регулярные платежи для редактирования:")
	for _, p := range payments {
		msg := tgbotapi.NewMessage(chatID, paymentText(&p))
		msg.ReplyMarkup = paymentKeyboard(p.ID)
		b.api.Send(msg)
	}

	b.answer(cb, "")
	return nil
}

// cbDeleteRequest — первый шаг удаления: спрашиваем подтверждение.
// Повторное нажатие заново рисует тот же вопрос, данные не меняются.
func (b *Bot) cbDeleteRequest(ctx context.Context, cb *tgbotapi.CallbackQuery, userID, paymentID int64) error {
	payment, err := b.service.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return b.callbackNotFound(cb, err, "Платёж не найден или уже удалён.")
	}

	text := fmt.Sprintf(
		"Удалить платёж #%d?\n%s",
		payment.ID, paymentText(payment),
	)
	kb := confirmDeleteKeyboard(payment.ID)
	b.editOrSend(cb, text, &kb)
	b.answer(cb, "")
	return nil
}

// cbDeleteConfirm удаляет платёж; между вопросом и подтверждением
// он мог исчезнуть, тогда остаётся только снять кнопки
func (b *Bot) cbDeleteConfirm(ctx context.Context, cb *tgbotapi.CallbackQuery, userID, paymentID int64) error {
	err := b.service.DeletePayment(ctx, userID, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.answerAlert(cb, "Платёж не найден или уже удалён.")
			b.stripKeyboard(cb)
			return nil
		}
		b.answerAlert(cb, "Не удалось удалить платёж.")
		return err
	}

	b.answer(cb, "Платёж удалён.")
	b.editOrSend(cb, fmt.Sprintf("Платёж #%d удалён.", paymentID), nil)
	return nil
}

// cbDeleteCancel возвращает сообщению исходный вид платежа с кнопками
func (b *Bot) cbDeleteCancel(ctx context.Context, cb *tgbotapi.CallbackQuery, userID, paymentID int64) error {
	payment, err := b.service.GetPayment(ctx, userID, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.stripKeyboard(cb)
			b.answerAlert(cb, "Платёж не найден.")
			return nil
		}
		b.answerAlert(cb, "Не удалось обработать запрос.")
		return err
	}

	kb := paymentKeyboard(payment.ID)
	b.editOrSend(cb, paymentText(payment), &kb)
	b.answer(cb, "Удаление отменено.")
	return nil
}

// cbEditField начинает edit-диалог по одному полю платежа
func (b *Bot) cbEditField(ctx context.Context, cb *tgbotapi.CallbackQuery, userID, paymentID int64, stage Stage) error {
	payment, err := b.service.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return b.callbackNotFound(cb, err, "Платёж не найден.")
	}

	b.sessions.start(&Session{
		UserID:    userID,
		Stage:     stage,
		PaymentID: payment.ID,
	})

	var prompt string
	switch stage {
	case StageEditTitle:
		prompt = fmt.Sprintf("Текущее название: %s\nВведите новое название:", payment.Title)
	case StageEditAmount:
		prompt = fmt.Sprintf("Текущая сумма: %.2f ₽\nВведите новую сумму (например: 1500.50):", payment.Amount)
	case StageEditDay:
		prompt = fmt.Sprintf("Текущая дата: %d-го числа.\nВведите новое число месяца (1–31):", payment.DayOfMonth)
	}

	b.reply(cb.Message.Chat.ID, prompt)
	b.answer(cb, "")
	return nil
}

func (b *Bot) callbackNotFound(cb *tgbotapi.CallbackQuery, err error, text string) error {
	if errors.Is(err, repository.ErrNotFound) {
		b.answerAlert(cb, text)
		return nil
	}
	b.answerAlert(cb, "Не удалось обработать запрос.")
	return err
}

// editOrSend редактирует исходное сообщение; если редактирование
// не удалось, отправляет новое. kb == nil снимает кнопки.
func (b *Bot) editOrSend(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	chatID := cb.Message.Chat.ID

	var edit tgbotapi.EditMessageTextConfig
	if kb != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, text, *kb)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, text)
	}

	if _, err := b.api.Send(edit); err != nil {
		msg := tgbotapi.NewMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		b.api.Send(msg)
	}
}

// stripKeyboard убирает кнопки с сообщения, не трогая текст
func (b *Bot) stripKeyboard(cb *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, emptyInlineKeyboard())
	b.api.Send(edit)
}

func (b *Bot) answer(cb *tgbotapi.CallbackQuery, text string) {
	b.api.Request(tgbotapi.NewCallback(cb.ID, text))
}

func (b *Bot) answerAlert(cb *tgbotapi.CallbackQuery, text string) {
	b.api.Request(tgbotapi.NewCallbackWithAlert(cb.ID, text))
}
