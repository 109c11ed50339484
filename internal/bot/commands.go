package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/payments_bot/internal/charts"
	"github.com/ivanoskov/payments_bot/internal/repository"
)

func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(message)
	case "add":
		return b.handleAdd(message)
	case "list":
		return b.handleList(message)
	case "month":
		return b.handleMonth(message)
	case "rest":
		return b.handleRest(message)
	case "del":
		return b.handleDel(message)
	case "edit":
		return b.handleEdit(message)
	case "chart":
		return b.handleChart(message)
	case "cleanup":
		return b.handleCleanup(message)
	}
	return nil
}

func (b *Bot) handleStart(message *tgbotapi.Message) error {
	if _, err := b.service.ResolveUser(context.Background(), message.From.ID); err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Привет! Я бот для управления регулярными платежами.\n\n"+
			"Можешь пользоваться кнопками внизу или командами:\n"+
			"/add — добавить платеж\n"+
			"/list — список платежей\n"+
			"/month — общая сумма в месяц\n"+
			"/rest — сумма оставшихся платежей в этом месяце\n"+
			"/chart — график платежей по дням\n")
	msg.ReplyMarkup = mainKeyboard()
	b.api.Send(msg)
	return nil
}

// handleAdd начинает диалог добавления платежа.
// Уже идущий диалог при этом перезаписывается.
func (b *Bot) handleAdd(message *tgbotapi.Message) error {
	userID, err := b.service.ResolveUser(context.Background(), message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	b.sessions.start(&Session{
		UserID: userID,
		Stage:  StageAddTitle,
	})
	b.reply(message.Chat.ID, "Введите название платежа (например: Аренда, Интернет):")
	return nil
}

func (b *Bot) handleList(message *tgbotapi.Message) error {
	ctx := context.Background()

	userID, err := b.service.ResolveUser(ctx, message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	payments, err := b.service.ListPayments(ctx, userID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось получить список платежей.")
		return err
	}

	if len(payments) == 0 {
		b.reply(message.Chat.ID, "У вас пока нет регулярных платежей. Используйте /add, чтобы добавить.")
		return nil
	}

	lines := make([]string, 0, len(payments))
	for _, p := range payments {
		lines = append(lines, paymentText(&p))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Ваши регулярные платежи:\n\n"+strings.Join(lines, "\n"))
	msg.ReplyMarkup = listKeyboard()
	b.api.Send(msg)
	return nil
}

func (b *Bot) handleMonth(message *tgbotapi.Message) error {
	ctx := context.Background()

	userID, err := b.service.ResolveUser(ctx, message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	total, err := b.service.MonthlyTotal(ctx, userID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось посчитать сумму.")
		return err
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Общая сумма ваших регулярных платежей в месяц: %.2f ₽", total))
	return nil
}

func (b *Bot) handleRest(message *tgbotapi.Message) error {
	ctx := context.Background()

	userID, err := b.service.ResolveUser(ctx, message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	remaining, err := b.service.RemainingTotal(ctx, userID, time.Now().Day())
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось посчитать сумму.")
		return err
	}

	b.reply(message.Chat.ID, fmt.Sprintf(
		"Сумма оставшихся платежей до конца месяца (включая сегодня): %.2f ₽", remaining))
	return nil
}

// handleDel удаляет платёж по ID без подтверждения: /del 3
func (b *Bot) handleDel(message *tgbotapi.Message) error {
	ctx := context.Background()

	userID, err := b.service.ResolveUser(ctx, message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	paymentID, ok := parseIDArgument(message.CommandArguments())
	if !ok {
		b.reply(message.Chat.ID, "Использование: /del ID\nНапример: /del 3")
		return nil
	}

	if err := b.service.DeletePayment(ctx, userID, paymentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.reply(message.Chat.ID, "Платёж не найден или уже удалён.")
			return nil
		}
		b.sendErrorMessage(message.Chat.ID, "Не удалось удалить платёж.")
		return err
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Платёж с ID #%d удалён (деактивирован).", paymentID))
	return nil
}

// handleEdit показывает платёж с кнопками редактирования: /edit 3
func (b *Bot) handleEdit(message *tgbotapi.Message) error {
	ctx := context.Background()

	userID, err := b.service.ResolveUser(ctx, message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	paymentID, ok := parseIDArgument(message.CommandArguments())
	if !ok {
		b.reply(message.Chat.ID, "Использование: /edit ID\nНапример: /edit 3")
		return nil
	}

	payment, err := b.service.GetPayment(ctx, userID, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.reply(message.Chat.ID, "Платёж с таким ID не найден.")
			return nil
		}
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос.")
		return err
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, paymentText(payment))
	msg.ReplyMarkup = paymentKeyboard(payment.ID)
	b.api.Send(msg)
	return nil
}

func (b *Bot) handleChart(message *tgbotapi.Message) error {
	ctx := context.Background()

	userID, err := b.service.ResolveUser(ctx, message.From.ID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось обработать запрос, попробуйте позже.")
		return err
	}

	payments, err := b.service.ListPayments(ctx, userID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось получить список платежей.")
		return err
	}

	png, err := charts.NewChartGenerator().GenerateDueChart(payments)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось построить график.")
		return err
	}
	if png == nil {
		b.reply(message.Chat.ID, "Нет данных для графика. Используйте /add, чтобы добавить платежи.")
		return nil
	}

	photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{
		Name:  "payments.png",
		Bytes: png,
	})
	photo.Caption = "Ваши платежи по дням месяца"
	b.api.Send(photo)
	return nil
}

// handleCleanup вычищает деактивированные платежи из хранилища
func (b *Bot) handleCleanup(message *tgbotapi.Message) error {
	deleted, err := b.service.CleanupInactivePayments(context.Background())
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось выполнить очистку.")
		return err
	}

	if deleted == 0 {
		b.reply(message.Chat.ID, "Не найдено неактивных платежей для очистки.")
		return nil
	}
	b.reply(message.Chat.ID, fmt.Sprintf("Удалено неактивных платежей: %d", deleted))
	return nil
}

func parseIDArgument(args string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formatPayment(title string, amount float64, day int) string {
	return fmt.Sprintf("%s — %.2f ₽, %d-го числа", title, amount, day)
}
