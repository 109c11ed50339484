package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/payments_bot/internal/callback"
	"github.com/ivanoskov/payments_bot/internal/model"
)

const (
	btnAdd   = "➕ Добавить платёж"
	btnList  = "📋 Список"
	btnMonth = "📆 Сумма в месяц"
	btnRest  = "💰 Остаток"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnList),
			tgbotapi.NewKeyboardButton(btnMonth),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRest),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// paymentKeyboard — клавиатура под платежом: редактирование по полям и удаление
func paymentKeyboard(paymentID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Название", callback.Encode(callback.ActionEditTitle, paymentID)),
			tgbotapi.NewInlineKeyboardButtonData("💸 Сумма", callback.Encode(callback.ActionEditAmount, paymentID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Дата", callback.Encode(callback.ActionEditDay, paymentID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", callback.Encode(callback.ActionDelete, paymentID)),
		),
	)
}

// confirmDeleteKeyboard — подтверждение удаления: Да / Нет
func confirmDeleteKeyboard(paymentID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да", callback.Encode(callback.ActionDeleteConfirm, paymentID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет", callback.Encode(callback.ActionDeleteCancel, paymentID)),
		),
	)
}

// listKeyboard — одна кнопка под сводным списком для входа в режим редактирования
func listKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Редактировать / удалять", callback.Encode(callback.ActionOpenList, 0)),
		),
	)
}

// emptyInlineKeyboard снимает кнопки с сообщения при редактировании
func emptyInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	}
}

func paymentText(p *model.Payment) string {
	return formatPayment(p.Title, p.Amount, p.DayOfMonth)
}
