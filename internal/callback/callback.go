// Package callback кодирует callback data инлайн-кнопок: действие и ID платежа.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action — действие, закодированное в нажатой кнопке
type Action string

const (
	ActionDelete        Action = "del"
	ActionDeleteConfirm Action = "confirm_del_yes"
	ActionDeleteCancel  Action = "confirm_del_no"
	ActionEditTitle     Action = "edit_title"
	ActionEditAmount    Action = "edit_amount"
	ActionEditDay       Action = "edit_day"
	ActionOpenList      Action = "open_list"
)

const separator = ":"

// ErrMalformedToken возвращается, когда callback data не удаётся разобрать
var ErrMalformedToken = errors.New("malformed callback token")

var knownActions = map[Action]bool{
	ActionDelete:        true,
	ActionDeleteConfirm: true,
	ActionDeleteCancel:  true,
	ActionEditTitle:     true,
	ActionEditAmount:    true,
	ActionEditDay:       true,
	ActionOpenList:      true,
}

// Actions возвращает полный набор действий
func Actions() []Action {
	return []Action{
		ActionDelete,
		ActionDeleteConfirm,
		ActionDeleteCancel,
		ActionEditTitle,
		ActionEditAmount,
		ActionEditDay,
		ActionOpenList,
	}
}

// Encode собирает callback data вида "<действие>:<id>"
func Encode(action Action, paymentID int64) string {
	return string(action) + separator + strconv.FormatInt(paymentID, 10)
}

// Decode разбирает callback data обратно в действие и ID платежа.
// Существование платежа не проверяется: токен может ссылаться
// на уже удалённую запись, это забота вызывающей стороны.
func Decode(data string) (Action, int64, error) {
	tag, idStr, ok := strings.Cut(data, separator)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedToken, data)
	}

	action := Action(tag)
	if !knownActions[action] {
		return "", 0, fmt.Errorf("%w: unknown action %q", ErrMalformedToken, tag)
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 0 {
		return "", 0, fmt.Errorf("%w: bad payment id %q", ErrMalformedToken, idStr)
	}

	return action, id, nil
}
