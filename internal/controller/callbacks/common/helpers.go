package common

import (
	"context"
	"strings"

	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseReservationAction разбирает "confirm:<uuid>" / "cancel:<uuid>"
// в целевой статус и ID записи
func ParseReservationAction(data string) (model.ReservationStatus, uuid.UUID, error) {
	var status model.ReservationStatus
	var raw string

	switch {
	case strings.HasPrefix(data, keyboard.ConfirmPrefix):
		status = model.ReservationStatusConfirmed
		raw = strings.TrimPrefix(data, keyboard.ConfirmPrefix)
	case strings.HasPrefix(data, keyboard.CancelPrefix):
		status = model.ReservationStatusCancelled
		raw = strings.TrimPrefix(data, keyboard.CancelPrefix)
	default:
		return "", uuid.Nil, ErrInvalidFormat
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, ErrInvalidFormat
	}
	return status, id, nil
}
