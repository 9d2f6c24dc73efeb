package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier присылает барберу новые записи с кнопками Confirmar / Cancelar
type TelegramNotifier struct {
	bot          *bot.Bot
	barberChatID int64
	logger       *zap.Logger
}

func NewTelegramNotifier(botInstance *bot.Bot, barberChatID int64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:          botInstance,
		barberChatID: barberChatID,
		logger:       logger,
	}
}

// NewReservation отправляет уведомление о созданной записи
func (n *TelegramNotifier) NewReservation(ctx context.Context, res *model.Reservation) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      n.barberChatID,
		Text:        formatting.FormatNewReservation(res),
		ReplyMarkup: keyboard.ReservationActions(res.ID),
	})
	if err != nil {
		return fmt.Errorf("send reservation notification: %w", err)
	}

	n.logger.Info("Reservation notification sent",
		zap.String("reservation_id", res.ID.String()),
		zap.Int64("chat_id", n.barberChatID))
	return nil
}
