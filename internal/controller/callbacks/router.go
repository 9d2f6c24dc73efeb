package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/Freeeeeet/barbershop_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusUpdater меняет статус записи и возвращает ссылку для клиента
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) (*service.StatusUpdate, error)
}

// Handler обрабатывает нажатия inline кнопок барбера
type Handler struct {
	reservations StatusUpdater
	barberChatID int64
	logger       *zap.Logger
}

// NewHandler создаёт обработчик callback query
func NewHandler(reservations StatusUpdater, barberChatID int64, logger *zap.Logger) *Handler {
	return &Handler{
		reservations: reservations,
		barberChatID: barberChatID,
		logger:       logger,
	}
}

// HandleCallbackQuery - точка входа для всех callback query
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	h.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID))

	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrNoMessage))
		return
	}
	if msg.Chat.ID != h.barberChatID {
		h.logger.Warn("Ignoring callback from unknown chat", zap.Int64("chat_id", msg.Chat.ID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "🔒 Sem permissão")
		return
	}

	switch {
	case strings.HasPrefix(callback.Data, keyboard.ConfirmPrefix),
		strings.HasPrefix(callback.Data, keyboard.CancelPrefix):
		h.handleReservationAction(ctx, b, callback, msg)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data))
		common.AnswerCallback(ctx, b, callback.ID, "")
	}
}

// handleReservationAction подтверждает или отменяет запись и
// заменяет кнопки ссылкой на WhatsApp клиента
func (h *Handler) handleReservationAction(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message) {
	status, id, err := common.ParseReservationAction(callback.Data)
	if err != nil {
		h.logger.Error("Failed to parse reservation action", zap.String("data", callback.Data), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	update, err := h.reservations.UpdateStatus(ctx, id, status)
	if err != nil {
		h.logger.Error("Failed to update reservation status",
			zap.String("reservation_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	display := formatting.GetStatusDisplay(update.Reservation.Status)
	common.AnswerCallback(ctx, b, callback.ID, display.Emoji+" "+display.Text)

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      msg.Text + "\n\n" + formatting.FormatStatusChange(update.Reservation),
	}
	if kb := keyboard.WhatsApp(update.WhatsAppLink); kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Error("Failed to edit reservation message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err))
	}
}
