package handlers

import (
	"bytes"
	"context"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/barbershop_booking/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "💈 Comandos da barbearia:\n\n" +
	"/agenda [dd/mm/aaaa] - Agenda do dia com o quadro de horários\n" +
	"/livres [dd/mm/aaaa] - Horários livres do dia\n" +
	"/help - Mostrar esta ajuda\n\n" +
	"Sem data, o dia de hoje é usado.\n" +
	"Novos agendamentos chegam aqui com os botões Confirmar / Cancelar."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireBarber(ctx, b, update) {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 Olá! Este bot avisa sobre novos agendamentos.\n\n"+helpText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireBarber(ctx, b, update) {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleAgenda обрабатывает команду /agenda [dd/mm/yyyy]: список записей и доска дня
func (h *Handlers) HandleAgenda(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireBarber(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	date, err := formatting.ParseCommandDate(formatting.CommandArgs(update.Message.Text), h.flow.Today())
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	agenda, err := h.loadAgenda(ctx, date)
	if err != nil {
		h.logger.Error("Failed to load agenda", zap.Time("date", date), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatAgenda(date, agenda.reservations, agenda.recurring))

	rows := common.BuildBoardRows(h.flow.Catalog(), agenda.reservations, agenda.recurring, agenda.free, agenda.closed)
	imageData, err := common.GenerateDayBoard(date, rows, h.now().In(h.loc))
	if err != nil {
		h.logger.Error("Failed to render day board", zap.Time("date", date), zap.Error(err))
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "agenda.png", Data: bytes.NewReader(imageData)},
		Caption: formatting.FormatDateWithWeekday(date),
	})
	if err != nil {
		h.logger.Error("Failed to send day board", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleFree обрабатывает команду /livres [dd/mm/yyyy]
func (h *Handlers) HandleFree(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireBarber(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	date, err := formatting.ParseCommandDate(formatting.CommandArgs(update.Message.Text), h.flow.Today())
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	slots, err := h.flow.AvailableSlots(ctx, date)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatFreeSlots(date, slots))
}

type agenda struct {
	reservations []*model.Reservation
	recurring    []*model.RecurringReservation
	free         []string
	closed       bool
}

// loadAgenda собирает активные записи, постоянных клиентов и свободные слоты дня
func (h *Handlers) loadAgenda(ctx context.Context, date time.Time) (*agenda, error) {
	all, err := h.reservations.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	reservations := make([]*model.Reservation, 0, len(all))
	for _, res := range all {
		if res.IsActive() {
			reservations = append(reservations, res)
		}
	}

	allRecurring, err := h.recurring.List(ctx)
	if err != nil {
		return nil, err
	}
	weekday := model.Weekday(date)
	recurring := make([]*model.RecurringReservation, 0)
	for _, rec := range allRecurring {
		if rec.IsActive() && rec.Weekday == weekday {
			recurring = append(recurring, rec)
		}
	}

	// Прошедшие даты и воскресенья закрыты для записи: свободных слотов там нет
	free, err := h.flow.AvailableSlots(ctx, date)
	closed := false
	if err != nil {
		if !model.IsValidation(err) {
			return nil, err
		}
		free = nil
		closed = true
	}

	return &agenda{reservations: reservations, recurring: recurring, free: free, closed: closed}, nil
}
