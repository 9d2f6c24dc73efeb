package handlers

import (
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд барбера
type Handlers struct {
	reservations *service.ReservationService
	recurring    *service.RecurringService
	flow         *service.BookingFlow
	barberChatID int64
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	reservations *service.ReservationService,
	recurring *service.RecurringService,
	flow *service.BookingFlow,
	barberChatID int64,
	loc *time.Location,
	logger *zap.Logger,
) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		reservations: reservations,
		recurring:    recurring,
		flow:         flow,
		barberChatID: barberChatID,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
	}
}
