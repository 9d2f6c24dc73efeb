package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/availability"
	"github.com/Freeeeeet/barbershop_booking/internal/cache"
	"github.com/Freeeeeet/barbershop_booking/internal/messaging"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/Freeeeeet/barbershop_booking/internal/repository/memory"
	"github.com/Freeeeeet/barbershop_booking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCatalog = []string{"09:00", "09:30", "10:00"}

func newTestHandlers(t *testing.T) (*Handlers, *memory.ReservationStore) {
	t.Helper()
	logger := zap.NewNop()
	reservations := memory.NewReservationStore()
	recurring := memory.NewRecurringStore()

	reconciler := availability.NewReconciler(reservations, recurring, availability.NewRegister(), cache.New[any](), logger)
	shop := messaging.Shop{Name: "Barbearia do Gansinho", Phone: "11999990000"}
	resService := service.NewReservationService(reservations, reconciler, shop, logger)
	recService := service.NewRecurringService(recurring, reconciler, time.UTC, logger)
	flow := service.NewBookingFlow(reconciler, resService, nil, service.FlowConfig{
		Catalog:  testCatalog,
		Location: time.UTC,
		Shop:     shop,
	}, logger)

	return NewHandlers(resService, recService, flow, 42, time.UTC, logger), reservations
}

func seedReservation(t *testing.T, store *memory.ReservationStore, date time.Time, slot string) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &model.Reservation{
		Name:     "João",
		Phone:    "5521912345678",
		Service:  "Barba",
		Date:     date,
		TimeSlot: slot,
		Status:   model.ReservationStatusConfirmed,
	}))
}

func TestLoadAgendaOpenDate(t *testing.T) {
	h, store := newTestHandlers(t)
	date := model.DateOf(time.Now(), time.UTC).AddDate(0, 0, 7)
	if date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}
	seedReservation(t, store, date, "09:30")

	agenda, err := h.loadAgenda(context.Background(), date)
	require.NoError(t, err)

	assert.False(t, agenda.closed)
	assert.Equal(t, []string{"09:00", "10:00"}, agenda.free)
	assert.Len(t, agenda.reservations, 1)
}

func TestLoadAgendaClosedDates(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{name: "past date", date: "2020-03-25"},
		{name: "sunday", date: "2099-03-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestHandlers(t)
			date, err := model.ParseDate(tt.date)
			require.NoError(t, err)
			seedReservation(t, store, date, "09:30")

			agenda, err := h.loadAgenda(context.Background(), date)
			require.NoError(t, err)

			assert.True(t, agenda.closed)
			assert.Empty(t, agenda.free)
			assert.Len(t, agenda.reservations, 1)
		})
	}
}
