package common

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []string{"09:00", "09:30", "10:00", "10:30", "11:00"}

func TestBuildBoardRows(t *testing.T) {
	reservations := []*model.Reservation{
		{Name: "João", Service: "Barba", TimeSlot: "09:30", Status: model.ReservationStatusPending},
		{Name: "Pedro", Service: "Corte de Cabelo", TimeSlot: "10:30", Status: model.ReservationStatusConfirmed},
		{Name: "Lucas", Service: "Barba", TimeSlot: "11:00", Status: model.ReservationStatusCancelled},
	}
	recurring := []*model.RecurringReservation{
		{Name: "Carlos", TimeSlot: "10:00", Status: model.RecurringStatusActive},
		{Name: "Inativo", TimeSlot: "09:00", Status: model.RecurringStatusInactive},
	}
	// 09:00 удержан клиентом, 11:00 свободен после отмены
	free := []string{"11:00"}

	rows := BuildBoardRows(testCatalog, reservations, recurring, free, false)

	require.Len(t, rows, len(testCatalog))
	assert.Equal(t, BoardRow{TimeSlot: "09:00", State: SlotHeld}, rows[0])
	assert.Equal(t, BoardRow{TimeSlot: "09:30", State: SlotPending, Label: "João - Barba"}, rows[1])
	assert.Equal(t, BoardRow{TimeSlot: "10:00", State: SlotRecurring, Label: "Carlos"}, rows[2])
	assert.Equal(t, BoardRow{TimeSlot: "10:30", State: SlotConfirmed, Label: "Pedro - Corte de Cabelo"}, rows[3])
	assert.Equal(t, BoardRow{TimeSlot: "11:00", State: SlotFree}, rows[4])
}

func TestBuildBoardRowsReservationOverridesRecurring(t *testing.T) {
	reservations := []*model.Reservation{
		{Name: "João", Service: "Barba", TimeSlot: "10:00", Status: model.ReservationStatusConfirmed},
	}
	recurring := []*model.RecurringReservation{
		{Name: "Carlos", TimeSlot: "10:00", Status: model.RecurringStatusActive},
	}

	rows := BuildBoardRows([]string{"10:00"}, reservations, recurring, nil, false)

	require.Len(t, rows, 1)
	assert.Equal(t, SlotConfirmed, rows[0].State)
}

func TestBuildBoardRowsClosedDate(t *testing.T) {
	reservations := []*model.Reservation{
		{Name: "João", Service: "Barba", TimeSlot: "09:30", Status: model.ReservationStatusConfirmed},
	}
	recurring := []*model.RecurringReservation{
		{Name: "Carlos", TimeSlot: "10:00", Status: model.RecurringStatusActive},
	}

	rows := BuildBoardRows(testCatalog, reservations, recurring, nil, true)

	require.Len(t, rows, len(testCatalog))
	assert.Equal(t, BoardRow{TimeSlot: "09:00", State: SlotClosed}, rows[0])
	assert.Equal(t, SlotConfirmed, rows[1].State)
	assert.Equal(t, SlotRecurring, rows[2].State)
	assert.Equal(t, BoardRow{TimeSlot: "10:30", State: SlotClosed}, rows[3])
	assert.Equal(t, BoardRow{TimeSlot: "11:00", State: SlotClosed}, rows[4])
}

func TestGenerateDayBoard(t *testing.T) {
	date := time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC)
	rows := []BoardRow{
		{TimeSlot: "09:00", State: SlotFree},
		{TimeSlot: "09:30", State: SlotPending, Label: "João - Barba"},
		{TimeSlot: "10:00", State: SlotRecurring, Label: "Carlos com um nome muito comprido que não cabe na linha"},
		{TimeSlot: "10:30", State: SlotHeld},
		{TimeSlot: "11:00", State: SlotConfirmed, Label: "Pedro"},
		{TimeSlot: "11:30", State: SlotClosed},
	}
	now := time.Date(2025, 3, 26, 10, 15, 0, 0, time.UTC)

	data, err := GenerateDayBoard(date, rows, now)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, boardWidth, img.Bounds().Dx())
	assert.Equal(t, boardHeader+len(rows)*boardRowHeight+boardFooter, img.Bounds().Dy())
}

func TestGenerateDayBoardEmptyCatalog(t *testing.T) {
	data, err := GenerateDayBoard(time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC), nil, time.Now())
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "curto", truncate("curto", 10))
	assert.Equal(t, "Joã...", truncate("João Pedro", 6))
}
