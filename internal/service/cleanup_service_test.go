package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupServiceRun(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	e.reservations.seed(mustDate("2025-03-26"), "09:00", model.ReservationStatusCancelled)
	e.reservations.seed(mustDate("2025-03-26"), "09:30", model.ReservationStatusConfirmed)
	e.reservations.seed(mustDate("2025-03-10"), "09:00", model.ReservationStatusConfirmed)
	e.reservations.seed(mustDate("2025-03-18"), "09:00", model.ReservationStatusPending)
	// Вчерашние записи ещё не считаются устаревшими
	e.reservations.seed(mustDate("2025-03-19"), "09:00", model.ReservationStatusConfirmed)

	result, err := e.cleanup.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &CleanupResult{Cancelled: 1, Expired: 2, Total: 3}, result)

	left, err := e.reservations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestCleanupServiceStoreError(t *testing.T) {
	e := newEnv()
	e.reservations.err = model.NewStoreError("delete cancelled reservations", errors.New("timeout"))

	_, err := e.cleanup.Run(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsStore(err))
}
