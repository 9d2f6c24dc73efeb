package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/cache"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCatalog = []string{"09:00", "09:30", "10:00"}

type reconcilerFixture struct {
	reservations *fakeReservations
	recurring    *fakeRecurring
	pending      *Register
	cache        *cache.Cache[any]
	reconciler   *Reconciler
}

func newFixture(opts ...ReconcilerOption) *reconcilerFixture {
	f := &reconcilerFixture{
		reservations: &fakeReservations{},
		recurring:    &fakeRecurring{},
		pending:      NewRegister(),
		cache:        cache.New[any](),
	}
	f.reconciler = NewReconciler(f.reservations, f.recurring, f.pending, f.cache, zap.NewNop(), opts...)
	return f
}

func TestIsSlotAvailable(t *testing.T) {
	date := mustDate("2025-03-26")

	tests := []struct {
		name  string
		setup func(f *reconcilerFixture)
		slot  string
		want  bool
	}{
		{
			name: "free slot",
			slot: "09:00",
			want: true,
		},
		{
			name: "confirmed reservation",
			setup: func(f *reconcilerFixture) {
				f.reservations.add(date, "09:30", model.ReservationStatusConfirmed)
			},
			slot: "09:30",
			want: false,
		},
		{
			name: "pending reservation occupies slot",
			setup: func(f *reconcilerFixture) {
				f.reservations.add(date, "09:30", model.ReservationStatusPending)
			},
			slot: "09:30",
			want: false,
		},
		{
			name: "cancelled reservation frees slot",
			setup: func(f *reconcilerFixture) {
				f.reservations.add(date, "09:30", model.ReservationStatusCancelled)
			},
			slot: "09:30",
			want: true,
		},
		{
			name: "active recurring on same weekday",
			setup: func(f *reconcilerFixture) {
				f.recurring.add(3, "10:00", model.RecurringStatusActive)
			},
			slot: "10:00",
			want: false,
		},
		{
			name: "inactive recurring",
			setup: func(f *reconcilerFixture) {
				f.recurring.add(3, "10:00", model.RecurringStatusInactive)
			},
			slot: "10:00",
			want: true,
		},
		{
			name: "recurring on another weekday",
			setup: func(f *reconcilerFixture) {
				f.recurring.add(4, "10:00", model.RecurringStatusActive)
			},
			slot: "10:00",
			want: true,
		},
		{
			name: "reservation on another date",
			setup: func(f *reconcilerFixture) {
				f.reservations.add(mustDate("2025-03-27"), "09:00", model.ReservationStatusConfirmed)
			},
			slot: "09:00",
			want: true,
		},
		{
			name: "live hold",
			setup: func(f *reconcilerFixture) {
				_, _ = f.pending.Add(context.Background(), date, "09:00", time.Minute)
			},
			slot: "09:00",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			assert.Equal(t, tt.want, f.reconciler.IsSlotAvailable(context.Background(), date, tt.slot))
		})
	}
}

func TestIsSlotAvailableReservationWinsOverEverything(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	f := newFixture()
	f.reservations.add(date, "09:30", model.ReservationStatusConfirmed)

	assert.False(t, f.reconciler.IsSlotAvailable(ctx, date, "09:30"))

	_, err := f.reconciler.ClaimPending(ctx, date, "09:30", time.Minute)
	require.NoError(t, err)
	require.NoError(t, f.reconciler.ReleasePending(ctx, date, "09:30"))

	assert.False(t, f.reconciler.IsSlotAvailable(ctx, date, "09:30"))
}

func TestClaimAndReleasePending(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	f := newFixture()

	require.True(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))

	claimed, err := f.reconciler.ClaimPending(ctx, date, "09:00", time.Minute)
	require.NoError(t, err)
	assert.False(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))

	live, err := f.reconciler.Pending(ctx, date, "09:00")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, claimed.Token, live.Token)

	require.NoError(t, f.reconciler.ReleasePending(ctx, date, "09:00"))
	assert.True(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))
}

func TestTryClaimPendingRejectsLiveHold(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	f := newFixture()

	claimed, err := f.reconciler.TryClaimPending(ctx, date, "09:00", time.Minute)
	require.NoError(t, err)

	_, err = f.reconciler.TryClaimPending(ctx, date, "09:00", time.Minute)
	assert.ErrorIs(t, err, model.ErrSlotConflict)

	live, err := f.reconciler.Pending(ctx, date, "09:00")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, claimed.Token, live.Token)
}

func TestHoldExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	clock := newFakeClock()

	f := newFixture()
	f.pending = NewRegister(WithRegisterClock(clock.Now))
	f.reconciler = NewReconciler(f.reservations, f.recurring, f.pending, f.cache, zap.NewNop())

	_, err := f.reconciler.ClaimPending(ctx, date, "09:00", 100*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))

	clock.Advance(150 * time.Millisecond)
	assert.True(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))
}

func TestIsSlotAvailableClaimedDuringCheck(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	f := newFixture()

	f.reservations.onHas = func() {
		_, _ = f.pending.Add(ctx, date, "09:00", time.Minute)
	}

	assert.False(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))
}

func TestIsSlotAvailableFailsClosed(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	storeErr := model.NewStoreError("has active reservation", errors.New("connection refused"))

	t.Run("reservation store", func(t *testing.T) {
		f := newFixture()
		f.reservations.err = storeErr
		assert.False(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))
	})

	t.Run("recurring store", func(t *testing.T) {
		f := newFixture()
		f.recurring.err = storeErr
		assert.False(t, f.reconciler.IsSlotAvailable(ctx, date, "09:00"))
	})

	t.Run("pending store", func(t *testing.T) {
		f := newFixture()
		failing := &failingPending{Register: NewRegister(), err: errors.New("redis down")}
		r := NewReconciler(f.reservations, f.recurring, failing, f.cache, zap.NewNop())
		assert.False(t, r.IsSlotAvailable(ctx, date, "09:00"))
	})
}

func TestIsRecurringSlotAvailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.recurring.add(3, "10:00", model.RecurringStatusActive)

	assert.False(t, f.reconciler.IsRecurringSlotAvailable(ctx, 3, "10:00"))
	assert.True(t, f.reconciler.IsRecurringSlotAvailable(ctx, 3, "09:00"))
	assert.True(t, f.reconciler.IsRecurringSlotAvailable(ctx, 4, "10:00"))
}

func TestIsRecurringSlotAvailableFailsOpen(t *testing.T) {
	f := newFixture()
	f.recurring.add(3, "10:00", model.RecurringStatusActive)
	f.recurring.err = errors.New("connection refused")

	assert.True(t, f.reconciler.IsRecurringSlotAvailable(context.Background(), 3, "10:00"))
}

func TestListAvailableSlots(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	f := newFixture()

	f.reservations.add(date, "09:30", model.ReservationStatusConfirmed)
	f.recurring.add(3, "10:00", model.RecurringStatusActive)

	got := f.reconciler.ListAvailableSlots(ctx, date, model.Weekday(date), testCatalog)
	assert.Equal(t, []string{"09:00"}, got)
}

func TestListAvailableSlotsKeepsCatalogOrder(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	catalog := []string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30"}

	f := newFixture()
	f.reservations.add(date, "08:30", model.ReservationStatusPending)
	f.reservations.add(date, "10:00", model.ReservationStatusCancelled)
	f.recurring.add(3, "09:30", model.RecurringStatusInactive)
	_, err := f.pending.Add(ctx, date, "09:00", time.Minute)
	require.NoError(t, err)

	got := f.reconciler.ListAvailableSlots(ctx, date, 3, catalog)
	assert.Equal(t, []string{"08:00", "09:30", "10:00", "10:30"}, got)
}

func TestListAvailableSlotsEmptyCatalog(t *testing.T) {
	f := newFixture()
	got := f.reconciler.ListAvailableSlots(context.Background(), mustDate("2025-03-26"), 3, nil)
	assert.Empty(t, got)
}

func TestListAvailableSlotsDegraded(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")

	t.Run("uses local source", func(t *testing.T) {
		local := &fakeLocal{items: []*model.Reservation{
			{Date: date, TimeSlot: "09:00", Status: model.ReservationStatusConfirmed},
			{Date: date, TimeSlot: "09:30", Status: model.ReservationStatusCancelled},
		}}
		f := newFixture(WithFallback(local))
		f.reservations.err = errors.New("connection refused")

		_, err := f.pending.Add(ctx, date, "10:00", time.Minute)
		require.NoError(t, err)

		got := f.reconciler.ListAvailableSlots(ctx, date, 3, testCatalog)
		assert.Equal(t, []string{"09:30"}, got)
	})

	t.Run("recurring failure also degrades", func(t *testing.T) {
		f := newFixture(WithFallback(&fakeLocal{}))
		f.recurring.err = errors.New("connection refused")

		got := f.reconciler.ListAvailableSlots(ctx, date, 3, testCatalog)
		assert.Equal(t, testCatalog, got)
	})

	t.Run("no local source returns catalog", func(t *testing.T) {
		f := newFixture()
		f.reservations.err = errors.New("connection refused")

		got := f.reconciler.ListAvailableSlots(ctx, date, 3, testCatalog)
		assert.Equal(t, testCatalog, got)

		got[0] = "mutated"
		assert.Equal(t, "09:00", testCatalog[0])
	})

	t.Run("local source failure returns catalog", func(t *testing.T) {
		f := newFixture(WithFallback(&fakeLocal{err: errSnapshotEmpty}))
		f.reservations.err = errors.New("connection refused")

		got := f.reconciler.ListAvailableSlots(ctx, date, 3, testCatalog)
		assert.Equal(t, testCatalog, got)
	})
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	date := mustDate("2025-03-26")
	f := newFixture()

	f.cache.Set(normalKey("2025-03-26", "09:00"), true, time.Minute)
	f.cache.Set(availableTimesKey("2025-03-27"), []string{"09:00"}, time.Minute)
	f.cache.Set("services", model.DefaultServices, time.Minute)

	_, err := f.pending.Add(ctx, date, "09:00", time.Minute)
	require.NoError(t, err)
	_, err = f.pending.Add(ctx, mustDate("2025-03-27"), "11:00", time.Minute)
	require.NoError(t, err)

	f.reconciler.Invalidate(ctx, date, "09:00", 3)

	assert.Equal(t, 0, f.cache.Len())
	assert.Equal(t, 0, f.pending.Len())
}

func TestMaintain(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	date := mustDate("2025-03-26")

	pending := NewRegister(WithRegisterClock(clock.Now))
	c := cache.New[any](cache.WithClock(clock.Now))
	r := NewReconciler(&fakeReservations{}, &fakeRecurring{}, pending, c, zap.NewNop())

	c.Set("short", 1, time.Second)
	c.Set("long", 2, time.Hour)
	_, err := pending.Add(ctx, date, "09:00", time.Second)
	require.NoError(t, err)
	_, err = pending.Add(ctx, date, "09:30", time.Hour)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	r.Maintain(ctx)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, pending.Len())
}
