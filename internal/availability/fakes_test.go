package availability

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeReservations struct {
	mu    sync.Mutex
	items []*model.Reservation
	err   error
	onHas func()
}

func (f *fakeReservations) add(date time.Time, slot string, status model.ReservationStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, &model.Reservation{Date: date, TimeSlot: slot, Status: status})
}

func (f *fakeReservations) HasActiveAt(_ context.Context, date time.Time, slot string) (bool, error) {
	if f.onHas != nil {
		f.onHas()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.items {
		if model.DateKey(r.Date) == model.DateKey(date) && r.TimeSlot == slot && r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservations) ListActiveByDate(_ context.Context, date time.Time) ([]*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Reservation
	for _, r := range f.items {
		if model.DateKey(r.Date) == model.DateKey(date) && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) ListUpcoming(_ context.Context, from time.Time) ([]*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Reservation
	for _, r := range f.items {
		if !r.Date.Before(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeRecurring struct {
	mu    sync.Mutex
	items []*model.RecurringReservation
	err   error
}

func (f *fakeRecurring) add(weekday int, slot string, status model.RecurringStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, &model.RecurringReservation{Weekday: weekday, TimeSlot: slot, Status: status})
}

func (f *fakeRecurring) HasActiveAt(_ context.Context, weekday int, slot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.items {
		if r.Weekday == weekday && r.TimeSlot == slot && r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecurring) ListActiveByWeekday(_ context.Context, weekday int) ([]*model.RecurringReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.RecurringReservation
	for _, r := range f.items {
		if r.Weekday == weekday && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeLocal struct {
	items []*model.Reservation
	err   error
}

func (f *fakeLocal) ReservationsOn(date time.Time) ([]*model.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Reservation
	for _, r := range f.items {
		if model.DateKey(r.Date) == model.DateKey(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

// failingPending отвечает ошибкой на любую проверку блокировки
type failingPending struct {
	*Register
	err error
}

func (f *failingPending) IsPending(context.Context, time.Time, string) (bool, error) {
	return false, f.err
}

func mustDate(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
