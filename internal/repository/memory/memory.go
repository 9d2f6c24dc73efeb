// Package memory хранит записи в памяти процесса. Используется для
// локального запуска без Postgres и в тестах контроллеров.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
)

// ReservationStore - разовые записи в памяти
type ReservationStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]model.Reservation
	now   func() time.Time
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{
		items: make(map[uuid.UUID]model.Reservation),
		now:   time.Now,
	}
}

func sameDay(a, b time.Time) bool {
	return model.DateKey(a) == model.DateKey(b)
}

func sortReservations(list []*model.Reservation) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].TimeSlot < list[j].TimeSlot
	})
}

func (s *ReservationStore) filter(keep func(model.Reservation) bool) []*model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Reservation
	for _, r := range s.items {
		if keep(r) {
			r := r
			out = append(out, &r)
		}
	}
	sortReservations(out)
	return out
}

func (s *ReservationStore) activeAtLocked(date time.Time, slot string, except uuid.UUID) bool {
	for id, r := range s.items {
		if id != except && sameDay(r.Date, date) && r.TimeSlot == slot && r.IsActive() {
			return true
		}
	}
	return false
}

// Create ведёт себя как частичный уникальный индекс Postgres
func (s *ReservationStore) Create(_ context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.IsActive() && s.activeAtLocked(res.Date, res.TimeSlot, uuid.Nil) {
		return model.ErrSlotConflict
	}
	res.ID = uuid.New()
	res.CreatedAt = s.now()
	s.items[res.ID] = *res
	return nil
}

func (s *ReservationStore) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *ReservationStore) List(_ context.Context) ([]*model.Reservation, error) {
	return s.filter(func(model.Reservation) bool { return true }), nil
}

func (s *ReservationStore) ListByDate(_ context.Context, date time.Time) ([]*model.Reservation, error) {
	return s.filter(func(r model.Reservation) bool { return sameDay(r.Date, date) }), nil
}

func (s *ReservationStore) ListActiveByDate(_ context.Context, date time.Time) ([]*model.Reservation, error) {
	return s.filter(func(r model.Reservation) bool { return sameDay(r.Date, date) && r.IsActive() }), nil
}

func (s *ReservationStore) ListUpcoming(_ context.Context, from time.Time) ([]*model.Reservation, error) {
	return s.filter(func(r model.Reservation) bool { return !r.Date.Before(from) }), nil
}

func (s *ReservationStore) HasActiveAt(_ context.Context, date time.Time, slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeAtLocked(date, slot, uuid.Nil), nil
}

func (s *ReservationStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	if status != model.ReservationStatusCancelled && s.activeAtLocked(r.Date, r.TimeSlot, id) {
		return nil, model.ErrSlotConflict
	}
	r.Status = status
	s.items[id] = r
	return &r, nil
}

func (s *ReservationStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[id]
	delete(s.items, id)
	return ok, nil
}

func (s *ReservationStore) DeleteCancelled(_ context.Context) (int64, error) {
	return s.deleteWhere(func(r model.Reservation) bool { return r.Status == model.ReservationStatusCancelled }), nil
}

func (s *ReservationStore) DeleteBefore(_ context.Context, date time.Time) (int64, error) {
	return s.deleteWhere(func(r model.Reservation) bool { return r.Date.Before(date) }), nil
}

func (s *ReservationStore) deleteWhere(match func(model.Reservation) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, r := range s.items {
		if match(r) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// RecurringStore - постоянные записи в памяти
type RecurringStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]model.RecurringReservation
	now   func() time.Time
}

func NewRecurringStore() *RecurringStore {
	return &RecurringStore{
		items: make(map[uuid.UUID]model.RecurringReservation),
		now:   time.Now,
	}
}

func (s *RecurringStore) activeAtLocked(weekday int, slot string, except uuid.UUID) bool {
	for id, r := range s.items {
		if id != except && r.Weekday == weekday && r.TimeSlot == slot && r.IsActive() {
			return true
		}
	}
	return false
}

func (s *RecurringStore) Create(_ context.Context, rec *model.RecurringReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.IsActive() && s.activeAtLocked(rec.Weekday, rec.TimeSlot, uuid.Nil) {
		return model.ErrSlotConflict
	}
	rec.ID = uuid.New()
	rec.CreatedAt = s.now()
	s.items[rec.ID] = *rec
	return nil
}

func (s *RecurringStore) GetByID(_ context.Context, id uuid.UUID) (*model.RecurringReservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *RecurringStore) list(keep func(model.RecurringReservation) bool) []*model.RecurringReservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.RecurringReservation
	for _, r := range s.items {
		if keep(r) {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *RecurringStore) List(_ context.Context) ([]*model.RecurringReservation, error) {
	return s.list(func(model.RecurringReservation) bool { return true }), nil
}

func (s *RecurringStore) ListActiveByWeekday(_ context.Context, weekday int) ([]*model.RecurringReservation, error) {
	return s.list(func(r model.RecurringReservation) bool { return r.Weekday == weekday && r.IsActive() }), nil
}

func (s *RecurringStore) HasActiveAt(_ context.Context, weekday int, slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeAtLocked(weekday, slot, uuid.Nil), nil
}

func (s *RecurringStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.RecurringStatus) (*model.RecurringReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	if status == model.RecurringStatusActive && s.activeAtLocked(r.Weekday, r.TimeSlot, id) {
		return nil, model.ErrSlotConflict
	}
	r.Status = status
	s.items[id] = r
	return &r, nil
}

func (s *RecurringStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[id]
	delete(s.items, id)
	return ok, nil
}
