package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/availability"
	"github.com/Freeeeeet/barbershop_booking/internal/cache"
	"github.com/Freeeeeet/barbershop_booking/internal/messaging"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

var testShop = messaging.Shop{Name: "Barbearia do Gansinho", Phone: "(11) 99999-0000"}

type memReservations struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*model.Reservation
	err       error
	createErr error
	listCalls int
}

func newMemReservations() *memReservations {
	return &memReservations{items: make(map[uuid.UUID]*model.Reservation)}
}

func (m *memReservations) seed(date time.Time, slot string, status model.ReservationStatus) *model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := &model.Reservation{
		ID:       uuid.New(),
		Name:     "Cliente",
		Phone:    "5511911112222",
		Service:  "Barba",
		Date:     date,
		TimeSlot: slot,
		Status:   status,
	}
	m.items[res.ID] = res
	cp := *res
	return &cp
}

func (m *memReservations) activeAtLocked(date time.Time, slot string) bool {
	for _, r := range m.items {
		if model.DateKey(r.Date) == model.DateKey(date) && r.TimeSlot == slot && r.IsActive() {
			return true
		}
	}
	return false
}

func (m *memReservations) Create(_ context.Context, res *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.err != nil {
		return m.err
	}
	if res.IsActive() && m.activeAtLocked(res.Date, res.TimeSlot) {
		return model.ErrSlotConflict
	}
	res.ID = uuid.New()
	res.CreatedAt = testNow
	cp := *res
	m.items[res.ID] = &cp
	return nil
}

func (m *memReservations) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (m *memReservations) List(_ context.Context) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Reservation
	for _, r := range m.items {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memReservations) ListByDate(_ context.Context, date time.Time) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Reservation
	for _, r := range m.items {
		if model.DateKey(r.Date) == model.DateKey(date) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memReservations) ListActiveByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	all, err := m.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	var out []*model.Reservation
	for _, r := range all {
		if r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReservations) HasActiveAt(_ context.Context, date time.Time, slot string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.activeAtLocked(date, slot), nil
}

func (m *memReservations) UpdateStatus(_ context.Context, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	res.Status = status
	cp := *res
	return &cp, nil
}

func (m *memReservations) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.items[id]
	delete(m.items, id)
	return ok, nil
}

func (m *memReservations) DeleteCancelled(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for id, r := range m.items {
		if r.Status == model.ReservationStatusCancelled {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *memReservations) DeleteBefore(_ context.Context, date time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for id, r := range m.items {
		if r.Date.Before(date) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

type memRecurring struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.RecurringReservation
	err   error
	// beforeHasActive вызывается до проверки слота, без блокировки
	beforeHasActive func()
}

func newMemRecurring() *memRecurring {
	return &memRecurring{items: make(map[uuid.UUID]*model.RecurringReservation)}
}

func (m *memRecurring) seed(weekday int, slot string, status model.RecurringStatus) *model.RecurringReservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &model.RecurringReservation{
		ID:       uuid.New(),
		Name:     "Fixo",
		Phone:    "5511933334444",
		Service:  "Corte de Cabelo",
		Weekday:  weekday,
		TimeSlot: slot,
		Status:   status,
	}
	m.items[rec.ID] = rec
	cp := *rec
	return &cp
}

func (m *memRecurring) activeAtLocked(weekday int, slot string) bool {
	for _, r := range m.items {
		if r.Weekday == weekday && r.TimeSlot == slot && r.IsActive() {
			return true
		}
	}
	return false
}

func (m *memRecurring) Create(_ context.Context, rec *model.RecurringReservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if rec.IsActive() && m.activeAtLocked(rec.Weekday, rec.TimeSlot) {
		return model.ErrSlotConflict
	}
	rec.ID = uuid.New()
	rec.CreatedAt = testNow
	cp := *rec
	m.items[rec.ID] = &cp
	return nil
}

func (m *memRecurring) GetByID(_ context.Context, id uuid.UUID) (*model.RecurringReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memRecurring) List(_ context.Context) ([]*model.RecurringReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.RecurringReservation
	for _, r := range m.items {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRecurring) ListActiveByWeekday(_ context.Context, weekday int) ([]*model.RecurringReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.RecurringReservation
	for _, r := range m.items {
		if r.Weekday == weekday && r.IsActive() {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRecurring) HasActiveAt(_ context.Context, weekday int, slot string) (bool, error) {
	if m.beforeHasActive != nil {
		m.beforeHasActive()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.activeAtLocked(weekday, slot), nil
}

func (m *memRecurring) UpdateStatus(_ context.Context, id uuid.UUID, status model.RecurringStatus) (*model.RecurringReservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	rec.Status = status
	cp := *rec
	return &cp, nil
}

func (m *memRecurring) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.items[id]
	delete(m.items, id)
	return ok, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*model.Reservation
	err  error
}

func (n *recordingNotifier) NewReservation(_ context.Context, res *model.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, res)
	return n.err
}

type env struct {
	reservations *memReservations
	recurring    *memRecurring
	pending      *availability.Register
	reconciler   *availability.Reconciler
	resService   *ReservationService
	recService   *RecurringService
	cleanup      *CleanupService
	flow         *BookingFlow
	notifier     *recordingNotifier
}

func newEnv() *env {
	e := &env{
		reservations: newMemReservations(),
		recurring:    newMemRecurring(),
		pending:      availability.NewRegister(),
		notifier:     &recordingNotifier{},
	}
	logger := zap.NewNop()

	e.reconciler = availability.NewReconciler(e.reservations, e.recurring, e.pending, cache.New[any](), logger)
	e.resService = NewReservationService(e.reservations, e.reconciler, testShop, logger)

	e.recService = NewRecurringService(e.recurring, e.reconciler, time.UTC, logger)
	e.recService.now = func() time.Time { return testNow }

	e.cleanup = NewCleanupService(e.reservations, e.reconciler, time.UTC, logger)
	e.cleanup.now = func() time.Time { return testNow }

	e.flow = NewBookingFlow(e.reconciler, e.resService, e.notifier, FlowConfig{
		Catalog:  []string{"09:00", "09:30", "10:00"},
		HoldTTL:  time.Minute,
		Location: time.UTC,
		Shop:     testShop,
	}, logger)
	e.flow.now = func() time.Time { return testNow }

	return e
}

func mustDate(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
