package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"go.uber.org/zap"
)

// UpcomingLister загружает предстоящие записи
type UpcomingLister interface {
	ListUpcoming(ctx context.Context, from time.Time) ([]*model.Reservation, error)
}

// SubscribeFunc подписывает onChange на изменения таблиц записей
type SubscribeFunc func(ctx context.Context, onChange func()) (unsubscribe func(), err error)

var errSnapshotEmpty = errors.New("reservation snapshot not loaded")

// Snapshot - локальная копия предстоящих записей, обновляемая по уведомлениям
// об изменениях. Используется как источник деградированного режима.
type Snapshot struct {
	mu       sync.RWMutex
	lister   UpcomingLister
	byDate   map[string][]*model.Reservation
	loaded   bool
	loadedAt time.Time
	now      func() time.Time
	loc      *time.Location
	logger   *zap.Logger
}

// NewSnapshot создаёт пустой снимок
func NewSnapshot(lister UpcomingLister, loc *time.Location, logger *zap.Logger) *Snapshot {
	if loc == nil {
		loc = time.UTC
	}
	return &Snapshot{
		lister: lister,
		byDate: make(map[string][]*model.Reservation),
		now:    time.Now,
		loc:    loc,
		logger: logger,
	}
}

// Refresh перечитывает предстоящие записи из хранилища
func (s *Snapshot) Refresh(ctx context.Context) error {
	from := model.DateOf(s.now(), s.loc)

	reservations, err := s.lister.ListUpcoming(ctx, from)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	byDate := make(map[string][]*model.Reservation)
	for _, res := range reservations {
		key := model.DateKey(res.Date)
		byDate[key] = append(byDate[key], res)
	}

	s.mu.Lock()
	s.byDate = byDate
	s.loaded = true
	s.loadedAt = s.now()
	s.mu.Unlock()

	s.logger.Debug("Reservation snapshot refreshed", zap.Int("reservations", len(reservations)))
	return nil
}

// ReservationsOn возвращает записи на дату из снимка
func (s *Snapshot) ReservationsOn(date time.Time) ([]*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, errSnapshotEmpty
	}
	return append([]*model.Reservation(nil), s.byDate[model.DateKey(date)]...), nil
}

// LoadedAt возвращает время последнего успешного обновления
func (s *Snapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Run загружает снимок, подписывается на изменения и держит подписку до
// отмены контекста.
func (s *Snapshot) Run(ctx context.Context, subscribe SubscribeFunc) error {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Initial snapshot load failed", zap.Error(err))
	}

	unsubscribe, err := subscribe(ctx, func() {
		if err := s.Refresh(ctx); err != nil {
			s.logger.Warn("Snapshot refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to reservation changes: %w", err)
	}
	defer unsubscribe()

	<-ctx.Done()
	return nil
}
