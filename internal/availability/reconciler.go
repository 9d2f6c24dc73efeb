package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/cache"
	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"go.uber.org/zap"
)

// ReservationReader - чтение разовых записей, нужное для проверки занятости
type ReservationReader interface {
	HasActiveAt(ctx context.Context, date time.Time, slot string) (bool, error)
	ListActiveByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error)
}

// RecurringReader - чтение постоянных записей, нужное для проверки занятости
type RecurringReader interface {
	HasActiveAt(ctx context.Context, weekday int, slot string) (bool, error)
	ListActiveByWeekday(ctx context.Context, weekday int) ([]*model.RecurringReservation, error)
}

// LocalSource - локальная, возможно устаревшая копия записей
type LocalSource interface {
	ReservationsOn(date time.Time) ([]*model.Reservation, error)
}

var errNoFallback = errors.New("no local reservation source")

// Reconciler сводит разовые записи, постоянные записи и мягкие блокировки
// в единый ответ о свободных слотах.
type Reconciler struct {
	reservations ReservationReader
	recurring    RecurringReader
	pending      PendingStore
	cache        *cache.Cache[any]
	fallback     LocalSource
	logger       *zap.Logger
}

// ReconcilerOption настраивает Reconciler
type ReconcilerOption func(*Reconciler)

// WithFallback задаёт локальный источник для деградированного режима
func WithFallback(src LocalSource) ReconcilerOption {
	return func(r *Reconciler) {
		r.fallback = src
	}
}

// NewReconciler создаёт сервис доступности
func NewReconciler(
	reservations ReservationReader,
	recurring RecurringReader,
	pending PendingStore,
	c *cache.Cache[any],
	logger *zap.Logger,
	opts ...ReconcilerOption,
) *Reconciler {
	r := &Reconciler{
		reservations: reservations,
		recurring:    recurring,
		pending:      pending,
		cache:        c,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache возвращает общий кеш
func (r *Reconciler) Cache() *cache.Cache[any] {
	return r.cache
}

// IsSlotAvailable проверяет слот на дату. Любая ошибка означает "занято".
func (r *Reconciler) IsSlotAvailable(ctx context.Context, date time.Time, slot string) bool {
	dateKey := model.DateKey(date)
	log := r.logger.With(zap.String("date", dateKey), zap.String("time_slot", slot))

	if r.isPendingOrFail(ctx, date, slot, log) {
		return false
	}

	// Доступность не кешируется: устаревший ответ ведёт к двойной записи
	r.cache.Remove(normalKey(dateKey, slot))

	taken, err := r.reservations.HasActiveAt(ctx, date, slot)
	if err != nil {
		log.Error("Failed to check reservations, treating slot as unavailable", zap.Error(err))
		return false
	}
	if taken {
		log.Debug("Slot unavailable: reservation exists")
		return false
	}

	// Блокировка могла появиться, пока шёл запрос в хранилище
	if r.isPendingOrFail(ctx, date, slot, log) {
		log.Debug("Slot was claimed during the check")
		return false
	}

	weekday := model.Weekday(date)
	taken, err = r.recurring.HasActiveAt(ctx, weekday, slot)
	if err != nil {
		log.Error("Failed to check recurring reservations, treating slot as unavailable", zap.Error(err))
		return false
	}
	if taken {
		log.Debug("Slot unavailable: recurring reservation exists", zap.Int("weekday", weekday))
		return false
	}

	log.Debug("Slot available")
	return true
}

func (r *Reconciler) isPendingOrFail(ctx context.Context, date time.Time, slot string, log *zap.Logger) bool {
	pending, err := r.pending.IsPending(ctx, date, slot)
	if err != nil {
		log.Error("Failed to check pending bookings, treating slot as unavailable", zap.Error(err))
		return true
	}
	if pending {
		log.Debug("Slot is pending")
	}
	return pending
}

// IsRecurringSlotAvailable проверяет постоянные записи на день недели.
// При ошибке хранилища слот считается свободным.
func (r *Reconciler) IsRecurringSlotAvailable(ctx context.Context, weekday int, slot string) bool {
	r.cache.Remove(recurringKey(weekday, slot))

	taken, err := r.recurring.HasActiveAt(ctx, weekday, slot)
	if err != nil {
		r.logger.Warn("Failed to check recurring reservations, treating slot as available",
			zap.Int("weekday", weekday),
			zap.String("time_slot", slot),
			zap.Error(err),
		)
		return true
	}
	return !taken
}

// ListAvailableSlots возвращает слоты каталога за вычетом занятых, в порядке
// каталога. При сбое использует локальные данные, а если нет и их - весь каталог.
func (r *Reconciler) ListAvailableSlots(ctx context.Context, date time.Time, weekday int, catalog []string) []string {
	dateKey := model.DateKey(date)
	r.cache.Remove(availableTimesKey(dateKey))

	occupied, err := r.occupied(ctx, date, weekday, catalog)
	if err != nil {
		r.logger.Warn("Failed to list occupied slots, using local data",
			zap.String("date", dateKey),
			zap.Error(err),
		)

		occupied, err = r.occupiedLocal(ctx, date, catalog)
		if err != nil {
			r.logger.Error("Degraded slot listing failed, returning full catalog",
				zap.String("date", dateKey),
				zap.Error(err),
			)
			return append([]string(nil), catalog...)
		}
	}

	available := make([]string, 0, len(catalog))
	for _, slot := range catalog {
		if _, taken := occupied[slot]; !taken {
			available = append(available, slot)
		}
	}
	return available
}

func (r *Reconciler) occupied(ctx context.Context, date time.Time, weekday int, catalog []string) (map[string]struct{}, error) {
	occupied := make(map[string]struct{})

	reservations, err := r.reservations.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	for _, res := range reservations {
		if res.IsActive() {
			occupied[res.TimeSlot] = struct{}{}
		}
	}

	recurring, err := r.recurring.ListActiveByWeekday(ctx, weekday)
	if err != nil {
		return nil, fmt.Errorf("list recurring reservations: %w", err)
	}
	for _, rec := range recurring {
		if rec.IsActive() {
			occupied[rec.TimeSlot] = struct{}{}
		}
	}

	if err := r.addPending(ctx, date, catalog, occupied); err != nil {
		return nil, err
	}
	return occupied, nil
}

func (r *Reconciler) occupiedLocal(ctx context.Context, date time.Time, catalog []string) (map[string]struct{}, error) {
	if r.fallback == nil {
		return nil, errNoFallback
	}

	reservations, err := r.fallback.ReservationsOn(date)
	if err != nil {
		return nil, fmt.Errorf("local reservations: %w", err)
	}

	occupied := make(map[string]struct{})
	for _, res := range reservations {
		if res.IsActive() {
			occupied[res.TimeSlot] = struct{}{}
		}
	}

	if err := r.addPending(ctx, date, catalog, occupied); err != nil {
		return nil, err
	}
	return occupied, nil
}

func (r *Reconciler) addPending(ctx context.Context, date time.Time, catalog []string, occupied map[string]struct{}) error {
	for _, slot := range catalog {
		pending, err := r.pending.IsPending(ctx, date, slot)
		if err != nil {
			return fmt.Errorf("check pending: %w", err)
		}
		if pending {
			occupied[slot] = struct{}{}
		}
	}
	return nil
}

// ClaimPending мягко блокирует слот на время оформления записи
func (r *Reconciler) ClaimPending(ctx context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error) {
	p, err := r.pending.Add(ctx, date, slot, ttl)
	if err != nil {
		return PendingBooking{}, fmt.Errorf("claim pending: %w", err)
	}

	r.logger.Info("Slot claimed",
		zap.String("date", model.DateKey(date)),
		zap.String("time_slot", slot),
		zap.Duration("ttl", p.TTL),
	)
	return p, nil
}

// TryClaimPending блокирует слот, только если его никто не удерживает.
// Живая чужая блокировка даёт model.ErrSlotConflict.
func (r *Reconciler) TryClaimPending(ctx context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error) {
	p, err := r.pending.TryAdd(ctx, date, slot, ttl)
	if errors.Is(err, ErrAlreadyPending) {
		return PendingBooking{}, model.ErrSlotConflict
	}
	if err != nil {
		return PendingBooking{}, fmt.Errorf("claim pending: %w", err)
	}

	r.logger.Info("Slot claimed",
		zap.String("date", model.DateKey(date)),
		zap.String("time_slot", slot),
		zap.Duration("ttl", p.TTL),
	)
	return p, nil
}

// ReleasePending снимает мягкую блокировку слота
func (r *Reconciler) ReleasePending(ctx context.Context, date time.Time, slot string) error {
	if err := r.pending.Remove(ctx, date, slot); err != nil {
		return fmt.Errorf("release pending: %w", err)
	}
	return nil
}

// Pending возвращает живую блокировку слота или nil
func (r *Reconciler) Pending(ctx context.Context, date time.Time, slot string) (*PendingBooking, error) {
	return r.pending.Get(ctx, date, slot)
}

// Invalidate сбрасывает ключи слота и блокировку, а затем целиком очищает
// кеш и реестр блокировок.
func (r *Reconciler) Invalidate(ctx context.Context, date time.Time, slot string, weekday int) {
	dateKey := model.DateKey(date)
	log := r.logger.With(
		zap.String("date", dateKey),
		zap.String("time_slot", slot),
		zap.Int("weekday", weekday),
	)

	r.cache.Remove(normalKey(dateKey, slot))
	r.cache.Remove(recurringKey(weekday, slot))
	r.cache.Remove(availableTimesKey(dateKey))

	if err := r.pending.Remove(ctx, date, slot); err != nil {
		log.Warn("Failed to remove pending booking", zap.Error(err))
	}

	r.cache.Clear()
	cleared, err := r.pending.ClearAll(ctx)
	if err != nil {
		log.Warn("Failed to clear pending bookings", zap.Error(err))
	}

	log.Info("Availability cache invalidated", zap.Int("pending_cleared", cleared))
}

// Maintain вычищает истёкшие записи кеша и блокировки
func (r *Reconciler) Maintain(ctx context.Context) {
	evicted := r.cache.Cleanup()
	purged, err := r.pending.PurgeExpired(ctx)
	if err != nil {
		r.logger.Warn("Failed to purge pending bookings", zap.Error(err))
	}
	if evicted > 0 || purged > 0 {
		r.logger.Debug("Availability maintenance",
			zap.Int("cache_evicted", evicted),
			zap.Int("pending_purged", purged),
		)
	}
}
