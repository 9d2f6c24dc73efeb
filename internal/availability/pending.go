package availability

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/google/uuid"
)

const (
	// DefaultPendingTTL - время жизни мягкой блокировки по умолчанию
	DefaultPendingTTL = 60 * time.Second
	// BookingFlowTTL - время жизни блокировки на время подтверждения записи клиентом
	BookingFlowTTL = 120 * time.Second
)

// ErrAlreadyPending - слот уже удерживается живой блокировкой
var ErrAlreadyPending = errors.New("slot is already pending")

// PendingBooking - мягкая блокировка слота на время оформления записи.
// Не сохраняется в базе.
type PendingBooking struct {
	Date      time.Time     `json:"date"`
	TimeSlot  string        `json:"time_slot"`
	Token     uuid.UUID     `json:"token"` // владелец блокировки
	ClaimedAt time.Time     `json:"claimed_at"`
	TTL       time.Duration `json:"ttl"`
}

// ExpiresAt возвращает момент истечения блокировки
func (p PendingBooking) ExpiresAt() time.Time {
	return p.ClaimedAt.Add(p.TTL)
}

// Expired сообщает, истекла ли блокировка к моменту now
func (p PendingBooking) Expired(now time.Time) bool {
	return p.ExpiresAt().Before(now)
}

// PendingStore хранит мягкие блокировки слотов. На одну пару (дата, слот)
// приходится не больше одной записи, повторный захват перезаписывает её.
type PendingStore interface {
	Add(ctx context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error)
	// TryAdd захватывает слот, только если на нём нет живой блокировки,
	// иначе возвращает ErrAlreadyPending
	TryAdd(ctx context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error)
	Remove(ctx context.Context, date time.Time, slot string) error
	Get(ctx context.Context, date time.Time, slot string) (*PendingBooking, error)
	IsPending(ctx context.Context, date time.Time, slot string) (bool, error)
	PurgeExpired(ctx context.Context) (int, error)
	ClearAll(ctx context.Context) (int, error)
}

type pendingKey struct {
	date string
	slot string
}

// Register - реализация PendingStore в памяти процесса
type Register struct {
	mu      sync.Mutex
	entries map[pendingKey]PendingBooking
	now     func() time.Time
}

// RegisterOption настраивает Register
type RegisterOption func(*Register)

// WithRegisterClock подменяет источник времени (для тестов)
func WithRegisterClock(now func() time.Time) RegisterOption {
	return func(r *Register) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegister создаёт пустой реестр блокировок
func NewRegister(opts ...RegisterOption) *Register {
	r := &Register{
		entries: make(map[pendingKey]PendingBooking),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func keyOf(date time.Time, slot string) pendingKey {
	return pendingKey{date: model.DateKey(date), slot: slot}
}

// Add сначала вычищает истёкшие блокировки, затем захватывает слот.
// ttl <= 0 означает DefaultPendingTTL.
func (r *Register) Add(_ context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error) {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()
	return r.storeLocked(date, slot, ttl), nil
}

// TryAdd захватывает слот, если он не заблокирован. Проверка и запись
// выполняются под одной блокировкой.
func (r *Register) TryAdd(_ context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error) {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()
	if _, ok := r.entries[keyOf(date, slot)]; ok {
		return PendingBooking{}, ErrAlreadyPending
	}
	return r.storeLocked(date, slot, ttl), nil
}

func (r *Register) storeLocked(date time.Time, slot string, ttl time.Duration) PendingBooking {
	p := PendingBooking{
		Date:      date,
		TimeSlot:  slot,
		Token:     uuid.New(),
		ClaimedAt: r.now(),
		TTL:       ttl,
	}
	r.entries[keyOf(date, slot)] = p
	return p
}

// Remove снимает блокировку слота; отсутствие блокировки не ошибка
func (r *Register) Remove(_ context.Context, date time.Time, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, keyOf(date, slot))
	return nil
}

// Get возвращает живую блокировку слота или nil
func (r *Register) Get(_ context.Context, date time.Time, slot string) (*PendingBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()

	p, ok := r.entries[keyOf(date, slot)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// IsPending вычищает истёкшие блокировки и проверяет, заблокирован ли слот
func (r *Register) IsPending(ctx context.Context, date time.Time, slot string) (bool, error) {
	p, err := r.Get(ctx, date, slot)
	return p != nil, err
}

// PurgeExpired удаляет все истёкшие блокировки
func (r *Register) PurgeExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.purgeLocked(), nil
}

// ClearAll удаляет все блокировки независимо от срока
func (r *Register) ClearAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	r.entries = make(map[pendingKey]PendingBooking)
	return n, nil
}

// Len возвращает число хранимых блокировок
func (r *Register) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func (r *Register) purgeLocked() int {
	now := r.now()
	removed := 0
	for k, p := range r.entries {
		if p.Expired(now) {
			delete(r.entries, k)
			removed++
		}
	}
	return removed
}
