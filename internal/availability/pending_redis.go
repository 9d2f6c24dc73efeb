package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DefaultRedisPrefix - префикс ключей блокировок в Redis
const DefaultRedisPrefix = "barbershop:pending:"

// RedisRegister - реализация PendingStore поверх Redis. Блокировки видны
// всем экземплярам сервиса, истечение выполняет сам Redis.
type RedisRegister struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisRegister создаёт реестр блокировок в Redis
func NewRedisRegister(client redis.Cmdable, prefix string) *RedisRegister {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRegister{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisRegister) key(date time.Time, slot string) string {
	return fmt.Sprintf("%s%s:%s", r.prefix, model.DateKey(date), slot)
}

// Add захватывает слот, перезаписывая предыдущую блокировку
func (r *RedisRegister) Add(ctx context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error) {
	p, payload, err := r.newBooking(date, slot, ttl)
	if err != nil {
		return PendingBooking{}, err
	}

	if err := r.client.Set(ctx, r.key(date, slot), payload, p.TTL).Err(); err != nil {
		return PendingBooking{}, fmt.Errorf("set pending booking: %w", err)
	}
	return p, nil
}

// TryAdd захватывает слот через SETNX: живой ключ другого владельца
// не перезаписывается
func (r *RedisRegister) TryAdd(ctx context.Context, date time.Time, slot string, ttl time.Duration) (PendingBooking, error) {
	p, payload, err := r.newBooking(date, slot, ttl)
	if err != nil {
		return PendingBooking{}, err
	}

	ok, err := r.client.SetNX(ctx, r.key(date, slot), payload, p.TTL).Result()
	if err != nil {
		return PendingBooking{}, fmt.Errorf("setnx pending booking: %w", err)
	}
	if !ok {
		return PendingBooking{}, ErrAlreadyPending
	}
	return p, nil
}

func (r *RedisRegister) newBooking(date time.Time, slot string, ttl time.Duration) (PendingBooking, []byte, error) {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}

	p := PendingBooking{
		Date:      date,
		TimeSlot:  slot,
		Token:     uuid.New(),
		ClaimedAt: r.now(),
		TTL:       ttl,
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return PendingBooking{}, nil, fmt.Errorf("marshal pending booking: %w", err)
	}
	return p, payload, nil
}

// Remove снимает блокировку слота
func (r *RedisRegister) Remove(ctx context.Context, date time.Time, slot string) error {
	if err := r.client.Del(ctx, r.key(date, slot)).Err(); err != nil {
		return fmt.Errorf("delete pending booking: %w", err)
	}
	return nil
}

// Get возвращает живую блокировку слота или nil
func (r *RedisRegister) Get(ctx context.Context, date time.Time, slot string) (*PendingBooking, error) {
	payload, err := r.client.Get(ctx, r.key(date, slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending booking: %w", err)
	}

	var p PendingBooking
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("unmarshal pending booking: %w", err)
	}
	return &p, nil
}

// IsPending проверяет, заблокирован ли слот
func (r *RedisRegister) IsPending(ctx context.Context, date time.Time, slot string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(date, slot)).Result()
	if err != nil {
		return false, fmt.Errorf("check pending booking: %w", err)
	}
	return n > 0, nil
}

// PurgeExpired ничего не делает: ключи истекают в Redis сами
func (r *RedisRegister) PurgeExpired(_ context.Context) (int, error) {
	return 0, nil
}

// ClearAll удаляет все блокировки с префиксом реестра
func (r *RedisRegister) ClearAll(ctx context.Context) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := r.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, fmt.Errorf("delete pending booking: %w", err)
		}
		removed += int(n)
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan pending bookings: %w", err)
	}
	return removed, nil
}
