package cache

import (
	"sync"
	"time"
)

// DefaultTTL - время жизни записи, если не указано явно
const DefaultTTL = 30 * time.Second

type entry[V any] struct {
	value      V
	insertedAt time.Time
	ttl        time.Duration
}

func (e entry[V]) expired(now time.Time) bool {
	return now.After(e.insertedAt.Add(e.ttl))
}

// Cache - потокобезопасный кеш ключ-значение с временем жизни записей.
// Промах кеша всегда равносилен запросу в хранилище.
type Cache[V any] struct {
	mu    sync.Mutex
	items map[string]entry[V]
	now   func() time.Time
}

// Option настраивает кеш
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New создаёт пустой кеш
func New[V any](opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		items: make(map[string]entry[V]),
		now:   o.now,
	}
}

// Set сохраняет значение, перезаписывая существующее. ttl <= 0 означает DefaultTTL.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[V]{
		value:      value,
		insertedAt: c.now(),
		ttl:        ttl,
	}
}

// Get возвращает значение, если оно не истекло. Истёкшая запись удаляется.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

// Remove удаляет запись; отсутствие ключа не ошибка
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear очищает весь кеш
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry[V])
}

// Cleanup удаляет все истёкшие записи и возвращает их количество
func (c *Cache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.items {
		if e.expired(now) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Len возвращает число записей, включая ещё не вычищенные истёкшие
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}
