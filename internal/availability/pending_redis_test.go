package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRegister(t *testing.T) (*RedisRegister, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRegister(client, ""), mr, client
}

func TestRedisRegisterClaimAndExpire(t *testing.T) {
	ctx := context.Background()
	r, mr, _ := newTestRedisRegister(t)
	date := mustDate("2025-03-26")

	claimed, err := r.Add(ctx, date, "09:00", 2*time.Second)
	require.NoError(t, err)

	pending, err := r.IsPending(ctx, date, "09:00")
	require.NoError(t, err)
	assert.True(t, pending)

	live, err := r.Get(ctx, date, "09:00")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, claimed.Token, live.Token)
	assert.Equal(t, "09:00", live.TimeSlot)

	mr.FastForward(3 * time.Second)

	pending, err = r.IsPending(ctx, date, "09:00")
	require.NoError(t, err)
	assert.False(t, pending)

	live, err = r.Get(ctx, date, "09:00")
	require.NoError(t, err)
	assert.Nil(t, live)
}

func TestRedisRegisterRemove(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRedisRegister(t)
	date := mustDate("2025-03-26")

	_, err := r.Add(ctx, date, "09:00", time.Minute)
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, date, "09:00"))
	require.NoError(t, r.Remove(ctx, date, "09:00"))

	pending, err := r.IsPending(ctx, date, "09:00")
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestRedisRegisterClearAllKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	r, mr, _ := newTestRedisRegister(t)
	date := mustDate("2025-03-26")

	require.NoError(t, mr.Set("unrelated", "x"))
	for _, slot := range []string{"09:00", "09:30"} {
		_, err := r.Add(ctx, date, slot, time.Minute)
		require.NoError(t, err)
	}

	n, err := r.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisRegisterConnectionError(t *testing.T) {
	ctx := context.Background()
	r, mr, _ := newTestRedisRegister(t)
	mr.Close()

	_, err := r.IsPending(ctx, mustDate("2025-03-26"), "09:00")
	assert.Error(t, err)
}

func TestRedisRegisterTryAddKeepsLiveOwner(t *testing.T) {
	ctx := context.Background()
	r, mr, _ := newTestRedisRegister(t)
	date := mustDate("2025-03-26")

	first, err := r.TryAdd(ctx, date, "09:00", 2*time.Second)
	require.NoError(t, err)

	_, err = r.TryAdd(ctx, date, "09:00", 2*time.Second)
	assert.ErrorIs(t, err, ErrAlreadyPending)

	live, err := r.Get(ctx, date, "09:00")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, first.Token, live.Token)

	mr.FastForward(3 * time.Second)

	second, err := r.TryAdd(ctx, date, "09:00", 2*time.Second)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}
