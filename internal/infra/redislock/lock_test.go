package redislock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

func newLocker(t *testing.T) (*SlotLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSlotLocker(client, 5*time.Second), mr
}

func TestWithSlotLockRunsAndReleases(t *testing.T) {
	l, mr := newLocker(t)

	ran := false
	err := l.WithSlotLock(context.Background(), "2026-10-21T10:00", func(ctx context.Context) error {
		ran = true
		assert.True(t, mr.Exists(keyPrefix+"2026-10-21T10:00"))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists(keyPrefix+"2026-10-21T10:00"))
}

func TestWithSlotLockContended(t *testing.T) {
	l, _ := newLocker(t)

	err := l.WithSlotLock(context.Background(), "slot", func(ctx context.Context) error {
		return l.WithSlotLock(ctx, "slot", func(context.Context) error {
			t.Fatal("inner section must not run")
			return nil
		})
	})

	assert.ErrorIs(t, err, domain.ErrSlotLocked)
}

func TestWithSlotLockPropagatesError(t *testing.T) {
	l, mr := newLocker(t)

	boom := errors.New("boom")
	err := l.WithSlotLock(context.Background(), "slot", func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(keyPrefix+"slot"))
}

func TestReleaseKeepsForeignToken(t *testing.T) {
	l, mr := newLocker(t)

	err := l.WithSlotLock(context.Background(), "slot", func(context.Context) error {
		// o lock expirou e outro processo assumiu
		require.NoError(t, mr.Set(keyPrefix+"slot", "someone-else"))
		return nil
	})

	require.NoError(t, err)
	v, err := mr.Get(keyPrefix + "slot")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestNewClientPing(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewClient(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	c.Close()

	mr.Close()
	_, err = NewClient(context.Background(), mr.Addr(), "")
	assert.Error(t, err)
}
