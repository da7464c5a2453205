package cache_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter() (func() (int, error), *int) {
	calls := 0
	return func() (int, error) {
		calls++
		return calls, nil
	}, &calls
}

func TestValue_GetComputesOnce(t *testing.T) {
	v := cache.NewValue[int](0)
	compute, calls := counter()

	for i := 0; i < 3; i++ {
		got, err := v.Get(compute)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	}
	assert.Equal(t, 1, *calls)

	at, ok := v.ComputedAt()
	assert.True(t, ok)
	assert.False(t, at.IsZero())
}

func TestValue_Invalidate(t *testing.T) {
	v := cache.NewValue[int](0)
	compute, calls := counter()

	_, err := v.Get(compute)
	require.NoError(t, err)
	v.Invalidate()
	_, ok := v.Peek()
	assert.False(t, ok)

	got, err := v.Get(compute)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, *calls)
}

func TestValue_ErrorNotCached(t *testing.T) {
	v := cache.NewValue[string](0)
	boom := errors.New("boom")

	_, err := v.Get(func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	got, err := v.Get(func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestValue_ExpireAfter(t *testing.T) {
	v := cache.NewValue[int](0)
	compute, calls := counter()

	_, err := v.Get(compute)
	require.NoError(t, err)

	// changing the ttl drops the cached result
	v.ExpireAfter(20 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, v.TTL())
	_, ok := v.Peek()
	assert.False(t, ok)

	_, err = v.Get(compute)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)

	time.Sleep(60 * time.Millisecond)
	got, err := v.Get(compute)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestValue_ExpireAfterRepeatedly(t *testing.T) {
	v := cache.NewValue[int](time.Minute)
	compute, _ := counter()

	before := runtime.NumGoroutine()
	for i := 1; i <= 100; i++ {
		v.ExpireAfter(time.Duration(i) * time.Second)
		_, err := v.Get(compute)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), before+5)
	assert.Equal(t, 100*time.Second, v.TTL())

	got, ok := v.Peek()
	require.True(t, ok)
	assert.Equal(t, 100, got)
}

func TestValue_Set(t *testing.T) {
	v := cache.NewValue[[]string](time.Hour)
	v.Set([]string{"a"})

	got, ok := v.Peek()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got)
}
