package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInFlight_OneCallPerSession(t *testing.T) {
	m := NewInFlight(time.Minute)
	require.True(t, m.TryAcquire("a"))
	require.False(t, m.TryAcquire("a"))
	require.True(t, m.TryAcquire("b"))

	m.Release("a")
	require.True(t, m.TryAcquire("a"))
	require.Equal(t, 2, m.Len())
}

func TestInFlight_StaleEntriesExpire(t *testing.T) {
	now := time.Unix(1000, 0)
	m := NewInFlight(time.Minute)
	m.now = func() time.Time { return now }

	require.True(t, m.TryAcquire("a"))
	require.True(t, m.TryAcquire("b"))
	now = now.Add(30 * time.Second)
	require.False(t, m.TryAcquire("a"))

	now = now.Add(31 * time.Second)
	require.True(t, m.TryAcquire("a"))
	require.Equal(t, 1, m.Len(), "b should have been purged")
}
