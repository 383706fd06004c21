package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestState(t *testing.T) {
	t.Parallel()

	t.Run("pending flags should accumulate", func(t *testing.T) {
		t.Parallel()

		state := RequestFetching.withPendingQuery()
		assert.Equal(t, RequestFetchingWithPendingQuery, state)
		assert.Equal(t, RequestFetchingWithPendingQuery, state.withPendingQuery())

		state = state.withPendingDraw()
		assert.Equal(t, RequestFetchingWithPendingQueryAndDraw, state)
		assert.True(t, state.HasPendingQuery())
		assert.True(t, state.HasPendingDraw())

		state = RequestFetching.withPendingDraw().withPendingQuery()
		assert.Equal(t, RequestFetchingWithPendingQueryAndDraw, state)
	})
	t.Run("idle should not carry pending flags", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, RequestIdle, RequestIdle.withPendingQuery())
		assert.Equal(t, RequestIdle, RequestIdle.withPendingDraw())
		assert.False(t, RequestIdle.InFlight())
		assert.False(t, RequestIdle.HasPendingQuery())
		assert.False(t, RequestIdle.HasPendingDraw())
	})
	t.Run("string", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Idle", RequestIdle.String())
		assert.Equal(t, "FetchingWithPendingQueryAndDraw", RequestFetchingWithPendingQueryAndDraw.String())
		assert.Equal(t, "Unknown", RequestState(100).String())
	})
}

func TestDrawState(t *testing.T) {
	t.Parallel()

	assert.False(t, DrawSettled.SelfInitiated())
	assert.True(t, DrawDrawing.SelfInitiated())
	assert.True(t, DrawDrawingWithPendingRedraw.SelfInitiated())
	assert.False(t, DrawRangeSettling.SelfInitiated())
	assert.Equal(t, "RangeSettling", DrawRangeSettling.String())
	assert.Equal(t, "Unknown", DrawState(-1).String())
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	t.Run("delay should double up to the cap", func(t *testing.T) {
		t.Parallel()

		b := newBackoff(time.Second, 10*time.Second)
		delays := make([]time.Duration, 0)
		for i := 0; i < 6; i++ {
			delays = append(delays, b.next())
		}

		assert.Equal(t, []time.Duration{
			time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second,
		}, delays)

		b.reset()
		assert.Equal(t, time.Second, b.next())
	})
	t.Run("max lower than min should be raised", func(t *testing.T) {
		t.Parallel()

		b := newBackoff(5*time.Second, time.Second)
		assert.Equal(t, 5*time.Second, b.next())
		assert.Equal(t, 5*time.Second, b.next())
	})
}
