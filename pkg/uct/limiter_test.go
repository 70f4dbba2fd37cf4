package uct

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterMaxGames(t *testing.T) {
	var l limiter
	l.Reset(10, 0, nil)

	assert.True(t, l.Ok(9, 0.5, 100))
	assert.False(t, l.Ok(10, 0.5, 100))
	assert.Equal(t, StopMaxGames, l.StopReason())
	assert.True(t, l.Stopped())
}

func TestLimiterMaxTime(t *testing.T) {
	var l limiter
	l.Reset(1000000, time.Millisecond, nil)
	time.Sleep(5 * time.Millisecond)

	assert.False(t, l.Ok(0, 0.5, 0))
	assert.Equal(t, StopMaxTime, l.StopReason())
}

func TestLimiterStopKeepsFirstReason(t *testing.T) {
	var l limiter
	l.Reset(10, 0, nil)

	assert.False(t, l.Ok(10, 0.5, 0))
	l.SetStop()
	assert.Equal(t, StopMaxGames, l.StopReason())
}

func TestLimiterEarlyAbort(t *testing.T) {
	ea := &EarlyAbortParam{Threshold: 0.9, MinGames: 50, ReductionFactor: 2}
	var l limiter
	l.Reset(1000000, 0, ea)

	// Not enough root games yet.
	assert.True(t, l.Ok(100, 0.95, 49))
	// Value inside the undecided band.
	assert.True(t, l.Ok(101, 0.9, 60))
	// Decided.
	assert.False(t, l.Ok(102, 0.95, 60))
	assert.True(t, l.WasEarlyAbort())
	assert.Equal(t, StopEarlyAbort, l.StopReason())
}

func TestLimiterContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var l limiter
	l.Reset(1000000, 0, nil)
	l.SetContext(ctx)

	assert.True(t, l.Ok(0, 0.5, 0))
	cancel()
	assert.False(t, l.Ok(1, 0.5, 0))
	assert.Equal(t, StopInterrupt, l.StopReason())
}

func TestStatisticsMerge(t *testing.T) {
	var a, b Statistics
	a.Add(1)
	a.Add(3)
	b.Add(5)

	a.Merge(b)
	assert.Equal(t, uint64(3), a.Count())
	assert.InDelta(t, 3.0, a.Mean(), 1e-9)

	a.Clear()
	assert.Equal(t, uint64(0), a.Count())
}
