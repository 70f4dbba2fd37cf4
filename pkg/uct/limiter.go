package uct

import (
	"context"
	"sync/atomic"
	"time"
)

// StopReason records why a search terminated.
type StopReason int

const (
	StopNone StopReason = iota
	// StopInterrupt: external abort via Stop or context cancellation.
	StopInterrupt
	// StopMaxGames: the cumulative simulation budget was used up.
	StopMaxGames
	// StopMaxTime: the wall-clock budget ran out.
	StopMaxTime
	// StopEarlyAbort: the root value left the trivial-decision band.
	StopEarlyAbort
)

func (sr StopReason) String() string {
	switch sr {
	case StopNone:
		return "None"
	case StopInterrupt:
		return "Interrupt"
	case StopMaxGames:
		return "MaxGames"
	case StopMaxTime:
		return "MaxTime"
	case StopEarlyAbort:
		return "EarlyAbort"
	}
	return "Unknown"
}

// EarlyAbortParam terminates a search once the root is decided: visited at
// least MinGames times with a mean above Threshold. ReductionFactor is the
// budget divisor for the verification search the player runs afterwards.
type EarlyAbortParam struct {
	Threshold       float64
	MinGames        uint64
	ReductionFactor uint64
}

// limiter owns the composite termination predicate: game count, wall
// clock, external abort and the "root decided" early abort. Workers poll
// Ok at visit boundaries; a worker observing a limit finishes its current
// backup and exits.
type limiter struct {
	timer    searchTimer
	maxGames uint64

	stop   atomic.Bool
	ctx    context.Context
	reason atomic.Int32

	// Time is sampled every checkTimeInterval games to avoid a clock call
	// per visit; the interval is recalibrated from the observed game rate.
	checkTimeInterval atomic.Uint64
	wasEarlyAbort     atomic.Bool
	earlyAbort        *EarlyAbortParam
}

func (l *limiter) Reset(maxGames uint64, maxTime time.Duration, earlyAbort *EarlyAbortParam) {
	l.timer.Reset(maxTime)
	l.maxGames = maxGames
	l.stop.Store(false)
	l.reason.Store(int32(StopNone))
	l.checkTimeInterval.Store(1)
	l.wasEarlyAbort.Store(false)
	l.earlyAbort = earlyAbort
}

func (l *limiter) SetContext(ctx context.Context) { l.ctx = ctx }

func (l *limiter) SetStop() { l.triggered(StopInterrupt) }

func (l *limiter) Stopped() bool { return l.stop.Load() }

func (l *limiter) StopReason() StopReason { return StopReason(l.reason.Load()) }

func (l *limiter) WasEarlyAbort() bool { return l.wasEarlyAbort.Load() }

func (l *limiter) Elapsed() time.Duration { return l.timer.Elapsed() }

// triggered raises the stop flag, keeping the first reason.
func (l *limiter) triggered(reason StopReason) {
	l.reason.CompareAndSwap(int32(StopNone), int32(reason))
	l.stop.Store(true)
}

// Ok decides whether another visit may start. games is the number of
// completed games so far; rootMean the current root value.
func (l *limiter) Ok(games uint64, rootMean float64, rootGames uint64) bool {
	if l.stop.Load() {
		return false
	}
	if l.ctx != nil {
		select {
		case <-l.ctx.Done():
			l.triggered(StopInterrupt)
			return false
		default:
		}
	}
	if games >= l.maxGames {
		l.triggered(StopMaxGames)
		return false
	}
	if ea := l.earlyAbort; ea != nil && rootGames >= ea.MinGames && rootMean > ea.Threshold {
		l.wasEarlyAbort.Store(true)
		l.triggered(StopEarlyAbort)
		return false
	}
	interval := l.checkTimeInterval.Load()
	if interval == 0 || games%interval == 0 {
		if l.timer.IsEnd() {
			l.triggered(StopMaxTime)
			return false
		}
		l.recalibrate(games)
	}
	return true
}

// recalibrate aims for roughly ten clock samples per second.
func (l *limiter) recalibrate(games uint64) {
	elapsed := l.timer.Elapsed()
	if elapsed < 50*time.Millisecond || games == 0 {
		return
	}
	gamesPerSecond := float64(games) / elapsed.Seconds()
	interval := uint64(gamesPerSecond / 10)
	if interval < 1 {
		interval = 1
	}
	l.checkTimeInterval.Store(interval)
}
