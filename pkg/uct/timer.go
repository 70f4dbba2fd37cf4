package uct

import "time"

type searchTimer struct {
	start    time.Time
	duration time.Duration
}

func (t *searchTimer) Reset(duration time.Duration) {
	t.start = time.Now()
	t.duration = duration
}

func (t *searchTimer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// IsEnd reports whether the budget has run out. A non-positive duration
// means no time limit.
func (t *searchTimer) IsEnd() bool {
	return t.duration > 0 && time.Since(t.start) >= t.duration
}

func (t *searchTimer) Remaining() time.Duration {
	if t.duration <= 0 {
		return 0
	}
	return t.duration - time.Since(t.start)
}
