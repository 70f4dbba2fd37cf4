package player

import (
	"time"

	"github.com/tesuji-go/tesuji/pkg/goboard"
)

// TimeControl splits the remaining clock time over the expected rest of
// the game. The estimate assumes a game fills about half the board and
// never drops below a floor, so the budget stays sane in overtime.
type TimeControl struct {
	// MinMovesRemaining floors the divisor.
	MinMovesRemaining int

	// ReserveFraction of the remaining time is held back for the endgame.
	ReserveFraction float64
}

func NewTimeControl() *TimeControl {
	return &TimeControl{
		MinMovesRemaining: 10,
		ReserveFraction:   0.1,
	}
}

// Budget returns the search time for the next move given the remaining
// clock time. Non-positive remaining means no information; the caller
// falls back to the configured maximum.
func (tc *TimeControl) Budget(b *goboard.Board, remaining time.Duration) time.Duration {
	if remaining <= 0 {
		return 0
	}
	size := b.Size()
	estimated := size*size/2 - b.MoveNumber()/2
	if estimated < tc.MinMovesRemaining {
		estimated = tc.MinMovesRemaining
	}
	usable := float64(remaining) * (1 - tc.ReserveFraction)
	return time.Duration(usable / float64(estimated))
}
