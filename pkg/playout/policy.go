// Package playout connects the search core to the Go board: it implements
// the per-worker thread state, the random playout policy and the prior
// knowledge oracles.
package playout

import (
	"math/rand"

	"github.com/tesuji-go/tesuji/pkg/goboard"
)

// Policy is the light playout policy: a uniformly random legal move that
// does not fill an eye-like point of the mover. Each worker owns one; the
// RNG comes from the worker seed.
type Policy struct {
	rng     *rand.Rand
	empties []goboard.Point
}

func NewPolicy(rng *rand.Rand) *Policy {
	return &Policy{rng: rng}
}

// GenerateMove picks a playout move for the side to move, or Pass when
// nothing sensible is left. The eye filter keeps playouts from destroying
// settled groups, which would make every game end 0-0.
func (p *Policy) GenerateMove(b *goboard.Board) goboard.Point {
	if move := p.captureLastMove(b); move != goboard.Pass {
		return move
	}
	p.empties = b.EmptyPoints(p.empties[:0])
	toPlay := b.ToPlay()

	// Fisher-Yates on the fly: each candidate is drawn once.
	for n := len(p.empties); n > 0; n-- {
		i := p.rng.Intn(n)
		move := p.empties[i]
		p.empties[i] = p.empties[n-1]
		if b.IsEyeLike(move, toPlay) {
			continue
		}
		if b.IsLegal(move) {
			return move
		}
	}
	return goboard.Pass
}

// captureLastMove answers an opponent stone just played into atari by
// taking its group, the one tactical reflex cheap enough for the playout
// loop. Returns Pass when there is nothing to capture.
func (p *Policy) captureLastMove(b *goboard.Board) goboard.Point {
	last := b.LastMove()
	if last < 0 || b.Color(last) != b.ToPlay().Opponent() {
		return goboard.Pass
	}
	capture := b.AtariPoint(last)
	if capture != goboard.NullPoint && b.IsLegal(capture) {
		return capture
	}
	return goboard.Pass
}
