package playout

import (
	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

// evenPrior seeds every move with a neutral value and a small count, which
// smooths the first visits without steering them.
type evenPrior struct {
	count uint32
}

func (p *evenPrior) ProcessPosition() {}

func (p *evenPrior) InitializeMove(uct.Move) (float64, uint32) {
	return 0.5, p.count
}

// defaultPrior encodes cheap Go heuristics: passing and self-atari start
// discouraged, points near the last move start encouraged. Counts grade
// how confidently the heuristic speaks.
type defaultPrior struct {
	state  *GlobalState
	values []float64
	counts []uint32

	passValue float64
	passCount uint32
}

func newDefaultPrior(s *GlobalState) *defaultPrior {
	return &defaultPrior{state: s}
}

func (p *defaultPrior) ProcessPosition() {
	board := p.state.board
	if p.values == nil {
		p.values = make([]float64, board.NumCells())
		p.counts = make([]uint32, board.NumCells())
	}
	toPlay := board.ToPlay()
	last := board.LastMove()

	p.passValue = 0.1
	p.passCount = 9

	board.EachPoint(func(pt goboard.Point) {
		p.counts[pt] = 0
		if !board.IsEmpty(pt) {
			return
		}
		switch {
		case board.SelfAtari(pt, toPlay):
			p.values[pt] = 0.1
			p.counts[pt] = 9
		case last >= 0 && nearPoint(board, pt, last):
			p.values[pt] = 0.6
			p.counts[pt] = 9
		default:
			p.values[pt] = 0.5
			p.counts[pt] = 3
		}
	})
}

func nearPoint(b *goboard.Board, p, q goboard.Point) bool {
	dr := b.Row(p) - b.Row(q)
	dc := b.Col(p) - b.Col(q)
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc <= 2
}

func (p *defaultPrior) InitializeMove(move uct.Move) (float64, uint32) {
	if move == uct.Pass {
		return p.passValue, p.passCount
	}
	pt := goboard.Point(move)
	if int(pt) >= len(p.values) {
		return 0, 0
	}
	return p.values[pt], p.counts[pt]
}
