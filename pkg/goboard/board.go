// Package goboard implements the Go board: move execution with capture,
// simple ko and suicide rules, snapshot-based undo, position hashing and
// Tromp-Taylor area scoring.
//
// The board is a 1-D array padded with a one-cell border, so neighbor
// access needs no bounds checks. Points are indices into that array.
package goboard

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/OneOfOne/xxhash"
)

const (
	MinSize = 2
	MaxSize = 19

	DefaultKomi = 7.5
)

// Color of a board cell.
type Color uint8

const (
	Empty Color = iota
	Black
	White
	Border
)

func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return c
}

func (c Color) String() string {
	switch c {
	case Empty:
		return "."
	case Black:
		return "X"
	case White:
		return "O"
	}
	return "#"
}

// Point indexes the padded board array.
type Point int32

const (
	// NullPoint marks "no point" (for example, no ko).
	NullPoint Point = -2

	// Pass is the pass move.
	Pass Point = -1
)

var (
	ErrOccupied = errors.New("goboard: point is occupied")
	ErrKo       = errors.New("goboard: ko recapture forbidden")
	ErrSuicide  = errors.New("goboard: suicide forbidden")
	ErrOffBoard = errors.New("goboard: point is off the board")
)

type snapshot struct {
	cells     []Color
	toPlay    Color
	ko        Point
	prisoners [2]int
}

// Board holds the position and a snapshot stack for undo. Not safe for
// concurrent use; every search worker owns a copy.
type Board struct {
	size   int
	stride int
	cells  []Color
	toPlay Color

	// ko is the point forbidden by the simple ko rule, or NullPoint.
	ko Point

	// prisoners counts captured stones per captured color (index Black-1,
	// White-1).
	prisoners [2]int

	moves     []Point
	snapshots []snapshot

	// Flood-fill scratch. markGen versioning avoids clearing the mark
	// array between fills.
	mark    []int32
	markGen int32
	stack   []Point
}

// NewBoard creates an empty board. Black moves first.
func NewBoard(size int) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("goboard: size %d outside [%d,%d]", size, MinSize, MaxSize)
	}
	b := &Board{
		size:   size,
		stride: size + 2,
	}
	total := b.stride * b.stride
	b.cells = make([]Color, total)
	b.mark = make([]int32, total)
	b.Reset()
	return b, nil
}

// Reset clears the position and the move history.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Border
	}
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			b.cells[b.Pt(row, col)] = Empty
		}
	}
	b.toPlay = Black
	b.ko = NullPoint
	b.prisoners = [2]int{}
	b.moves = b.moves[:0]
	b.snapshots = b.snapshots[:0]
}

func (b *Board) Size() int { return b.size }

// NumCells is the length of the padded array; search move tables are sized
// by it.
func (b *Board) NumCells() int { return len(b.cells) }

func (b *Board) ToPlay() Color { return b.toPlay }

func (b *Board) SetToPlay(c Color) { b.toPlay = c }

func (b *Board) KoPoint() Point { return b.ko }

func (b *Board) Prisoners(c Color) int { return b.prisoners[c-1] }

func (b *Board) MoveNumber() int { return len(b.moves) }

func (b *Board) Moves() []Point { return b.moves }

func (b *Board) LastMove() Point {
	if len(b.moves) == 0 {
		return NullPoint
	}
	return b.moves[len(b.moves)-1]
}

// Pt maps zero-based (row, col) to a point.
func (b *Board) Pt(row, col int) Point {
	return Point((row+1)*b.stride + col + 1)
}

func (b *Board) Row(p Point) int { return int(p)/b.stride - 1 }

func (b *Board) Col(p Point) int { return int(p)%b.stride - 1 }

func (b *Board) Color(p Point) Color { return b.cells[p] }

func (b *Board) IsEmpty(p Point) bool { return b.cells[p] == Empty }

func (b *Board) OnBoard(p Point) bool {
	return p >= 0 && int(p) < len(b.cells) && b.cells[p] != Border
}

func (b *Board) up(p Point) Point    { return p - Point(b.stride) }
func (b *Board) down(p Point) Point  { return p + Point(b.stride) }
func (b *Board) left(p Point) Point  { return p - 1 }
func (b *Board) right(p Point) Point { return p + 1 }

// EachPoint calls f for every on-board point.
func (b *Board) EachPoint(f func(Point)) {
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			f(b.Pt(row, col))
		}
	}
}

// EmptyPoints appends all empty points to dst.
func (b *Board) EmptyPoints(dst []Point) []Point {
	for row := 0; row < b.size; row++ {
		base := b.Pt(row, 0)
		for col := 0; col < b.size; col++ {
			if p := base + Point(col); b.cells[p] == Empty {
				dst = append(dst, p)
			}
		}
	}
	return dst
}

func (b *Board) pushSnapshot() {
	var s snapshot
	if n := len(b.snapshots); n < cap(b.snapshots) {
		// Recycle the cell buffer of a popped snapshot.
		s = b.snapshots[:n+1][n]
	}
	if s.cells == nil {
		s.cells = make([]Color, len(b.cells))
	}
	copy(s.cells, b.cells)
	s.toPlay = b.toPlay
	s.ko = b.ko
	s.prisoners = b.prisoners
	b.snapshots = append(b.snapshots[:len(b.snapshots)], s)
}

func (b *Board) popSnapshot() {
	n := len(b.snapshots) - 1
	s := b.snapshots[n]
	copy(b.cells, s.cells)
	b.toPlay = s.toPlay
	b.ko = s.ko
	b.prisoners = s.prisoners
	b.snapshots = b.snapshots[:n]
}

// Play executes a move for the side to move. On error the position is
// unchanged. Pass is always legal.
func (b *Board) Play(p Point) error {
	if p == Pass {
		b.pushSnapshot()
		b.moves = append(b.moves, Pass)
		b.ko = NullPoint
		b.toPlay = b.toPlay.Opponent()
		return nil
	}
	if !b.OnBoard(p) {
		return ErrOffBoard
	}
	if b.cells[p] != Empty {
		return ErrOccupied
	}
	if p == b.ko {
		return ErrKo
	}

	b.pushSnapshot()
	me := b.toPlay
	opp := me.Opponent()
	b.cells[p] = me

	captured := 0
	var koCandidate Point = NullPoint
	for _, n := range [4]Point{b.up(p), b.down(p), b.left(p), b.right(p)} {
		if b.cells[n] == opp && !b.hasLiberty(n) {
			first := n
			captured += b.removeGroup(n)
			koCandidate = first
		}
	}

	if captured == 0 && !b.hasLiberty(p) {
		b.popSnapshot()
		return ErrSuicide
	}

	b.prisoners[opp-1] += captured

	// Simple ko: a single-stone capture by a stone that itself has exactly
	// one liberty forbids the immediate recapture.
	b.ko = NullPoint
	if captured == 1 && b.groupSize(p) == 1 && b.libertyCount(p, 2) == 1 {
		b.ko = koCandidate
	}

	b.moves = append(b.moves, p)
	b.toPlay = opp
	return nil
}

// Undo takes back the last move. Panics if there is none.
func (b *Board) Undo() {
	b.popSnapshot()
	b.moves = b.moves[:len(b.moves)-1]
}

// IsLegal reports whether the side to move may play p.
func (b *Board) IsLegal(p Point) bool {
	if p == Pass {
		return true
	}
	if !b.OnBoard(p) || b.cells[p] != Empty || p == b.ko {
		return false
	}
	if err := b.Play(p); err != nil {
		return false
	}
	b.Undo()
	return true
}

func (b *Board) nextMark() {
	b.markGen++
	if b.markGen == 0 {
		for i := range b.mark {
			b.mark[i] = 0
		}
		b.markGen = 1
	}
}

// hasLiberty reports whether the group containing p has at least one
// liberty.
func (b *Board) hasLiberty(p Point) bool {
	return b.libertyCount(p, 1) >= 1
}

// libertyCount counts liberties of the group at p, stopping at max.
func (b *Board) libertyCount(p Point, max int) int {
	color := b.cells[p]
	b.nextMark()
	b.stack = append(b.stack[:0], p)
	b.mark[p] = b.markGen
	libs := 0
	for len(b.stack) > 0 {
		q := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		for _, n := range [4]Point{b.up(q), b.down(q), b.left(q), b.right(q)} {
			if b.mark[n] == b.markGen {
				continue
			}
			switch b.cells[n] {
			case Empty:
				b.mark[n] = b.markGen
				libs++
				if libs >= max {
					return libs
				}
			case color:
				b.mark[n] = b.markGen
				b.stack = append(b.stack, n)
			}
		}
	}
	return libs
}

func (b *Board) groupSize(p Point) int {
	color := b.cells[p]
	b.nextMark()
	b.stack = append(b.stack[:0], p)
	b.mark[p] = b.markGen
	size := 0
	for len(b.stack) > 0 {
		q := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		size++
		for _, n := range [4]Point{b.up(q), b.down(q), b.left(q), b.right(q)} {
			if b.cells[n] == color && b.mark[n] != b.markGen {
				b.mark[n] = b.markGen
				b.stack = append(b.stack, n)
			}
		}
	}
	return size
}

func (b *Board) removeGroup(p Point) int {
	color := b.cells[p]
	b.stack = append(b.stack[:0], p)
	b.cells[p] = Empty
	removed := 0
	for len(b.stack) > 0 {
		q := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		removed++
		for _, n := range [4]Point{b.up(q), b.down(q), b.left(q), b.right(q)} {
			if b.cells[n] == color {
				b.cells[n] = Empty
				b.stack = append(b.stack, n)
			}
		}
	}
	return removed
}

// Liberties counts the liberties of the group at p without a cap. p must
// hold a stone.
func (b *Board) Liberties(p Point) int {
	return b.libertyCount(p, len(b.cells))
}

// AtariPoint returns the single liberty of the group at p, or NullPoint
// when the group has two or more. p must hold a stone.
func (b *Board) AtariPoint(p Point) Point {
	color := b.cells[p]
	b.nextMark()
	b.stack = append(b.stack[:0], p)
	b.mark[p] = b.markGen
	liberty := NullPoint
	for len(b.stack) > 0 {
		q := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		for _, n := range [4]Point{b.up(q), b.down(q), b.left(q), b.right(q)} {
			if b.mark[n] == b.markGen {
				continue
			}
			switch b.cells[n] {
			case Empty:
				if liberty != NullPoint {
					return NullPoint
				}
				b.mark[n] = b.markGen
				liberty = n
			case color:
				b.mark[n] = b.markGen
				b.stack = append(b.stack, n)
			}
		}
	}
	return liberty
}

// GroupSize returns the number of stones in the group at p. p must hold a
// stone.
func (b *Board) GroupSize(p Point) int {
	return b.groupSize(p)
}

// Hash returns a position hash covering the stones and the side to move.
// Two positions with equal hashes are treated as equal for move-history
// matching.
func (b *Board) Hash() uint64 {
	data := unsafe.Slice((*byte)(unsafe.Pointer(&b.cells[0])), len(b.cells))
	return xxhash.Checksum64S(data, uint64(b.toPlay))
}

// IsEyeLike reports whether p is a practically safe eye point for color c:
// all orthogonal neighbors belong to c, and the diagonals give the
// opponent no cutting potential (at most one opponent diagonal in the
// center, none on the edge).
func (b *Board) IsEyeLike(p Point, c Color) bool {
	if b.cells[p] != Empty {
		return false
	}
	for _, n := range [4]Point{b.up(p), b.down(p), b.left(p), b.right(p)} {
		if b.cells[n] != c && b.cells[n] != Border {
			return false
		}
	}
	oppDiag := 0
	edge := 0
	opp := c.Opponent()
	for _, n := range [4]Point{
		b.up(p) - 1, b.up(p) + 1, b.down(p) - 1, b.down(p) + 1,
	} {
		switch b.cells[n] {
		case opp:
			oppDiag++
		case Border:
			edge = 1
		}
	}
	return oppDiag+edge < 2
}

// SelfAtari reports whether playing p as color c would leave the resulting
// own group with a single liberty.
func (b *Board) SelfAtari(p Point, c Color) bool {
	if b.cells[p] != Empty {
		return false
	}
	saved := b.toPlay
	b.toPlay = c
	if err := b.Play(p); err != nil {
		b.toPlay = saved
		return false
	}
	libs := b.libertyCount(p, 2)
	b.Undo()
	b.toPlay = saved
	return libs == 1
}

// TrompTaylorScore returns the area score from Black's perspective: black
// area minus white area minus komi. Empty regions touching both colors
// count for neither.
func (b *Board) TrompTaylorScore(komi float64) float64 {
	black, white := 0, 0
	b.nextMark()
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			p := b.Pt(row, col)
			switch b.cells[p] {
			case Black:
				black++
			case White:
				white++
			case Empty:
				if b.mark[p] == b.markGen {
					continue
				}
				size, owner := b.emptyRegion(p)
				switch owner {
				case Black:
					black += size
				case White:
					white += size
				}
			}
		}
	}
	return float64(black) - float64(white) - komi
}

// emptyRegion flood-fills the empty region at p, marking it, and returns
// its size and owning color (Empty if the region touches both colors).
func (b *Board) emptyRegion(p Point) (int, Color) {
	b.stack = append(b.stack[:0], p)
	b.mark[p] = b.markGen
	size := 0
	touchesBlack, touchesWhite := false, false
	for len(b.stack) > 0 {
		q := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		size++
		for _, n := range [4]Point{b.up(q), b.down(q), b.left(q), b.right(q)} {
			switch b.cells[n] {
			case Black:
				touchesBlack = true
			case White:
				touchesWhite = true
			case Empty:
				if b.mark[n] != b.markGen {
					b.mark[n] = b.markGen
					b.stack = append(b.stack, n)
				}
			}
		}
	}
	switch {
	case touchesBlack && !touchesWhite:
		return size, Black
	case touchesWhite && !touchesBlack:
		return size, White
	}
	return size, Empty
}

// TwoPassesEnded reports whether the game ended with two consecutive
// passes.
func (b *Board) TwoPassesEnded() bool {
	n := len(b.moves)
	return n >= 2 && b.moves[n-1] == Pass && b.moves[n-2] == Pass
}

// Copy returns a deep copy sharing no state, with an empty snapshot stack.
func (b *Board) Copy() *Board {
	nb := &Board{
		size:      b.size,
		stride:    b.stride,
		cells:     append([]Color(nil), b.cells...),
		toPlay:    b.toPlay,
		ko:        b.ko,
		prisoners: b.prisoners,
		moves:     append([]Point(nil), b.moves...),
		mark:      make([]int32, len(b.cells)),
	}
	return nb
}

// String renders the position with row 0 at the bottom, in the usual
// text-board orientation.
func (b *Board) String() string {
	buf := make([]byte, 0, (b.size+1)*(2*b.size+2))
	for row := b.size - 1; row >= 0; row-- {
		for col := 0; col < b.size; col++ {
			buf = append(buf, b.cells[b.Pt(row, col)].String()[0], ' ')
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
