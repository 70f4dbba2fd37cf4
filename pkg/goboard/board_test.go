package goboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, size int) *Board {
	t.Helper()
	b, err := NewBoard(size)
	require.NoError(t, err)
	return b
}

func play(t *testing.T, b *Board, moves ...Point) {
	t.Helper()
	for _, m := range moves {
		require.NoError(t, b.Play(m))
	}
}

func TestNewBoardSizeValidation(t *testing.T) {
	_, err := NewBoard(1)
	assert.Error(t, err)
	_, err = NewBoard(20)
	assert.Error(t, err)
	b := mustBoard(t, 9)
	assert.Equal(t, 9, b.Size())
	assert.Equal(t, Black, b.ToPlay())
}

func TestPlayAndAlternation(t *testing.T) {
	b := mustBoard(t, 5)
	play(t, b, b.Pt(2, 2))
	assert.Equal(t, Black, b.Color(b.Pt(2, 2)))
	assert.Equal(t, White, b.ToPlay())
	assert.Equal(t, 1, b.MoveNumber())

	assert.ErrorIs(t, b.Play(b.Pt(2, 2)), ErrOccupied)
	assert.Equal(t, White, b.ToPlay())
}

func TestCaptureSingleStone(t *testing.T) {
	b := mustBoard(t, 5)
	// White stone at (1,1) surrounded by black.
	play(t, b,
		b.Pt(0, 1), b.Pt(1, 1),
		b.Pt(1, 0), Pass,
		b.Pt(1, 2), Pass,
		b.Pt(2, 1),
	)
	assert.Equal(t, Empty, b.Color(b.Pt(1, 1)))
	assert.Equal(t, 1, b.Prisoners(White))
	assert.Equal(t, 0, b.Prisoners(Black))
}

func TestCaptureGroup(t *testing.T) {
	b := mustBoard(t, 5)
	// White group (0,0)-(0,1) captured by surrounding black stones.
	play(t, b,
		b.Pt(1, 0), b.Pt(0, 0),
		b.Pt(1, 1), b.Pt(0, 1),
		b.Pt(0, 2),
	)
	assert.Equal(t, Empty, b.Color(b.Pt(0, 0)))
	assert.Equal(t, Empty, b.Color(b.Pt(0, 1)))
	assert.Equal(t, 2, b.Prisoners(White))
}

func TestSuicideForbidden(t *testing.T) {
	b := mustBoard(t, 5)
	// Black surrounds (1,1), white may not play into it.
	play(t, b,
		b.Pt(0, 1), Pass,
		b.Pt(1, 0), Pass,
		b.Pt(1, 2), Pass,
		b.Pt(2, 1), Pass,
	)
	b.SetToPlay(White)
	err := b.Play(b.Pt(1, 1))
	assert.ErrorIs(t, err, ErrSuicide)
	assert.Equal(t, Empty, b.Color(b.Pt(1, 1)))
	assert.Equal(t, White, b.ToPlay())
}

func koPosition(t *testing.T) *Board {
	// Classic ko shape:
	//   . X O .
	//   X O . O   <- black captures at (1,2)
	//   . X O .
	b := mustBoard(t, 5)
	play(t, b,
		b.Pt(0, 1), b.Pt(0, 2),
		b.Pt(1, 0), b.Pt(1, 3),
		b.Pt(2, 1), b.Pt(2, 2),
		Pass, b.Pt(1, 1),
	)
	return b
}

func TestSimpleKo(t *testing.T) {
	b := koPosition(t)
	require.NoError(t, b.Play(b.Pt(1, 2))) // black captures the ko
	assert.Equal(t, Empty, b.Color(b.Pt(1, 1)))
	assert.Equal(t, b.Pt(1, 1), b.KoPoint())

	// Immediate recapture is forbidden.
	assert.ErrorIs(t, b.Play(b.Pt(1, 1)), ErrKo)
	assert.False(t, b.IsLegal(b.Pt(1, 1)))

	// After a ko threat elsewhere the recapture opens up again.
	play(t, b, b.Pt(4, 4), Pass)
	assert.NoError(t, b.Play(b.Pt(1, 1)))
}

func TestUndoRestoresPosition(t *testing.T) {
	b := mustBoard(t, 5)
	play(t, b, b.Pt(0, 1), b.Pt(1, 1))
	before := b.Hash()
	prisoners := b.Prisoners(White)

	play(t, b, b.Pt(1, 0), Pass, b.Pt(1, 2), Pass, b.Pt(2, 1))
	require.Equal(t, 1, b.Prisoners(White))
	for i := 0; i < 5; i++ {
		b.Undo()
	}

	assert.Equal(t, before, b.Hash())
	assert.Equal(t, prisoners, b.Prisoners(White))
	assert.Equal(t, White, b.Color(b.Pt(1, 1)))
	assert.Equal(t, 2, b.MoveNumber())
}

func TestHashDistinguishesToPlay(t *testing.T) {
	a := mustBoard(t, 5)
	b := mustBoard(t, 5)
	b.SetToPlay(White)
	assert.NotEqual(t, a.Hash(), b.Hash())

	b.SetToPlay(Black)
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestIsEyeLike(t *testing.T) {
	b := mustBoard(t, 5)
	// Corner eye at (0,0) for black.
	play(t, b, b.Pt(0, 1), Pass, b.Pt(1, 0), Pass, b.Pt(1, 1), Pass)
	assert.True(t, b.IsEyeLike(b.Pt(0, 0), Black))
	assert.False(t, b.IsEyeLike(b.Pt(0, 0), White))

	// An opponent diagonal on the edge spoils the eye.
	b2 := mustBoard(t, 5)
	play(t, b2, b2.Pt(0, 1), b2.Pt(1, 1), b2.Pt(1, 0), Pass)
	assert.False(t, b2.IsEyeLike(b2.Pt(0, 0), Black))
}

func TestSelfAtari(t *testing.T) {
	b := mustBoard(t, 5)
	// Black surrounds (1,1) except one gap; a white stone there has a
	// single liberty.
	play(t, b, b.Pt(0, 1), Pass, b.Pt(1, 0), Pass, b.Pt(2, 1), Pass)
	assert.True(t, b.SelfAtari(b.Pt(1, 1), White))
	assert.False(t, b.SelfAtari(b.Pt(3, 3), White))
	// Probing must not disturb the position.
	assert.Equal(t, Black, b.ToPlay())
	assert.Equal(t, Empty, b.Color(b.Pt(1, 1)))
}

func TestAtariPoint(t *testing.T) {
	b := mustBoard(t, 5)
	// White group (1,1)-(1,2) ends up with (2,2) as its last liberty.
	play(t, b,
		b.Pt(0, 1), b.Pt(1, 1),
		b.Pt(1, 0), b.Pt(1, 2),
		b.Pt(0, 2), Pass,
		b.Pt(1, 3), Pass,
		b.Pt(2, 1),
	)
	assert.Equal(t, b.Pt(2, 2), b.AtariPoint(b.Pt(1, 1)))
	assert.Equal(t, b.Pt(2, 2), b.AtariPoint(b.Pt(1, 2)))
	// The surrounding black stones have plenty of liberties.
	assert.Equal(t, NullPoint, b.AtariPoint(b.Pt(0, 1)))
}

func TestTrompTaylorScore(t *testing.T) {
	b := mustBoard(t, 5)
	// Empty board: every point is neutral.
	assert.InDelta(t, -7.5, b.TrompTaylorScore(7.5), 1e-9)

	// A black wall on column 2 owns the whole board.
	for row := 0; row < 5; row++ {
		play(t, b, b.Pt(row, 2), Pass)
	}
	assert.InDelta(t, 25-7.5, b.TrompTaylorScore(7.5), 1e-9)

	// A white stone splits off territory.
	b.SetToPlay(White)
	play(t, b, b.Pt(2, 4))
	// Black wall 5 + left territory 10; white stone 1; the right side
	// touches both colors and is neutral.
	assert.InDelta(t, 15-1-7.5, b.TrompTaylorScore(7.5), 1e-9)
}

func TestTwoPassesEnded(t *testing.T) {
	b := mustBoard(t, 5)
	assert.False(t, b.TwoPassesEnded())
	play(t, b, b.Pt(0, 0), Pass)
	assert.False(t, b.TwoPassesEnded())
	play(t, b, Pass)
	assert.True(t, b.TwoPassesEnded())
}

func TestCopyIsIndependent(t *testing.T) {
	b := mustBoard(t, 5)
	play(t, b, b.Pt(2, 2))
	c := b.Copy()
	require.Equal(t, b.Hash(), c.Hash())

	play(t, c, c.Pt(3, 3))
	assert.NotEqual(t, b.Hash(), c.Hash())
	assert.Equal(t, Empty, b.Color(b.Pt(3, 3)))
}
