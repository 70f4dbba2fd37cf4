package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

func fixedSeeds(t *testing.T) {
	t.Helper()
	old := uct.SeedGeneratorFn
	uct.SetSeedGeneratorFn(func() int64 { return 13 })
	t.Cleanup(func() { uct.SetSeedGeneratorFn(old) })
}

func testParam(maxGames uint64) *uct.Params {
	p := uct.DefaultParams()
	p.MaxGames = maxGames
	p.MaxTime = 60
	return p
}

func newTestPlayer(t *testing.T, size int, param *uct.Params) *Player {
	t.Helper()
	p, err := New(size, 7.5, param)
	require.NoError(t, err)
	p.ResignMinGames = 1 << 62
	return p
}

func TestGenerateMoveLegal(t *testing.T) {
	fixedSeeds(t)
	p := newTestPlayer(t, 5, testParam(200))

	move, resign, err := p.GenerateMove(0)
	require.NoError(t, err)
	assert.False(t, resign)
	require.True(t, p.board.IsLegal(move))
	require.NoError(t, p.Play(move))
}

func TestGenerateMoveAfterGameEnd(t *testing.T) {
	fixedSeeds(t)
	p := newTestPlayer(t, 5, testParam(50))
	require.NoError(t, p.Play(goboard.Pass))
	require.NoError(t, p.Play(goboard.Pass))

	move, resign, err := p.GenerateMove(0)
	require.NoError(t, err)
	assert.False(t, resign)
	assert.Equal(t, goboard.Pass, move)
}

func TestResignPlumbing(t *testing.T) {
	fixedSeeds(t)
	param := testParam(100)
	// With the threshold at its maximum, any finite value resigns once the
	// effort gate is open.
	param.ResignThreshold = 1.0
	p := newTestPlayer(t, 5, param)
	p.ResignMinGames = 0

	_, resign, err := p.GenerateMove(0)
	require.NoError(t, err)
	assert.True(t, resign)
}

func TestSubtreeReuse(t *testing.T) {
	fixedSeeds(t)
	param := testParam(400)
	param.ReuseSubtree = true
	p := newTestPlayer(t, 5, param)

	move, _, err := p.GenerateMove(0)
	require.NoError(t, err)
	require.NoError(t, p.Play(move))
	// Opponent answers; the grandchild subtree survives.
	opp, _, err := p.GenerateMove(0)
	require.NoError(t, err)
	require.NoError(t, p.Play(opp))

	tree := p.initTree()
	require.NotNil(t, tree)
	assert.Greater(t, tree.Root().PosCount(), uint32(0))
}

func TestSubtreeReuseDropsOnHistoryMismatch(t *testing.T) {
	fixedSeeds(t)
	param := testParam(200)
	param.ReuseSubtree = true
	p := newTestPlayer(t, 5, param)

	_, _, err := p.GenerateMove(0)
	require.NoError(t, err)
	require.NoError(t, p.NewGame(5))
	assert.Nil(t, p.initTree())
}

func TestSearchModes(t *testing.T) {
	fixedSeeds(t)

	param := testParam(100)
	param.SearchMode = uct.SearchModePlayoutPolicy
	p := newTestPlayer(t, 5, param)
	move, _, err := p.GenerateMove(0)
	require.NoError(t, err)
	assert.True(t, p.board.IsLegal(move))

	param2 := testParam(100)
	param2.SearchMode = uct.SearchModeOnePly
	p2 := newTestPlayer(t, 5, param2)
	move2, _, err := p2.GenerateMove(0)
	require.NoError(t, err)
	assert.True(t, p2.board.IsLegal(move2))
}

func TestPonderStartStop(t *testing.T) {
	fixedSeeds(t)
	param := testParam(1 << 40)
	param.Ponder = true
	p := newTestPlayer(t, 5, param)

	p.StartPonder()
	time.Sleep(30 * time.Millisecond)
	p.StopPonder()

	assert.Greater(t, p.search.NumberGames(), uint64(0))
	assert.Equal(t, uct.StopInterrupt, p.search.StopReason())

	// Playing a move while pondering stops the background search first.
	p.StartPonder()
	require.NoError(t, p.Play(p.board.Pt(2, 2)))
	assert.False(t, p.pondering)
}

func TestEarlyPassOnDecidedPosition(t *testing.T) {
	fixedSeeds(t)
	param := testParam(900)
	param.EarlyPass = true
	p := newTestPlayer(t, 5, param)
	p.SetKomi(0.5)

	// Black owns rows 0..3; White cannot catch up from row 4.
	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			require.NoError(t, p.Play(p.board.Pt(row, col)))
			require.NoError(t, p.Play(goboard.Pass))
		}
	}

	move, resign, err := p.GenerateMove(0)
	require.NoError(t, err)
	assert.False(t, resign)
	assert.Equal(t, goboard.Pass, move)
	assert.True(t, p.search.WasEarlyAbort())
}

func TestDefaultRootFilter(t *testing.T) {
	b, err := goboard.NewBoard(5)
	require.NoError(t, err)
	// Black stones (0,0),(0,1) in atari; extending to (0,2) is a
	// three-stone self-atari.
	for _, m := range []goboard.Point{
		b.Pt(0, 0), b.Pt(1, 0),
		b.Pt(0, 1), b.Pt(1, 1),
		goboard.Pass, b.Pt(1, 2),
	} {
		require.NoError(t, b.Play(m))
	}
	require.Equal(t, goboard.Black, b.ToPlay())

	before := b.Hash()
	filtered := NewDefaultRootFilter().Get(b)
	assert.Contains(t, filtered, uct.Move(b.Pt(0, 2)))
	assert.NotContains(t, filtered, uct.Move(b.Pt(4, 4)))
	// Probing must leave the board untouched.
	assert.Equal(t, before, b.Hash())
}

func TestTimeControlBudget(t *testing.T) {
	b, err := goboard.NewBoard(9)
	require.NoError(t, err)
	tc := NewTimeControl()

	assert.Equal(t, time.Duration(0), tc.Budget(b, 0))

	budget := tc.Budget(b, 10*time.Minute)
	assert.Greater(t, budget, time.Duration(0))
	assert.Less(t, budget, 10*time.Minute)

	// Later in the game the same clock yields a bigger slice.
	for i := 0; i < 30; i++ {
		require.NoError(t, b.Play(goboard.Pass))
	}
	assert.Greater(t, tc.Budget(b, 10*time.Minute), budget)
}
