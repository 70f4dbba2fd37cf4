package playout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

func newTestState(t *testing.T, param *uct.Params, size int) (*GlobalState, *goboard.Board) {
	t.Helper()
	if param == nil {
		param = uct.DefaultParams()
	}
	board, err := goboard.NewBoard(size)
	require.NoError(t, err)
	f := NewFactory(param, 7.5)
	f.SetPosition(board)
	state := f.Create(0, 7).(*GlobalState)
	state.StartSearch()
	return state, board
}

func TestGenerateAllMovesExcludesEyes(t *testing.T) {
	param := uct.DefaultParams()
	state, root := newTestState(t, param, 5)

	// Build a black eye at (0,0) on the state's private board.
	b := state.Board()
	for _, p := range []goboard.Point{b.Pt(0, 1), b.Pt(1, 0), b.Pt(1, 1)} {
		require.NoError(t, b.Play(p))
		require.NoError(t, b.Play(goboard.Pass))
	}

	moves := state.GenerateAllMoves(nil)
	assert.NotContains(t, moves, uct.Move(b.Pt(0, 0)))
	assert.Contains(t, moves, uct.Pass)
	assert.Contains(t, moves, uct.Move(b.Pt(3, 3)))

	// The root board is untouched.
	assert.Equal(t, 0, root.MoveNumber())
}

func TestGenerateAllMovesTerminal(t *testing.T) {
	state, _ := newTestState(t, nil, 5)
	b := state.Board()
	require.NoError(t, b.Play(goboard.Pass))
	require.NoError(t, b.Play(goboard.Pass))
	assert.Empty(t, state.GenerateAllMoves(nil))
}

func TestExecuteAndTakeBack(t *testing.T) {
	state, _ := newTestState(t, nil, 5)
	b := state.Board()
	before := b.Hash()

	state.Execute(uct.Move(b.Pt(2, 2)))
	state.Execute(uct.Move(b.Pt(1, 1)))
	assert.Equal(t, 2, b.MoveNumber())
	state.TakeBackInTree(2)
	assert.Equal(t, before, b.Hash())
}

func TestExecuteIllegalAbortsSimulation(t *testing.T) {
	state, _ := newTestState(t, nil, 5)
	b := state.Board()
	state.Execute(uct.Move(b.Pt(2, 2)))
	// The same point again is illegal; the state flags the simulation.
	state.Execute(uct.Move(b.Pt(2, 2)))

	_, _, ok := state.GenerateRandomMove()
	assert.False(t, ok)

	// Takeback stays in sync even though only one move was executed.
	state.TakeBackInTree(2)
	assert.Equal(t, 0, b.MoveNumber())

	state.GameStart()
	_, _, ok = state.GenerateRandomMove()
	assert.True(t, ok)
}

func TestGenerateRandomMoveEndsOnTwoPasses(t *testing.T) {
	state, _ := newTestState(t, nil, 5)
	state.ExecutePlayout(uct.Pass)
	state.ExecutePlayout(uct.Pass)
	move, _, ok := state.GenerateRandomMove()
	assert.True(t, ok)
	assert.Equal(t, uct.Null, move)
}

func TestGenerateRandomMoveSkipsRaveForPass(t *testing.T) {
	state, _ := newTestState(t, nil, 2)
	// On a 2x2 board the policy quickly has only pass left.
	for i := 0; i < 20; i++ {
		move, skipRave, ok := state.GenerateRandomMove()
		require.True(t, ok)
		if move == uct.Null {
			break
		}
		if move == uct.Pass {
			assert.True(t, skipRave)
		} else {
			assert.False(t, skipRave)
		}
		state.ExecutePlayout(move)
	}
}

func TestEvaluateBands(t *testing.T) {
	param := uct.DefaultParams()
	state, _ := newTestState(t, param, 5)
	b := state.Board()

	// Black owns the whole board via a wall; from Black's view a clear win.
	for row := 0; row < 5; row++ {
		require.NoError(t, b.Play(b.Pt(row, 2)))
		require.NoError(t, b.Play(goboard.Pass))
	}
	b.SetToPlay(goboard.Black)
	winEval := state.Evaluate()
	assert.Greater(t, winEval, 1-param.ScoreModification)
	assert.LessOrEqual(t, winEval, 1.0)

	// Same position from White's view is a clear loss.
	b.SetToPlay(goboard.White)
	lossEval := state.Evaluate()
	assert.Less(t, lossEval, param.ScoreModification)
	assert.GreaterOrEqual(t, lossEval, 0.0)

	// Larger margins score strictly higher inside the win band.
	assert.InDelta(t, 1.0, winEval+lossEval, 1e-9)
}

func TestMercyRuleEndsPlayout(t *testing.T) {
	// On 2x2 the mercy threshold is 4/3 = 1, so a capture difference of
	// two decides the playout.
	state, _ := newTestState(t, nil, 2)
	b := state.Board()
	assert.False(t, state.mercyReached())

	require.NoError(t, b.Play(b.Pt(1, 0)))   // black
	require.NoError(t, b.Play(b.Pt(0, 0)))   // white
	require.NoError(t, b.Play(b.Pt(1, 1)))   // black
	require.NoError(t, b.Play(goboard.Pass)) // white
	require.NoError(t, b.Play(b.Pt(0, 1)))   // black captures one
	require.NoError(t, b.Play(b.Pt(0, 0)))   // white captures three

	require.Equal(t, 1, b.Prisoners(goboard.White))
	require.Equal(t, 3, b.Prisoners(goboard.Black))
	assert.True(t, state.mercyReached())

	move, _, ok := state.GenerateRandomMove()
	assert.True(t, ok)
	assert.Equal(t, uct.Null, move)
}

func TestPolicyCapturesLastMoveInAtari(t *testing.T) {
	state, _ := newTestState(t, nil, 5)
	b := state.Board()
	// White plays into a black enclosure; (1,2) is its last liberty and
	// black must take it regardless of the RNG.
	require.NoError(t, b.Play(b.Pt(0, 1)))
	require.NoError(t, b.Play(goboard.Pass))
	require.NoError(t, b.Play(b.Pt(1, 0)))
	require.NoError(t, b.Play(goboard.Pass))
	require.NoError(t, b.Play(b.Pt(2, 1)))
	require.NoError(t, b.Play(b.Pt(1, 1)))

	for i := 0; i < 10; i++ {
		assert.Equal(t, b.Pt(1, 2), state.policy.GenerateMove(b))
	}
}

func TestPriorKnowledgeKinds(t *testing.T) {
	param := uct.DefaultParams()
	param.PriorKnowledge = uct.PriorEven
	state, _ := newTestState(t, param, 5)
	prior := state.PriorKnowledge()
	require.NotNil(t, prior)
	value, count := prior.InitializeMove(uct.Move(state.Board().Pt(2, 2)))
	assert.InDelta(t, 0.5, value, 1e-9)
	assert.Equal(t, uint32(3), count)

	param2 := uct.DefaultParams()
	param2.PriorKnowledge = uct.PriorNone
	state2, _ := newTestState(t, param2, 5)
	assert.Nil(t, state2.PriorKnowledge())
}

func TestDefaultPriorDiscouragesSelfAtariAndPass(t *testing.T) {
	state, _ := newTestState(t, nil, 5)
	b := state.Board()
	// Black stones around (1,1): a white move there is self-atari.
	for _, p := range []goboard.Point{b.Pt(0, 1), b.Pt(1, 0), b.Pt(2, 1)} {
		require.NoError(t, b.Play(p))
		require.NoError(t, b.Play(goboard.Pass))
	}
	b.SetToPlay(goboard.White)

	prior := state.PriorKnowledge()
	prior.ProcessPosition()

	selfAtariValue, _ := prior.InitializeMove(uct.Move(b.Pt(1, 1)))
	assert.InDelta(t, 0.1, selfAtariValue, 1e-9)

	passValue, passCount := prior.InitializeMove(uct.Pass)
	assert.InDelta(t, 0.1, passValue, 1e-9)
	assert.Equal(t, uint32(9), passCount)

	farValue, _ := prior.InitializeMove(uct.Move(b.Pt(4, 4)))
	assert.InDelta(t, 0.5, farValue, 1e-9)
}

func TestTerritoryStatistics(t *testing.T) {
	param := uct.DefaultParams()
	param.TerritoryStatistics = true
	board, err := goboard.NewBoard(5)
	require.NoError(t, err)
	f := NewFactory(param, 7.5)
	f.SetPosition(board)
	state := f.Create(0, 7).(*GlobalState)
	state.StartSearch()

	b := state.Board()
	require.NoError(t, b.Play(b.Pt(2, 2)))
	state.EndPlayout()

	stats := f.TerritoryStatistics()
	require.NotEmpty(t, stats)
	assert.Equal(t, uint64(1), stats[b.Pt(2, 2)].Count())
	assert.InDelta(t, 1.0, stats[b.Pt(2, 2)].Mean(), 1e-9)
	assert.InDelta(t, 0.5, stats[b.Pt(0, 0)].Mean(), 1e-9)
}

func TestSearchIntegration(t *testing.T) {
	old := uct.SeedGeneratorFn
	uct.SetSeedGeneratorFn(func() int64 { return 11 })
	defer uct.SetSeedGeneratorFn(old)

	param := uct.DefaultParams()
	board, err := goboard.NewBoard(5)
	require.NoError(t, err)
	f := NewFactory(param, 7.5)
	f.SetPosition(board)
	s := uct.NewSearch(f, board.NumCells(), param)

	value, sequence := s.Search(300, 0, nil, nil)

	assert.Equal(t, uint32(300), s.Tree().Root().PosCount())
	assert.GreaterOrEqual(t, value, 0.0)
	assert.LessOrEqual(t, value, 1.0)
	require.NotEmpty(t, sequence)
	s.Tree().CheckConsistency()
}
