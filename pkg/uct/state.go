package uct

// PriorKnowledge seeds the statistics of newly expanded children. The
// oracle must be side-effect-free from the tree's point of view.
type PriorKnowledge interface {
	// ProcessPosition is called once per expansion, with the thread
	// state's board at the node being expanded.
	ProcessPosition()

	// InitializeMove returns the prior (value, count) for a legal move at
	// the processed position. Count zero means "no prior".
	InitializeMove(move Move) (value float64, count uint32)
}

// ThreadState is the per-worker search state: a mutable board clone, an
// RNG, a simulation policy instance and scratch buffers. Implementations
// must not share mutable data between instances; each worker owns one.
//
// Errors are converted to bounded results inside the state: an illegal move
// during a playout surfaces as an aborted simulation (GenerateRandomMove
// returning ok=false), never as a panic across the worker boundary.
type ThreadState interface {
	// StartSearch syncs the state with the current external position.
	// Called once per search before the first game.
	StartSearch()

	// GameStart is called at the beginning of each visit, with the board
	// back at the root position.
	GameStart()

	// GenerateAllMoves appends the legal moves at the current position to
	// moves. An empty result marks a terminal position.
	GenerateAllMoves(moves []Move) []Move

	// Execute plays a move during the in-tree phase.
	Execute(move Move)

	// TakeBackInTree undoes n in-tree moves.
	TakeBackInTree(n int)

	// StartPlayouts is called once per visit before the first playout,
	// StartPlayout before each individual playout.
	StartPlayouts()
	StartPlayout()

	// GenerateRandomMove produces the next playout move, or Null at a
	// terminal position. skipRave suppresses the RAVE update for this move
	// (repeated situations); ok=false aborts the simulation.
	GenerateRandomMove() (move Move, skipRave bool, ok bool)

	// ExecutePlayout plays a playout move.
	ExecutePlayout(move Move)

	// EndPlayout is called after each playout, before the moves are taken
	// back.
	EndPlayout()

	// TakeBackPlayout undoes n playout moves.
	TakeBackPlayout(n int)

	// Evaluate scores the current (terminal or aborted) position in [0,1]
	// from the perspective of the player to move.
	Evaluate() float64

	// PriorKnowledge returns the oracle used to seed expanded children, or
	// nil.
	PriorKnowledge() PriorKnowledge
}

// ThreadStateFactory creates one ThreadState per worker. The seed makes
// single-threaded runs reproducible.
type ThreadStateFactory interface {
	Create(threadID int, seed int64) ThreadState
}

// GameInfo records everything about the game of one visit: the in-tree
// path, and per playout the full move sequence, skip-RAVE flags, eval and
// abort flag.
type GameInfo struct {
	InTreeSequence []Move
	Nodes          []*Node

	Sequence       [][]Move
	SkipRaveUpdate [][]bool
	Eval           []float64
	Aborted        []bool
}

func (info *GameInfo) Clear(numPlayouts int) {
	info.InTreeSequence = info.InTreeSequence[:0]
	info.Nodes = info.Nodes[:0]
	for len(info.Sequence) < numPlayouts {
		info.Sequence = append(info.Sequence, nil)
		info.SkipRaveUpdate = append(info.SkipRaveUpdate, nil)
	}
	info.Sequence = info.Sequence[:numPlayouts]
	info.SkipRaveUpdate = info.SkipRaveUpdate[:numPlayouts]
	for i := 0; i < numPlayouts; i++ {
		info.Sequence[i] = info.Sequence[i][:0]
		info.SkipRaveUpdate[i] = info.SkipRaveUpdate[i][:0]
	}
	info.Eval = info.Eval[:0]
	info.Aborted = info.Aborted[:0]
}
