package playout

import (
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

// Factory creates one GlobalState per search worker over a shared root
// position. SetPosition and Create run on the driver goroutine between
// searches, never concurrently with a running search.
type Factory struct {
	param    *uct.Params
	komi     float64
	position *goboard.Board

	mu     sync.Mutex
	states []*GlobalState
}

func NewFactory(param *uct.Params, komi float64) *Factory {
	return &Factory{param: param, komi: komi}
}

// SetPosition installs the root position for the next search. The board is
// not copied here; each state copies it in StartSearch.
func (f *Factory) SetPosition(b *goboard.Board) { f.position = b }

func (f *Factory) Komi() float64 { return f.komi }

func (f *Factory) SetKomi(komi float64) { f.komi = komi }

func (f *Factory) Create(threadID int, seed int64) uct.ThreadState {
	rng := rand.New(rand.NewSource(seed))
	s := &GlobalState{
		threadID: threadID,
		factory:  f,
		rng:      rng,
		policy:   NewPolicy(rng),
	}
	f.mu.Lock()
	f.states = append(f.states, s)
	f.mu.Unlock()
	return s
}

// TerritoryStatistics merges the per-worker ownership statistics from the
// last search. Index by point; empty when territory_statistics is off.
func (f *Factory) TerritoryStatistics() []uct.Statistics {
	f.mu.Lock()
	defer f.mu.Unlock()
	var merged []uct.Statistics
	for _, s := range f.states {
		if s.territory == nil {
			continue
		}
		if merged == nil {
			merged = make([]uct.Statistics, len(s.territory))
		}
		for i := range s.territory {
			merged[i].Merge(s.territory[i])
		}
	}
	return merged
}

// GlobalState is the per-worker thread state: a private board replaying
// the in-tree moves and playouts, the playout policy and the prior oracle.
// Collaborator failures (an illegal move reaching Execute) surface as
// aborted simulations, never as panics.
type GlobalState struct {
	threadID int
	factory  *Factory
	rng      *rand.Rand
	policy   *Policy
	prior    uct.PriorKnowledge

	board     *goboard.Board
	rootMoves int
	failed    bool
	warned    bool

	territory []uct.Statistics
}

var _ uct.ThreadState = (*GlobalState)(nil)

func (s *GlobalState) Board() *goboard.Board { return s.board }

func (s *GlobalState) StartSearch() {
	s.board = s.factory.position.Copy()
	s.rootMoves = s.board.MoveNumber()
	s.failed = false
	s.warned = false

	switch s.factory.param.PriorKnowledge {
	case uct.PriorEven:
		s.prior = &evenPrior{count: 3}
	case uct.PriorDefault:
		s.prior = newDefaultPrior(s)
	default:
		s.prior = nil
	}
	if s.factory.param.TerritoryStatistics {
		s.territory = make([]uct.Statistics, s.board.NumCells())
	} else {
		s.territory = nil
	}
}

func (s *GlobalState) GameStart() {
	s.failed = false
	// The takebacks of the previous game restore the root position; undo
	// any leftovers from an aborted sequence.
	for s.board.MoveNumber() > s.rootMoves {
		s.board.Undo()
	}
}

// GenerateAllMoves appends the in-tree moves: every legal point that is
// not an eye-like point of the mover, plus Pass. Empty marks a terminal
// position (two consecutive passes).
func (s *GlobalState) GenerateAllMoves(moves []uct.Move) []uct.Move {
	if s.board.TwoPassesEnded() {
		return moves
	}
	toPlay := s.board.ToPlay()
	for _, p := range s.board.EmptyPoints(nil) {
		if s.board.IsEyeLike(p, toPlay) {
			continue
		}
		if s.board.IsLegal(p) {
			moves = append(moves, uct.Move(p))
		}
	}
	return append(moves, uct.Pass)
}

func (s *GlobalState) Execute(move uct.Move) { s.play(move) }

func (s *GlobalState) ExecutePlayout(move uct.Move) { s.play(move) }

func (s *GlobalState) play(move uct.Move) {
	if s.failed {
		return
	}
	if err := s.board.Play(goboard.Point(move)); err != nil {
		if !s.warned {
			log.Warn().Err(err).Int("thread", s.threadID).Int32("move", int32(move)).
				Msg("playout: illegal move reached execution, aborting simulation")
			s.warned = true
		}
		s.failed = true
	}
}

func (s *GlobalState) TakeBackInTree(n int) { s.takeBack(n) }

func (s *GlobalState) TakeBackPlayout(n int) { s.takeBack(n) }

func (s *GlobalState) takeBack(n int) {
	// A failed Play leaves fewer moves on the board than the driver
	// recorded; the root floor keeps the takeback in sync.
	for i := 0; i < n && s.board.MoveNumber() > s.rootMoves; i++ {
		s.board.Undo()
	}
}

func (s *GlobalState) StartPlayouts() {}

func (s *GlobalState) StartPlayout() {}

// GenerateRandomMove produces the next playout move. Null ends the playout
// at two consecutive passes or when the mercy rule fires. Pass moves skip
// the RAVE update, since a pass means something different at every ply.
func (s *GlobalState) GenerateRandomMove() (uct.Move, bool, bool) {
	if s.failed {
		return uct.Null, false, false
	}
	if s.board.TwoPassesEnded() {
		return uct.Null, false, true
	}
	if s.factory.param.MercyRule && s.mercyReached() {
		return uct.Null, false, true
	}
	move := s.policy.GenerateMove(s.board)
	return uct.Move(move), move == goboard.Pass, true
}

// mercyReached reports a capture difference beyond a third of the board,
// at which point the game is decided and the playout can stop early.
func (s *GlobalState) mercyReached() bool {
	size := s.board.Size()
	diff := s.board.Prisoners(goboard.White) - s.board.Prisoners(goboard.Black)
	if diff < 0 {
		diff = -diff
	}
	return diff > size*size/3
}

func (s *GlobalState) EndPlayout() {
	if s.territory == nil || s.failed {
		return
	}
	s.board.EachPoint(func(p goboard.Point) {
		switch s.board.Color(p) {
		case goboard.Black:
			s.territory[p].Add(1)
		case goboard.White:
			s.territory[p].Add(0)
		default:
			s.territory[p].Add(0.5)
		}
	})
}

// Evaluate scores the position with Tromp-Taylor area counting from the
// perspective of the player to move, squashed into [0,1]. The score
// modification keeps a margin-of-victory gradient inside the win and loss
// bands, so the search prefers safe wins over large uncertain ones.
func (s *GlobalState) Evaluate() float64 {
	komi := s.factory.komi
	score := s.board.TrompTaylorScore(komi)
	if s.board.ToPlay() == goboard.White {
		score = -score
	}
	size := float64(s.board.Size())
	maxScore := size*size + komi
	if komi < 0 {
		maxScore = size*size - komi
	}
	mod := s.factory.param.ScoreModification
	switch {
	case score > 1e-6:
		return 1 - mod + mod*score/maxScore
	case score < -1e-6:
		return mod + mod*score/maxScore
	}
	return 0.5
}

func (s *GlobalState) PriorKnowledge() uct.PriorKnowledge { return s.prior }
