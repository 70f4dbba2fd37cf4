// Package player wraps the search core into a move generator for a full
// game: clock management, subtree reuse between moves, pondering during
// the opponent's time, resignation and the early-pass endgame shortcut.
package player

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/playout"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

const (
	// sureWinThreshold arms the early abort: a root value above it means
	// the game is decided and the rest of the budget is wasted.
	sureWinThreshold = 0.9

	earlyAbortReductionFactor = 3

	// extractTimeFraction bounds the subtree extraction before a search.
	maxExtractTime = 500 * time.Millisecond
)

// Player owns the game board and a search instance, and turns positions
// into moves.
type Player struct {
	param   *uct.Params
	board   *goboard.Board
	factory *playout.Factory
	search  *uct.Search
	filter  RootFilter
	clock   *TimeControl

	// ResignMinGames gates resignation on a minimum of search effort.
	ResignMinGames uint64

	// movesAtSearch is the game history at the position the current tree
	// was built for; the difference to the live history selects the
	// subtree to reuse.
	movesAtSearch []goboard.Point

	ponderDone <-chan float64
	pondering  bool

	log zerolog.Logger
}

func New(size int, komi float64, param *uct.Params) (*Player, error) {
	if param == nil {
		param = uct.DefaultParams()
	}
	board, err := goboard.NewBoard(size)
	if err != nil {
		return nil, err
	}
	factory := playout.NewFactory(param, komi)
	factory.SetPosition(board)
	return &Player{
		param:          param,
		board:          board,
		factory:        factory,
		search:         uct.NewSearch(factory, board.NumCells(), param),
		filter:         NewDefaultRootFilter(),
		clock:          NewTimeControl(),
		ResignMinGames: 1000,
		log:            log.With().Str("component", "player").Logger(),
	}, nil
}

func (p *Player) Board() *goboard.Board { return p.board }

func (p *Player) Search() *uct.Search { return p.search }

func (p *Player) Param() *uct.Params { return p.param }

func (p *Player) Komi() float64 { return p.factory.Komi() }

func (p *Player) SetKomi(komi float64) { p.factory.SetKomi(komi) }

func (p *Player) SetRootFilter(f RootFilter) { p.filter = f }

// NewGame resets the board to the given size and drops all search state.
func (p *Player) NewGame(size int) error {
	p.StopPonder()
	board, err := goboard.NewBoard(size)
	if err != nil {
		return err
	}
	p.board = board
	p.factory.SetPosition(board)
	p.search = uct.NewSearch(p.factory, board.NumCells(), p.param)
	p.movesAtSearch = nil
	return nil
}

// Play applies an external move (our own or the opponent's) to the game
// board.
func (p *Player) Play(move goboard.Point) error {
	p.StopPonder()
	return p.board.Play(move)
}

// GenerateMove searches the current position and returns the chosen move.
// resign is true when the search considers the game lost beyond the resign
// threshold. remaining is the clock time left for the whole game; zero
// means no clock, using the configured maximum search time.
func (p *Player) GenerateMove(remaining time.Duration) (move goboard.Point, resign bool, err error) {
	p.StopPonder()

	if p.board.TwoPassesEnded() {
		return goboard.Pass, false, nil
	}

	switch p.param.SearchMode {
	case uct.SearchModePlayoutPolicy:
		return p.policyMove(), false, nil
	case uct.SearchModeOnePly:
		return p.onePlyMove()
	}
	return p.searchMove(remaining)
}

func (p *Player) policyMove() goboard.Point {
	state := p.factory.Create(0, uct.SeedGeneratorFn()).(*playout.GlobalState)
	state.StartSearch()
	move, _, ok := state.GenerateRandomMove()
	if !ok || move == uct.Null {
		return goboard.Pass
	}
	return goboard.Point(move)
}

func (p *Player) onePlyMove() (goboard.Point, bool, error) {
	p.factory.SetPosition(p.board)
	move, value := p.search.SearchOnePly(p.param.MaxGames, p.budget(0))
	if move == uct.Null {
		return goboard.Pass, false, nil
	}
	if value < p.param.ResignThreshold {
		return goboard.Pass, true, nil
	}
	return goboard.Point(move), false, nil
}

func (p *Player) budget(remaining time.Duration) time.Duration {
	maxTime := time.Duration(p.param.MaxTime * float64(time.Second))
	if p.param.IgnoreClock || remaining <= 0 {
		return maxTime
	}
	budget := p.clock.Budget(p.board, remaining)
	if maxTime > 0 && budget > maxTime {
		return maxTime
	}
	return budget
}

func (p *Player) searchMove(remaining time.Duration) (goboard.Point, bool, error) {
	budget := p.budget(remaining)
	initTree := p.initTree()
	p.factory.SetPosition(p.board)

	var rootFilter []uct.Move
	if p.filter != nil {
		rootFilter = p.filter.Get(p.board)
	}

	p.search.SetEarlyAbort(&uct.EarlyAbortParam{
		Threshold:       sureWinThreshold,
		MinGames:        p.param.MaxGames / earlyAbortReductionFactor,
		ReductionFactor: earlyAbortReductionFactor,
	})
	value, sequence := p.search.Search(p.param.MaxGames, budget, rootFilter, initTree)
	p.rememberSearchPosition()

	stats := p.search.Statistics()
	p.log.Info().
		Uint64("games", stats.Games).
		Float64("gamesPerSec", stats.GamesPerSecond).
		Float64("value", value).
		Str("stopReason", p.search.StopReason().String()).
		Int("treeNodes", p.search.Tree().NuNodes()).
		Msg("search finished")

	if value < p.param.ResignThreshold && stats.Games >= p.ResignMinGames {
		return goboard.Pass, true, nil
	}

	if p.param.EarlyPass && p.search.WasEarlyAbort() {
		if pass, ok := p.verifyEarlyPass(budget); ok && pass {
			return goboard.Pass, false, nil
		}
	}

	if len(sequence) == 0 {
		return goboard.Pass, false, nil
	}
	move := goboard.Point(sequence[0])
	if move != goboard.Pass && !p.board.IsLegal(move) {
		return goboard.Pass, false, fmt.Errorf("player: search produced illegal move %d", move)
	}
	return move, false, nil
}

// initTree extracts the reusable subtree when the live history extends the
// searched one; any other shape of difference (undo, new game) drops the
// tree.
func (p *Player) initTree() *uct.Tree {
	if !p.param.ReuseSubtree || p.movesAtSearch == nil {
		return nil
	}
	moves := p.board.Moves()
	if len(moves) < len(p.movesAtSearch) {
		return nil
	}
	for i, m := range p.movesAtSearch {
		if moves[i] != m {
			return nil
		}
	}
	diff := moves[len(p.movesAtSearch):]
	sequence := make([]uct.Move, len(diff))
	for i, m := range diff {
		sequence[i] = uct.Move(m)
	}
	tree := p.search.FindInitTree(sequence, maxExtractTime)
	if reused := tree.Root().MoveCount(); reused > 0 {
		p.log.Debug().Uint32("games", reused).Int("plies", len(diff)).
			Msg("reusing subtree")
	}
	return tree
}

func (p *Player) rememberSearchPosition() {
	p.movesAtSearch = append(p.movesAtSearch[:0], p.board.Moves()...)
}

// verifyEarlyPass checks with a reduced search whether passing right away
// still wins. The game then ends two moves earlier without giving
// anything away.
func (p *Player) verifyEarlyPass(budget time.Duration) (pass, ok bool) {
	probe := p.board.Copy()
	if err := probe.Play(goboard.Pass); err != nil {
		return false, false
	}
	p.factory.SetPosition(probe)
	defer p.factory.SetPosition(p.board)

	verify := uct.NewSearch(p.factory, p.board.NumCells(), p.param)
	games := p.param.MaxGames / earlyAbortReductionFactor
	if games < 1 {
		games = 1
	}
	// Value comes back from the opponent's perspective after the pass.
	oppValue, _ := verify.Search(games, budget/earlyAbortReductionFactor, nil, nil)
	return 1-oppValue > sureWinThreshold, true
}

// StartPonder begins a background search on the current position, to be
// stopped when the opponent's move arrives. No-op unless pondering is
// enabled.
func (p *Player) StartPonder() {
	if !p.param.Ponder || p.pondering {
		return
	}
	initTree := p.initTree()
	p.factory.SetPosition(p.board)
	p.ponderDone = p.search.SearchBackground(p.param.MaxGames, 0, nil, initTree)
	p.pondering = true
	p.log.Debug().Msg("pondering started")
}

// StopPonder aborts a running background search and waits for it to
// settle. The resulting tree stays available for reuse.
func (p *Player) StopPonder() {
	if !p.pondering {
		return
	}
	p.search.Stop()
	<-p.ponderDone
	p.pondering = false
	p.rememberSearchPosition()
	p.log.Debug().Uint64("games", p.search.NumberGames()).Msg("pondering stopped")
}
