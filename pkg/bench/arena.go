// Package bench plays head-to-head series between two engine
// configurations, for measuring the strength effect of parameter changes.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/player"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

type MatchResult int

const (
	Draw MatchResult = iota
	P1Win
	P2Win
)

// Config names one side of the series. Params are cloned per worker, so a
// single Config can be shared.
type Config struct {
	Name  string
	Param *uct.Params
}

// Stats aggregates series results across workers.
type Stats struct {
	p1Wins     atomic.Uint32
	p2Wins     atomic.Uint32
	draws      atomic.Uint32
	blackWins  atomic.Uint32
	gamesMoved atomic.Uint64
}

func (s *Stats) P1Wins() int    { return int(s.p1Wins.Load()) }
func (s *Stats) P2Wins() int    { return int(s.p2Wins.Load()) }
func (s *Stats) Draws() int     { return int(s.draws.Load()) }
func (s *Stats) BlackWins() int { return int(s.blackWins.Load()) }
func (s *Stats) Total() int     { return s.P1Wins() + s.P2Wins() + s.Draws() }

// GameInfo describes one finished game to the listener.
type GameInfo struct {
	WorkerID int
	Moves    int
	Score    float64 // Tromp-Taylor, from Black
	Winner   MatchResult
	P1Black  bool
}

// Summary describes the finished series.
type Summary struct {
	TotalGames int     `json:"total_games"`
	P1Wins     int     `json:"player1_wins"`
	P2Wins     int     `json:"player2_wins"`
	Draws      int     `json:"draws"`
	BlackWins  int     `json:"black_wins"`
	MeanMoves  float64 `json:"mean_moves"`
	Workers    int     `json:"workers"`
	P1Name     string  `json:"player1_name"`
	P2Name     string  `json:"player2_name"`
	P1WinRate  float64 `json:"player1_win_rate"`
}

// Arena runs the series: NGames games split over NWorkers goroutines,
// colors alternating per game so first-move advantage cancels out.
type Arena struct {
	Stats

	P1, P2   Config
	Size     int
	Komi     float64
	NGames   int
	NWorkers int

	// MaxMoves aborts runaway games as draws.
	MaxMoves int

	listener Listener
	ctx      context.Context
	wg       sync.WaitGroup
}

func NewArena(size int, komi float64, p1, p2 Config) *Arena {
	return &Arena{
		P1:       p1,
		P2:       p2,
		Size:     size,
		Komi:     komi,
		NGames:   100,
		NWorkers: 2,
		MaxMoves: 3 * size * size,
		listener: NopListener{},
		ctx:      context.Background(),
	}
}

func (a *Arena) WithContext(ctx context.Context) *Arena {
	a.ctx = ctx
	return a
}

func (a *Arena) WithListener(l Listener) *Arena {
	if l != nil {
		a.listener = l
	}
	return a
}

// Run plays the whole series and returns the summary. Blocks until done or
// the context is cancelled.
func (a *Arena) Run() (Summary, error) {
	if a.NWorkers < 1 || a.NGames < 1 {
		return Summary{}, fmt.Errorf("bench: need at least one worker and one game")
	}
	perWorker := a.NGames / a.NWorkers
	rest := a.NGames % a.NWorkers

	var firstErr error
	var errOnce sync.Once
	for i := 0; i < a.NWorkers; i++ {
		n := perWorker
		if i < rest {
			n++
		}
		if n == 0 {
			continue
		}
		a.wg.Add(1)
		go func(id, nGames int) {
			defer a.wg.Done()
			if err := a.worker(id, nGames); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}(i, n)
	}
	a.wg.Wait()

	summary := a.summary()
	a.listener.OnSummary(summary)
	return summary, firstErr
}

func (a *Arena) summary() Summary {
	total := a.Total()
	rate := 0.0
	meanMoves := 0.0
	if total > 0 {
		rate = float64(a.P1Wins()) / float64(total)
		meanMoves = float64(a.gamesMoved.Load()) / float64(total)
	}
	return Summary{
		TotalGames: total,
		P1Wins:     a.P1Wins(),
		P2Wins:     a.P2Wins(),
		Draws:      a.Draws(),
		BlackWins:  a.BlackWins(),
		MeanMoves:  meanMoves,
		Workers:    a.NWorkers,
		P1Name:     a.P1.Name,
		P2Name:     a.P2.Name,
		P1WinRate:  rate,
	}
}

func (a *Arena) worker(id, nGames int) error {
	// Each worker owns two players; parameter structs are cloned so the
	// sides cannot share mutable state.
	param1 := *a.P1.Param
	param2 := *a.P2.Param
	p1, err := player.New(a.Size, a.Komi, &param1)
	if err != nil {
		return err
	}
	p2, err := player.New(a.Size, a.Komi, &param2)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(uct.SeedGeneratorFn() + int64(id)))

	for i := 0; i < nGames; i++ {
		select {
		case <-a.ctx.Done():
			return nil
		default:
		}
		p1Black := rng.Intn(2) == 0
		info, err := a.playGame(id, p1, p2, p1Black)
		if err != nil {
			return err
		}
		a.record(info)
		a.listener.OnGameFinished(info)
	}
	return nil
}

func (a *Arena) record(info GameInfo) {
	switch info.Winner {
	case P1Win:
		a.p1Wins.Add(1)
	case P2Win:
		a.p2Wins.Add(1)
	default:
		a.draws.Add(1)
	}
	if info.Score > 0 {
		a.blackWins.Add(1)
	}
	a.gamesMoved.Add(uint64(info.Moves))
}

// playGame plays one full game between the two players and scores the
// final position. A resignation ends the game immediately.
func (a *Arena) playGame(id int, p1, p2 *player.Player, p1Black bool) (GameInfo, error) {
	if err := p1.NewGame(a.Size); err != nil {
		return GameInfo{}, err
	}
	if err := p2.NewGame(a.Size); err != nil {
		return GameInfo{}, err
	}

	black, white := p1, p2
	if !p1Black {
		black, white = p2, p1
	}

	info := GameInfo{WorkerID: id, P1Black: p1Black}
	resigned := goboard.Empty
	for moves := 0; moves < a.MaxMoves; moves++ {
		select {
		case <-a.ctx.Done():
			return info, nil
		default:
		}
		current := black
		if black.Board().ToPlay() == goboard.White {
			current = white
		}
		move, resign, err := current.GenerateMove(0)
		if err != nil {
			return info, err
		}
		if resign {
			resigned = current.Board().ToPlay()
			break
		}
		if err := black.Play(move); err != nil {
			return info, err
		}
		if err := white.Play(move); err != nil {
			return info, err
		}
		info.Moves++
		if black.Board().TwoPassesEnded() {
			break
		}
	}

	board := black.Board()
	info.Score = board.TrompTaylorScore(a.Komi)
	var blackWon bool
	switch resigned {
	case goboard.Black:
		blackWon = false
		info.Score = -1
	case goboard.White:
		blackWon = true
		info.Score = 1
	default:
		if info.Score == 0 {
			info.Winner = Draw
			return info, nil
		}
		blackWon = info.Score > 0
	}

	if blackWon == p1Black {
		info.Winner = P1Win
	} else {
		info.Winner = P2Win
	}
	return info, nil
}
