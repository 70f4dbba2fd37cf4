package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
)

// Listener observes a running series. Callbacks may come from any worker
// goroutine; implementations synchronize themselves.
type Listener interface {
	OnGameFinished(GameInfo)
	OnSummary(Summary)
}

type NopListener struct{}

func (NopListener) OnGameFinished(GameInfo) {}
func (NopListener) OnSummary(Summary)       {}

// ConsoleListener prints one line per finished game and a colored final
// table.
type ConsoleListener struct {
	Out io.Writer

	mu      sync.Mutex
	profile termenv.Profile
	p1Name  string
	p2Name  string
}

func NewConsoleListener(out io.Writer, p1Name, p2Name string) *ConsoleListener {
	return &ConsoleListener{
		Out:     out,
		profile: termenv.ColorProfile(),
		p1Name:  p1Name,
		p2Name:  p2Name,
	}
}

func (l *ConsoleListener) OnGameFinished(info GameInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	winner := "draw"
	switch info.Winner {
	case P1Win:
		winner = l.p1Name
	case P2Win:
		winner = l.p2Name
	}
	fmt.Fprintf(l.Out, "worker %d: %3d moves, score %+.1f, winner %s\n",
		info.WorkerID, info.Moves, info.Score, winner)
}

func (l *ConsoleListener) OnSummary(s Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	title := termenv.String("series finished").Bold().String()
	rate := termenv.String(fmt.Sprintf("%.1f%%", 100*s.P1WinRate)).
		Foreground(l.profile.Color("2")).String()
	fmt.Fprintf(l.Out, "%s: %d games, %s %d : %d %s (%d draws, %.0f moves/game), %s wins %s of games\n",
		title, s.TotalGames, s.P1Name, s.P1Wins, s.P2Wins, s.P2Name, s.Draws,
		s.MeanMoves, s.P1Name, rate)
}
