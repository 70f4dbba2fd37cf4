package uct

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

// SearchEvent is a read-only snapshot handed to listener callbacks. It
// cannot change tree state.
type SearchEvent struct {
	Games      uint64
	NuNodes    int
	Value      float64
	Sequence   []Move
	Elapsed    time.Duration
	StopReason StopReason

	// RootChildren carries (move, count, mean) per root child, sorted by
	// count, for the counts live-gfx mode.
	RootChildren []ChildSnapshot
}

type ChildSnapshot struct {
	Move  Move
	Count uint32
	Mean  float64
}

// ListenerFunc receives search snapshots. Callbacks run on the main search
// thread only, so no synchronization is needed inside them.
type ListenerFunc func(SearchEvent)

// StatsListener dispatches live-progress snapshots at fixed game-count
// intervals, in the manner of an engine front-end hook.
type StatsListener struct {
	onGame ListenerFunc
	nGames uint64
	onStop ListenerFunc
}

func NewStatsListener() *StatsListener {
	return &StatsListener{nGames: 1}
}

// OnGame attaches a callback invoked every N games (see SetGameInterval).
// Building the snapshot walks the root children, so small intervals slow
// the search down.
func (l *StatsListener) OnGame(f ListenerFunc) *StatsListener {
	l.onGame = f
	return l
}

func (l *StatsListener) SetGameInterval(n uint64) *StatsListener {
	if n < 1 {
		n = 1
	}
	l.nGames = n
	return l
}

// OnStop attaches a callback invoked once when the search terminates,
// making the stop reason available.
func (l *StatsListener) OnStop(f ListenerFunc) *StatsListener {
	l.onStop = f
	return l
}

// MoveFormatter renders moves for human-readable output. The board
// collaborator supplies one; the fallback prints raw move integers.
type MoveFormatter func(Move) string

func defaultMoveFormatter(m Move) string {
	switch m {
	case Pass:
		return "pass"
	case Null:
		return "null"
	}
	return fmt.Sprintf("%d", int(m))
}

// LiveGfx renders compact live-progress snapshots to a writer, colored
// with termenv when the output profile supports it. Pure observer.
type LiveGfx struct {
	Out    io.Writer
	Mode   LiveGfxMode
	Format MoveFormatter

	profile termenv.Profile
}

func NewLiveGfx(out io.Writer, mode LiveGfxMode, format MoveFormatter) *LiveGfx {
	if format == nil {
		format = defaultMoveFormatter
	}
	return &LiveGfx{
		Out:     out,
		Mode:    mode,
		Format:  format,
		profile: termenv.ColorProfile(),
	}
}

func (g *LiveGfx) Write(ev SearchEvent) {
	if g.Mode == LiveGfxNone || g.Out == nil {
		return
	}
	var b strings.Builder
	best := "pass"
	if len(ev.Sequence) > 0 {
		best = g.Format(ev.Sequence[0])
	}
	bestStyled := termenv.String(best).Foreground(g.profile.Color("2")).Bold().String()
	fmt.Fprintf(&b, "games %d nodes %d value %.3f best %s",
		ev.Games, ev.NuNodes, ev.Value, bestStyled)

	switch g.Mode {
	case LiveGfxCounts:
		children := append([]ChildSnapshot(nil), ev.RootChildren...)
		sort.Slice(children, func(i, j int) bool { return children[i].Count > children[j].Count })
		if len(children) > 8 {
			children = children[:8]
		}
		for _, c := range children {
			fmt.Fprintf(&b, " %s:%d/%.2f", g.Format(c.Move), c.Count, c.Mean)
		}
	case LiveGfxSequence:
		for _, m := range ev.Sequence {
			b.WriteByte(' ')
			b.WriteString(g.Format(m))
		}
	}
	b.WriteByte('\n')
	io.WriteString(g.Out, b.String())
}

// Attach wires the live-gfx renderer into a listener at the given game
// interval.
func (g *LiveGfx) Attach(l *StatsListener, interval uint64) {
	l.OnGame(g.Write).SetGameInterval(interval)
}
