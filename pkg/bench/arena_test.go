package bench

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesuji-go/tesuji/pkg/uct"
)

type countingListener struct {
	mu      sync.Mutex
	games   []GameInfo
	summary *Summary
}

func (l *countingListener) OnGameFinished(info GameInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.games = append(l.games, info)
}

func (l *countingListener) OnSummary(s Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summary = &s
}

func fastParam() *uct.Params {
	p := uct.DefaultParams()
	p.MaxGames = 20
	p.MaxTime = 5
	return p
}

func TestArenaRunsSeries(t *testing.T) {
	old := uct.SeedGeneratorFn
	uct.SetSeedGeneratorFn(func() int64 { return 99 })
	defer uct.SetSeedGeneratorFn(old)

	listener := &countingListener{}
	arena := NewArena(5, 7.5,
		Config{Name: "base", Param: fastParam()},
		Config{Name: "norave", Param: func() *uct.Params {
			p := fastParam()
			p.Rave = false
			return p
		}()},
	).WithListener(listener)
	arena.NGames = 2
	arena.NWorkers = 1

	summary, err := arena.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalGames)
	assert.Equal(t, 2, summary.P1Wins+summary.P2Wins+summary.Draws)
	assert.Equal(t, "base", summary.P1Name)
	assert.Len(t, listener.games, 2)
	require.NotNil(t, listener.summary)
	for _, g := range listener.games {
		assert.Greater(t, g.Moves, 0)
	}
}

func TestArenaValidatesSetup(t *testing.T) {
	arena := NewArena(5, 7.5,
		Config{Name: "a", Param: fastParam()},
		Config{Name: "b", Param: fastParam()},
	)
	arena.NGames = 0
	_, err := arena.Run()
	assert.Error(t, err)
}

func TestConsoleListenerOutput(t *testing.T) {
	var out strings.Builder
	l := NewConsoleListener(&out, "a", "b")
	l.OnGameFinished(GameInfo{WorkerID: 0, Moves: 10, Score: 3.5, Winner: P1Win})
	l.OnSummary(Summary{TotalGames: 1, P1Wins: 1, P1Name: "a", P2Name: "b", P1WinRate: 1})

	s := out.String()
	assert.Contains(t, s, "winner a")
	assert.Contains(t, s, "1 games")
}
