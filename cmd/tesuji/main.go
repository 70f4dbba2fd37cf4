// Command tesuji is a Monte-Carlo Go engine speaking GTP on stdin/stdout.
// It also runs head-to-head parameter benchmarks with -bench.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tesuji-go/tesuji/pkg/bench"
	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/player"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

const version = "0.1.0"

func main() {
	var (
		size        = flag.Int("size", 9, "board size")
		komi        = flag.Float64("komi", goboard.DefaultKomi, "komi")
		autosaveDir = flag.String("autosave", "", "directory for finished game records (empty disables)")
		logLevel    = flag.String("log-level", "info", "zerolog level (trace..disabled)")
		paramFlags  paramList

		benchMode    = flag.Bool("bench", false, "run a parameter benchmark series instead of GTP")
		benchGames   = flag.Int("bench-games", 20, "games per benchmark series")
		benchWorkers = flag.Int("bench-workers", 2, "parallel benchmark workers")
		benchParams  paramList
	)
	flag.Var(&paramFlags, "param", "search parameter as key=value (repeatable)")
	flag.Var(&benchParams, "bench-param", "challenger parameter as key=value (repeatable)")
	flag.Parse()

	setupLogging(*logLevel)

	param := uct.DefaultParams()
	if err := paramFlags.apply(param); err != nil {
		log.Fatal().Err(err).Msg("bad -param")
	}

	if *benchMode {
		runBench(*size, *komi, param, benchParams, *benchGames, *benchWorkers)
		return
	}

	p, err := player.New(*size, *komi, param)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create player")
	}
	if param.LiveGfx != uct.LiveGfxNone {
		gfx := uct.NewLiveGfx(os.Stderr, param.LiveGfx, func(m uct.Move) string {
			return formatVertex(p.Board(), goboard.Point(m))
		})
		p.Search().SetLiveGfx(gfx)
	}

	engine := NewEngine(p, os.Stdout, *autosaveDir)
	if err := engine.Run(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("input error")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	// GTP owns stdout; all logging goes to stderr.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).With().Timestamp().Logger()
}

func runBench(size int, komi float64, base *uct.Params, challengerFlags paramList, games, workers int) {
	challenger := *base
	if err := challengerFlags.apply(&challenger); err != nil {
		log.Fatal().Err(err).Msg("bad -bench-param")
	}

	arena := bench.NewArena(size, komi,
		bench.Config{Name: "base", Param: base},
		bench.Config{Name: "challenger", Param: &challenger},
	).WithListener(bench.NewConsoleListener(os.Stdout, "base", "challenger"))
	arena.NGames = games
	arena.NWorkers = workers

	summary, err := arena.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
	log.Info().
		Int("games", summary.TotalGames).
		Int("baseWins", summary.P1Wins).
		Int("challengerWins", summary.P2Wins).
		Int("draws", summary.Draws).
		Msg("benchmark finished")
}

// paramList collects repeatable key=value flags.
type paramList []string

func (p *paramList) String() string { return strings.Join(*p, ",") }

func (p *paramList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func (p paramList) apply(param *uct.Params) error {
	for _, kv := range p {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", kv)
		}
		if err := param.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}
