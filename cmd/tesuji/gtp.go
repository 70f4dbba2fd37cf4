package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/player"
	"github.com/tesuji-go/tesuji/pkg/sgf"
)

// gtpColumns skips 'I' per Go convention.
const gtpColumns = "ABCDEFGHJKLMNOPQRST"

// Engine answers GTP commands on top of a Player.
type Engine struct {
	player      *player.Player
	out         io.Writer
	autosaveDir string

	// timeLeft is the clock state reported by the controller, per color.
	timeLeft map[goboard.Color]time.Duration

	quit bool
}

func NewEngine(p *player.Player, out io.Writer, autosaveDir string) *Engine {
	return &Engine{
		player:      p,
		out:         out,
		autosaveDir: autosaveDir,
		timeLeft:    map[goboard.Color]time.Duration{},
	}
}

var commandNames = []string{
	"boardsize", "clear_board", "final_score", "genmove", "known_command",
	"komi", "list_commands", "name", "play", "protocol_version", "quit",
	"showboard", "tesuji-dumptree", "tesuji-param", "tesuji-savegame",
	"tesuji-stats", "time_left", "undo", "version",
}

// Run reads commands until EOF or quit.
func (e *Engine) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for !e.quit && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		// An optional numeric id echoes back in the response.
		id := ""
		if _, err := strconv.Atoi(fields[0]); err == nil {
			id = fields[0]
			fields = fields[1:]
			if len(fields) == 0 {
				e.failure(id, "missing command")
				continue
			}
		}

		result, err := e.dispatch(fields[0], fields[1:])
		if err != nil {
			e.failure(id, err.Error())
			continue
		}
		e.success(id, result)
	}
	return scanner.Err()
}

func (e *Engine) success(id, result string) {
	fmt.Fprintf(e.out, "=%s %s\n\n", id, result)
}

func (e *Engine) failure(id, msg string) {
	fmt.Fprintf(e.out, "?%s %s\n\n", id, msg)
}

func (e *Engine) dispatch(cmd string, args []string) (string, error) {
	switch cmd {
	case "protocol_version":
		return "2", nil
	case "name":
		return "tesuji", nil
	case "version":
		return version, nil
	case "known_command":
		if len(args) != 1 {
			return "", fmt.Errorf("expected command name")
		}
		for _, name := range commandNames {
			if name == args[0] {
				return "true", nil
			}
		}
		return "false", nil
	case "list_commands":
		return strings.Join(commandNames, "\n"), nil
	case "quit":
		e.quit = true
		return "", nil
	case "boardsize":
		return e.cmdBoardsize(args)
	case "clear_board":
		return "", e.player.NewGame(e.player.Board().Size())
	case "komi":
		return e.cmdKomi(args)
	case "play":
		return e.cmdPlay(args)
	case "genmove":
		return e.cmdGenmove(args)
	case "undo":
		return e.cmdUndo()
	case "showboard":
		return "\n" + strings.TrimRight(e.player.Board().String(), "\n"), nil
	case "final_score":
		return e.cmdFinalScore()
	case "time_left":
		return e.cmdTimeLeft(args)
	case "tesuji-param":
		return e.cmdParam(args)
	case "tesuji-stats":
		return e.cmdStats()
	case "tesuji-dumptree":
		return e.cmdDumpTree(args)
	case "tesuji-savegame":
		return e.cmdSaveGame()
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}

func (e *Engine) cmdBoardsize(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected board size")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("bad board size %q", args[0])
	}
	return "", e.player.NewGame(size)
}

func (e *Engine) cmdKomi(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected komi")
	}
	komi, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return "", fmt.Errorf("bad komi %q", args[0])
	}
	e.player.SetKomi(komi)
	return "", nil
}

func (e *Engine) cmdPlay(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("expected color and vertex")
	}
	color, err := parseColor(args[0])
	if err != nil {
		return "", err
	}
	move, err := parseVertex(e.player.Board(), args[1])
	if err != nil {
		return "", err
	}
	e.player.Board().SetToPlay(color)
	if err := e.player.Play(move); err != nil {
		return "", err
	}
	e.player.StartPonder()
	return "", nil
}

func (e *Engine) cmdGenmove(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected color")
	}
	color, err := parseColor(args[0])
	if err != nil {
		return "", err
	}
	e.player.Board().SetToPlay(color)

	move, resign, err := e.player.GenerateMove(e.timeLeft[color])
	if err != nil {
		return "", err
	}
	if resign {
		return "resign", nil
	}
	if err := e.player.Play(move); err != nil {
		return "", err
	}
	if e.autosaveDir != "" && e.player.Board().TwoPassesEnded() {
		if path, err := sgf.Autosave(e.autosaveDir, e.player.Board(), e.player.Komi()); err == nil {
			log.Info().Str("path", path).Msg("game autosaved")
		} else {
			log.Warn().Err(err).Msg("autosave failed")
		}
	}
	e.player.StartPonder()
	return formatVertex(e.player.Board(), move), nil
}

func (e *Engine) cmdUndo() (string, error) {
	if e.player.Board().MoveNumber() == 0 {
		return "", fmt.Errorf("nothing to undo")
	}
	e.player.StopPonder()
	e.player.Board().Undo()
	return "", nil
}

func (e *Engine) cmdFinalScore() (string, error) {
	score := e.player.Board().TrompTaylorScore(e.player.Komi())
	switch {
	case score > 0:
		return fmt.Sprintf("B+%.1f", score), nil
	case score < 0:
		return fmt.Sprintf("W+%.1f", -score), nil
	}
	return "0", nil
}

func (e *Engine) cmdTimeLeft(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("expected color and seconds")
	}
	color, err := parseColor(args[0])
	if err != nil {
		return "", err
	}
	seconds, err := strconv.Atoi(args[1])
	if err != nil {
		return "", fmt.Errorf("bad time %q", args[1])
	}
	e.timeLeft[color] = time.Duration(seconds) * time.Second
	return "", nil
}

// cmdParam implements "tesuji-param" (list), "tesuji-param key" (get) and
// "tesuji-param key value" (set).
func (e *Engine) cmdParam(args []string) (string, error) {
	param := e.player.Param()
	switch len(args) {
	case 0:
		keys := append([]string(nil), paramKeys...)
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			value, err := param.Get(key)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s %s\n", key, value)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	case 1:
		return param.Get(args[0])
	case 2:
		return "", param.Set(args[0], args[1])
	}
	return "", fmt.Errorf("expected at most key and value")
}

func (e *Engine) cmdStats() (string, error) {
	stats := e.player.Search().Statistics()
	return fmt.Sprintf("games %d\ngames/s %.0f\nmoves_in_tree %.1f\ngame_length %.1f\naborted %.3f",
		stats.Games, stats.GamesPerSecond, stats.MovesInTree.Mean(),
		stats.GameLength.Mean(), stats.Aborted.Mean()), nil
}

func (e *Engine) cmdDumpTree(args []string) (string, error) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("bad depth %q", args[0])
		}
		depth = d
	}
	var b strings.Builder
	node := sgf.DumpTree(e.player.Board(), e.player.Search().Tree(), e.player.Komi(), depth, 1)
	if err := node.Write(&b); err != nil {
		return "", err
	}
	return "\n" + strings.TrimSpace(b.String()), nil
}

func (e *Engine) cmdSaveGame() (string, error) {
	dir := e.autosaveDir
	if dir == "" {
		dir = "."
	}
	return sgf.Autosave(dir, e.player.Board(), e.player.Komi())
}

var paramKeys = []string{
	"max_games", "max_nodes", "max_time", "num_threads", "num_playouts",
	"expand_threshold", "max_game_length", "first_play_urgency",
	"bias_constant", "no_bias_term", "rave", "rave_check_same",
	"rave_weight_initial", "rave_weight_final", "lock_free", "virtual_loss",
	"ponder", "reuse_subtree", "ignore_clock", "resign_threshold",
	"early_pass", "move_select", "prior_knowledge", "search_mode",
	"live_gfx", "live_gfx_interval", "territory_statistics", "mercy_rule",
	"score_modification",
}

func parseColor(s string) (goboard.Color, error) {
	switch strings.ToLower(s) {
	case "b", "black":
		return goboard.Black, nil
	case "w", "white":
		return goboard.White, nil
	}
	return goboard.Empty, fmt.Errorf("bad color %q", s)
}

func parseVertex(b *goboard.Board, s string) (goboard.Point, error) {
	s = strings.ToUpper(s)
	if s == "PASS" {
		return goboard.Pass, nil
	}
	if len(s) < 2 {
		return goboard.NullPoint, fmt.Errorf("bad vertex %q", s)
	}
	col := strings.IndexByte(gtpColumns, s[0])
	row, err := strconv.Atoi(s[1:])
	if err != nil || col < 0 || col >= b.Size() || row < 1 || row > b.Size() {
		return goboard.NullPoint, fmt.Errorf("bad vertex %q", s)
	}
	return b.Pt(row-1, col), nil
}

func formatVertex(b *goboard.Board, p goboard.Point) string {
	if p == goboard.Pass {
		return "pass"
	}
	return fmt.Sprintf("%c%d", gtpColumns[b.Col(p)], b.Row(p)+1)
}
