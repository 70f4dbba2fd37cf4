package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

const coords = "abcdefghijklmnopqrs"

// PointToCoords renders a point in SGF coordinates; Pass becomes the empty
// value.
func PointToCoords(b *goboard.Board, p goboard.Point) string {
	if p == goboard.Pass {
		return ""
	}
	return string([]byte{coords[b.Col(p)], coords[b.Row(p)]})
}

// CoordsToPoint parses an SGF coordinate pair. The empty value is Pass.
func CoordsToPoint(b *goboard.Board, s string) (goboard.Point, error) {
	// "tt" is the legacy pass encoding on boards up to 19x19.
	if s == "" || (s == "tt" && b.Size() <= 19) {
		return goboard.Pass, nil
	}
	if len(s) != 2 {
		return goboard.NullPoint, fmt.Errorf("sgf: bad coordinates %q", s)
	}
	col := strings.IndexByte(coords, s[0])
	row := strings.IndexByte(coords, s[1])
	if col < 0 || row < 0 || col >= b.Size() || row >= b.Size() {
		return goboard.NullPoint, fmt.Errorf("sgf: coordinates %q outside board", s)
	}
	return b.Pt(row, col), nil
}

// GameRecord renders the move history of a board as a game tree.
func GameRecord(b *goboard.Board, komi float64) *Node {
	root := NewNode()
	root.Set("GM", "1")
	root.Set("FF", "4")
	root.Set("SZ", strconv.Itoa(b.Size()))
	root.Set("KM", strconv.FormatFloat(komi, 'g', -1, 64))

	node := root
	color := "B"
	for _, move := range b.Moves() {
		child := NewNode()
		child.Set(color, PointToCoords(b, move))
		node = node.AddChild(child)
		if color == "B" {
			color = "W"
		} else {
			color = "B"
		}
	}
	return root
}

// LoadGame replays a parsed game record onto a fresh board, following the
// main line.
func LoadGame(root *Node) (*goboard.Board, float64, error) {
	sizeStr, ok := root.Get("SZ")
	if !ok {
		sizeStr = "19"
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		return nil, 0, fmt.Errorf("sgf: bad board size %q", sizeStr)
	}
	board, err := goboard.NewBoard(size)
	if err != nil {
		return nil, 0, err
	}
	komi := goboard.DefaultKomi
	if komiStr, ok := root.Get("KM"); ok {
		if komi, err = strconv.ParseFloat(komiStr, 64); err != nil {
			return nil, 0, fmt.Errorf("sgf: bad komi %q", komiStr)
		}
	}

	for node := root; node != nil; {
		for _, key := range [2]string{"B", "W"} {
			value, ok := node.Get(key)
			if !ok {
				continue
			}
			p, err := CoordsToPoint(board, value)
			if err != nil {
				return nil, 0, err
			}
			if key == "B" {
				board.SetToPlay(goboard.Black)
			} else {
				board.SetToPlay(goboard.White)
			}
			if err := board.Play(p); err != nil {
				return nil, 0, fmt.Errorf("sgf: move %s[%s]: %w", key, value, err)
			}
		}
		if len(node.Children) == 0 {
			break
		}
		node = node.Children[0]
	}
	return board, komi, nil
}

// DumpTree renders the search tree below the current position as SGF
// variations, annotating each move with its visit count and mean value.
// maxDepth bounds the dump; children below minCount visits are skipped.
func DumpTree(b *goboard.Board, tree *uct.Tree, komi float64, maxDepth int, minCount uint32) *Node {
	root := GameRecord(b, komi)
	node := root
	for len(node.Children) > 0 {
		node = node.Children[0]
	}
	color := "B"
	if b.ToPlay() == goboard.White {
		color = "W"
	}
	dumpChildren(b, node, tree.Root(), color, maxDepth, minCount)
	return root
}

func dumpChildren(b *goboard.Board, parent *Node, treeNode *uct.Node, color string, depth int, minCount uint32) {
	if depth <= 0 {
		return
	}
	children := treeNode.Children()
	for i := range children {
		child := &children[i]
		if child.MoveCount() < minCount {
			continue
		}
		sgfNode := NewNode()
		sgfNode.Set(color, PointToCoords(b, goboard.Point(child.Move())))
		sgfNode.Set("C", fmt.Sprintf("count %d mean %.3f rave %d/%.3f",
			child.MoveCount(), child.Mean(), child.RaveCount(), child.RaveMean()))
		parent.AddChild(sgfNode)
		dumpChildren(b, sgfNode, child, opponentColor(color), depth-1, minCount)
	}
}

func opponentColor(c string) string {
	if c == "B" {
		return "W"
	}
	return "B"
}

// Autosave writes a game record into dir under a unique name and returns
// the path.
func Autosave(dir string, b *goboard.Board, komi float64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("game-%s.sgf", uuid.NewString()))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := GameRecord(b, komi).Write(f); err != nil {
		return "", err
	}
	return path, nil
}
