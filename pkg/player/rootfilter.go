package player

import (
	"github.com/tesuji-go/tesuji/pkg/goboard"
	"github.com/tesuji-go/tesuji/pkg/uct"
)

// RootFilter produces moves the search must not consider at the root.
type RootFilter interface {
	Get(b *goboard.Board) []uct.Move
}

// defaultRootFilter prunes moves that throw away a group: playing into
// self-atari with three or more stones. Playouts can still stumble into
// such shapes, but the root never commits to them.
type defaultRootFilter struct{}

func NewDefaultRootFilter() RootFilter { return defaultRootFilter{} }

func (defaultRootFilter) Get(b *goboard.Board) []uct.Move {
	var filtered []uct.Move
	toPlay := b.ToPlay()
	for _, p := range b.EmptyPoints(nil) {
		if !b.SelfAtari(p, toPlay) {
			continue
		}
		if err := b.Play(p); err != nil {
			continue
		}
		size := b.GroupSize(p)
		b.Undo()
		if size >= 3 {
			filtered = append(filtered, uct.Move(p))
		}
	}
	return filtered
}
