package uct

import (
	"sync/atomic"
	"time"
)

// FindChildWithMove returns the child of node carrying move, or nil.
func FindChildWithMove(node *Node, move Move) *Node {
	children := node.Children()
	for i := range children {
		if children[i].Move() == move {
			return &children[i]
		}
	}
	return nil
}

// FindMatchingNode follows the move sequence from the root and returns the
// node it ends at, or nil if the path leaves the tree.
func FindMatchingNode(tree *Tree, sequence []Move) *Node {
	node := tree.Root()
	for _, move := range sequence {
		node = FindChildWithMove(node, move)
		if node == nil {
			return nil
		}
	}
	return node
}

// ExtractSubtree copies the subtree reached by the move sequence into
// target and reports whether the sequence existed in the tree. On a miss
// target is left cleared. Used for reusing the surviving subtree between
// moves.
func ExtractSubtree(tree, target *Tree, sequence []Move, maxTime time.Duration, abort *atomic.Bool) bool {
	node := FindMatchingNode(tree, sequence)
	if node == nil {
		target.Clear()
		return false
	}
	tree.ExtractSubtree(target, node, maxTime, abort)
	return true
}
