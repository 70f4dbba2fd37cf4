package uct

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/rs/zerolog/log"
)

// Allocator is a bounded arena of nodes owned by a single worker thread.
// Only the owner appends; the backing array is reserved up front and never
// reallocates, so node addresses are stable for the allocator's lifetime.
type Allocator struct {
	nodes []Node
}

// SetMaxNodes clears the allocator and reserves capacity for maxNodes.
func (a *Allocator) SetMaxNodes(maxNodes int) {
	a.nodes = make([]Node, 0, maxNodes)
}

func (a *Allocator) Clear() {
	a.nodes = a.nodes[:0]
}

func (a *Allocator) NuNodes() int { return len(a.nodes) }

func (a *Allocator) MaxNodes() int { return cap(a.nodes) }

func (a *Allocator) HasCapacity(n int) bool {
	return len(a.nodes)+n <= cap(a.nodes)
}

// Contains reports whether node lives in this allocator's arena. Only used
// for consistency checks.
func (a *Allocator) Contains(node *Node) bool {
	if len(a.nodes) == 0 {
		return false
	}
	p := uintptr(unsafe.Pointer(node))
	lo := uintptr(unsafe.Pointer(&a.nodes[0]))
	hi := uintptr(unsafe.Pointer(&a.nodes[len(a.nodes)-1]))
	return p >= lo && p <= hi
}

// create appends n fresh nodes and returns a pointer to the first one.
// The caller must have checked HasCapacity; append never reallocates.
func (a *Allocator) create(n int) *Node {
	first := len(a.nodes)
	a.nodes = a.nodes[:first+n]
	return &a.nodes[first]
}

// Tree is the UCT tree: a root node plus one allocator per worker thread.
// The root lives outside any allocator. Nodes are never freed individually;
// the whole tree is cleared or a subtree is extracted into a sibling tree.
type Tree struct {
	root       Node
	allocators []Allocator
	maxNodes   int
}

func NewTree() *Tree {
	t := &Tree{}
	t.root.init(Null)
	return t
}

// CreateAllocators replaces any existing allocators with n empty ones.
// Capacities must be set afterwards with SetMaxNodes.
func (t *Tree) CreateAllocators(n int) {
	t.Clear()
	t.allocators = make([]Allocator, n)
}

func (t *Tree) NuAllocators() int { return len(t.allocators) }

func (t *Tree) Allocator(id int) *Allocator { return &t.allocators[id] }

// SetMaxNodes clears the tree and splits the node budget evenly across the
// allocators. The total allocatable node count is the sum of per-allocator
// capacities, which may be slightly below maxNodes.
func (t *Tree) SetMaxNodes(maxNodes int) {
	t.Clear()
	if len(t.allocators) == 0 {
		log.Debug().Msg("uct: SetMaxNodes called with no allocators registered")
		return
	}
	t.maxNodes = maxNodes
	perAlloc := maxNodes / len(t.allocators)
	for i := range t.allocators {
		t.allocators[i].SetMaxNodes(perAlloc)
	}
}

func (t *Tree) MaxNodes() int { return t.maxNodes }

// Clear resets all allocators and the root to a fresh null-move node.
func (t *Tree) Clear() {
	for i := range t.allocators {
		t.allocators[i].Clear()
	}
	t.root.init(Null)
}

func (t *Tree) Root() *Node { return &t.root }

// NuNodes counts the root plus all allocated nodes, including blocks that
// became unreachable through duplicated lock-free expansions.
func (t *Tree) NuNodes() int {
	n := 1
	for i := range t.allocators {
		n += t.allocators[i].NuNodes()
	}
	return n
}

// HasCapacity reports whether allocator allocatorID can hold n more nodes.
func (t *Tree) HasCapacity(allocatorID, n int) bool {
	return t.allocators[allocatorID].HasCapacity(n)
}

// CreateChildren appends one child per move into the given allocator and
// publishes the block on node. In lock-free multi-threading a node can be
// expanded by two threads at once; the later publication wins and the
// earlier block stays allocated but unreachable.
func (t *Tree) CreateChildren(allocatorID int, node *Node, moves []Move) {
	if len(moves) == 0 {
		panic("uct: CreateChildren with empty move list")
	}
	alloc := &t.allocators[allocatorID]
	first := alloc.create(len(moves))
	children := unsafe.Slice(first, len(moves))
	for i := range children {
		children[i].init(moves[i])
	}
	node.publishChildren(first, len(moves))
}

// ApplyFilter rebuilds node's child block without the filtered moves,
// copying the statistics (and grandchild links) of the surviving children.
// Used at search entry to prune forbidden root moves; must not run
// concurrently with the search.
func (t *Tree) ApplyFilter(allocatorID int, node *Node, filter []Move) {
	if !node.HasChildren() {
		return
	}
	old := node.Children()
	alloc := &t.allocators[allocatorID]
	if !alloc.HasCapacity(len(old)) {
		log.Debug().Msg("uct: ApplyFilter skipped, allocator full")
		return
	}
	first := alloc.create(node.NuChildren())
	surviving := unsafe.Slice(first, node.NuChildren())

	kept := 0
	for i := range old {
		if containsMove(filter, old[i].move) {
			continue
		}
		child := &surviving[kept]
		child.init(old[i].move)
		child.copyDataFrom(&old[i])
		if nu := old[i].NuChildren(); nu > 0 {
			child.publishChildren(old[i].firstChild.Load(), nu)
		}
		kept++
	}

	// Unused slots at the end of the block stay allocated; the unfiltered
	// block is unreachable anyway.
	node.publishChildren(first, kept)
}

func containsMove(moves []Move, m Move) bool {
	for _, v := range moves {
		if v == m {
			return true
		}
	}
	return false
}

// ExtractSubtree copies the subtree below node into target, which must have
// the same maximum node count. Children are assigned to target allocators
// in round-robin order to balance the load. The copy truncates when a
// target allocator runs out of capacity, the deadline passes, or abort is
// raised; a truncated node gets posCount zero so it behaves as unvisited on
// resumption. One debug message is emitted per call on the first
// truncation.
func (t *Tree) ExtractSubtree(target *Tree, node *Node, maxTime time.Duration, abort *atomic.Bool) {
	if target == t {
		panic("uct: ExtractSubtree into itself")
	}
	target.Clear()
	cp := subtreeCopier{
		src:      t,
		dst:      target,
		deadline: time.Now().Add(maxTime),
		abort:    abort,
		warn:     true,
	}
	cp.copy(&target.root, node)
}

type subtreeCopier struct {
	src         *Tree
	dst         *Tree
	deadline    time.Time
	abort       *atomic.Bool
	allocatorID int
	warn        bool
}

func (c *subtreeCopier) truncate(reason string) {
	if c.warn {
		log.Debug().Str("reason", reason).Msg("uct: subtree extraction truncated")
		c.warn = false
	}
}

func (c *subtreeCopier) copy(targetNode, node *Node) {
	targetNode.copyDataFrom(node)
	if !node.HasChildren() {
		return
	}

	nuChildren := node.NuChildren()
	truncate := false
	alloc := c.dst.Allocator(c.allocatorID)
	// Can happen even with equal maximum node counts, because the two
	// trees spread nodes over their allocators differently.
	if !alloc.HasCapacity(nuChildren) {
		c.truncate("allocator capacity")
		truncate = true
	}
	if !time.Now().Before(c.deadline) {
		c.truncate("max time")
		truncate = true
	}
	if c.abort != nil && c.abort.Load() {
		c.truncate("aborted")
		truncate = true
	}
	if truncate {
		// Drop the children; posCount zero makes the node look unvisited,
		// consistent with it no longer having the children's move counts
		// below it.
		targetNode.setPosCount(0)
		return
	}

	first := alloc.create(nuChildren)
	targetChildren := unsafe.Slice(first, nuChildren)
	for i := range targetChildren {
		targetChildren[i].init(Null)
	}
	targetNode.publishChildren(first, nuChildren)

	children := node.Children()
	for i := range children {
		// Cycle to use the target allocators uniformly.
		c.allocatorID++
		if c.allocatorID >= c.dst.NuAllocators() {
			c.allocatorID = 0
		}
		c.copy(&targetChildren[i], &children[i])
	}
}

// CheckConsistency panics if a reachable node lies outside every allocator
// or a child count points at an invalid block. Debug helper for tests.
func (t *Tree) CheckConsistency() {
	t.checkNode(&t.root)
}

func (t *Tree) checkNode(n *Node) {
	children := n.Children()
	if len(children) > 0 {
		first := &children[0]
		ok := false
		for i := range t.allocators {
			if t.allocators[i].Contains(first) {
				ok = true
				break
			}
		}
		if !ok {
			panic("uct: child block outside every allocator")
		}
	}
	for i := range children {
		t.checkNode(&children[i])
	}
}
