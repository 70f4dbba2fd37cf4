package uct

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Move is an opaque move identifier. Board collaborators map their own
// point representation onto it; the core only compares moves for equality
// and uses them as indices into the RAVE bookkeeping tables.
type Move int32

const (
	// Null marks "no move": the root node and uninitialized slots.
	Null Move = -2

	// Pass is the reserved pass move.
	Pass Move = -1
)

// Node is the statistical record of one position in the tree.
//
// Statistical fields (move count, mean, RAVE count, RAVE mean, position
// count, virtual loss) are read and written with atomic operations only.
// The incremental mean update is a load-modify-store, not a CAS loop: under
// lock-free multi-threading concurrent writers may briefly drift the mean
// by O(1/moveCount), which self-corrects as counts grow.
//
// Structural fields follow a strict write order: firstChild is stored
// before numChildren is set non-zero. A reader that observes
// numChildren > 0 may safely dereference firstChild. A later expansion of
// the same node may overwrite both; the earlier child block stays in its
// allocator and becomes unreachable.
type Node struct {
	move Move

	// posCount counts every simulation that passed through this node.
	posCount atomic.Uint32

	// moveCount counts the simulations attributed to this node's move.
	// Equals posCount for interior nodes; at leaves it may run ahead when
	// multiple playouts per visit are configured.
	moveCount atomic.Uint32

	// mean is the running mean of backed-up results in [0,1], stored as
	// math.Float64bits, from the perspective of the player to move at the
	// parent.
	mean atomic.Uint64

	raveCount atomic.Uint32
	raveMean  atomic.Uint64

	// virtualLoss biases in-flight paths toward a loss during descent and
	// is removed at backup.
	virtualLoss atomic.Int32

	numChildren atomic.Int32
	firstChild  atomic.Pointer[Node]
}

// init prepares a freshly allocated (or recycled) node for the given move.
// Only the owning allocator calls this, before the node is published.
func (n *Node) init(move Move) {
	n.move = move
	n.posCount.Store(0)
	n.moveCount.Store(0)
	n.mean.Store(0)
	n.raveCount.Store(0)
	n.raveMean.Store(0)
	n.virtualLoss.Store(0)
	n.numChildren.Store(0)
	n.firstChild.Store(nil)
}

func (n *Node) Move() Move { return n.move }

func (n *Node) PosCount() uint32 { return n.posCount.Load() }

func (n *Node) MoveCount() uint32 { return n.moveCount.Load() }

func (n *Node) Mean() float64 { return math.Float64frombits(n.mean.Load()) }

func (n *Node) RaveCount() uint32 { return n.raveCount.Load() }

func (n *Node) RaveMean() float64 { return math.Float64frombits(n.raveMean.Load()) }

func (n *Node) VirtualLoss() int32 { return n.virtualLoss.Load() }

func (n *Node) HasChildren() bool { return n.numChildren.Load() > 0 }

func (n *Node) NuChildren() int { return int(n.numChildren.Load()) }

// Children returns the contiguous child block, or nil for an unexpanded
// node. numChildren is loaded before firstChild; the publication order in
// publishChildren makes the pointed-to block valid whenever the count is
// positive.
func (n *Node) Children() []Node {
	num := n.numChildren.Load()
	if num <= 0 {
		return nil
	}
	first := n.firstChild.Load()
	return unsafe.Slice(first, int(num))
}

// publishChildren makes a child block reachable. Write order dependency:
// the search in lock-free mode assumes firstChild is valid if numChildren
// is greater than zero.
func (n *Node) publishChildren(first *Node, num int) {
	n.firstChild.Store(first)
	n.numChildren.Store(int32(num))
}

// addGameResult folds weight simulations with the given mean eval into the
// node's move statistics.
func (n *Node) addGameResult(eval float64, weight uint32) {
	count := n.moveCount.Add(weight)
	mean := n.Mean()
	n.mean.Store(math.Float64bits(mean + (eval-mean)*float64(weight)/float64(count)))
}

func (n *Node) addRaveValue(eval float64) {
	count := n.raveCount.Add(1)
	mean := n.RaveMean()
	n.raveMean.Store(math.Float64bits(mean + (eval-mean)/float64(count)))
}

func (n *Node) incPosCount() { n.posCount.Add(1) }

func (n *Node) addVirtualLoss() { n.virtualLoss.Add(1) }

func (n *Node) removeVirtualLoss() { n.virtualLoss.Add(-1) }

// initializeValue seeds the move statistics from a prior-knowledge oracle.
// Called between creation and publication of a child block only.
func (n *Node) initializeValue(value float64, count uint32) {
	n.moveCount.Store(count)
	n.mean.Store(math.Float64bits(value))
}

func (n *Node) initializeRaveValue(value float64, count uint32) {
	n.raveCount.Store(count)
	n.raveMean.Store(math.Float64bits(value))
}

// copyDataFrom copies the statistical fields and the child link of another
// node. Used by filtering and subtree extraction; not safe against
// concurrent writers of src.
func (n *Node) copyDataFrom(src *Node) {
	n.move = src.move
	n.posCount.Store(src.posCount.Load())
	n.moveCount.Store(src.moveCount.Load())
	n.mean.Store(src.mean.Load())
	n.raveCount.Store(src.raveCount.Load())
	n.raveMean.Store(src.raveMean.Load())
	n.virtualLoss.Store(0)
}

func (n *Node) setPosCount(count uint32) { n.posCount.Store(count) }
