package uct

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// unknownEval is backed up for simulations that could not be evaluated.
// Only used when some playouts of a multi-playout visit survive; a visit
// with no valid playout applies no update at all.
const unknownEval = 0.5

// worker bundles everything one search thread owns: its allocator id (same
// as the thread id), its thread state, the per-visit game record, scratch
// move buffers and the RAVE first-play tables.
type worker struct {
	id    int
	state ThreadState
	info  GameInfo
	moves []Move

	// firstPlay[m] is the earliest ply at which move m was played by the
	// side to move at even plies; firstPlayOpp the same for odd plies.
	firstPlay    []int32
	firstPlayOpp []int32

	movesInTree Statistics
	gameLength  Statistics
	abortedStat Statistics

	warnedFull bool
}

const raveNever = math.MaxInt32

func moveIndex(m Move) int { return int(m) + 1 }

// Search is the orchestrator: it owns the tree, schedules the workers,
// runs the selection-expansion-simulation-backup loop and applies the
// termination predicate.
type Search struct {
	param   *Params
	factory ThreadStateFactory

	// moveRange bounds the move values the states may produce; RAVE tables
	// are indexed by move.
	moveRange int

	tree     *Tree
	tempTree *Tree

	workers []*worker
	wg      sync.WaitGroup

	// globalMu serializes the in-tree and update phases when lock_free is
	// disabled.
	globalMu sync.Mutex

	limiter     limiter
	numberGames atomic.Uint64
	earlyAbort  *EarlyAbortParam

	rootFilter []Move

	raveParam1 float64
	raveParam2 float64

	listener *StatsListener
	liveGfx  *LiveGfx

	statsMu        sync.Mutex
	movesInTree    Statistics
	gameLength     Statistics
	abortedStat    Statistics
	gamesPerSecond float64

	log zerolog.Logger
}

// NewSearch creates a driver over the given thread-state factory.
// moveRange must be larger than any move value a state generates.
func NewSearch(factory ThreadStateFactory, moveRange int, param *Params) *Search {
	if param == nil {
		param = DefaultParams()
	}
	return &Search{
		param:     param,
		factory:   factory,
		moveRange: moveRange,
		tree:      NewTree(),
		tempTree:  NewTree(),
		listener:  NewStatsListener(),
		log:       log.With().Str("component", "uct").Logger(),
	}
}

func (s *Search) Param() *Params { return s.param }

// Tree gives read-only access to the most recent search tree.
func (s *Search) Tree() *Tree { return s.tree }

func (s *Search) Listener() *StatsListener { return s.listener }

func (s *Search) SetLiveGfx(g *LiveGfx) { s.liveGfx = g }

// SetEarlyAbort installs the "root decided" termination arm for the next
// search; nil disables it.
func (s *Search) SetEarlyAbort(p *EarlyAbortParam) { s.earlyAbort = p }

func (s *Search) WasEarlyAbort() bool { return s.limiter.WasEarlyAbort() }

func (s *Search) StopReason() StopReason { return s.limiter.StopReason() }

// Stop raises the external abort flag. Workers observing it finish their
// current backup and exit.
func (s *Search) Stop() { s.limiter.SetStop() }

// SetContext attaches a context checked alongside the other termination
// conditions; cancellation acts like Stop.
func (s *Search) SetContext(ctx context.Context) { s.limiter.SetContext(ctx) }

func (s *Search) NumberGames() uint64 { return s.numberGames.Load() }

func (s *Search) GamesPerSecond() float64 { return s.gamesPerSecond }

func (s *Search) ensureWorkers() {
	n := s.param.NumThreads
	if len(s.workers) == n {
		return
	}
	seed := SeedGeneratorFn()
	s.workers = make([]*worker, n)
	for i := 0; i < n; i++ {
		s.workers[i] = &worker{
			id:           i,
			state:        s.factory.Create(i, seed+int64(i)),
			firstPlay:    make([]int32, s.moveRange+1),
			firstPlayOpp: make([]int32, s.moveRange+1),
		}
	}
}

func (s *Search) ensureTrees() {
	n := s.param.NumThreads
	if s.tree.NuAllocators() != n || s.tree.MaxNodes() != s.param.MaxNodes {
		s.tree.CreateAllocators(n)
		s.tree.SetMaxNodes(s.param.MaxNodes)
		s.tempTree.CreateAllocators(n)
		s.tempTree.SetMaxNodes(s.param.MaxNodes)
	}
}

// FindInitTree extracts the subtree below the given move sequence into the
// internal temp tree and returns it, for passing back into Search as the
// initial tree (subtree reuse between moves).
func (s *Search) FindInitTree(sequence []Move, maxTime time.Duration) *Tree {
	s.ensureTrees()
	ExtractSubtree(s.tree, s.tempTree, sequence, maxTime, &s.limiter.stop)
	return s.tempTree
}

// Search runs a search bounded by game count and wall time. maxTime <= 0
// means no time limit. rootFilter lists moves the search must never
// consider at the root. initTree, if non-nil, must come from FindInitTree
// and becomes the starting tree. Returns the root mean value in [0,1] from
// the root side-to-move's perspective (0.5 for an empty tree) and the
// principal variation.
func (s *Search) Search(maxGames uint64, maxTime time.Duration, rootFilter []Move, initTree *Tree) (value float64, sequence []Move) {
	if err := s.param.Validate(); err != nil {
		panic(err)
	}
	s.ensureWorkers()
	s.ensureTrees()

	if initTree != nil && initTree == s.tempTree {
		s.tree, s.tempTree = s.tempTree, s.tree
	} else {
		s.tree.Clear()
	}

	s.rootFilter = append(s.rootFilter[:0], rootFilter...)
	s.raveParam1 = 1 / s.param.RaveWeightInitial
	s.raveParam2 = s.param.RaveWeightInitial / s.param.RaveWeightFinal
	s.numberGames.Store(0)
	s.resetStatistics()

	for _, w := range s.workers {
		w.state.StartSearch()
		w.warnedFull = false
	}
	if len(s.rootFilter) > 0 && s.tree.Root().HasChildren() {
		s.tree.ApplyFilter(0, s.tree.Root(), s.rootFilter)
	}

	s.limiter.Reset(maxGames, maxTime, s.earlyAbort)
	s.wg.Add(len(s.workers))
	for _, w := range s.workers {
		go s.searchLoop(w)
	}
	s.wg.Wait()

	s.mergeStatistics()
	if elapsed := s.limiter.Elapsed(); elapsed > 0 {
		s.gamesPerSecond = float64(s.numberGames.Load()) / elapsed.Seconds()
	}

	sequence = s.findBestSequence(nil)
	if s.listener.onStop != nil {
		s.listener.onStop(s.snapshot())
	}
	return s.rootValue(), sequence
}

// SearchBackground starts a search in a goroutine, for pondering. Use Stop
// and then Synchronize to collect the result.
func (s *Search) SearchBackground(maxGames uint64, maxTime time.Duration, rootFilter []Move, initTree *Tree) <-chan float64 {
	done := make(chan float64, 1)
	go func() {
		value, _ := s.Search(maxGames, maxTime, rootFilter, initTree)
		done <- value
	}()
	return done
}

func (s *Search) rootValue() float64 {
	root := s.tree.Root()
	if root.MoveCount() == 0 {
		return 0.5
	}
	return root.Mean()
}

// GenerateAllMoves produces the moves the driver would have available at
// the current root, after applying the root filter. Tooling hook.
func (s *Search) GenerateAllMoves() []Move {
	s.ensureWorkers()
	state := s.workers[0].state
	state.StartSearch()
	moves := state.GenerateAllMoves(nil)
	if len(s.rootFilter) > 0 {
		moves = excludeMoves(moves, s.rootFilter)
	}
	return moves
}

func excludeMoves(moves, filter []Move) []Move {
	// Filter without changing the order of the surviving moves.
	kept := moves[:0]
	for _, m := range moves {
		if !containsMove(filter, m) {
			kept = append(kept, m)
		}
	}
	return kept
}

func (s *Search) searchLoop(w *worker) {
	defer s.wg.Done()
	for s.limiter.Ok(s.numberGames.Load(), s.rootValue(), uint64(s.tree.Root().MoveCount())) {
		s.playGame(w)
		games := s.numberGames.Add(1)
		if w.id == 0 {
			s.onSearchIteration(games)
		}
	}
}

func (s *Search) onSearchIteration(games uint64) {
	emitListener := s.listener.onGame != nil && games%s.listener.nGames == 0
	emitGfx := s.liveGfx != nil && s.param.LiveGfx != LiveGfxNone &&
		s.param.LiveGfxInterval > 0 && games%s.param.LiveGfxInterval == 0
	if !emitListener && !emitGfx {
		return
	}
	ev := s.snapshot()
	if emitListener {
		s.listener.onGame(ev)
	}
	if emitGfx {
		s.liveGfx.Write(ev)
	}
}

func (s *Search) snapshot() SearchEvent {
	root := s.tree.Root()
	children := root.Children()
	snap := make([]ChildSnapshot, len(children))
	for i := range children {
		snap[i] = ChildSnapshot{
			Move:  children[i].Move(),
			Count: children[i].MoveCount(),
			Mean:  children[i].Mean(),
		}
	}
	return SearchEvent{
		Games:        s.numberGames.Load(),
		NuNodes:      s.tree.NuNodes(),
		Value:        s.rootValue(),
		Sequence:     s.findBestSequence(nil),
		Elapsed:      s.limiter.Elapsed(),
		StopReason:   s.limiter.StopReason(),
		RootChildren: snap,
	}
}

// playGame performs one visit: descend, simulate, back up.
func (s *Search) playGame(w *worker) {
	w.state.GameStart()
	w.info.Clear(s.param.NumPlayouts)

	locked := !s.param.LockFree && s.param.NumThreads > 1
	if locked {
		s.globalMu.Lock()
	}
	isTerminal := false
	abortInTree := !s.playInTree(w, &isTerminal)
	if locked {
		s.globalMu.Unlock()
	}

	// The playout phase is always unlocked.
	info := &w.info
	nuMovesInTree := len(info.InTreeSequence)
	w.state.StartPlayouts()
	for i := 0; i < s.param.NumPlayouts; i++ {
		w.state.StartPlayout()
		info.Sequence[i] = append(info.Sequence[i], info.InTreeSequence...)
		for j := 0; j < nuMovesInTree; j++ {
			info.SkipRaveUpdate[i] = append(info.SkipRaveUpdate[i], false)
		}
		abort := abortInTree
		if !abort && !isTerminal {
			abort = !s.playoutGame(w, i)
		}
		var eval float64
		if abort {
			eval = unknownEval
		} else {
			eval = w.state.Evaluate()
		}
		nuMoves := len(info.Sequence[i])
		if nuMoves%2 != 0 {
			// Convert to the root side-to-move's perspective.
			eval = 1 - eval
		}
		info.Aborted = append(info.Aborted, abort)
		info.Eval = append(info.Eval, eval)
		w.state.EndPlayout()
		w.state.TakeBackPlayout(nuMoves - nuMovesInTree)
	}
	w.state.TakeBackInTree(nuMovesInTree)

	if locked {
		s.globalMu.Lock()
	}
	s.updateTree(info)
	if s.param.Rave {
		s.updateRaveValues(w)
	}
	s.updateWorkerStatistics(w)
	if locked {
		s.globalMu.Unlock()
	}
}

// playInTree descends from the root to a leaf or newly expanded node,
// recording the path. Returns false if the game was aborted by the length
// cap.
func (s *Search) playInTree(w *worker, isTerminal *bool) bool {
	info := &w.info
	root := s.tree.Root()
	current := root
	info.Nodes = append(info.Nodes, current)
	breakAfterSelect := false
	for {
		if len(info.InTreeSequence) >= s.param.MaxGameLength {
			return false
		}
		if !current.HasChildren() {
			w.moves = w.moves[:0]
			w.moves = w.state.GenerateAllMoves(w.moves)
			if current == root && len(s.rootFilter) > 0 {
				w.moves = excludeMoves(w.moves, s.rootFilter)
			}
			if len(w.moves) == 0 {
				*isTerminal = true
				break
			}
			if current.PosCount() < s.param.ExpandThreshold {
				break
			}
			s.expandNode(w, current)
			if !current.HasChildren() {
				// Expansion skipped for capacity reasons; treat as leaf.
				break
			}
			breakAfterSelect = true
		}
		current = s.selectChild(current)
		if s.param.VirtualLoss {
			current.addVirtualLoss()
		}
		info.Nodes = append(info.Nodes, current)
		w.state.Execute(current.Move())
		info.InTreeSequence = append(info.InTreeSequence, current.Move())
		if breakAfterSelect {
			break
		}
	}
	return true
}

// expandNode creates children for the moves in w.moves and seeds them from
// the prior-knowledge oracle. Capacity failure surfaces as "expansion
// skipped"; descent continues as at an unexpanded leaf.
func (s *Search) expandNode(w *worker, node *Node) {
	if !s.tree.HasCapacity(w.id, len(w.moves)) {
		if !w.warnedFull {
			s.log.Debug().Int("maxNodes", s.tree.MaxNodes()).
				Msg("maximum tree size reached, expansion skipped")
			w.warnedFull = true
		}
		return
	}
	s.tree.CreateChildren(w.id, node, w.moves)
	prior := w.state.PriorKnowledge()
	if prior == nil {
		return
	}
	prior.ProcessPosition()
	children := node.Children()
	for i := range children {
		value, count := prior.InitializeMove(children[i].Move())
		if count == 0 {
			continue
		}
		children[i].initializeValue(value, count)
		if s.param.Rave {
			children[i].initializeRaveValue(value, count)
		}
	}
}

// selectChild applies the selection formula and returns the child with the
// highest score. Ties go to the lower index in the child block, so a fixed
// traversal order is deterministic.
func (s *Search) selectChild(node *Node) *Node {
	children := node.Children()
	posCount := node.PosCount()
	if posCount == 0 {
		return &children[0]
	}
	logPos := math.Log(float64(posCount))
	best := &children[0]
	bestBound := s.getBound(logPos, best)
	for i := 1; i < len(children); i++ {
		if bound := s.getBound(logPos, &children[i]); bound > bestBound {
			best = &children[i]
			bestBound = bound
		}
	}
	return best
}

func (s *Search) getBound(logPos float64, child *Node) float64 {
	value := s.valueEstimate(child)
	if s.param.NoBiasTerm || s.param.BiasConstant == 0 {
		return value
	}
	count := float64(child.MoveCount())
	if s.param.VirtualLoss {
		count += float64(child.VirtualLoss())
	}
	if count < 1 {
		count = 1
	}
	return value + s.param.BiasConstant*math.Sqrt(logPos/count)
}

// valueEstimate blends the UCB mean with the RAVE mean. The blend weight
// goes to 1 for cold nodes and to 0 as the move count grows. Virtual
// losses count as lost trials, pushing in-flight children down.
func (s *Search) valueEstimate(child *Node) float64 {
	moveCount := child.MoveCount()
	var virtualLoss int32
	if s.param.VirtualLoss {
		virtualLoss = child.VirtualLoss()
	}
	effCount := float64(moveCount) + float64(virtualLoss)
	raveCount := child.RaveCount()

	if effCount == 0 {
		if s.param.Rave && raveCount > 0 {
			return child.RaveMean()
		}
		return s.param.FirstPlayUrgency
	}

	moveValue := child.Mean() * float64(moveCount) / effCount
	if !s.param.Rave || raveCount == 0 {
		return moveValue
	}
	rc := float64(raveCount)
	weight := rc / (float64(moveCount)*(s.raveParam1+s.raveParam2*rc) + rc)
	return weight*child.RaveMean() + (1-weight)*moveValue
}

// playoutGame finishes the game with the state's simulation policy.
// Returns false if the simulation was aborted (length cap or collaborator
// error).
func (s *Search) playoutGame(w *worker, playout int) bool {
	info := &w.info
	seq := info.Sequence[playout]
	skip := info.SkipRaveUpdate[playout]
	ok := true
	for {
		if len(seq) >= s.param.MaxGameLength {
			ok = false
			break
		}
		move, skipRave, generated := w.state.GenerateRandomMove()
		if !generated {
			ok = false
			break
		}
		if move == Null {
			break
		}
		w.state.ExecutePlayout(move)
		seq = append(seq, move)
		skip = append(skip, skipRave)
	}
	info.Sequence[playout] = seq
	info.SkipRaveUpdate[playout] = skip
	return ok
}

// updateTree backs the averaged simulation result up the recorded path.
// All playouts of a visit count as one result everywhere except at the
// leaf, whose move count absorbs each valid playout. A visit with no valid
// playout applies no statistical update (the virtual loss is still
// removed).
func (s *Search) updateTree(info *GameInfo) {
	eval := 0.0
	valid := 0
	for i := range info.Eval {
		if !info.Aborted[i] {
			eval += info.Eval[i]
			valid++
		}
	}
	if valid == 0 {
		s.removeVirtualLosses(info)
		return
	}
	eval /= float64(valid)
	inv := 1 - eval
	last := len(info.Nodes) - 1
	for i, node := range info.Nodes {
		node.incPosCount()
		v := eval
		if i > 0 && i%2 == 0 {
			v = inv
		}
		weight := uint32(1)
		if i == last {
			weight = uint32(valid)
		}
		node.addGameResult(v, weight)
	}
	s.removeVirtualLosses(info)
}

func (s *Search) removeVirtualLosses(info *GameInfo) {
	if !s.param.VirtualLoss {
		return
	}
	for i := 1; i < len(info.Nodes); i++ {
		info.Nodes[i].removeVirtualLoss()
	}
}

// updateRaveValues accumulates, for every child of every node on the path,
// the results of the playouts in which the child's move was played by the
// side to move at that node.
func (s *Search) updateRaveValues(w *worker) {
	for i := 0; i < s.param.NumPlayouts; i++ {
		if !w.info.Aborted[i] {
			s.updateRavePlayout(w, i)
		}
	}
}

func (s *Search) updateRavePlayout(w *worker, playout int) {
	info := &w.info
	seq := info.Sequence[playout]
	if len(seq) == 0 {
		return
	}
	skip := info.SkipRaveUpdate[playout]
	eval := info.Eval[playout]
	inv := 1 - eval
	nuNodes := len(info.Nodes)

	for i := range w.firstPlay {
		w.firstPlay[i] = raveNever
		w.firstPlayOpp[i] = raveNever
	}

	// First pass: seed the first-play tables with the pure playout moves.
	j := len(seq) - 1
	opp := j%2 != 0
	for ; j >= nuNodes; j-- {
		if !skip[j] {
			recordFirstPlay(w, opp, seq[j], int32(j))
		}
		opp = !opp
	}

	// Second pass: walk the in-tree path backwards, updating RAVE values
	// of each node's children.
	for {
		if !skip[j] {
			recordFirstPlay(w, opp, seq[j], int32(j))
			if opp {
				s.updateRaveNode(info.Nodes[j], inv, int32(j), w.firstPlayOpp, w.firstPlay)
			} else {
				s.updateRaveNode(info.Nodes[j], eval, int32(j), w.firstPlay, w.firstPlayOpp)
			}
		}
		if j == 0 {
			break
		}
		j--
		opp = !opp
	}
}

func recordFirstPlay(w *worker, opp bool, move Move, ply int32) {
	table := w.firstPlay
	if opp {
		table = w.firstPlayOpp
	}
	idx := moveIndex(move)
	if ply < table[idx] {
		table[idx] = ply
	}
}

func (s *Search) updateRaveNode(node *Node, eval float64, ply int32, first, firstOpp []int32) {
	children := node.Children()
	for i := range children {
		idx := moveIndex(children[i].Move())
		f := first[idx]
		if f == raveNever {
			continue
		}
		// With rave_check_same, suppress the update if the opponent played
		// the same point in between (repeated situations double-count
		// otherwise).
		if s.param.RaveCheckSame && firstOpp[idx] >= ply && firstOpp[idx] <= f {
			continue
		}
		children[i].addRaveValue(eval)
	}
}

// FindBestChild picks a child of node by the configured move-select
// criterion, skipping excluded moves. Ties break toward the higher mean,
// then the lower index.
func (s *Search) FindBestChild(node *Node, exclude []Move) *Node {
	children := node.Children()
	if len(children) == 0 {
		return nil
	}
	posCount := float64(node.PosCount())
	if posCount < 1 {
		posCount = 1
	}
	logPos := math.Log(posCount)
	var best *Node
	bestValue := 0.0
	for i := range children {
		child := &children[i]
		if containsMove(exclude, child.Move()) {
			continue
		}
		if child.MoveCount() == 0 &&
			!((s.param.MoveSelect == MoveSelectBound || s.param.MoveSelect == MoveSelectEstimate) &&
				s.param.Rave && child.RaveCount() > 0) {
			continue
		}
		var value float64
		switch s.param.MoveSelect {
		case MoveSelectValue:
			value = child.Mean()
		case MoveSelectCount:
			value = float64(child.MoveCount())
		case MoveSelectBound:
			value = s.getBound(logPos, child)
		case MoveSelectEstimate:
			value = s.valueEstimate(child)
		}
		if best == nil || value > bestValue ||
			(value == bestValue && child.Mean() > best.Mean()) {
			best = child
			bestValue = value
		}
	}
	return best
}

func (s *Search) findBestSequence(exclude []Move) []Move {
	var sequence []Move
	current := s.tree.Root()
	for {
		current = s.FindBestChild(current, exclude)
		if current == nil {
			break
		}
		sequence = append(sequence, current.Move())
		exclude = nil
		if !current.HasChildren() {
			break
		}
	}
	return sequence
}

// SearchOnePly runs independent rollouts for each root move, without
// growing a tree, and returns the best move with its mean value.
// Single-threaded; uses the first worker's state.
func (s *Search) SearchOnePly(maxGames uint64, maxTime time.Duration) (Move, float64) {
	s.ensureWorkers()
	w := s.workers[0]
	w.state.StartSearch()
	moves := w.state.GenerateAllMoves(nil)
	if len(s.rootFilter) > 0 {
		moves = excludeMoves(moves, s.rootFilter)
	}
	if len(moves) == 0 {
		return Null, 0.5
	}

	s.limiter.Reset(maxGames, maxTime, nil)
	stats := make([]Statistics, len(moves))
	var games uint64
	for s.limiter.Ok(games, 0, 0) {
		for i, move := range moves {
			w.state.GameStart()
			w.info.Clear(1)
			w.state.Execute(move)
			w.info.InTreeSequence = append(w.info.InTreeSequence, move)
			w.info.Sequence[0] = append(w.info.Sequence[0], move)
			w.info.SkipRaveUpdate[0] = append(w.info.SkipRaveUpdate[0], false)
			w.state.StartPlayouts()
			w.state.StartPlayout()
			aborted := !s.playoutGame(w, 0)
			eval := unknownEval
			if !aborted {
				eval = w.state.Evaluate()
			}
			if len(w.info.Sequence[0])%2 != 0 {
				eval = 1 - eval
			}
			w.state.EndPlayout()
			w.state.TakeBackPlayout(len(w.info.Sequence[0]) - 1)
			w.state.TakeBackInTree(1)
			stats[i].Add(eval)
			games++
		}
	}

	bestMove := Null
	bestValue := 0.0
	for i := range moves {
		if bestMove == Null || stats[i].Mean() > bestValue {
			bestMove = moves[i]
			bestValue = stats[i].Mean()
		}
	}
	return bestMove, bestValue
}

func (s *Search) updateWorkerStatistics(w *worker) {
	info := &w.info
	w.movesInTree.Add(float64(len(info.InTreeSequence)))
	for i := range info.Sequence {
		w.gameLength.Add(float64(len(info.Sequence[i])))
		if info.Aborted[i] {
			w.abortedStat.Add(1)
		} else {
			w.abortedStat.Add(0)
		}
	}
}

func (s *Search) resetStatistics() {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.movesInTree.Clear()
	s.gameLength.Clear()
	s.abortedStat.Clear()
	for _, w := range s.workers {
		w.movesInTree.Clear()
		w.gameLength.Clear()
		w.abortedStat.Clear()
	}
}

func (s *Search) mergeStatistics() {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	for _, w := range s.workers {
		s.movesInTree.Merge(w.movesInTree)
		s.gameLength.Merge(w.gameLength)
		s.abortedStat.Merge(w.abortedStat)
	}
}

// SearchStatistics is an aggregate snapshot of the last search.
type SearchStatistics struct {
	Games          uint64
	GamesPerSecond float64
	MovesInTree    Statistics
	GameLength     Statistics
	Aborted        Statistics
}

func (s *Search) Statistics() SearchStatistics {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return SearchStatistics{
		Games:          s.numberGames.Load(),
		GamesPerSecond: s.gamesPerSecond,
		MovesInTree:    s.movesInTree,
		GameLength:     s.gameLength,
		Aborted:        s.abortedStat,
	}
}
