package mcts

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"unsafe"

	"github.com/rs/zerolog/log"
)

// MCTS is a Monte Carlo Tree Search engine over the game G, generic in
// the state type S and the move type M.
//
// Every Search call builds a fresh tree rooted at the given state, runs
// the configured passes over it (on one or more workers sharing the tree
// lock-free), and reports the move with the best empirical win ratio. The
// tree is discarded wholesale when the next search starts.
type MCTS[S any, M MoveLike] struct {
	treeStats
	game     Game[S, M]
	opts     *Options
	limiter  *limiter
	listener *StatsListener[M]
	root     *Node[M]
	wg       sync.WaitGroup

	// rng for pv walks and the final move pick, kept apart from the
	// worker rngs so listener callbacks don't perturb the playouts
	pvRand *rand.Rand
}

// Create a new engine for 'game'. A nil 'opts' means DefaultOptions.
// Panics when the options specify no way for a search to end.
func NewMCTS[S any, M MoveLike](game Game[S, M], opts *Options) *MCTS[S, M] {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Rollouts == 0 && opts.Movetime < 0 && !opts.Infinite {
		panic("mcts: options specify no pass budget, no movetime and not infinite")
	}

	return &MCTS[S, M]{
		game:     game,
		opts:     opts,
		limiter:  newLimiter(),
		listener: &StatsListener[M]{nPass: 1},
		pvRand:   rand.New(rand.NewSource(SeedGeneratorFn())),
	}
}

// Pick the best move for 's'. The boolean is false when no move exists,
// because the state is terminal or reports no legal moves; callers must
// treat that as "no move available", not as a failure.
func (t *MCTS[S, M]) ChooseMove(s *S) (M, bool) {
	result := t.Search(s)
	return result.BestMove, result.Ok
}

// Run a full search from 's' and report the best move along with the
// principal variation and the search statistics.
//
// 's' is mutated during the search but handed back exactly as given,
// every move applied during a pass is undone before the pass ends.
// Blocks until the search stops; an infinite search stops only through
// Stop or context cancellation.
func (t *MCTS[S, M]) Search(s *S) Result[M] {
	t.setupSearch()

	// The root expands eagerly, before any pass runs
	t.root = &Node[M]{}
	exp := t.root.expansion.TrySet(newExpansion(t.game, s, nil))
	t.size.Store(1 + uint32(len(exp.children)))

	if exp.terminal || len(exp.children) == 0 {
		if !exp.terminal {
			// The game contract reports neither a verdict nor moves,
			// worth flagging even though "no move" is a valid answer
			log.Warn().Msgf("mcts: no move available: root state has no legal moves and no winner")
		}
		return Result[M]{Stats: t.snapshot()}
	}

	// With a pass budget the workers drain a token channel, issuing
	// exactly opts.Rollouts passes across all of them
	var tokens chan struct{}
	if !t.opts.Infinite && t.opts.Rollouts > 0 {
		tokens = make(chan struct{}, t.opts.Rollouts)
		for range t.opts.Rollouts {
			tokens <- struct{}{}
		}
		close(tokens)
	}

	// All worker clones are taken before any worker starts: the main
	// worker mutates 's' in place from its first pass on, so a clone
	// taken after launch could capture a mid-pass position
	threads := max(1, t.opts.Threads)
	workers := make([]*searchWorker[S, M], threads)
	for id := range workers {
		workers[id] = t.newWorker(id, s)
	}
	for _, w := range workers {
		t.wg.Add(1)
		go t.run(w, tokens)
	}
	t.wg.Wait()

	t.assertPassCount()
	t.limiter.evaluateStopReason(tokens != nil && t.passes.Load() >= t.opts.Rollouts)
	t.pps.Store(uint32(uint64(t.passes.Load()) * 1000 / uint64(t.limiter.elapsed())))

	// Final pick: pure exploitation over the root children
	best := bestChild(t.root.visits.Load(), exp.children, 0, t.pvRand)
	result := Result[M]{
		BestMove: best.move,
		Ok:       true,
		Pv:       t.pv(),
		Stats:    t.snapshot(),
	}

	t.invokeStop()
	log.Debug().Msgf("mcts: search done: move=%v passes=%d depth=%d size=%d pps=%d reason=%s",
		result.BestMove, result.Passes, result.MaxDepth, result.TreeSize, result.PassesPerSec, result.StopReason)

	return result
}

// Stop the search
func (t *MCTS[S, M]) Stop() {
	t.limiter.setStop()
}

// Adds a context to the search, enabling cancellation through it
//
// Example:
//
//	ctx, cancel := context.WithCancel(context.Background())
//
//	tree.SetContext(ctx)
//	go func() {
//	    time.Sleep(2 * time.Second)
//	    cancel() // Cancel the search after 2 seconds
//	}()
//
//	tree.Search(&state)
func (t *MCTS[S, M]) SetContext(ctx context.Context) {
	t.limiter.setContext(ctx)
}

// Root of the most recent search tree, nil before the first search
func (t *MCTS[S, M]) Root() *Node[M] {
	return t.root
}

// Listener of this engine, configure its callbacks before calling Search
func (t *MCTS[S, M]) Listener() *StatsListener[M] {
	return t.listener
}

func (t *MCTS[S, M]) Options() *Options {
	return t.opts
}

// Current counters of the running or finished search
func (t *MCTS[S, M]) Stats() Stats {
	return t.snapshot()
}

// Maximum selection depth reached during the search, note that usually
// MaxDepth != len(pv)
func (t *MCTS[S, M]) MaxDepth() int {
	return int(t.maxdepth.Load())
}

// Total number of completed search passes
func (t *MCTS[S, M]) Passes() uint32 {
	return t.passes.Load()
}

// Number of nodes allocated in the tree
func (t *MCTS[S, M]) Size() uint32 {
	return t.size.Load()
}

// The number of times a worker computed an expansion that lost the
// installation race and was discarded
func (t *MCTS[S, M]) Collisions() uint32 {
	return t.collisions.Load()
}

// Returns an approximation of the memory held by the tree structure
func (t *MCTS[S, M]) MemoryUsage() uint64 {
	return uint64(t.size.Load())*uint64(unsafe.Sizeof(Node[M]{})) + uint64(unsafe.Sizeof(*t))
}

func (t *MCTS[S, M]) String() string {
	s := t.snapshot()
	return fmt.Sprintf("MCTS{passes=%d maxdepth=%d size=%d pps=%d collisions=%d reason=%s}",
		s.Passes, s.MaxDepth, s.TreeSize, s.PassesPerSec, s.Collisions, s.StopReason)
}

func (t *MCTS[S, M]) setupSearch() {
	t.limiter.reset(t.opts.Movetime)
	t.passes.Store(0)
	t.maxdepth.Store(0)
	t.size.Store(0)
	t.collisions.Store(0)
	t.pps.Store(0)
}

func (t *MCTS[S, M]) snapshot() Stats {
	return Stats{
		Passes:       t.passes.Load(),
		MaxDepth:     int(t.maxdepth.Load()),
		TreeSize:     t.size.Load(),
		Collisions:   t.collisions.Load(),
		PassesPerSec: t.pps.Load(),
		ElapsedMs:    t.limiter.elapsed(),
		StopReason:   t.limiter.stopReason(),
	}
}

// Principal variation: follow the exploitation-best visited child from
// the root until the line runs out
func (t *MCTS[S, M]) pv() []M {
	pv := make([]M, 0, t.maxdepth.Load()+1)
	node := t.root

	for {
		children := node.Children()
		if len(children) == 0 {
			break
		}
		child := bestChild(node.visits.Load(), children, 0, t.pvRand)
		if child == nil || child.visits.Load() == 0 {
			break
		}
		pv = append(pv, child.move)
		node = child
	}

	return pv
}

func (t *MCTS[S, M]) toSnapshot() Snapshot[M] {
	snap := Snapshot[M]{Stats: t.snapshot(), Eval: 0.5}
	if best := bestChild(t.root.visits.Load(), t.root.Children(), 0, t.pvRand); best != nil && best.Visits() > 0 {
		snap.BestMove = best.move
		snap.Eval = best.WinRatio()
		snap.Pv = t.pv()
	}
	return snap
}

// Listener invocations, main worker only, see StatsListener

func (t *MCTS[S, M]) invokeDepth() {
	if t.listener.onDepth != nil {
		t.listener.onDepth(t.toSnapshot())
	}
}

func (t *MCTS[S, M]) invokePass() {
	if t.listener.onPass != nil && t.passes.Load()%uint32(t.listener.nPass) == 0 {
		t.listener.onPass(t.toSnapshot())
	}
}

func (t *MCTS[S, M]) invokeStop() {
	if t.listener.onStop != nil {
		t.listener.onStop(t.toSnapshot())
	}
}
