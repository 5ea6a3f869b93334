package mcts

import (
	"fmt"
	"math/rand"
)

// searchWorker is the per-goroutine context of a search: a private game
// state, a private rng, and reusable scratch buffers. Workers share the
// tree and nothing else.
type searchWorker[S any, M MoveLike] struct {
	id      int
	rng     *rand.Rand
	state   *S
	moves   []M // scratch for move generation
	applied []M // playout undo stack
}

func (t *MCTS[S, M]) newWorker(id int, s *S) *searchWorker[S, M] {
	state := s
	if id != mainWorkerId {
		// The state is mutated in place during a pass, every extra
		// worker gets its own copy
		state = t.game.CloneState(s)
	}
	return &searchWorker[S, M]{
		id:    id,
		rng:   rand.New(rand.NewSource(SeedGeneratorFn() + int64(id))),
		state: state,
		moves: make([]M, 0, 64),
	}
}

func (w *searchWorker[S, M]) main() bool {
	return w.id == mainWorkerId
}

// Worker loop. With a pass budget the workers drain a shared token
// channel, so the issued pass count is exact no matter how the work is
// spread; otherwise they spin until the limiter calls the search off.
func (t *MCTS[S, M]) run(w *searchWorker[S, M], tokens <-chan struct{}) {
	defer t.wg.Done()

	if tokens != nil {
		for range tokens {
			if !t.limiter.ok() {
				return
			}
			t.pass(w)
		}
		return
	}

	for t.limiter.ok() {
		t.pass(w)
	}
}

// One full selection/expansion/rollout/backpropagation cycle
func (t *MCTS[S, M]) pass(w *searchWorker[S, M]) {
	t.simulate(t.root, w, 0, false)

	passes := t.passes.Add(1)
	t.pps.Store(uint32(uint64(passes) * 1000 / uint64(t.limiter.elapsed())))

	if w.main() {
		t.invokePass()
	}
}

// One pass through 'node', recursively. Returns the outcome recorded at
// 'node', signed for the player whose move created it.
//
// The worker's state tracks the node: it must correspond to 'node' on
// entry and is restored on every exit path, the apply of a child move is
// always paired with an undo on the way out.
func (t *MCTS[S, M]) simulate(node *Node[M], w *searchWorker[S, M], depth int32, forceRollout bool) int32 {
	if forceRollout {
		// Fresh child of an expansion installed higher up this pass,
		// estimate it with a playout instead of descending further
		t.observeDepth(depth, w)
		return node.updateStats(t.rollout(w))
	}

	exp := node.expansion.Get()
	forceNext := false

	if exp == nil {
		// Frontier node. Keep rolling out from here while the visit
		// threshold or the node budget says the tree must not grow.
		if node.visits.Load() < t.opts.RolloutsBeforeExpanding || !t.limiter.expandOk() {
			t.observeDepth(depth, w)
			return node.updateStats(t.rollout(w))
		}

		fresh := newExpansion(t.game, w.state, w.moves)
		exp = node.expansion.TrySet(fresh)
		if exp == fresh {
			t.addNodes(uint32(len(exp.children)))
		} else {
			// Lost the expansion race, the computed children are
			// discarded and the winner's are used instead
			t.collisions.Add(1)
		}
		forceNext = true
	}

	if exp.terminal {
		t.observeDepth(depth, w)
		return node.updateStats(winnerScore(exp.winner))
	}

	child := bestChild(node.visits.Load(), exp.children, explorationWeight, w.rng)
	if child == nil {
		panic("mcts: interior state has no legal moves and no winner")
	}

	t.game.Apply(w.state, child.move)
	outcome := -t.simulate(child, w, depth+1, forceNext)
	t.game.Undo(w.state, child.move)

	return node.updateStats(outcome)
}

// Account for freshly installed children, closing the growth gate once
// the node budget is spent
func (t *MCTS[S, M]) addNodes(n uint32) {
	if t.size.Add(n) >= t.opts.MaxTreeNodes {
		t.limiter.closeExpand()
	}
}

func (t *MCTS[S, M]) observeDepth(depth int32, w *searchWorker[S, M]) {
	if t.bumpDepth(depth) && w.main() {
		t.invokeDepth()
	}
}

// Check the pass bookkeeping after the workers have joined: every
// completed pass records exactly one visit at the root, a mismatch means
// the statistical invariants are broken
func (t *MCTS[S, M]) assertPassCount() {
	if visits, passes := t.root.visits.Load(), t.passes.Load(); visits != passes {
		panic(fmt.Sprintf("mcts: pass bookkeeping mismatch: root visits %d, passes %d", visits, passes))
	}
}
