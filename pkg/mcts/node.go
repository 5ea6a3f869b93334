package mcts

import (
	"sync/atomic"
	"unsafe"

	"github.com/movesearch/go-treesearch/pkg/atomicbox"
)

// Approximate size of one tree node, assuming a word-wide move type.
// Used to convert memory budgets into node budgets before the concrete
// move type is known; MemoryUsage reports the exact per-type size.
var nodeSize = unsafe.Sizeof(Node[int64]{})

// Node is one vertex of the search tree: the move that produced it, the
// atomic visit/score counters, and the lazily computed expansion.
//
// visits and score are updated independently, never as one transaction.
// A concurrent reader may observe a visit increment without the paired
// score update; selection tolerates that because it only consumes the
// pair as a heuristic ratio.
type Node[M MoveLike] struct {
	move      M
	visits    atomic.Uint32
	score     atomic.Int32
	expansion atomicbox.Box[expansion[M]]
}

// expansion is immutable once installed in a node: either a terminal
// verdict, or the ordered children, one per legal move. The children are
// allocated as a single contiguous slice that never grows or relocates
// for the lifetime of the tree.
type expansion[M MoveLike] struct {
	winner   Winner
	terminal bool
	children []Node[M]
}

// Compute a node's expansion from its state. The result is a pure
// function of the state, so racing computations for the same node are
// interchangeable and all but the first installed one can be discarded.
// 'buf' is an optional scratch slice for move generation.
func newExpansion[S any, M MoveLike](game Game[S, M], s *S, buf []M) *expansion[M] {
	if winner, over := game.Winner(s); over {
		return &expansion[M]{winner: winner, terminal: true}
	}

	moves := game.GenerateMoves(s, buf[:0])
	children := make([]Node[M], len(moves))
	for i, m := range moves {
		children[i].move = m
	}
	return &expansion[M]{children: children}
}

// Record one pass through this node: bump visits, fold 'outcome' into the
// score, and hand 'outcome' back so the caller can propagate it upward.
func (n *Node[M]) updateStats(outcome int32) int32 {
	n.visits.Add(1)
	n.score.Add(outcome)
	return outcome
}

// The move that led into this node, the zero value for the root
func (n *Node[M]) Move() M {
	return n.move
}

// Number of passes that went through this node
func (n *Node[M]) Visits() uint32 {
	return n.visits.Load()
}

// Sum of pass outcomes recorded at this node, always within [-visits, visits]
func (n *Node[M]) Score() int32 {
	return n.score.Load()
}

// Score rescaled into [0, 1], where 1 means every pass through this node
// ended well for the player whose move created it. Unvisited nodes read
// as a neutral 0.5.
func (n *Node[M]) WinRatio() float64 {
	visits := n.visits.Load()
	if visits == 0 {
		return 0.5
	}
	return (float64(n.score.Load()) + float64(visits)) / (2 * float64(visits))
}

// Whether the node has an expansion installed
func (n *Node[M]) Expanded() bool {
	return n.expansion.Get() != nil
}

// Whether the node's state is decided. Only meaningful once expanded.
func (n *Node[M]) Terminal() bool {
	exp := n.expansion.Get()
	return exp != nil && exp.terminal
}

// Terminal verdict of this node's state, reported only for expanded
// terminal nodes
func (n *Node[M]) Winner() (Winner, bool) {
	if exp := n.expansion.Get(); exp != nil && exp.terminal {
		return exp.winner, true
	}
	return 0, false
}

// Children of this node in move-generation order, nil until expanded and
// for terminal nodes
func (n *Node[M]) Children() []Node[M] {
	if exp := n.expansion.Get(); exp != nil {
		return exp.children
	}
	return nil
}
