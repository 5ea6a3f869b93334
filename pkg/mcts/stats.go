package mcts

import "sync/atomic"

// Shared counters of one search, updated by all workers
type treeStats struct {
	passes     atomic.Uint32
	maxdepth   atomic.Int32
	size       atomic.Uint32
	collisions atomic.Uint32
	pps        atomic.Uint32
}

// CAS-max on the selection depth, reports whether 'depth' set a new record
func (st *treeStats) bumpDepth(depth int32) bool {
	for {
		cur := st.maxdepth.Load()
		if depth <= cur {
			return false
		}
		if st.maxdepth.CompareAndSwap(cur, depth) {
			return true
		}
	}
}

// Stats is a point-in-time snapshot of the search counters.
type Stats struct {
	// Completed passes (selection + rollout + backpropagation cycles)
	Passes uint32

	// Deepest selection descent seen so far, usually > len(pv)
	MaxDepth int

	// Nodes allocated in the tree, including unvisited frontier children
	TreeSize uint32

	// Times a worker lost an expansion race and discarded its computation
	Collisions uint32

	// Passes per second
	PassesPerSec uint32

	// Time since the search started, in ms
	ElapsedMs int

	// Why the search ended, StopNone while it is still running
	StopReason StopReason
}

// Result of one search.
type Result[M MoveLike] struct {
	// Move with the best empirical win ratio at the root. Only valid
	// when Ok is set; Ok is false iff the root state was terminal or had
	// no legal moves.
	BestMove M
	Ok       bool

	// Principal variation: the best reply chain from the root, following
	// visited children only
	Pv []M

	Stats
}
