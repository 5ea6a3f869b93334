package mcts

// Snapshot is what listener callbacks receive: the current counters plus
// the best move, its evaluation, and the principal variation at the time
// of the call.
type Snapshot[M MoveLike] struct {
	Stats

	// Current best root move and its win ratio, neutral 0.5 and the zero
	// move while the root is still unvisited
	BestMove M
	Eval     float64

	// Principal variation from the root
	Pv []M
}

// Listener function callback, receives the current tree statistics
type ListenerFunc[M MoveLike] func(Snapshot[M])

// StatsListener delivers live statistics of a running search. All
// callbacks are invoked by the main search worker only, so they never run
// concurrently with each other and need no synchronization of their own.
// Configure it before calling Search.
type StatsListener[M MoveLike] struct {
	// called when the maximum selection depth increases
	onDepth ListenerFunc[M]

	// called every N completed passes
	onPass ListenerFunc[M]
	nPass  int

	// called once when the search stops, with the StopReason set
	onStop ListenerFunc[M]
}

// Attach a new on max depth change callback
func (listener *StatsListener[M]) OnDepth(onDepth ListenerFunc[M]) *StatsListener[M] {
	listener.onDepth = onDepth
	return listener
}

// Attach a new on pass callback, called every N passes (SetPassInterval).
// Every call walks the tree for the pv, so a small interval slows the
// search down noticeably.
func (listener *StatsListener[M]) OnPass(onPass ListenerFunc[M]) *StatsListener[M] {
	listener.onPass = onPass
	return listener
}

// Call 'onPass' every n passes, values below 1 mean every pass
func (listener *StatsListener[M]) SetPassInterval(n int) *StatsListener[M] {
	if n < 1 {
		n = 1
	}
	listener.nPass = n
	return listener
}

// Attach an 'on search end' callback, called once,
// makes the StopReason available in the stats
func (listener *StatsListener[M]) OnStop(onStop ListenerFunc[M]) *StatsListener[M] {
	listener.onStop = onStop
	return listener
}
