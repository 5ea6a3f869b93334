package mcts

// Uniform-random playout from the worker's current state.
//
// The returned outcome is signed for the node the playout starts at: +1
// when the side that moved into that node ends up winning, -1 when it
// loses, 0 for a draw or when the depth budget runs out first. The sign
// flips every ply so the terminal verdict is carried back to the starting
// perspective.
//
// Moves are sampled from the evolving playout state at every ply. The
// state is mutated in place and every applied move is undone before
// returning, so the caller gets it back exactly as handed in.
func (t *MCTS[S, M]) rollout(w *searchWorker[S, M]) int32 {
	var outcome int32
	sign := int32(1)
	budget := t.opts.MaxRolloutDepth
	w.applied = w.applied[:0]

	for {
		if winner, over := t.game.Winner(w.state); over {
			outcome = sign * winnerScore(winner)
			break
		}
		if budget == 0 {
			// Depth budget exhausted, score the playout as a draw
			break
		}

		w.moves = t.game.GenerateMoves(w.state, w.moves[:0])
		if len(w.moves) == 0 {
			panic("mcts: playout reached a state with no legal moves and no winner")
		}

		move := w.moves[w.rng.Intn(len(w.moves))]
		t.game.Apply(w.state, move)
		w.applied = append(w.applied, move)
		sign = -sign
		budget--
	}

	// Undo the playout moves, newest first
	for i := len(w.applied) - 1; i >= 0; i-- {
		t.game.Undo(w.state, w.applied[i])
	}

	return outcome
}
