package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRolloutAlreadyDecided(t *testing.T) {
	engine := NewMCTS(Game[doneState, step](doneGame{}), nil)
	w := engine.newWorker(mainWorkerId, &doneState{})

	// No move is made, the verdict is read from the starting perspective
	require.Equal(t, int32(1), engine.rollout(w))
}

func TestRolloutSignFlips(t *testing.T) {
	// One forced move decides the game in favor of the mover, so the
	// playout outcome is bad for the side that moved into the start state
	engine := NewMCTS(Game[ladderState, step](ladderGame{winAt: 1}), nil)
	state := &ladderState{}
	w := engine.newWorker(mainWorkerId, state)

	require.Equal(t, int32(-1), engine.rollout(w))
	require.Equal(t, 0, state.depth, "playout moves must be undone")
}

func TestRolloutVerdictMapping(t *testing.T) {
	cases := []struct {
		name    string
		verdict Winner
		want    int32
	}{
		{"mover wins", PlayerJustMoved, -1},
		{"mover loses", PlayerToMove, 1},
		{"draw", Draw, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			game := Game[forkState, step](forkGame{
				moves:    []step{1, 2, 3},
				verdicts: []Winner{tc.verdict, tc.verdict, tc.verdict},
			})
			engine := NewMCTS(game, nil)
			state := &forkState{}
			w := engine.newWorker(mainWorkerId, state)

			require.Equal(t, tc.want, engine.rollout(w))
			require.Empty(t, state.played)
		})
	}
}

func TestRolloutDepthBudget(t *testing.T) {
	engine := NewMCTS(
		Game[stageState, step](stageGame{drawAt: 1000}),
		DefaultOptions().SetMaxRolloutDepth(10))
	state := &stageState{}
	w := engine.newWorker(mainWorkerId, state)

	// Budget runs out long before the game ends: scored as a draw and
	// every applied move rolled back
	require.Equal(t, int32(0), engine.rollout(w))
	require.Equal(t, 0, state.depth)
}

func TestRolloutSamplesEvolvingState(t *testing.T) {
	// stageGame polices its move legality per depth: sampling moves from
	// anything but the current playout state panics inside Apply
	engine := NewMCTS(Game[stageState, step](stageGame{drawAt: 6}), nil)
	state := &stageState{}
	w := engine.newWorker(mainWorkerId, state)

	for i := 0; i < 50; i++ {
		require.NotPanics(t, func() {
			require.Equal(t, int32(0), engine.rollout(w))
		})
		require.Equal(t, 0, state.depth)
	}
}

func TestRolloutBrokenGamePanics(t *testing.T) {
	engine := NewMCTS(Game[voidState, step](voidGame{}), nil)
	w := engine.newWorker(mainWorkerId, &voidState{})

	require.Panics(t, func() { engine.rollout(w) })
}
