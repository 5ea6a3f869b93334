package bench

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/movesearch/go-treesearch/pkg/mcts"
)

func TestMain(m *testing.M) {
	mcts.SetSeedGeneratorFn(func() int64 {
		return 42
	})
	fmt.Printf("Using seed %d\n", mcts.SeedGeneratorFn())

	os.Exit(m.Run())
}

// raceGame ends after exactly winAt moves with a win for the side that
// made the last one. With an odd winAt the first mover always wins.
type raceState struct{ depth int }

type raceGame struct{ winAt int }

func (g raceGame) GenerateMoves(s *raceState, moves []int) []int {
	if s.depth >= g.winAt {
		return moves
	}
	return append(moves, 2*s.depth, 2*s.depth+1)
}

func (g raceGame) Winner(s *raceState) (mcts.Winner, bool) {
	if s.depth >= g.winAt {
		return mcts.PlayerJustMoved, true
	}
	return 0, false
}

func (g raceGame) Apply(s *raceState, m int) { s.depth++ }
func (g raceGame) Undo(s *raceState, m int)  { s.depth-- }

func (g raceGame) CloneState(s *raceState) *raceState { c := *s; return &c }

// stallGame always ends in a draw after drawAt moves
type stallState struct{ depth int }

type stallGame struct{ drawAt int }

func (g stallGame) GenerateMoves(s *stallState, moves []int) []int {
	if s.depth >= g.drawAt {
		return moves
	}
	return append(moves, 2*s.depth, 2*s.depth+1)
}

func (g stallGame) Winner(s *stallState) (mcts.Winner, bool) {
	if s.depth >= g.drawAt {
		return mcts.Draw, true
	}
	return 0, false
}

func (g stallGame) Apply(s *stallState, m int) { s.depth++ }
func (g stallGame) Undo(s *stallState, m int)  { s.depth-- }

func (g stallGame) CloneState(s *stallState) *stallState { c := *s; return &c }

func quickOpts() *mcts.Options {
	return mcts.DefaultOptions().SetRollouts(30)
}

func TestArenaFirstMoverAlwaysWins(t *testing.T) {
	game := mcts.Game[raceState, int](raceGame{winAt: 3})
	arena := NewArena(game, &raceState{},
		Player{Name: "alpha", Opts: quickOpts()},
		Player{Name: "beta", Opts: quickOpts()})
	arena.Games = 10
	arena.Workers = 2

	s := arena.Run()
	t.Logf("%+v", s)

	// Each worker plays 5 matches alternating colors from player 1, so
	// player 1 moves first in 3 of them
	require.Equal(t, 10, s.Games)
	require.Equal(t, 10, s.FirstMoverWins)
	require.Equal(t, 6, s.P1Wins)
	require.Equal(t, 4, s.P2Wins)
	require.Zero(t, s.Draws)
	require.Equal(t, "alpha", s.P1Name)
	require.Equal(t, "beta", s.P2Name)
}

func TestArenaAllDraws(t *testing.T) {
	game := mcts.Game[stallState, int](stallGame{drawAt: 4})
	arena := NewArena(game, &stallState{},
		Player{Name: "p1", Opts: quickOpts()},
		Player{Name: "p2", Opts: quickOpts()})
	arena.Games = 6
	arena.Workers = 3

	s := arena.Run()
	require.Equal(t, 6, s.Games)
	require.Equal(t, 6, s.Draws)
	require.Zero(t, s.P1Wins)
	require.Zero(t, s.P2Wins)
	require.Zero(t, s.FirstMoverWins)
}

func TestArenaOnResult(t *testing.T) {
	game := mcts.Game[raceState, int](raceGame{winAt: 3})

	var infos []GameInfo[int]
	arena := NewArena(game, &raceState{},
		Player{Opts: quickOpts()}, Player{Opts: quickOpts()}).
		OnResult(func(info GameInfo[int]) {
			infos = append(infos, info)
		})
	arena.Games = 8
	arena.Workers = 4

	arena.Run()

	require.Len(t, infos, 8)
	for _, info := range infos {
		require.Len(t, info.Moves, 3)
		require.Equal(t, info.P1First, info.Result == Player1Win,
			"the first mover always wins this game")
	}
}

func TestArenaCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	game := mcts.Game[raceState, int](raceGame{winAt: 3})
	arena := NewArena(game, &raceState{},
		Player{Opts: quickOpts()}, Player{Opts: quickOpts()}).
		WithContext(ctx)
	arena.Games = 100

	s := arena.Run()
	require.Zero(t, s.Games, "no match starts on a cancelled context")
}

func TestArenaUnevenSplit(t *testing.T) {
	game := mcts.Game[stallState, int](stallGame{drawAt: 2})
	arena := NewArena(game, &stallState{},
		Player{Opts: quickOpts()}, Player{Opts: quickOpts()})
	arena.Games = 7
	arena.Workers = 3

	s := arena.Run()
	require.Equal(t, 7, s.Games, "the remainder games are spread over the workers")
}

func TestMatchResult(t *testing.T) {
	cases := []struct {
		winner mcts.Winner
		nMoves int
		want   MatchResult
	}{
		{mcts.Draw, 5, Drawn},
		{mcts.PlayerJustMoved, 0, Drawn},
		{mcts.PlayerJustMoved, 3, Player1Win},
		{mcts.PlayerJustMoved, 2, Player2Win},
		{mcts.PlayerToMove, 3, Player2Win},
		{mcts.PlayerToMove, 2, Player1Win},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, matchResult(tc.winner, tc.nMoves),
			"winner=%s nMoves=%d", tc.winner, tc.nMoves)
	}
}
