// Package bench pits two search configurations against each other over
// the same game rules, playing a series of matches on parallel workers
// and keeping score. Sides alternate who moves first, so an advantage of
// the first mover cancels out across a series.
package bench

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/movesearch/go-treesearch/pkg/mcts"
)

// Player is one contestant: a label for the standings and the options
// its engines search with. A nil Opts means mcts.DefaultOptions.
type Player struct {
	Name string
	Opts *mcts.Options
}

// MatchResult of a single match, from player 1's perspective
type MatchResult int

const (
	Player1Win MatchResult = 1
	Player2Win MatchResult = -1
	Drawn      MatchResult = 0
)

// GameInfo describes one finished match
type GameInfo[M mcts.MoveLike] struct {
	Worker  int
	Moves   []M
	Result  MatchResult
	P1First bool
}

// Standings is the aggregated score of a finished series.
type Standings struct {
	Games          int
	P1Wins         int
	P2Wins         int
	Draws          int
	FirstMoverWins int
	P1Name         string
	P2Name         string
}

type arenaStats struct {
	p1Wins         atomic.Uint32
	p2Wins         atomic.Uint32
	draws          atomic.Uint32
	firstMoverWins atomic.Uint32
}

// Arena plays a series of matches between two players. Configure the
// exported fields before Run; the zero numbers of Games and Workers fall
// back to 100 and 2.
type Arena[S any, M mcts.MoveLike] struct {
	arenaStats

	Games   int
	Workers int

	game     mcts.Game[S, M]
	start    *S
	p1, p2   Player
	onResult func(GameInfo[M])
	mu       sync.Mutex
	ctx      context.Context
	wg       sync.WaitGroup
}

func NewArena[S any, M mcts.MoveLike](game mcts.Game[S, M], start *S, p1, p2 Player) *Arena[S, M] {
	return &Arena[S, M]{
		Games:   100,
		Workers: 2,
		game:    game,
		start:   start,
		p1:      p1,
		p2:      p2,
		ctx:     context.Background(),
	}
}

// Cancelling the context abandons the series: running matches count as
// draws and no further ones start
func (a *Arena[S, M]) WithContext(ctx context.Context) *Arena[S, M] {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Set a callback for every finished match. Matches finish on several
// workers at once, the invocations are serialized here.
func (a *Arena[S, M]) OnResult(fn func(GameInfo[M])) *Arena[S, M] {
	a.onResult = fn
	return a
}

// Run the whole series and report the standings, blocks until every
// worker has finished its share of matches
func (a *Arena[S, M]) Run() Standings {
	a.p1Wins.Store(0)
	a.p2Wins.Store(0)
	a.draws.Store(0)
	a.firstMoverWins.Store(0)

	workers := max(1, a.Workers)
	games := a.Games / workers
	rest := a.Games % workers

	for id := 0; id < workers; id++ {
		n := games
		if id < rest {
			n++
		}
		a.wg.Add(1)
		go a.worker(id, n)
	}
	a.wg.Wait()

	s := a.Standings()
	log.Debug().Msgf("bench: series done: %s %d - %d %s, %d draws in %d games",
		s.P1Name, s.P1Wins, s.P2Wins, s.P2Name, s.Draws, s.Games)
	return s
}

// Standings so far, safe to call while the series is running
func (a *Arena[S, M]) Standings() Standings {
	p1, p2 := int(a.p1Wins.Load()), int(a.p2Wins.Load())
	draws := int(a.draws.Load())
	return Standings{
		Games:          p1 + p2 + draws,
		P1Wins:         p1,
		P2Wins:         p2,
		Draws:          draws,
		FirstMoverWins: int(a.firstMoverWins.Load()),
		P1Name:         a.p1.Name,
		P2Name:         a.p2.Name,
	}
}

// One worker plays 'games' matches on a private state with private
// engines, only the score counters are shared
func (a *Arena[S, M]) worker(id, games int) {
	defer a.wg.Done()

	e1 := mcts.NewMCTS(a.game, a.p1.Opts)
	e2 := mcts.NewMCTS(a.game, a.p2.Opts)
	e1.SetContext(a.ctx)
	e2.SetContext(a.ctx)
	state := a.game.CloneState(a.start)

	for i := 0; i < games; i++ {
		if a.ctx.Err() != nil {
			return
		}

		// Alternate who makes the first move
		p1First := i%2 == 0
		first, second := e1, e2
		if !p1First {
			first, second = e2, e1
		}

		moves, result := a.playMatch(first, second, state)
		if result == Player1Win {
			a.firstMoverWins.Add(1)
		}
		if !p1First {
			result = -result
		}

		switch result {
		case Player1Win:
			a.p1Wins.Add(1)
		case Player2Win:
			a.p2Wins.Add(1)
		default:
			a.draws.Add(1)
		}

		if a.onResult != nil {
			a.mu.Lock()
			a.onResult(GameInfo[M]{
				Worker:  id,
				Moves:   moves,
				Result:  result,
				P1First: p1First,
			})
			a.mu.Unlock()
		}
	}
}

// Play one match on 'state', 'first' moving first. The result is from
// the first mover's perspective. The state is mutated during the match
// and restored before returning.
func (a *Arena[S, M]) playMatch(first, second *mcts.MCTS[S, M], state *S) ([]M, MatchResult) {
	moves := make([]M, 0, 64)
	result := Drawn

	engines := [2]*mcts.MCTS[S, M]{first, second}
	for mover := 0; ; mover ^= 1 {
		winner, over := a.game.Winner(state)
		if over {
			result = matchResult(winner, len(moves))
			break
		}
		if a.ctx.Err() != nil {
			break
		}

		move, ok := engines[mover].ChooseMove(state)
		if !ok {
			// No verdict and no moves, the rules are broken; score it
			// as a draw like an abandoned match
			break
		}
		a.game.Apply(state, move)
		moves = append(moves, move)
	}

	for i := len(moves) - 1; i >= 0; i-- {
		a.game.Undo(state, moves[i])
	}
	return moves, result
}

// Map the terminal verdict onto the first mover's perspective, given how
// many moves were played
func matchResult(winner mcts.Winner, nMoves int) MatchResult {
	if winner == mcts.Draw || nMoves == 0 {
		return Drawn
	}

	lastMoverFirst := (nMoves-1)%2 == 0
	if (winner == mcts.PlayerJustMoved) == lastMoverFirst {
		return Player1Win
	}
	return Player2Win
}
