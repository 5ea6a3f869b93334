package mcts

import "fmt"

// Terminal verdict of a finished game, expressed relative to the final
// state: the side that made the last move won, the side to move won, or
// the game is drawn.
type Winner int8

const (
	PlayerJustMoved Winner = iota
	PlayerToMove
	Draw
)

func (w Winner) String() string {
	switch w {
	case PlayerJustMoved:
		return "PlayerJustMoved"
	case PlayerToMove:
		return "PlayerToMove"
	case Draw:
		return "Draw"
	}
	return fmt.Sprintf("Winner(%d)", int8(w))
}

// Outcome recorded at a node for a terminal verdict. A node's score is
// accumulated from the perspective of the player whose move created the
// node, so a win for the side that just moved counts +1 there.
func winnerScore(w Winner) int32 {
	switch w {
	case PlayerJustMoved:
		return 1
	case PlayerToMove:
		return -1
	case Draw:
		return 0
	}
	panic(fmt.Sprintf("mcts: invalid winner value %d", int8(w)))
}

// Game plugs concrete rules into the search. The engine never inspects
// states itself, it only enumerates moves, applies and undoes them, and
// asks for the terminal verdict.
//
// Apply and Undo mutate the state in place; Undo must exactly reverse the
// most recent Apply on that state. The search leans on this to walk one
// state up and down the tree instead of cloning it at every level.
type Game[S any, M MoveLike] interface {
	// Append every legal move in 's' to 'moves' and return the extended
	// slice. Must not mutate the state.
	GenerateMoves(s *S, moves []M) []M

	// Terminal verdict for 's', reported only when the game has ended
	Winner(s *S) (Winner, bool)

	// Play 'm' on 's'
	Apply(s *S, m M)

	// Reverse the most recent Apply of 'm' on 's'
	Undo(s *S, m M)

	// Deep copy with no mutable memory shared with 's', used to give
	// every search worker a private state to mutate
	CloneState(s *S) *S
}
