package mcts

import (
	"math"
	"math/rand"
)

// UCT score of a single child, given a snapshot of log2(parent visits).
//
// Unvisited children score +Inf while exploring, so every untried move is
// taken once before any move is repeated, and 0 in pure-exploitation mode.
// Otherwise the signed score is rescaled to a [0, 1] win ratio and the
// usual exploration term is added on top.
func uctScore(logParentVisits, explore float64, visits uint32, score int32) float64 {
	if visits == 0 {
		if explore > 0 {
			return math.Inf(1)
		}
		return 0
	}

	v := float64(visits)
	winRatio := (float64(score) + v) / (2 * v)
	return winRatio + explore*math.Sqrt(2*logParentVisits/v)
}

// Pick the child to descend into. All children are compared against one
// snapshot of the parent's visit count, taken once up front, so a single
// selection is internally consistent even while other workers keep
// updating the counters.
//
// The scan starts at a random index and walks every child exactly once in
// circular order, keeping the strictly best score. Ties therefore go to
// the first-seen child from a random offset, which spreads tie-breaks
// pseudo-uniformly across the whole search instead of favoring low
// indices.
//
// Returns nil only when 'children' is empty.
func bestChild[M MoveLike](parentVisits uint32, children []Node[M], explore float64, rng *rand.Rand) *Node[M] {
	if len(children) == 0 {
		return nil
	}

	// Under parallel search a child's counter can be bumped before the
	// parent's, so the parent snapshot may still read zero here. Clamp
	// the log term instead of feeding log2(0) = -Inf into the square
	// root, which would turn the score into NaN.
	logParentVisits := 0.0
	if parentVisits > 0 {
		logParentVisits = math.Log2(float64(parentVisits))
	}

	var best *Node[M]
	bestScore := math.Inf(-1)
	start := rng.Intn(len(children))

	for i := 0; i < len(children); i++ {
		child := &children[(start+i)%len(children)]
		score := uctScore(logParentVisits, explore, child.visits.Load(), child.score.Load())

		if math.IsNaN(score) {
			panic("mcts: uct score is NaN")
		}
		if score > bestScore {
			bestScore = score
			best = child
		}
	}

	return best
}
