package mcts

import "time"

// Main worker id, which has some privileges, like calling the listener during the search
const mainWorkerId = 0

// Exploration weight used by the UCT formula while descending the tree.
// The final move pick always runs with exploration disabled (weight 0),
// so it compares empirical win ratios only.
const explorationWeight = 1.0

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for the random number generators used
// by the search workers, by default uses current time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
