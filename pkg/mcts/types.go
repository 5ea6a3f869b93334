package mcts

// Other types, which didn't fit the node or engine files

// Move types must be comparable and cheap to copy, a move is stored by value
// in every tree node and duplicated freely during playouts
type MoveLike comparable

type SeedGeneratorFnType func() int64
