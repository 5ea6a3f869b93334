package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

// Options bound a single search. The zero value is not usable, start from
// DefaultOptions and chain the setters.
type Options struct {
	Rollouts                uint32
	MaxRolloutDepth         uint32
	RolloutsBeforeExpanding uint32
	Threads                 int
	Movetime                int
	Infinite                bool
	MaxTreeNodes            uint32
}

func (o Options) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(o)
	return builder.String()
}

const (
	DefaultRollouts                uint32 = 100
	DefaultMaxRolloutDepth         uint32 = 100
	DefaultRolloutsBeforeExpanding uint32 = 0
	DefaultMovetimeLimit           int    = -1
	DefaultNodeLimit               uint32 = math.MaxUint32
)

func DefaultOptions() *Options {
	return &Options{
		Rollouts:                DefaultRollouts,
		MaxRolloutDepth:         DefaultMaxRolloutDepth,
		RolloutsBeforeExpanding: DefaultRolloutsBeforeExpanding,
		Threads:                 1,
		Movetime:                DefaultMovetimeLimit,
		Infinite:                false,
		MaxTreeNodes:            DefaultNodeLimit,
	}
}

// Set the exact number of search passes to run, 0 disables the pass
// budget (pair it with SetMovetime or SetInfinite)
func (o *Options) SetRollouts(rollouts uint32) *Options {
	o.Rollouts = rollouts
	o.Infinite = false
	return o
}

// Set the playout depth cap, playouts cut off here score as a draw
func (o *Options) SetMaxRolloutDepth(depth uint32) *Options {
	o.MaxRolloutDepth = depth
	return o
}

// Set how many rollouts a leaf absorbs before it is expanded into
// children, keeps cheaply-visited leaves from growing the tree
func (o *Options) SetRolloutsBeforeExpanding(rollouts uint32) *Options {
	o.RolloutsBeforeExpanding = rollouts
	return o
}

// Set the number of search workers sharing the tree
func (o *Options) SetThreads(threads int) *Options {
	o.Threads = max(threads, 1)
	return o
}

// Set the maximum time to think in milliseconds. The pass budget still
// applies if set, use SetRollouts(0) to search on time alone.
func (o *Options) SetMovetime(movetime int) *Options {
	o.Movetime = movetime
	o.Infinite = false
	return o
}

// Search until Stop is called or the context is cancelled
func (o *Options) SetInfinite(infinite bool) *Options {
	o.Infinite = infinite
	return o
}

// Cap the tree size in nodes. Reaching the cap freezes tree growth but
// not the search, frontier leaves keep absorbing rollouts.
func (o *Options) SetMaxTreeNodes(nodes uint32) *Options {
	o.MaxTreeNodes = nodes
	return o
}

// Cap the tree size by approximate memory footprint
func (o *Options) SetMaxTreeMb(mb int) *Options {
	return o.SetMaxTreeNodes(uint32(int64(mb) * (1 << 20) / int64(nodeSize)))
}
