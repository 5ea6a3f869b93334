package statsview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/movesearch/go-treesearch/pkg/mcts"
)

func TestRenderAppendOnly(t *testing.T) {
	buf := bytes.Buffer{}
	view := New(&buf, WithProfile(termenv.Ascii), WithAppendOnly())

	view.Render(Line{
		Passes:       100,
		PassesPerSec: 5000,
		Depth:        3,
		TreeSize:     42,
		Eval:         0.55,
		Pv:           "[1 2]",
	})

	got := buf.String()
	require.Equal(t, "[depth 3] win 55.0% passes 100 nodes 42 pps 5000 pv [1 2]\n", got)
}

func TestRenderFinalLine(t *testing.T) {
	buf := bytes.Buffer{}
	view := New(&buf, WithProfile(termenv.Ascii), WithAppendOnly())

	view.Render(Line{Depth: 1, Eval: 0.5, Pv: "[7]", StopReason: "Passes", Final: true})

	require.Contains(t, buf.String(), "(Passes)")
}

func TestRenderInline(t *testing.T) {
	buf := bytes.Buffer{}
	view := New(&buf, WithProfile(termenv.Ascii))

	view.Render(Line{Depth: 1, Eval: 0.5, Pv: "[]"})
	view.Render(Line{Depth: 2, Eval: 0.5, Pv: "[]", Final: true})

	got := buf.String()
	require.Contains(t, got, "\r[depth 1]")
	require.Contains(t, got, "\r[depth 2]")
	require.True(t, strings.HasSuffix(got, "\n"), "the final line keeps its newline")
}

func TestFromSnapshot(t *testing.T) {
	snap := mcts.Snapshot[int]{
		Stats: mcts.Stats{
			Passes:       250,
			MaxDepth:     4,
			TreeSize:     99,
			PassesPerSec: 1234,
			StopReason:   mcts.StopPasses,
		},
		BestMove: 3,
		Eval:     0.75,
		Pv:       []int{3, 1},
	}

	l := fromSnapshot(snap, false)
	require.Equal(t, uint32(250), l.Passes)
	require.Equal(t, 4, l.Depth)
	require.Equal(t, 0.75, l.Eval)
	require.Equal(t, "[3 1]", l.Pv)
	require.Empty(t, l.StopReason, "stop reason shows on the final line only")

	l = fromSnapshot(snap, true)
	require.True(t, l.Final)
	require.Equal(t, "Passes", l.StopReason)
}

// Forced line of three moves ending in a win, just enough game to drive
// a real search through the view.
type lineState struct{ depth int }

type lineGame struct{ winAt int }

func (g lineGame) GenerateMoves(s *lineState, moves []int) []int {
	if s.depth >= g.winAt {
		return moves
	}
	return append(moves, s.depth)
}

func (g lineGame) Winner(s *lineState) (mcts.Winner, bool) {
	if s.depth >= g.winAt {
		return mcts.PlayerJustMoved, true
	}
	return 0, false
}

func (g lineGame) Apply(s *lineState, m int) { s.depth++ }
func (g lineGame) Undo(s *lineState, m int)  { s.depth-- }

func (g lineGame) CloneState(s *lineState) *lineState { c := *s; return &c }

func TestAttach(t *testing.T) {
	buf := bytes.Buffer{}
	view := New(&buf, WithProfile(termenv.Ascii), WithAppendOnly())

	game := mcts.Game[lineState, int](lineGame{winAt: 3})
	engine := mcts.NewMCTS(game, mcts.DefaultOptions().SetRollouts(50))

	Attach(view, engine.Listener())
	engine.Listener().SetPassInterval(10)

	engine.Search(&lineState{})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2, "depth and pass updates plus the final line")

	last := lines[len(lines)-1]
	require.Contains(t, last, "passes 50")
	require.Contains(t, last, "pv [0 1 2]")
	require.Contains(t, last, "(Passes)")
	t.Logf("%s", last)
}
