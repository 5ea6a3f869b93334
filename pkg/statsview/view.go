// Package statsview renders live search statistics to a terminal. It
// subscribes to a search through the engine's StatsListener and rewrites
// a single status line in place as the search deepens, falling back to
// plain append-only output for logs and tests.
package statsview

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/movesearch/go-treesearch/pkg/mcts"
)

// View writes search progress lines to one terminal output.
//
// Not safe for concurrent use; the engine invokes listener callbacks
// from its main worker only, which is exactly the serialization a View
// needs.
type View struct {
	out    *termenv.Output
	inline bool
}

type Option func(*View)

// Force a color profile instead of detecting one from the environment,
// termenv.Ascii gives uncolored output
func WithProfile(profile termenv.Profile) Option {
	return func(v *View) {
		v.out.Profile = profile
	}
}

// Print every update on its own line instead of rewriting the status
// line in place, for writers that are not terminals
func WithAppendOnly() Option {
	return func(v *View) {
		v.inline = false
	}
}

func New(w io.Writer, opts ...Option) *View {
	v := &View{
		out:    termenv.NewOutput(w),
		inline: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Line is one rendered progress update
type Line struct {
	Passes       uint32
	PassesPerSec uint32
	Depth        int
	TreeSize     uint32
	Eval         float64
	Pv           string
	StopReason   string

	// Final marks the last line of a search, it is never overwritten
	Final bool
}

// Render writes the line, overwriting the previous one in inline mode
func (v *View) Render(l Line) {
	text := v.format(l)

	if !v.inline {
		_, _ = v.out.WriteString(text + "\n")
		return
	}

	v.out.ClearLine()
	_, _ = v.out.WriteString("\r" + text)
	if l.Final {
		_, _ = v.out.WriteString("\n")
	}
}

func (v *View) format(l Line) string {
	eval := v.out.String(fmt.Sprintf("win %.1f%%", l.Eval*100)).Bold()
	switch {
	case l.Eval > 0.55:
		eval = eval.Foreground(v.out.Color("2"))
	case l.Eval < 0.45:
		eval = eval.Foreground(v.out.Color("1"))
	default:
		eval = eval.Foreground(v.out.Color("3"))
	}

	text := fmt.Sprintf("%s %s %s pv %s",
		v.out.String(fmt.Sprintf("[depth %d]", l.Depth)).Faint(),
		eval,
		fmt.Sprintf("passes %d nodes %d pps %d", l.Passes, l.TreeSize, l.PassesPerSec),
		v.out.String(l.Pv).Foreground(v.out.Color("6")))

	if l.Final && l.StopReason != "" {
		text += " " + v.out.String("("+l.StopReason+")").Faint().String()
	}
	return text
}

// Attach subscribes the view to an engine's listener: depth changes and
// pass intervals update the status line, the stop callback renders the
// final one. Existing callbacks on the listener are replaced.
func Attach[M mcts.MoveLike](v *View, listener *mcts.StatsListener[M]) {
	listener.
		OnDepth(func(s mcts.Snapshot[M]) {
			v.Render(fromSnapshot(s, false))
		}).
		OnPass(func(s mcts.Snapshot[M]) {
			v.Render(fromSnapshot(s, false))
		}).
		OnStop(func(s mcts.Snapshot[M]) {
			v.Render(fromSnapshot(s, true))
		})
}

func fromSnapshot[M mcts.MoveLike](s mcts.Snapshot[M], final bool) Line {
	l := Line{
		Passes:       s.Passes,
		PassesPerSec: s.PassesPerSec,
		Depth:        s.MaxDepth,
		TreeSize:     s.TreeSize,
		Eval:         s.Eval,
		Pv:           fmt.Sprint(s.Pv),
		Final:        final,
	}
	if final {
		l.StopReason = s.StopReason.String()
	}
	return l
}
