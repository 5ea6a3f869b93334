package mcts

import (
	"context"
	"sync/atomic"
)

// Why a finished search stopped. Reasons are bit flags, a search that runs
// out of time just as it is interrupted reports both.
type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1 // Stopped by the user, via Stop() or context cancellation
	StopMovetime  StopReason = 2 // Time limit reached
	StopPasses    StopReason = 4 // Pass budget exhausted
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopPasses, "Passes"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

// limiter owns the stop machinery of one search: the stop flag, the
// movetime timer, optional context cancellation, and the gate that
// freezes tree growth when the node budget runs out.
type limiter struct {
	timer  *_Timer
	stop   atomic.Bool
	expand atomic.Bool
	reason StopReason
	ctx    context.Context
}

func newLimiter() *limiter {
	l := &limiter{
		timer: _NewTimer(),
		ctx:   context.Background(),
	}
	l.expand.Store(true)
	return l
}

// Arm the limiter for a fresh search
func (l *limiter) reset(movetime int) {
	l.timer.Movetime(movetime)
	l.timer.Reset()
	l.stop.Store(false)
	l.expand.Store(true)
	l.reason = StopNone
}

func (l *limiter) setContext(ctx context.Context) {
	if ctx != nil {
		l.ctx = ctx
	}
}

func (l *limiter) setStop() {
	l.stop.Store(true)
}

// Whether the search was stopped explicitly, folds a cancelled context
// into the stop flag
func (l *limiter) interrupted() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

// Polled by the workers between passes
func (l *limiter) ok() bool {
	return !l.interrupted() && !l.timer.IsEnd()
}

// Whether the tree may still grow
func (l *limiter) expandOk() bool {
	return l.expand.Load()
}

func (l *limiter) closeExpand() {
	l.expand.Store(false)
}

// Elapsed search time in ms (from the last reset)
func (l *limiter) elapsed() int {
	return l.timer.Deltatime()
}

// Record why the search ended, called once after all workers have joined
func (l *limiter) evaluateStopReason(passesExhausted bool) {
	reason := StopNone
	if l.stop.Load() {
		reason |= StopInterrupt
	}
	if l.timer.IsEnd() {
		reason |= StopMovetime
	}
	if passesExhausted {
		reason |= StopPasses
	}
	l.reason = reason
}

func (l *limiter) stopReason() StopReason {
	return l.reason
}
