// Package atomicbox provides a write-once atomic container.
//
// A Box holds at most one heap-allocated value. Concurrent writers race to
// set it, exactly one value wins, and every reader observes that same value
// forever after. Losing writers get the canonical value back and their own
// payload is discarded, so the Box never blocks and never needs a lock.
package atomicbox

import "sync/atomic"

// Box is a write-once slot for a value of type T.
// The zero value is an empty box, ready for use.
type Box[T any] struct {
	ptr atomic.Pointer[T]
}

// Get returns the stored value, or nil if the box is still empty.
// Never blocks.
func (b *Box[T]) Get() *T {
	return b.ptr.Load()
}

// TrySet stores 'value' if the box is empty and returns it. If another
// writer got there first, 'value' is discarded and the already-stored
// value is returned instead. Callers must use the returned pointer, not
// the one they passed in.
func (b *Box[T]) TrySet(value *T) *T {
	if value == nil {
		panic("atomicbox: TrySet called with nil value")
	}
	if b.ptr.CompareAndSwap(nil, value) {
		return value
	}
	return b.ptr.Load()
}
