package anybytes

import "go.uber.org/atomic"

// owner is the reference-counted cell behind every handle and view. The
// strong count starts at one. There is no weak counter: weak handles keep
// the cell itself reachable through the garbage collector, so liveness is
// carried entirely by the strong count.
type owner struct {
	value  ByteOwner
	strong atomic.Int64
}

func newOwner(v ByteOwner) *owner {
	o := &owner{value: v}
	o.strong.Store(1)
	return o
}

// retain adds a strong reference. Callers must already hold one.
func (o *owner) retain() {
	o.strong.Inc()
}

// release drops a strong reference. The goroutine that brings the count to
// zero performs teardown: if the erased value implements Dropper, Drop runs
// exactly once, then the cell is cleared. No upgrade can succeed once the
// count has reached zero, so the teardown never races a reader.
func (o *owner) release() {
	if o.strong.Dec() != 0 {
		return
	}
	v := o.value
	o.value = nil
	if d, ok := v.(Dropper); ok {
		d.Drop()
	}
}

// upgrade adds a strong reference only if the count is currently nonzero,
// as one atomic step. Never increment-then-check: that could resurrect an
// owner whose teardown has begun.
func (o *owner) upgrade() bool {
	for {
		n := o.strong.Load()
		if n == 0 {
			return false
		}
		if o.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// reclaim trades the sole strong reference for ownership of the erased
// value, which moves out without its teardown running. The compare-and-swap
// from one to zero settles the race against upgrade: whichever step wins
// decides the owner's fate.
func (o *owner) reclaim() (ByteOwner, bool) {
	if !o.strong.CompareAndSwap(1, 0) {
		return nil, false
	}
	v := o.value
	o.value = nil
	return v, true
}
