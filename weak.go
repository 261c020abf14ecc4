package anybytes

// WeakBytes is the non-owning counterpart of Bytes. It observes an owner
// without keeping it alive; cloning and inspecting it have no effect on the
// owner's liveness.
type WeakBytes struct {
	data []byte
	ref  *owner
}

// Upgrade attempts to regain a strong handle over the same bytes. It
// succeeds iff the owner's strong count is nonzero at the instant of the
// call, taken as a single atomic increment-iff-nonzero step. Once the count
// has reached zero, no later upgrade ever succeeds, regardless of how many
// weak handles remain. Weak handles over ownerless empty bytes always
// upgrade.
func (w *WeakBytes) Upgrade() (Bytes, bool) {
	if w.ref == nil {
		return Bytes{data: w.data}, true
	}
	if !w.ref.upgrade() {
		return Bytes{}, false
	}
	return Bytes{data: w.data, ref: w.ref}, true
}

// Clone returns a copy of the weak handle.
func (w *WeakBytes) Clone() WeakBytes {
	return WeakBytes{data: w.data, ref: w.ref}
}

// Len returns the number of bytes a successful upgrade would cover.
func (w *WeakBytes) Len() int { return len(w.data) }

// WeakView mirrors WeakBytes for typed views. The target type rides the
// type parameter, so downgrade and upgrade can never lose it.
type WeakView[T any] struct {
	elems []T
	ref   *owner
}

// Upgrade attempts to regain a strong view over the same elements, with the
// same single-step nonzero rule as WeakBytes.Upgrade.
func (w *WeakView[T]) Upgrade() (View[T], bool) {
	if w.ref == nil {
		return View[T]{elems: w.elems}, true
	}
	if !w.ref.upgrade() {
		return View[T]{}, false
	}
	return View[T]{elems: w.elems, ref: w.ref}, true
}

// Clone returns a copy of the weak view.
func (w *WeakView[T]) Clone() WeakView[T] {
	return WeakView[T]{elems: w.elems, ref: w.ref}
}

// Len returns the element count a successful upgrade would cover.
func (w *WeakView[T]) Len() int { return len(w.elems) }
