package anybytes

import (
	"unsafe"

	"github.com/triblespace/anybytes/errors"
	"github.com/triblespace/anybytes/internal/layout"
)

// View is a typed, zero-copy reinterpretation of a handle's bytes as a
// sequence of T. A view holds its own strong reference and follows the same
// clone/release discipline as handles. Views are constructed only through
// the validated conversions in this file; the element memory is shared, not
// copied.
type View[T any] struct {
	elems []T
	ref   *owner
}

// AsView reinterprets all of b's bytes as elements of T. The byte length
// must be an exact multiple of T's size, the starting address must satisfy
// T's alignment, and T must be free of pointers; each violation reports its
// own error kind. b is unchanged and stays valid independently of the view.
func AsView[T any](b *Bytes) (View[T], error) {
	info, err := layout.Of[T]()
	if err != nil {
		return View[T]{}, errors.InvalidType(errors.OpView, layout.TagFor[T](), err.Error())
	}
	elems, verr := overlay[T](b.data, info)
	if verr != nil {
		return View[T]{}, verr
	}
	if b.ref != nil {
		b.ref.retain()
	}
	return View[T]{elems: elems, ref: b.ref}, nil
}

// ViewPrefix detaches the first count elements of b as a typed view,
// advancing b past the bytes consumed. On failure b is unchanged. This is
// the "reserve N elements, get a typed view" shape used when parsing
// length-prefixed data.
func ViewPrefix[T any](b *Bytes, count int) (View[T], error) {
	info, n, err := prefixLayout[T](b, count)
	if err != nil {
		return View[T]{}, err
	}
	elems, verr := overlay[T](b.data[:n:n], info)
	if verr != nil {
		return View[T]{}, verr
	}
	if b.ref != nil {
		b.ref.retain()
	}
	b.data = b.data[n:]
	return View[T]{elems: elems, ref: b.ref}, nil
}

// ViewSuffix detaches the last count elements of b as a typed view,
// shrinking b from the back. On failure b is unchanged.
func ViewSuffix[T any](b *Bytes, count int) (View[T], error) {
	info, n, err := prefixLayout[T](b, count)
	if err != nil {
		return View[T]{}, err
	}
	cut := len(b.data) - n
	elems, verr := overlay[T](b.data[cut:], info)
	if verr != nil {
		return View[T]{}, verr
	}
	if b.ref != nil {
		b.ref.retain()
	}
	b.data = b.data[:cut:cut]
	return View[T]{elems: elems, ref: b.ref}, nil
}

func prefixLayout[T any](b *Bytes, count int) (layout.Info, int, error) {
	info, err := layout.Of[T]()
	if err != nil {
		return info, 0, errors.InvalidType(errors.OpView, layout.TagFor[T](), err.Error())
	}
	if info.Size == 0 {
		return info, 0, errors.InvalidType(errors.OpView, layout.TagFor[T](), "zero-size element type")
	}
	if count < 0 || uintptr(count) > uintptr(len(b.data))/info.Size {
		return info, 0, errors.New(errors.OpView, errors.KindBounds).
			Type(layout.TagFor[T]()).
			Detail("need %d elements, have %d", count, len(b.data)/int(info.Size)).
			Build()
	}
	return info, count * int(info.Size), nil
}

// overlay validates size and alignment, then reinterprets data in place.
func overlay[T any](data []byte, info layout.Info) ([]T, error) {
	if info.Size == 0 {
		return nil, errors.InvalidType(errors.OpView, layout.TagFor[T](), "zero-size element type")
	}
	if uintptr(len(data))%info.Size != 0 {
		return nil, errors.Size(errors.OpView, layout.TagFor[T](), len(data), info.Size)
	}
	if len(data) == 0 {
		return nil, nil
	}
	p := unsafe.Pointer(unsafe.SliceData(data))
	if uintptr(p)%info.Align != 0 {
		return nil, errors.Alignment(errors.OpView, layout.TagFor[T](), uintptr(p), info.Align)
	}
	return unsafe.Slice((*T)(p), len(data)/int(info.Size)), nil
}

// Len returns the element count.
func (v *View[T]) Len() int { return len(v.elems) }

// At returns element i.
func (v *View[T]) At(i int) T { return v.elems[i] }

// Elems borrows the typed elements without copying. Do not mutate the
// slice and do not retain it past Release.
func (v *View[T]) Elems() []T { return v.elems }

// Clone returns a new view sharing the same elements and owner.
func (v *View[T]) Clone() View[T] {
	if v.ref != nil {
		v.ref.retain()
	}
	return View[T]{elems: v.elems, ref: v.ref}
}

// Release drops the view's strong reference. The view must not be used
// afterwards.
func (v *View[T]) Release() {
	if v.ref == nil {
		v.elems = nil
		return
	}
	r := v.ref
	v.elems = nil
	v.ref = nil
	r.release()
}

// SliceView returns a view over the element range [start, end), sharing
// the owner. The original view is unchanged, also on failure.
func (v *View[T]) SliceView(start, end int) (View[T], error) {
	if start < 0 || end < start || end > len(v.elems) {
		return View[T]{}, errors.Bounds(errors.OpView, start, end, len(v.elems))
	}
	if v.ref != nil {
		v.ref.retain()
	}
	return View[T]{elems: v.elems[start:end:end], ref: v.ref}, nil
}

// Bytes recovers the untyped handle over the same memory, consuming the
// view: its reference transfers to the returned handle and the view must
// not be used afterwards. Reclaim and downcast propagate through the
// returned handle.
func (v *View[T]) Bytes() Bytes {
	var data []byte
	if n := len(v.elems); n > 0 {
		size := unsafe.Sizeof(v.elems[0])
		data = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v.elems))), uintptr(n)*size)
	}
	b := Bytes{data: data, ref: v.ref}
	v.elems = nil
	v.ref = nil
	return b
}

// Downgrade produces a weak view over the same elements without affecting
// the owner's liveness.
func (v *View[T]) Downgrade() WeakView[T] {
	return WeakView[T]{elems: v.elems, ref: v.ref}
}
