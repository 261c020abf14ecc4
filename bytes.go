package anybytes

import (
	"bytes"
	"strconv"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/triblespace/anybytes/errors"
)

// Bytes is a shared, zero-copy handle over a byte region and its owner.
//
// A handle pairs a byte window with a reference-counted erased owner; the
// window always lies within the owner's valid memory. Clone shares the
// region by bumping the strong count, Release drops one reference, and the
// goroutine dropping the last reference tears the owner down. Every handle
// obtained from a constructor, Clone, Slice, or Take must be released
// exactly once.
//
// The zero value is an empty, ownerless handle and is permanently alive.
type Bytes struct {
	data []byte
	ref  *owner
}

// Empty returns an ownerless empty handle.
func Empty() Bytes {
	return Bytes{}
}

// FromSource builds a handle from any ByteSource. The source is consumed.
func FromSource(src ByteSource) Bytes {
	data := src.AsBytes()
	return Bytes{data: data, ref: newOwner(src.GetOwner())}
}

// FromRaw pairs data with an owner already known to keep it valid. The
// caller asserts that data lies within memory the owner keeps alive,
// unchanged and at a stable address, for as long as any strong reference
// exists. Violating this is undefined behavior the library cannot detect.
func FromRaw(data []byte, owner ByteOwner) Bytes {
	return Bytes{data: data, ref: newOwner(owner)}
}

// Len returns the number of bytes covered.
func (b *Bytes) Len() int { return len(b.data) }

// Data borrows the underlying bytes without copying. The borrow is valid
// only while the handle holds its reference: do not mutate the slice and do
// not retain it past Release.
func (b *Bytes) Data() []byte { return b.data }

// Clone returns a new handle sharing the same bytes and owner.
func (b *Bytes) Clone() Bytes {
	if b.ref != nil {
		b.ref.retain()
	}
	return Bytes{data: b.data, ref: b.ref}
}

// Release drops this handle's strong reference. The last release performs
// the owner's teardown. The handle must not be used afterwards.
func (b *Bytes) Release() {
	if b.ref == nil {
		b.data = nil
		return
	}
	r := b.ref
	b.data = nil
	b.ref = nil
	r.release()
}

// Slice returns a new handle over the half-open byte range [start, end),
// sharing the owner. The original handle is unchanged, also on failure.
func (b *Bytes) Slice(start, end int) (Bytes, error) {
	if start < 0 || end < start || end > len(b.data) {
		return Bytes{}, errors.Bounds(errors.OpSlice, start, end, len(b.data))
	}
	if b.ref != nil {
		b.ref.retain()
	}
	return Bytes{data: b.data[start:end:end], ref: b.ref}, nil
}

// SliceRef adopts sub, a slice previously borrowed from this handle via
// Data, as a handle of its own. It reports failure when sub's memory does
// not lie within the handle's bytes. An empty sub adopts as Empty.
func (b *Bytes) SliceRef(sub []byte) (Bytes, bool) {
	if len(sub) == 0 {
		return Empty(), true
	}
	if !within(b.data, sub) {
		return Bytes{}, false
	}
	if b.ref != nil {
		b.ref.retain()
	}
	return Bytes{data: sub, ref: b.ref}, true
}

func within(outer, sub []byte) bool {
	if len(outer) == 0 {
		return false
	}
	o0 := uintptr(unsafe.Pointer(unsafe.SliceData(outer)))
	s0 := uintptr(unsafe.Pointer(unsafe.SliceData(sub)))
	return s0 >= o0 && s0+uintptr(len(sub)) <= o0+uintptr(len(outer))
}

// TakePrefix detaches exactly n bytes from the front, shrinking the handle
// in place and returning the prefix as a handle of its own. On failure the
// handle is unchanged.
func (b *Bytes) TakePrefix(n int) (Bytes, error) {
	if n < 0 || n > len(b.data) {
		return Bytes{}, errors.TooShort(errors.OpTake, n, len(b.data))
	}
	head := b.data[:n:n]
	b.data = b.data[n:]
	if b.ref != nil {
		b.ref.retain()
	}
	return Bytes{data: head, ref: b.ref}, nil
}

// TakeSuffix detaches exactly n bytes from the back, shrinking the handle
// in place and returning the suffix as a handle of its own. On failure the
// handle is unchanged.
func (b *Bytes) TakeSuffix(n int) (Bytes, error) {
	if n < 0 || n > len(b.data) {
		return Bytes{}, errors.TooShort(errors.OpTake, n, len(b.data))
	}
	cut := len(b.data) - n
	tail := b.data[cut:]
	b.data = b.data[:cut:cut]
	if b.ref != nil {
		b.ref.retain()
	}
	return Bytes{data: tail, ref: b.ref}, nil
}

// PopFront removes and returns the first byte.
func (b *Bytes) PopFront() (byte, bool) {
	if len(b.data) == 0 {
		return 0, false
	}
	c := b.data[0]
	b.data = b.data[1:]
	return c, true
}

// PopBack removes and returns the last byte.
func (b *Bytes) PopBack() (byte, bool) {
	if len(b.data) == 0 {
		return 0, false
	}
	c := b.data[len(b.data)-1]
	b.data = b.data[:len(b.data)-1]
	return c, true
}

// Downgrade produces a weak handle over the same bytes without affecting
// the owner's liveness.
func (b *Bytes) Downgrade() WeakBytes {
	return WeakBytes{data: b.data, ref: b.ref}
}

// Equal reports whether both handles observe identical bytes.
func (b *Bytes) Equal(other *Bytes) bool {
	return bytes.Equal(b.data, other.data)
}

// Sum64 returns the xxHash64 digest of the bytes.
func (b *Bytes) Sum64() uint64 {
	return xxhash.Sum64(b.data)
}

// String formats the bytes as an escaped ASCII literal.
func (b *Bytes) String() string {
	return strconv.QuoteToASCII(string(b.data))
}

// DowncastOwner returns the concrete owner when its runtime type is T.
// Sharing is permitted: no uniqueness is required, and the handle stays
// valid either way. On mismatch it reports failure without touching the
// erased value.
func DowncastOwner[T any](b *Bytes) (T, bool) {
	var zero T
	if b.ref == nil {
		return zero, false
	}
	v, ok := b.ref.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// ReclaimOwner returns the concrete owner by value when this handle holds
// the unique strong reference and the owner's runtime type is T. On success
// the handle is consumed and the owner moves out without its teardown
// running; the caller takes over the resource. On failure, whether from a
// type mismatch or from sharing, the handle is left unchanged and no cast
// of the data is attempted.
//
// Byte slices borrowed through Data must no longer be used once reclaim
// succeeds.
func ReclaimOwner[T any](b *Bytes) (T, bool) {
	var zero T
	if b.ref == nil {
		return zero, false
	}
	if _, ok := b.ref.value.(T); !ok {
		return zero, false
	}
	v, ok := b.ref.reclaim()
	if !ok {
		return zero, false
	}
	b.data = nil
	b.ref = nil
	return v.(T), true
}
