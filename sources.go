package anybytes

import (
	"bytes"
	"unsafe"

	"github.com/triblespace/anybytes/errors"
	"github.com/triblespace/anybytes/internal/layout"
)

// FromBytes builds a handle over a heap byte slice. The slice itself is the
// owner; the caller must not mutate it once the handle exists. Recover it
// with ReclaimOwner[[]byte].
func FromBytes(p []byte) Bytes {
	return Bytes{data: p, ref: newOwner(p)}
}

// FromString builds a handle over the bytes of s without copying.
func FromString(s string) Bytes {
	var data []byte
	if len(s) > 0 {
		data = unsafe.Slice(unsafe.StringData(s), len(s))
	}
	return Bytes{data: data, ref: newOwner(s)}
}

// FromBuffer adopts a filled buffer, typically assembled by encoding or
// networking code. The buffer is the owner and is considered moved: the
// caller must not touch it again until it is recovered with
// ReclaimOwner[*bytes.Buffer], since growth would reallocate the backing
// array out from under the handle.
func FromBuffer(buf *bytes.Buffer) Bytes {
	return Bytes{data: buf.Bytes(), ref: newOwner(buf)}
}

// FromSlice builds a handle over the raw memory of a scalar or plain-struct
// slice. Element types carrying pointers are rejected. The slice is the
// owner; recover it with ReclaimOwner[[]T].
func FromSlice[T any](s []T) (Bytes, error) {
	info, err := layout.Of[T]()
	if err != nil {
		return Bytes{}, errors.InvalidType(errors.OpFrom, layout.TagFor[T](), err.Error())
	}
	var data []byte
	if len(s) > 0 && info.Size > 0 {
		data = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), uintptr(len(s))*info.Size)
	}
	return Bytes{data: data, ref: newOwner(s)}, nil
}
