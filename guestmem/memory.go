package guestmem

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/triblespace/anybytes"
	"github.com/triblespace/anybytes/errors"
)

// Allocator allocates memory in WASM linear memory.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// Region owns a wrapped span of guest memory. It backs handles produced
// by Wrap and WrapWithRelease; recover it with DowncastOwner[*Region].
type Region struct {
	mem     api.Memory
	off     uint32
	length  uint32
	release func()
}

// Memory returns the module memory the region lives in.
func (r *Region) Memory() api.Memory { return r.mem }

// Offset returns the region's start address in guest memory.
func (r *Region) Offset() uint32 { return r.off }

// Len returns the region's length in bytes.
func (r *Region) Len() uint32 { return r.length }

// Drop runs the release hook, if any.
func (r *Region) Drop() {
	if r.release != nil {
		r.release()
	}
}

// Wrap adopts length bytes of guest memory at off as a handle. The bytes
// are aliased, not copied; see the package doc for the growth contract.
func Wrap(mem api.Memory, off, length uint32) (anybytes.Bytes, error) {
	return WrapWithRelease(mem, off, length, nil)
}

// WrapWithRelease is Wrap plus a teardown hook that runs exactly once,
// when the last handle or view referencing the region is released. A
// zero-length wrap has nothing to reference and runs the hook before
// returning.
func WrapWithRelease(mem api.Memory, off, length uint32, release func()) (anybytes.Bytes, error) {
	if length == 0 {
		if release != nil {
			release()
		}
		return anybytes.Empty(), nil
	}
	buf, ok := mem.Read(off, length)
	if !ok {
		return anybytes.Bytes{}, errors.New(errors.OpWrap, errors.KindBounds).
			Detail("region [%d:%d) outside guest memory (size %d)", off, uint64(off)+uint64(length), mem.Size()).
			Build()
	}
	region := &Region{mem: mem, off: off, length: length, release: release}
	return anybytes.FromRaw(buf, region), nil
}

// Expose copies a handle's bytes into guest memory obtained from alloc
// and returns the guest pointer. The guest owns the span afterwards; the
// handle is unchanged.
func Expose(b *anybytes.Bytes, mem api.Memory, alloc Allocator) (uint32, error) {
	n := b.Len()
	ptr, err := alloc.Alloc(uint32(n), 1)
	if err != nil {
		return 0, errors.Wrap(errors.OpExpose, errors.KindState, err, "guest allocation failed")
	}
	if n == 0 {
		return ptr, nil
	}
	if !mem.Write(ptr, b.Data()) {
		alloc.Free(ptr, uint32(n), 1)
		return 0, errors.New(errors.OpExpose, errors.KindBounds).
			Detail("write of %d bytes at %d outside guest memory (size %d)", n, ptr, mem.Size()).
			Build()
	}
	return ptr, nil
}
