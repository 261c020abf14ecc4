// Package guestmem bridges byte handles and WASM guest linear memory.
//
// Wrap adopts a span of a wazero module's memory as an anybytes.Bytes
// without copying: the handle aliases the guest's backing array. Expose
// goes the other direction, placing a handle's bytes into guest-allocated
// memory; crossing into the guest address space is necessarily a copy.
//
// # Wrapping Guest Memory
//
//	mem := mod.Memory()
//	b, err := guestmem.Wrap(mem, ptr, length)
//
//	// with a teardown hook, e.g. to return the span to the guest
//	b, err := guestmem.WrapWithRelease(mem, ptr, length, func() {
//	    free.Call(ctx, uint64(ptr), uint64(length))
//	})
//
// The caller guarantees the wrapped memory neither grows nor closes while
// handles reference it: growth may move the backing array and invalidate
// every alias. This mirrors the file-mapping contract and is not checked
// at runtime.
//
// # Exposing Handles
//
//	ptr, err := guestmem.Expose(b, mem, alloc)
//
// The Allocator is typically backed by the guest's own exported allocation
// function.
package guestmem
