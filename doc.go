// Package anybytes provides ownership-erased, zero-copy byte handles over
// heterogeneous storage, and a staged allocator for building immutable byte
// regions on disk.
//
// Any byte-owning container (heap slices, strings, buffers, memory-mapped
// files, WASM guest memory) is adapted behind one reference-counted handle
// type. Handles clone, slice, and reinterpret without copying; the concrete
// owner can be recovered by type at any time.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	anybytes/            Root package: capability interfaces, Bytes, views, weak refs
//	├── area/            Staged allocator: mmap-backed areas, sections, descriptors
//	├── guestmem/        WASM guest linear-memory interop (wazero)
//	├── errors/          Structured error types for debugging
//	└── internal/layout/ Size/alignment facts for view target types
//
// # Quick Start
//
// Wrap bytes and share them without copying:
//
//	b := anybytes.FromBytes([]byte{1, 2, 3, 4})
//	defer b.Release()
//
//	sub, err := b.Slice(1, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sub.Release()
//	fmt.Println(sub.Data()) // [2 3]
//
// Reinterpret typed data in place:
//
//	words, err := anybytes.FromSlice([]uint64{7, 8, 9})
//	v, err := anybytes.AsView[uint64](&words)
//	fmt.Println(v.At(2)) // 9
//
// # Reference Counting
//
// Every handle and view holds one strong reference to its owner. Clone adds
// one, Release drops one, and whichever goroutine drops the last reference
// performs the owner's teardown (for example, unmapping a file). Weak
// counterparts upgrade back to strong references only while the owner is
// alive; the upgrade is a single atomic increment-iff-nonzero step, so an
// owner whose teardown has begun can never be resurrected.
//
// For plain heap owners a forgotten Release only delays garbage collection.
// Owners holding real resources implement Dropper and rely on the release
// discipline.
//
// # Thread Safety
//
// Handles and views may be cloned and the clones used freely from different
// goroutines; all shared state is reference-count bookkeeping. A single
// Bytes, View, or Reader value is not safe for concurrent mutation. Nothing
// reachable from a shared handle can mutate its bytes; writing happens only
// inside live area sections, which have one exclusive writer by
// construction.
//
// # Memory Model
//
// Bytes borrowed through Data or Elems alias the owner's memory. They stay
// valid while the borrowing handle holds its reference and must not be
// retained past Release or a successful ReclaimOwner. Constructors that
// adopt caller memory (FromBytes, FromSlice, FromBuffer, FromRaw) take the
// container over: mutating it afterwards, before reclaiming it back, is
// undefined behavior.
package anybytes
