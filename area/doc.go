// Package area provides a staged allocator that builds immutable byte
// regions inside one growable memory-mapped temp file.
//
// Typed sections are reserved through an exclusive writer, filled in place
// through their mapped windows, then frozen one by one into read-only
// handles. No bytes are copied at any stage: freezing flips the section's
// own mapping to read-only and wraps it as an anybytes.Bytes.
//
// # Lifecycle
//
// An area moves through a small state machine:
//
//	Open      - sections can be reserved, filled and frozen
//	Persisted - backing file renamed to a caller path; still Open
//	Frozen    - whole file sealed read-only; terminal
//
// Persist before Freeze is legal and keeps the file on disk. Freeze
// before Persist is rejected: an unpersisted frozen area has no file
// left to rename.
//
// # Building
//
//	a, err := area.New()
//	w, err := a.Sections()
//
//	ids, err := area.Reserve[uint64](w, 128)
//	copy(ids.Elems(), source)
//	frozen, err := ids.Freeze() // anybytes.Bytes, zero-copy
//
//	w.Close()
//
// Reservations are aligned per element type and never overlap. The file
// grows as needed; alignment gaps read as zeros.
//
// # File Layout
//
// The backing file is the concatenation of the aligned sections with
// zero-filled padding between them. There is no header and no metadata:
//
//	offset 0        8                24          28
//	| u8 section    | padding | u64 section     | u32 section ...
//
// Section geometry travels out of band as SectionDescriptor values
// ({offset, length, type tag}, JSON-encodable). After Persist, reopening
// is descriptor-driven:
//
//	whole, err := area.Open(path)
//	v, err := area.View[uint64](&whole, desc)
//
// # Concurrency
//
// One writer at a time owns the reservation cursor. Frozen handles and
// the area itself may be used from any goroutine; internal state is
// mutex-guarded.
package area
