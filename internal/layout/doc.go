// Package layout computes in-memory layout facts for view target types.
//
// A type may overlay raw bytes only when every part of it is plain data:
// integers, floats, complex numbers, booleans, and arrays/structs of those.
// Pointers, slices, strings, maps, channels, funcs, and interfaces carry
// runtime references and are rejected.
//
// # Layout Rules
//
// Size and alignment come from the Go compiler via reflect:
//   - Primitives: size equals alignment (uint8=1, uint32=4, uint64=8, ...)
//   - Arrays: element layout repeated
//   - Structs: compiler field layout, including trailing padding
//
// # Usage
//
//	info, err := layout.Of[uint64]()
//	// info.Size, info.Align available
//
// Results are cached per type. This package is internal to anybytes.
package layout
