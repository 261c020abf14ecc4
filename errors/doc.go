// Package errors provides structured error types for the anybytes library.
//
// Errors are categorized by Op (which operation failed) and Kind (error
// category). The Error type carries the target Go type, a detail message, and
// a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpView, errors.KindAlignment).
//		Type("uint64").
//		Detail("address %#x not aligned to %d", addr, align).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Alignment(errors.OpView, "uint64", addr, 8)
//	err := errors.Bounds(errors.OpSlice, start, end, length)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
