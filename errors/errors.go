package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Op indicates which operation produced the error
type Op string

const (
	OpFrom    Op = "from"    // source adoption
	OpView    Op = "view"    // typed reinterpretation
	OpSlice   Op = "slice"   // sub-range slicing
	OpTake    Op = "take"    // prefix/suffix removal
	OpRead    Op = "read"    // streaming reads
	OpMap     Op = "map"     // file mapping
	OpCreate  Op = "create"  // area creation
	OpReserve Op = "reserve" // section reservation
	OpFreeze  Op = "freeze"  // section/area freeze
	OpPersist Op = "persist" // backing file rename
	OpOpen    Op = "open"    // reopening a persisted area
	OpClose   Op = "close"   // resource teardown
	OpWrap    Op = "wrap"    // guest memory adoption
	OpExpose  Op = "expose"  // guest memory export
)

// Kind categorizes the error
type Kind string

const (
	KindAlignment   Kind = "alignment"    // address violates target alignment
	KindSize        Kind = "size"         // length is not a multiple of the target size
	KindInvalidType Kind = "invalid_type" // target type cannot be viewed from raw bytes
	KindBounds      Kind = "bounds"       // range or count exceeds available bytes
	KindTypeTag     Kind = "type_tag"     // descriptor tag does not match the requested type
	KindState       Kind = "state"        // operation illegal in the current lifecycle state
	KindIO          Kind = "io"           // file creation, growth, mapping, flush, rename
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Op     Op
	Kind   Kind
	Type   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Op == t.Op && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err or any error in its chain is an *Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Type sets the target Go type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Alignment creates an alignment violation error
func Alignment(op Op, goType string, addr, align uintptr) *Error {
	return &Error{
		Op:     op,
		Kind:   KindAlignment,
		Type:   goType,
		Detail: fmt.Sprintf("address %#x not aligned to %d", addr, align),
		Value:  addr,
	}
}

// Size creates a size mismatch error
func Size(op Op, goType string, length int, elemSize uintptr) *Error {
	return &Error{
		Op:     op,
		Kind:   KindSize,
		Type:   goType,
		Detail: fmt.Sprintf("%d bytes is not a multiple of element size %d", length, elemSize),
		Value:  length,
	}
}

// InvalidType creates an error for a type that cannot overlay raw bytes
func InvalidType(op Op, goType, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidType,
		Type:   goType,
		Detail: detail,
	}
}

// Bounds creates an out-of-bounds error for a half-open range
func Bounds(op Op, start, end, length int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindBounds,
		Detail: fmt.Sprintf("range [%d:%d) out of bounds (length %d)", start, end, length),
		Value:  end,
	}
}

// TooShort creates a bounds error for a count that exceeds available bytes
func TooShort(op Op, n, length int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindBounds,
		Detail: fmt.Sprintf("need %d bytes, have %d", n, length),
		Value:  n,
	}
}

// TagMismatch creates a descriptor tag mismatch error
func TagMismatch(op Op, want, got string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindTypeTag,
		Type:   want,
		Detail: fmt.Sprintf("descriptor tagged %q", got),
	}
}

// State creates a lifecycle state error, typically wrapping a package sentinel
func State(op Op, cause error) *Error {
	return &Error{
		Op:    op,
		Kind:  KindState,
		Cause: cause,
	}
}

// IO creates an I/O error wrapping the underlying cause
func IO(op Op, path string, cause error) *Error {
	return &Error{
		Op:     op,
		Kind:   KindIO,
		Detail: path,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(op Op, kind Kind, cause error, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
