package anybytes

import (
	"io"

	"github.com/triblespace/anybytes/errors"
)

// Reader provides offset-indexed, finite, restartable consumption of a
// handle's bytes. It satisfies io.Reader, io.ReaderAt, io.ByteScanner,
// io.Seeker and io.WriterTo for the surrounding IO ecosystem, and offers
// zero-copy Next/Peek in the advance-by-n style of streaming parsers.
//
// The reader holds its own strong reference; Close releases it. Seek back
// to zero restarts iteration.
type Reader struct {
	b   Bytes
	pos int64
}

// Reader returns a streaming reader over the handle's bytes. The handle
// itself is unchanged and stays usable independently.
func (b *Bytes) Reader() *Reader {
	return &Reader{b: b.Clone()}
}

// rem returns the unread window.
func (r *Reader) rem() []byte {
	if r.pos >= int64(len(r.b.data)) {
		return nil
	}
	return r.b.data[r.pos:]
}

// Read copies bytes into p, advancing the offset.
func (r *Reader) Read(p []byte) (int, error) {
	rem := r.rem()
	if len(rem) == 0 {
		return 0, io.EOF
	}
	n := copy(p, rem)
	r.pos += int64(n)
	return n, nil
}

// ReadAt copies bytes from an absolute offset without moving the cursor.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New(errors.OpRead, errors.KindBounds).Detail("negative offset %d", off).Build()
	}
	if off >= int64(len(r.b.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadByte returns the next byte.
func (r *Reader) ReadByte() (byte, error) {
	rem := r.rem()
	if len(rem) == 0 {
		return 0, io.EOF
	}
	r.pos++
	return rem[0], nil
}

// UnreadByte steps the cursor back one byte.
func (r *Reader) UnreadByte() error {
	if r.pos <= 0 {
		return errors.New(errors.OpRead, errors.KindBounds).Detail("unread at offset 0").Build()
	}
	r.pos--
	return nil
}

// Seek implements io.Seeker. Seek(0, io.SeekStart) restarts iteration.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = r.pos
	case io.SeekEnd:
		base = int64(len(r.b.data))
	default:
		return 0, errors.New(errors.OpRead, errors.KindBounds).Detail("invalid whence %d", whence).Build()
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New(errors.OpRead, errors.KindBounds).Detail("negative position %d", pos).Build()
	}
	r.pos = pos
	return pos, nil
}

// WriteTo copies the unread remainder to w.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	rem := r.rem()
	if len(rem) == 0 {
		return 0, nil
	}
	n, err := w.Write(rem)
	r.pos += int64(n)
	return int64(n), err
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int64 { return r.pos }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.rem()) }

// Size returns the total number of bytes.
func (r *Reader) Size() int64 { return int64(len(r.b.data)) }

// Peek borrows the next n bytes without advancing. The borrow follows the
// same rules as Bytes.Data.
func (r *Reader) Peek(n int) ([]byte, error) {
	rem := r.rem()
	if n < 0 || n > len(rem) {
		return nil, errors.TooShort(errors.OpRead, n, len(rem))
	}
	return rem[:n], nil
}

// Next detaches the next n bytes as a zero-copy handle sharing the owner,
// advancing the cursor.
func (r *Reader) Next(n int) (Bytes, error) {
	rem := r.rem()
	if n < 0 || n > len(rem) {
		return Bytes{}, errors.TooShort(errors.OpRead, n, len(rem))
	}
	out, _ := r.b.SliceRef(rem[:n])
	r.pos += int64(n)
	return out, nil
}

// Rest detaches the unread remainder as a zero-copy handle, leaving the
// cursor at the end.
func (r *Reader) Rest() Bytes {
	rem := r.rem()
	out, _ := r.b.SliceRef(rem)
	r.pos += int64(len(rem))
	return out
}

// Close releases the reader's reference. The reader must not be used
// afterwards.
func (r *Reader) Close() error {
	r.b.Release()
	return nil
}

// ReadView detaches the next count elements of T from the reader as a
// typed view, advancing the cursor by the bytes consumed. The current
// offset must satisfy T's alignment within the underlying storage.
func ReadView[T any](r *Reader, count int) (View[T], error) {
	rest := Bytes{data: r.rem(), ref: r.b.ref}
	before := len(rest.data)
	v, err := ViewPrefix[T](&rest, count)
	if err != nil {
		return View[T]{}, err
	}
	r.pos += int64(before - len(rest.data))
	return v, nil
}
