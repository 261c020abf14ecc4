package area

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"go.uber.org/zap"

	"github.com/triblespace/anybytes/errors"
	"github.com/triblespace/anybytes/internal/layout"
)

// SectionWriter is the area's exclusive reservation cursor. Reservations
// go through Reserve; Close hands exclusivity back to the area. Sections
// reserved through a writer stay valid after the writer closes.
type SectionWriter struct {
	a      *ByteArea
	closed bool
}

// Close releases the reservation cursor so Sections can hand it out
// again. Idempotent.
func (w *SectionWriter) Close() error {
	a := w.a
	a.mu.Lock()
	defer a.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if a.writer == w {
		a.writer = nil
	}
	return nil
}

// reserve claims [off, off+length) at the given alignment: it grows the
// file and maps a private read-write window over the new range. The
// returned window covers exactly the reserved bytes; mm is the full
// page-aligned mapping backing it. Zero-length reservations take no
// space and map nothing.
func (w *SectionWriter) reserve(align uintptr, length int64, tag string) (SectionDescriptor, mmap.MMap, []byte, error) {
	a := w.a
	a.mu.Lock()
	defer a.mu.Unlock()

	if w.closed {
		return SectionDescriptor{}, nil, nil, errors.State(errors.OpReserve, ErrWriterClosed)
	}
	if a.closed {
		return SectionDescriptor{}, nil, nil, errors.State(errors.OpReserve, ErrClosed)
	}

	off := a.size
	if length > 0 {
		off = layout.AlignUp(off, align)
	}
	desc := SectionDescriptor{Offset: off, Length: length, Type: tag}

	if length == 0 {
		a.layout = append(a.layout, desc)
		return desc, nil, nil, nil
	}

	if err := a.f.Truncate(off + length); err != nil {
		return SectionDescriptor{}, nil, nil, errors.IO(errors.OpReserve, a.path, err)
	}

	page := int64(os.Getpagesize())
	mapOff := off &^ (page - 1)
	delta := int(off - mapOff)
	mm, err := mmap.MapRegion(a.f, delta+int(length), mmap.RDWR, 0, mapOff)
	if err != nil {
		return SectionDescriptor{}, nil, nil, errors.IO(errors.OpReserve, a.path, err)
	}

	a.size = off + length
	a.live++
	a.layout = append(a.layout, desc)

	Logger().Debug("section reserved",
		zap.Int64("offset", off),
		zap.Int64("length", length),
		zap.String("type", tag))

	window := mm[delta : delta+int(length) : delta+int(length)]
	return desc, mm, window, nil
}
