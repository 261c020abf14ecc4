package area

import (
	"os"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
	"go.uber.org/zap"

	"github.com/triblespace/anybytes"
	"github.com/triblespace/anybytes/errors"
	"github.com/triblespace/anybytes/internal/layout"
)

// Section is a live typed reservation inside an area. Its elements are
// writable in place through Elems until Freeze seals them. A section is
// meant for a single building goroutine.
type Section[T any] struct {
	a      *ByteArea
	mm     mmap.MMap
	elems  []T
	desc   SectionDescriptor
	frozen bool
}

// Reserve claims count elements of T at the end of the writer's area.
// The reservation starts at a multiple of T's alignment; any gap to the
// previous section stays zero. T must be a fixed-size pointer-free type.
func Reserve[T any](w *SectionWriter, count int) (*Section[T], error) {
	info, err := layout.Of[T]()
	if err != nil {
		return nil, errors.InvalidType(errors.OpReserve, layout.TagFor[T](), err.Error())
	}
	if info.Size == 0 {
		return nil, errors.InvalidType(errors.OpReserve, layout.TagFor[T](), "zero-size element type")
	}
	if count < 0 {
		return nil, errors.New(errors.OpReserve, errors.KindBounds).
			Type(layout.TagFor[T]()).
			Detail("negative count %d", count).
			Build()
	}

	length := int64(count) * int64(info.Size)
	desc, mm, window, err := w.reserve(info.Align, length, layout.TagFor[T]())
	if err != nil {
		return nil, err
	}

	s := &Section[T]{a: w.a, mm: mm, desc: desc}
	if length > 0 {
		p := unsafe.Pointer(unsafe.SliceData(window))
		s.elems = unsafe.Slice((*T)(p), count)
	}
	return s, nil
}

// Elems returns the section's writable elements. Nil once frozen.
func (s *Section[T]) Elems() []T { return s.elems }

// Len returns the live element count. Zero once frozen.
func (s *Section[T]) Len() int { return len(s.elems) }

// Descriptor returns the section's geometry for out-of-band storage.
func (s *Section[T]) Descriptor() SectionDescriptor { return s.desc }

// Freeze seals the section: it flushes the written bytes, flips the
// section's mapping read-only in place and returns an immutable handle
// over exactly the reserved range. The section is consumed; the handle's
// last release unmaps the window. Zero-length sections freeze to the
// empty handle.
func (s *Section[T]) Freeze() (anybytes.Bytes, error) {
	a := s.a
	a.mu.Lock()
	defer a.mu.Unlock()

	if s.frozen {
		return anybytes.Bytes{}, errors.State(errors.OpFreeze, ErrSectionFrozen)
	}

	if s.mm == nil {
		s.frozen = true
		return anybytes.Empty(), nil
	}

	if err := s.mm.Flush(); err != nil {
		return anybytes.Bytes{}, errors.IO(errors.OpFreeze, a.path, err)
	}
	if err := mprotectReadOnly(s.mm); err != nil {
		return anybytes.Bytes{}, errors.State(errors.OpFreeze, err)
	}

	delta := int(s.desc.Offset % int64(os.Getpagesize()))
	window := s.mm[delta : delta+int(s.desc.Length) : delta+int(s.desc.Length)]
	out := anybytes.FromRaw(window, anybytes.NewMapping(s.mm))

	s.frozen = true
	s.mm = nil
	s.elems = nil
	a.live--

	Logger().Debug("section frozen",
		zap.Int64("offset", s.desc.Offset),
		zap.Int64("length", s.desc.Length),
		zap.String("type", s.desc.Type))
	return out, nil
}
