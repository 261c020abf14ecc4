package anybytes

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/triblespace/anybytes/errors"
)

// Mapping owns a memory-mapped file window. It backs handles produced by
// MapFile and MapFileRegion and by frozen area sections; recover it with
// DowncastOwner[*Mapping]. The last release unmaps the window.
type Mapping struct {
	mm mmap.MMap
}

// NewMapping wraps an existing mmap window so it can serve as a byte owner.
func NewMapping(mm mmap.MMap) *Mapping {
	return &Mapping{mm: mm}
}

// Bytes borrows the mapped window.
func (m *Mapping) Bytes() []byte { return m.mm }

// Drop unmaps the window.
func (m *Mapping) Drop() {
	_ = m.mm.Unmap()
}

// MapFile maps the whole of f read-only and wraps the mapping as a handle.
// The caller guarantees the file's content is not mutated through another
// path for the mapping's lifetime; violations are invisible to the library
// and undefined. f may be closed once MapFile returns.
func MapFile(f *os.File) (Bytes, error) {
	fi, err := f.Stat()
	if err != nil {
		return Bytes{}, errors.IO(errors.OpMap, f.Name(), err)
	}
	if fi.Size() == 0 {
		return Empty(), nil
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return Bytes{}, errors.IO(errors.OpMap, f.Name(), err)
	}
	return FromRaw(mm, NewMapping(mm)), nil
}

// MapFileRegion maps n bytes of f starting at off, read-only. The offset
// need not be page aligned: the window is page aligned internally and the
// handle covers exactly [off, off+n). Same caller guarantee as MapFile.
func MapFileRegion(f *os.File, off int64, n int) (Bytes, error) {
	if off < 0 || n < 0 {
		return Bytes{}, errors.New(errors.OpMap, errors.KindBounds).Detail("negative region %d+%d", off, n).Build()
	}
	fi, err := f.Stat()
	if err != nil {
		return Bytes{}, errors.IO(errors.OpMap, f.Name(), err)
	}
	if off+int64(n) > fi.Size() {
		return Bytes{}, errors.New(errors.OpMap, errors.KindBounds).
			Detail("region [%d:%d) out of bounds (file size %d)", off, off+int64(n), fi.Size()).
			Build()
	}
	if n == 0 {
		return Empty(), nil
	}
	page := int64(os.Getpagesize())
	mapOff := off &^ (page - 1)
	delta := int(off - mapOff)
	mm, err := mmap.MapRegion(f, delta+n, mmap.RDONLY, 0, mapOff)
	if err != nil {
		return Bytes{}, errors.IO(errors.OpMap, f.Name(), err)
	}
	return FromRaw(mm[delta:delta+n:delta+n], NewMapping(mm)), nil
}
