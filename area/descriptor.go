package area

import (
	"encoding/json"
	"os"

	"github.com/triblespace/anybytes"
	"github.com/triblespace/anybytes/errors"
	"github.com/triblespace/anybytes/internal/layout"
)

// SectionDescriptor records a section's geometry inside its file. The
// file itself carries no metadata; descriptors travel out of band and
// are what makes a persisted area reopenable.
//
// Type is the element type's tag as produced at reservation time. Tags
// are stable across runs of binaries built from the same source; they
// are not a cross-version serialization format.
type SectionDescriptor struct {
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
	Type   string `json:"type"`
}

// Open maps a persisted area file read-only as one handle. Descriptors
// recorded at build time carve it back into sections.
func Open(path string) (anybytes.Bytes, error) {
	f, err := os.Open(path)
	if err != nil {
		return anybytes.Bytes{}, errors.IO(errors.OpOpen, path, err)
	}
	defer f.Close()
	return anybytes.MapFile(f)
}

// Slice carves the descriptor's range out of a whole-area handle.
func (d SectionDescriptor) Slice(b *anybytes.Bytes) (anybytes.Bytes, error) {
	return b.Slice(int(d.Offset), int(d.Offset+d.Length))
}

// View reconstructs the typed view of a section from a whole-area handle.
// T must carry the same type tag the section was reserved with.
func View[T any](b *anybytes.Bytes, d SectionDescriptor) (anybytes.View[T], error) {
	if tag := layout.TagFor[T](); tag != d.Type {
		return anybytes.View[T]{}, errors.TagMismatch(errors.OpView, tag, d.Type)
	}
	sub, err := d.Slice(b)
	if err != nil {
		return anybytes.View[T]{}, err
	}
	v, err := anybytes.AsView[T](&sub)
	sub.Release()
	if err != nil {
		return anybytes.View[T]{}, err
	}
	return v, nil
}

// WriteLayout stores descriptors as JSON at path.
func WriteLayout(path string, descriptors []SectionDescriptor) error {
	data, err := json.MarshalIndent(descriptors, "", "  ")
	if err != nil {
		return errors.Wrap(errors.OpPersist, errors.KindIO, err, "encode layout")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IO(errors.OpPersist, path, err)
	}
	return nil
}

// ReadLayout loads descriptors written by WriteLayout.
func ReadLayout(path string) ([]SectionDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.OpOpen, path, err)
	}
	var out []SectionDescriptor
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.OpOpen, errors.KindIO, err, "decode layout")
	}
	return out, nil
}
