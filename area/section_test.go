package area

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/triblespace/anybytes"
	"github.com/triblespace/anybytes/errors"
)

func newTestArea(t *testing.T) (*ByteArea, *SectionWriter) {
	t.Helper()
	a, err := New(WithDir(t.TempDir()))
	if err != nil {
		t.Fatalf("new area: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	w, err := a.Sections()
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	return a, w
}

func TestReserveAlignsPerType(t *testing.T) {
	a, w := newTestArea(t)

	s1, err := Reserve[uint8](w, 3)
	if err != nil {
		t.Fatal(err)
	}
	if d := s1.Descriptor(); d.Offset != 0 || d.Length != 3 {
		t.Errorf("u8 section: got %+v", d)
	}

	s2, err := Reserve[uint64](w, 2)
	if err != nil {
		t.Fatal(err)
	}
	if d := s2.Descriptor(); d.Offset != 8 || d.Length != 16 {
		t.Errorf("u64 section after 3 bytes: got %+v, want offset 8 length 16", d)
	}

	s3, err := Reserve[uint32](w, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d := s3.Descriptor(); d.Offset != 24 || d.Length != 4 {
		t.Errorf("u32 section: got %+v, want offset 24 length 4", d)
	}

	if a.Size() != 28 {
		t.Errorf("area size: got %d, want 28", a.Size())
	}

	for _, f := range []func() (anybytes.Bytes, error){s1.Freeze, s2.Freeze, s3.Freeze} {
		b, err := f()
		if err != nil {
			t.Fatal(err)
		}
		b.Release()
	}
}

func TestReserveStructAlignment(t *testing.T) {
	type record struct {
		ID    uint64
		Score uint32
	}

	_, w := newTestArea(t)

	if _, err := Reserve[uint8](w, 1); err != nil {
		t.Fatal(err)
	}
	s, err := Reserve[record](w, 2)
	if err != nil {
		t.Fatal(err)
	}
	d := s.Descriptor()
	if d.Offset != 8 {
		t.Errorf("record offset: got %d, want 8", d.Offset)
	}
	if d.Length != 32 {
		t.Errorf("record length: got %d, want 32", d.Length)
	}
	if d.Type != "area.record" {
		t.Errorf("record tag: got %q", d.Type)
	}
}

func TestSectionWriteAndFreeze(t *testing.T) {
	_, w := newTestArea(t)

	s, err := Reserve[uint8](w, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 {
		t.Fatalf("section len: got %d, want 4", s.Len())
	}
	copy(s.Elems(), "test")

	b, err := s.Freeze()
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	defer b.Release()

	if string(b.Data()) != "test" {
		t.Errorf("frozen bytes: got %q, want %q", b.Data(), "test")
	}
	if s.Elems() != nil || s.Len() != 0 {
		t.Error("consumed section still exposes elements")
	}
	if _, ok := anybytes.DowncastOwner[*anybytes.Mapping](&b); !ok {
		t.Error("frozen handle not backed by a mapping")
	}
}

func TestSectionFreezeTwice(t *testing.T) {
	_, w := newTestArea(t)

	s, err := Reserve[uint16](w, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if _, err := s.Freeze(); !stderrors.Is(err, ErrSectionFrozen) {
		t.Errorf("second freeze: got %v, want ErrSectionFrozen", err)
	}
}

func TestSectionViewRoundtrip(t *testing.T) {
	_, w := newTestArea(t)

	s, err := Reserve[uint64](w, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{100, 200, 300}
	copy(s.Elems(), want)

	b, err := s.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	v, err := anybytes.AsView[uint64](&b)
	if err != nil {
		t.Fatalf("view over frozen section: %v", err)
	}
	defer v.Release()
	for i, x := range want {
		if got := v.At(i); got != x {
			t.Errorf("element %d: got %d, want %d", i, got, x)
		}
	}
}

func TestZeroLengthSection(t *testing.T) {
	a, w := newTestArea(t)

	s, err := Reserve[uint64](w, 0)
	if err != nil {
		t.Fatalf("zero reserve: %v", err)
	}
	if s.Len() != 0 || s.Elems() != nil {
		t.Error("zero-length section has elements")
	}
	if a.Size() != 0 {
		t.Errorf("zero reserve moved the cursor: size %d", a.Size())
	}

	b, err := s.Freeze()
	if err != nil {
		t.Fatalf("zero freeze: %v", err)
	}
	defer b.Release()
	if b.Len() != 0 {
		t.Errorf("frozen zero section: got %d bytes", b.Len())
	}
}

func TestReserveRejectsTypes(t *testing.T) {
	_, w := newTestArea(t)

	if _, err := Reserve[string](w, 1); !errors.IsKind(err, errors.KindInvalidType) {
		t.Errorf("string reserve: got %v, want invalid type error", err)
	}
	if _, err := Reserve[*uint64](w, 1); !errors.IsKind(err, errors.KindInvalidType) {
		t.Errorf("pointer reserve: got %v, want invalid type error", err)
	}
	if _, err := Reserve[struct{}](w, 1); !errors.IsKind(err, errors.KindInvalidType) {
		t.Errorf("zero-size reserve: got %v, want invalid type error", err)
	}
	if _, err := Reserve[uint32](w, -1); !errors.IsKind(err, errors.KindBounds) {
		t.Errorf("negative count: got %v, want bounds error", err)
	}
}

func TestReserveAfterWriterClose(t *testing.T) {
	_, w := newTestArea(t)
	w.Close()

	if _, err := Reserve[uint8](w, 1); !stderrors.Is(err, ErrWriterClosed) {
		t.Errorf("reserve on closed writer: got %v, want ErrWriterClosed", err)
	}
}

func TestSectionsShareNoBytes(t *testing.T) {
	_, w := newTestArea(t)

	left, err := Reserve[uint8](w, 5)
	if err != nil {
		t.Fatal(err)
	}
	right, err := Reserve[uint8](w, 5)
	if err != nil {
		t.Fatal(err)
	}

	for i := range left.Elems() {
		left.Elems()[i] = 0x11
	}
	for i := range right.Elems() {
		right.Elems()[i] = 0x22
	}

	lb, err := left.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	defer lb.Release()

	// Freezing the left section must not seal the right one, even though
	// both ranges can share a file page.
	right.Elems()[0] = 0x33

	rb, err := right.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	defer rb.Release()

	if !bytes.Equal(lb.Data(), []byte{0x11, 0x11, 0x11, 0x11, 0x11}) {
		t.Errorf("left bytes: got %v", lb.Data())
	}
	if !bytes.Equal(rb.Data(), []byte{0x33, 0x22, 0x22, 0x22, 0x22}) {
		t.Errorf("right bytes: got %v", rb.Data())
	}
}
