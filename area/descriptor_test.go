package area

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/triblespace/anybytes/errors"
)

// buildPersisted stages a u64 section and a u8 section, persists the
// area and returns the file path plus the recorded descriptors.
func buildPersisted(t *testing.T, ids []uint64, tag []uint8) (string, []SectionDescriptor) {
	t.Helper()
	dir := t.TempDir()

	a, err := New(WithDir(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	w, err := a.Sections()
	if err != nil {
		t.Fatal(err)
	}
	s1, err := Reserve[uint64](w, len(ids))
	if err != nil {
		t.Fatal(err)
	}
	copy(s1.Elems(), ids)
	s2, err := Reserve[uint8](w, len(tag))
	if err != nil {
		t.Fatal(err)
	}
	copy(s2.Elems(), tag)

	b1, err := s1.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	b1.Release()
	b2, err := s2.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	b2.Release()
	w.Close()

	path := filepath.Join(dir, "persisted.area")
	if err := a.Persist(path); err != nil {
		t.Fatalf("persist: %v", err)
	}
	return path, a.Layout()
}

func TestReopenRoundtrip(t *testing.T) {
	ids := []uint64{11, 22, 33}
	tag := []uint8{0xf0, 0x0d}
	path, descs := buildPersisted(t, ids, tag)

	whole, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer whole.Release()

	if len(descs) != 2 {
		t.Fatalf("layout entries: got %d, want 2", len(descs))
	}

	idView, err := View[uint64](&whole, descs[0])
	if err != nil {
		t.Fatalf("id view: %v", err)
	}
	defer idView.Release()
	for i, want := range ids {
		if got := idView.At(i); got != want {
			t.Errorf("id %d: got %d, want %d", i, got, want)
		}
	}

	tagBytes, err := descs[1].Slice(&whole)
	if err != nil {
		t.Fatalf("tag slice: %v", err)
	}
	defer tagBytes.Release()
	if tagBytes.Data()[0] != 0xf0 || tagBytes.Data()[1] != 0x0d {
		t.Errorf("tag bytes: got %v", tagBytes.Data())
	}
}

func TestViewTagMismatch(t *testing.T) {
	path, descs := buildPersisted(t, []uint64{1}, []uint8{2})

	whole, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer whole.Release()

	if _, err := View[uint32](&whole, descs[0]); !errors.IsKind(err, errors.KindTypeTag) {
		t.Errorf("u32 view of u64 section: got %v, want type tag error", err)
	}
}

func TestDescriptorSliceBounds(t *testing.T) {
	path, _ := buildPersisted(t, []uint64{1}, []uint8{2})

	whole, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer whole.Release()

	bad := SectionDescriptor{Offset: 4, Length: int64(whole.Len()), Type: "uint8"}
	if _, err := bad.Slice(&whole); !errors.IsKind(err, errors.KindBounds) {
		t.Errorf("oversized descriptor: got %v, want bounds error", err)
	}
}

func TestLayoutFileRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path, descs := buildPersisted(t, []uint64{5, 6}, []uint8{7})

	layoutPath := filepath.Join(dir, "layout.json")
	if err := WriteLayout(layoutPath, descs); err != nil {
		t.Fatalf("write layout: %v", err)
	}

	loaded, err := ReadLayout(layoutPath)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(loaded) != len(descs) {
		t.Fatalf("entries: got %d, want %d", len(loaded), len(descs))
	}
	for i := range descs {
		if loaded[i] != descs[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, loaded[i], descs[i])
		}
	}

	whole, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer whole.Release()
	v, err := View[uint64](&whole, loaded[0])
	if err != nil {
		t.Fatalf("view from loaded layout: %v", err)
	}
	defer v.Release()
	if v.At(0) != 5 || v.At(1) != 6 {
		t.Errorf("elements from loaded layout: got %v", v.Elems())
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.area"))
	if !errors.IsKind(err, errors.KindIO) {
		t.Errorf("open missing file: got %v, want io error", err)
	}
}

func TestReadLayoutCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLayout(path); !errors.IsKind(err, errors.KindIO) {
		t.Errorf("corrupt layout: got %v, want io error", err)
	}
}
