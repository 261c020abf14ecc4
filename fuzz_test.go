package anybytes

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/triblespace/anybytes/errors"
)

func FuzzSlice(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4}, 1, 3)
	f.Add([]byte{}, 0, 0)
	f.Add([]byte{9}, 0, 2)
	f.Add([]byte{1, 2, 3}, 2, 1)
	f.Add([]byte{1, 2, 3}, -1, 2)

	f.Fuzz(func(t *testing.T, data []byte, start, end int) {
		b := FromBytes(data)
		defer b.Release()

		sub, err := b.Slice(start, end)
		if err != nil {
			if 0 <= start && start <= end && end <= len(data) {
				t.Fatalf("valid range [%d:%d) rejected: %v", start, end, err)
			}
			if !errors.IsKind(err, errors.KindBounds) {
				t.Fatalf("wrong error kind: %v", err)
			}
			return
		}
		defer sub.Release()

		if !bytes.Equal(sub.Data(), data[start:end]) {
			t.Fatalf("slice [%d:%d): got %v, want %v", start, end, sub.Data(), data[start:end])
		}
		if !bytes.Equal(b.Data(), data) {
			t.Fatal("slicing disturbed the original")
		}
	})
}

func FuzzTakePrefix(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4}, 2)
	f.Add([]byte{}, 0)
	f.Add([]byte{5}, 3)
	f.Add([]byte{1, 2}, -1)

	f.Fuzz(func(t *testing.T, data []byte, n int) {
		b := FromBytes(data)
		defer b.Release()

		head, err := b.TakePrefix(n)
		if err != nil {
			if 0 <= n && n <= len(data) {
				t.Fatalf("valid take %d of %d rejected: %v", n, len(data), err)
			}
			if b.Len() != len(data) {
				t.Fatal("failed take disturbed the handle")
			}
			return
		}
		defer head.Release()

		joined := append(append([]byte{}, head.Data()...), b.Data()...)
		if !bytes.Equal(joined, data) {
			t.Fatalf("prefix and remainder do not rejoin: %v + %v != %v", head.Data(), b.Data(), data)
		}
	})
}

func FuzzViewU32(f *testing.F) {
	f.Add([]byte{1, 0, 0, 0, 2, 0, 0, 0})
	f.Add([]byte{})
	f.Add([]byte{1, 2, 3})
	f.Add(make([]byte, 64))

	f.Fuzz(func(t *testing.T, data []byte) {
		b := FromBytes(data)
		defer b.Release()

		v, err := AsView[uint32](&b)
		if err != nil {
			// The only legal complaints are length and placement.
			if !errors.IsKind(err, errors.KindSize) && !errors.IsKind(err, errors.KindAlignment) {
				t.Fatalf("wrong error kind: %v", err)
			}
			if errors.IsKind(err, errors.KindSize) && len(data)%4 == 0 {
				t.Fatalf("size complaint for %d bytes", len(data))
			}
			return
		}
		defer v.Release()

		if v.Len() != len(data)/4 {
			t.Fatalf("element count: got %d, want %d", v.Len(), len(data)/4)
		}
		for i := 0; i < v.Len(); i++ {
			if got, want := v.At(i), binary.NativeEndian.Uint32(data[4*i:]); got != want {
				t.Fatalf("element %d: got %#x, want %#x", i, got, want)
			}
		}
	})
}
