package layout

import (
	"fmt"
	"reflect"
	"sync"
)

// Info describes the in-memory layout of a view target type.
type Info struct {
	Size  uintptr
	Align uintptr
}

type result struct {
	info Info
	err  error
}

var cache sync.Map // reflect.Type -> result

// Of returns the layout of T, verifying that T can overlay raw bytes.
func Of[T any]() (Info, error) {
	return OfType(reflect.TypeFor[T]())
}

// OfType is the non-generic form of Of.
func OfType(t reflect.Type) (Info, error) {
	if cached, ok := cache.Load(t); ok {
		r := cached.(result)
		return r.info, r.err
	}

	var r result
	if err := check(t, t); err != nil {
		r.err = err
	} else {
		r.info = Info{Size: t.Size(), Align: uintptr(t.Align())}
	}

	cache.Store(t, r)
	return r.info, r.err
}

// TagFor returns the descriptor type tag for T: the Go type string, package
// qualified for named types. Tags identify types by name, not by size, so
// descriptors are portable only between builds where the named type has the
// same layout.
func TagFor[T any]() string {
	return reflect.TypeFor[T]().String()
}

// AlignUp rounds n up to the next multiple of align. Go type alignments are
// powers of two.
func AlignUp(n int64, align uintptr) int64 {
	a := int64(align)
	return (n + a - 1) &^ (a - 1)
}

func check(root, t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return check(root, t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := check(root, t.Field(i).Type); err != nil {
				return err
			}
		}
		return nil
	default:
		if root == t {
			return fmt.Errorf("%s (kind %s) cannot overlay raw bytes", t, t.Kind())
		}
		return fmt.Errorf("%s contains %s (kind %s) which cannot overlay raw bytes", root, t, t.Kind())
	}
}
