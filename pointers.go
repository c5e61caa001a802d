package arena

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
)

// elemChecks caches checkElem results by type.
var elemChecks sync.Map // reflect.Type -> error

// checkElem returns an error wrapping ErrPointerType if values of T cannot
// live in Storage memory. The block is never scanned by the garbage
// collector, so a pointer stored there does not keep its target alive.
//
// Pointers to T itself are accepted: they are links between values placed
// in the same Storage, which the block keeps alive as a whole.
func checkElem[T any]() error {
	t := reflect.TypeFor[T]()
	if err, ok := elemChecks.Load(t); ok {
		if err == nil {
			return nil
		}
		return err.(error)
	}
	var err error
	if path, ok := pointerFree(t, t, ""); !ok {
		if path == "" {
			err = errors.Wrapf(ErrPointerType, "%s", t)
		} else {
			err = errors.Wrapf(ErrPointerType, "%s at %s", t, path)
		}
	}
	elemChecks.Store(t, err)
	return err
}

// pointerFree reports whether t holds no references the collector must
// see, other than pointers to self. On failure it returns the path of the
// offending field.
func pointerFree(t, self reflect.Type, path string) (string, bool) {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return "", true
	case reflect.Array:
		if t.Len() == 0 {
			return "", true
		}
		return pointerFree(t.Elem(), self, path+"[0]")
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if p, ok := pointerFree(f.Type, self, path+"."+f.Name); !ok {
				return p, false
			}
		}
		return "", true
	case reflect.Pointer:
		if t.Elem() == self {
			return "", true
		}
	}
	return path, false
}
