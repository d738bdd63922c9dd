package jsonkit

import "reflect"

// Defaulter is an opt-in hook a Go type can implement so its allocated zero
// value isn't actually the bit-pattern zero value: JSONDefault returns the
// value Allocate should produce instead. Most types don't need this; the
// allocator falls back to reflect.New(t).Elem() when t doesn't implement
// it.
type Defaulter interface {
	JSONDefault() any
}

// Allocate produces a fresh, zero-side-effect value of type t for a
// decoding adapter to populate -- spec.md §4.8's "allocate a target value
// without running the type's normal construction side effects".
// reflect.New(t).Elem() obtains the zero value directly from the runtime
// type descriptor without invoking any constructor, which is Go's
// equivalent of the source's allocator bypassing a class's declared
// constructors entirely.
func Allocate(t reflect.Type) (reflect.Value, error) {
	zero := reflect.New(t).Elem()
	if dt := reflect.PointerTo(t); dt.Implements(defaulterType) {
		d := reflect.New(t).Interface().(Defaulter)
		if dv := d.JSONDefault(); dv != nil {
			rv := reflect.ValueOf(dv)
			if rv.Type().AssignableTo(t) {
				return rv, nil
			}
		}
	}
	return zero, nil
}

var defaulterType = reflect.TypeOf((*Defaulter)(nil)).Elem()
