package jsonkit

import (
	"reflect"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/jsonkit/jsonkit/jsontoken"
)

// BoolFactory, StringFactory, IntFactory, FloatFactory, and the rest below
// are the builtin primitive factories of spec.md §4.6: one Factory per Go
// kind, each declining (ok=false) for any type it doesn't own so the
// pipeline falls through to the next entry -- struct_adapter.go's
// StructFactory is meant to sit last in the chain as the catch-all.

func BoolFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t.Kind() != reflect.Bool {
			return nil, false
		}
		return AdapterFunc{
			From: func(r jsontoken.Reader) (any, error) { return r.ReadBool() },
			To:   func(w jsontoken.Writer, v any) error { return w.WriteBool(reflect.ValueOf(v).Bool()) },
		}, true
	}
}

func StringFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t.Kind() != reflect.String {
			return nil, false
		}
		return AdapterFunc{
			From: func(r jsontoken.Reader) (any, error) { return r.ReadString() },
			To: func(w jsontoken.Writer, v any) error {
				return w.WriteString(reflect.ValueOf(v).String())
			},
		}, true
	}
}

// IntFactory covers every signed integer kind, narrowing from the wire's
// int64 with a range check so e.g. a JSON number too large for int8 fails
// loudly instead of silently truncating.
func IntFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return nil, false
		}
		bits := t.Bits()
		return AdapterFunc{
			From: func(r jsontoken.Reader) (any, error) {
				n, err := r.ReadInt64()
				if err != nil {
					return nil, err
				}
				if bits < 64 && (n < -(1<<(bits-1)) || n >= 1<<(bits-1)) {
					return nil, jsontoken.NewDataError(r.Path(), "Number out of range for "+t.String()+": "+strconv.FormatInt(n, 10))
				}
				rv := reflect.New(t).Elem()
				rv.SetInt(n)
				return rv.Interface(), nil
			},
			To: func(w jsontoken.Writer, v any) error {
				return w.WriteInt64(reflect.ValueOf(v).Int())
			},
		}, true
	}
}

func UintFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return nil, false
		}
		bits := t.Bits()
		return AdapterFunc{
			From: func(r jsontoken.Reader) (any, error) {
				n, err := r.ReadInt64()
				if err != nil {
					return nil, err
				}
				if n < 0 || (bits < 64 && uint64(n) >= uint64(1)<<bits) {
					return nil, jsontoken.NewDataError(r.Path(), "Number out of range for "+t.String())
				}
				rv := reflect.New(t).Elem()
				rv.SetUint(uint64(n))
				return rv.Interface(), nil
			},
			To: func(w jsontoken.Writer, v any) error {
				return w.WriteInt64(int64(reflect.ValueOf(v).Uint()))
			},
		}, true
	}
}

func FloatFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t.Kind() != reflect.Float32 && t.Kind() != reflect.Float64 {
			return nil, false
		}
		return AdapterFunc{
			From: func(r jsontoken.Reader) (any, error) {
				f, err := r.ReadFloat64()
				if err != nil {
					return nil, err
				}
				rv := reflect.New(t).Elem()
				rv.SetFloat(f)
				return rv.Interface(), nil
			},
			To: func(w jsontoken.Writer, v any) error {
				return w.WriteFloat64(reflect.ValueOf(v).Float())
			},
		}, true
	}
}

// SliceFactory covers both slices and fixed-size arrays, composing the
// element Adapter recursively through reg -- the same composition pattern
// spec.md §4.6 describes for container factories.
func SliceFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return nil, false
		}
		elemType := t.Elem()
		elem, err := reg.Adapter(elemType)
		if err != nil {
			return nil, false
		}
		isArray := t.Kind() == reflect.Array
		arrLen := 0
		if isArray {
			arrLen = t.Len()
		}
		return sliceAdapter{typ: t, elemType: elemType, elem: elem, isArray: isArray, arrLen: arrLen}, true
	}
}

type sliceAdapter struct {
	typ      reflect.Type
	elemType reflect.Type
	elem     Adapter
	isArray  bool
	arrLen   int
}

func (a sliceAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	if err := r.BeginArray(); err != nil {
		return nil, err
	}
	var out reflect.Value
	if a.isArray {
		out = reflect.New(a.typ).Elem()
	} else {
		out = reflect.MakeSlice(a.typ, 0, 0)
	}
	i := 0
	for {
		has, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		v, err := a.elem.FromJSON(r)
		if err != nil {
			return nil, err
		}
		ev := reflect.New(a.elemType).Elem()
		if v != nil {
			ev.Set(reflect.ValueOf(v))
		}
		if a.isArray {
			if i < a.arrLen {
				out.Index(i).Set(ev)
			}
		} else {
			out = reflect.Append(out, ev)
		}
		i++
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (a sliceAdapter) ToJSON(w jsontoken.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if err := w.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := a.elem.ToJSON(w, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return w.EndArray()
}

// MapFactory covers map[string]V, the only key type JSON object members
// can represent without a side-channel encoding -- spec.md §6 scopes this
// repo's native map support to string-keyed maps.
func MapFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
			return nil, false
		}
		elemType := t.Elem()
		elem, err := reg.Adapter(elemType)
		if err != nil {
			return nil, false
		}
		return mapAdapter{typ: t, elemType: elemType, elem: elem}, true
	}
}

type mapAdapter struct {
	typ      reflect.Type
	elemType reflect.Type
	elem     Adapter
}

func (a mapAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	out := reflect.MakeMap(a.typ)
	for {
		has, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		v, err := a.elem.FromJSON(r)
		if err != nil {
			return nil, err
		}
		ev := reflect.New(a.elemType).Elem()
		if v != nil {
			ev.Set(reflect.ValueOf(v))
		}
		out.SetMapIndex(reflect.ValueOf(name).Convert(a.typ.Key()), ev)
	}
	if err := r.EndObject(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (a mapAdapter) ToJSON(w jsontoken.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if err := w.BeginObject(); err != nil {
		return err
	}
	iter := rv.MapRange()
	for iter.Next() {
		if err := w.Name(iter.Key().String()); err != nil {
			return err
		}
		if err := a.elem.ToJSON(w, iter.Value().Interface()); err != nil {
			return err
		}
	}
	return w.EndObject()
}

// PointerFactory wraps the pointee's adapter so a nil *T reads/writes JSON
// null, and a non-nil *T dereferences transparently -- the same null
// handling NullSafe provides for explicitly-registered adapters, applied
// automatically to every pointer type the registry is asked to resolve.
func PointerFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t.Kind() != reflect.Pointer {
			return nil, false
		}
		elemType := t.Elem()
		elem, err := reg.Adapter(elemType)
		if err != nil {
			return nil, false
		}
		return pointerAdapter{elemType: elemType, elem: elem}, true
	}
}

type pointerAdapter struct {
	elemType reflect.Type
	elem     Adapter
}

func (a pointerAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	k, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if k == jsontoken.Null {
		return reflect.Zero(reflect.PointerTo(a.elemType)).Interface(), r.ReadNull()
	}
	v, err := a.elem.FromJSON(r)
	if err != nil {
		return nil, err
	}
	p := reflect.New(a.elemType)
	if v != nil {
		p.Elem().Set(reflect.ValueOf(v))
	}
	return p.Interface(), nil
}

func (a pointerAdapter) ToJSON(w jsontoken.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		return w.WriteNull()
	}
	return a.elem.ToJSON(w, rv.Elem().Interface())
}

// AnyFactory serves interface{}/any by reading or writing through the
// Value tree (jsontoken.Value), so a field typed any round-trips whatever
// shape of JSON it holds without the registry needing a concrete Go type
// to dispatch on -- spec.md §4.3's tree backend is exactly this escape
// hatch.
func AnyFactory() Factory {
	var anyType = reflect.TypeOf((*any)(nil)).Elem()
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t != anyType {
			return nil, false
		}
		return anyAdapter{}, true
	}
}

type anyAdapter struct{}

func (anyAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	return readAnyValue(r)
}

func readAnyValue(r jsontoken.Reader) (any, error) {
	k, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch k {
	case jsontoken.Null:
		return nil, r.ReadNull()
	case jsontoken.True, jsontoken.False:
		return r.ReadBool()
	case jsontoken.String:
		return r.ReadString()
	case jsontoken.Number:
		return r.ReadFloat64()
	case jsontoken.ArrayStart:
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		out := make([]any, 0)
		for {
			has, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !has {
				break
			}
			v, err := readAnyValue(r)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, r.EndArray()
	case jsontoken.ObjectStart:
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		out := make(map[string]any)
		for {
			has, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !has {
				break
			}
			name, err := r.ReadName()
			if err != nil {
				return nil, err
			}
			v, err := readAnyValue(r)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
		return out, r.EndObject()
	default:
		return nil, jsontoken.NewDataError(r.Path(), "Unexpected token reading any")
	}
}

func (anyAdapter) ToJSON(w jsontoken.Writer, v any) error {
	return writeAnyValue(w, v)
}

func writeAnyValue(w jsontoken.Writer, v any) error {
	switch x := v.(type) {
	case nil:
		return w.WriteNull()
	case bool:
		return w.WriteBool(x)
	case string:
		return w.WriteString(x)
	case int:
		return w.WriteInt64(int64(x))
	case int64:
		return w.WriteInt64(x)
	case float64:
		return w.WriteFloat64(x)
	case *apd.Decimal:
		return w.WriteBigDecimal(x)
	case []any:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, e := range x {
			if err := writeAnyValue(w, e); err != nil {
				return err
			}
		}
		return w.EndArray()
	case map[string]any:
		if err := w.BeginObject(); err != nil {
			return err
		}
		for name, e := range x {
			if err := w.Name(name); err != nil {
				return err
			}
			if err := writeAnyValue(w, e); err != nil {
				return err
			}
		}
		return w.EndObject()
	default:
		return jsontoken.NewDataError(w.Path(), "Unsupported value of Go type for any encoding")
	}
}

// StandardFactories returns the builtin factory chain in the probe order
// spec.md §4.6 implies: primitives first (cheapest, most specific),
// containers next, struct fallback last.
func StandardFactories() []Factory {
	return []Factory{
		BoolFactory(),
		StringFactory(),
		IntFactory(),
		UintFactory(),
		FloatFactory(),
		BigDecimalFactory(),
		AnyFactory(),
		PointerFactory(),
		SliceFactory(),
		MapFactory(),
		StructFactory(),
	}
}

// NewStandardRegistry builds a Registry pre-loaded with StandardFactories,
// the baseline every test and example in this repo starts from.
func NewStandardRegistry() *Registry {
	b := NewBuilder()
	for _, f := range StandardFactories() {
		b.AddFactory(f)
	}
	return b.Build()
}
