package jsontoken

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/jsonkit/jsonkit/internal/numeric"
	"github.com/jsonkit/jsonkit/internal/ordered"
)

// numForm distinguishes which of Value's numeric fields is populated,
// mirroring spec.md §4.3/§6's three numeric kinds: integral-fits-in-64-bits,
// floating-point, and arbitrary precision.
type numForm byte

const (
	numNone numForm = iota
	numInt64
	numFloat64
	numDecimal
)

// Value is one node of the in-memory tree the Value Reader/Writer of
// spec.md §4.3 presents through the same token protocol as the UTF-8
// codec. It is a closed tagged union rather than an `any`-based tree so
// that the three numeric kinds spec.md §6 requires (Long-equivalent,
// Double-equivalent, arbitrary-precision decimal) stay distinguishable
// after a round trip, and so object member order is backed by
// internal/ordered rather than an unordered Go map.
type Value struct {
	kind Kind // Null, True, False, String, Number, ObjectStart, or ArrayStart

	str string
	num numForm
	i64 int64
	f64 float64
	dec *apd.Decimal

	arr []*Value
	obj *ordered.Map // keys are nameKey; present only when kind == ObjectStart
}

// nameKey adapts a plain string to ordered.Key's natural-ordering
// constraint, so object member names can key an *ordered.Map.
type nameKey string

func (k nameKey) Less(other any) bool  { return k < other.(nameKey) }
func (k nameKey) Equal(other any) bool { return k == other.(nameKey) }

func NewNullValue() *Value { return &Value{kind: Null} }

func NewBoolValue(b bool) *Value {
	if b {
		return &Value{kind: True}
	}
	return &Value{kind: False}
}

func NewStringValue(s string) *Value { return &Value{kind: String, str: s} }

func NewInt64Value(n int64) *Value {
	return &Value{kind: Number, num: numInt64, i64: n}
}

func NewFloat64Value(f float64) *Value {
	return &Value{kind: Number, num: numFloat64, f64: f}
}

func NewBigDecimalValue(d *apd.Decimal) *Value {
	return &Value{kind: Number, num: numDecimal, dec: d}
}

func NewArrayValue() *Value { return &Value{kind: ArrayStart} }

func NewObjectValue() *Value { return &Value{kind: ObjectStart, obj: ordered.New()} }

// Kind reports the node's token kind. For Number nodes, use NumberForm to
// tell which typed accessor is valid.
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) Bool() bool { return v.kind == True }

func (v *Value) String() string { return v.str }

// IsInt64 reports whether this Number node holds an integral value.
func (v *Value) IsInt64() bool { return v.num == numInt64 }

func (v *Value) Int64() int64 { return v.i64 }

func (v *Value) Float64() float64 {
	switch v.num {
	case numInt64:
		return float64(v.i64)
	case numDecimal:
		f, _ := v.dec.Float64()
		return f
	default:
		return v.f64
	}
}

func (v *Value) BigDecimal() *apd.Decimal {
	if v.num == numDecimal {
		return v.dec
	}
	if v.num == numInt64 {
		d := &apd.Decimal{}
		d.SetInt64(v.i64)
		return d
	}
	d, _, _ := apd.NewFromString(numeric.FormatFloat64(v.f64))
	return d
}

// Append adds an element to an array-kind Value. Panics if v is not an
// array, matching the adapter layer's contract that callers only ever
// append to values they themselves constructed with NewArrayValue.
func (v *Value) Append(elem *Value) {
	if v.kind != ArrayStart {
		panic("jsontoken: Append on non-array Value")
	}
	v.arr = append(v.arr, elem)
}

// Elements returns an array-kind Value's elements in order.
func (v *Value) Elements() []*Value {
	return v.arr
}

// Set inserts or overwrites a named member on an object-kind Value,
// preserving insertion order for new names.
func (v *Value) Set(name string, elem *Value) {
	if v.kind != ObjectStart {
		panic("jsontoken: Set on non-object Value")
	}
	v.obj.Set(nameKey(name), elem)
}

// Get looks up a named member on an object-kind Value.
func (v *Value) Get(name string) (*Value, bool) {
	if v.kind != ObjectStart {
		return nil, false
	}
	val, ok := v.obj.Get(nameKey(name))
	if !ok {
		return nil, false
	}
	return val.(*Value), true
}

// Members returns an object-kind Value's (name, Value) pairs in insertion
// order.
func (v *Value) Members() []NamedValue {
	entries := v.obj.Entries()
	out := make([]NamedValue, len(entries))
	for i, e := range entries {
		out[i] = NamedValue{Name: string(e.Key.(nameKey)), Value: e.Value.(*Value)}
	}
	return out
}

// NamedValue is one object member as returned by Value.Members.
type NamedValue struct {
	Name  string
	Value *Value
}

// Equal reports whether v and other describe the same JSON value: same
// kind, same scalar payload (numeric kind included, so 1 and 1.0 compare
// unequal), and recursively equal elements/members in the same order.
// go-cmp calls this method automatically in place of field-by-field
// comparison, which is what lets tests diff two Value trees without
// reaching into its unexported union fields.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case String:
		return v.str == other.str
	case Number:
		if v.num != other.num {
			return false
		}
		switch v.num {
		case numInt64:
			return v.i64 == other.i64
		case numFloat64:
			return v.f64 == other.f64
		case numDecimal:
			return v.dec.Cmp(other.dec) == 0
		}
		return true
	case ArrayStart:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i, e := range v.arr {
			if !e.Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case ObjectStart:
		a, b := v.Members(), other.Members()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].Name != b[i].Name || !a[i].Value.Equal(b[i].Value) {
				return false
			}
		}
		return true
	default:
		return true // Null, True, False carry no payload beyond kind
	}
}
