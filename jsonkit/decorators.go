package jsonkit

import (
	"sync"

	"github.com/jsonkit/jsonkit/jsontoken"
)

// decorKind distinguishes the stock decorators of spec.md §4.5 so the
// idempotency cache below can tell "nullSafe of X" from "nonNull of X".
type decorKind byte

const (
	decorNullSafe decorKind = iota
	decorNonNull
	decorLenient
	decorSerializeNulls
	decorFailOnUnknown
	decorIndent
)

type decorKey struct {
	inner Adapter
	kind  decorKind
	param string
}

// decorCache makes every decorator idempotent and chain-stable (spec.md
// §4.5: "two calls to .nullSafe() on the same adapter return the same
// object") without requiring Adapter implementations to track their own
// decoration history. An adapter whose dynamic type is not comparable (an
// AdapterFunc, or a value wrapping one) cannot be a cache key: for such an
// adapter each call builds a fresh decorator, so repeated calls return
// distinct objects.
var decorCache sync.Map // decorKey -> Adapter

func cachedDecorator(key decorKey, build func() Adapter) (a Adapter) {
	defer func() {
		if recover() != nil { // hashing a non-comparable key panics
			a = build()
		}
	}()
	if v, ok := decorCache.Load(key); ok {
		return v.(Adapter)
	}
	a = build()
	actual, _ := decorCache.LoadOrStore(key, a)
	return actual.(Adapter)
}

type taggedAdapter struct {
	Adapter
	kind decorKind
}

func kindOf(a Adapter) (decorKind, bool) {
	t, ok := a.(*taggedAdapter)
	if !ok {
		return 0, false
	}
	return t.kind, true
}

// NullSafe returns an adapter that reads/writes JSON null transparently as
// a Go nil, without invoking the inner adapter. Idempotent: NullSafe of an
// already-null-safe adapter returns the same adapter unchanged.
func NullSafe(a Adapter) Adapter {
	if k, ok := kindOf(a); ok && k == decorNullSafe {
		return a
	}
	return cachedDecorator(decorKey{inner: a, kind: decorNullSafe}, func() Adapter {
		return &taggedAdapter{Adapter: nullSafeAdapter{inner: a}, kind: decorNullSafe}
	})
}

type nullSafeAdapter struct{ inner Adapter }

func (n nullSafeAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	k, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if k == jsontoken.Null {
		return nil, r.ReadNull()
	}
	return n.inner.FromJSON(r)
}

func (n nullSafeAdapter) ToJSON(w jsontoken.Writer, v any) error {
	if v == nil {
		return w.WriteNull()
	}
	return n.inner.ToJSON(w, v)
}

// NonNull returns an adapter that rejects null on both sides with
// "Unexpected null at <path>". Idempotent like NullSafe.
func NonNull(a Adapter) Adapter {
	if k, ok := kindOf(a); ok && k == decorNonNull {
		return a
	}
	return cachedDecorator(decorKey{inner: a, kind: decorNonNull}, func() Adapter {
		return &taggedAdapter{Adapter: nonNullAdapter{inner: a}, kind: decorNonNull}
	})
}

type nonNullAdapter struct{ inner Adapter }

func (n nonNullAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	k, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if k == jsontoken.Null {
		return nil, jsontoken.NewDataError(r.Path(), "Unexpected null")
	}
	return n.inner.FromJSON(r)
}

func (n nonNullAdapter) ToJSON(w jsontoken.Writer, v any) error {
	if v == nil {
		return jsontoken.NewDataError(w.Path(), "Unexpected null")
	}
	return n.inner.ToJSON(w, v)
}

// The interfaces below are implemented by the concrete reader/writer types
// that carry lenient/serializeNulls/failOnUnknown/indent modes, so Lenient/
// SerializeNulls/FailOnUnknown/Indent can switch a mode on for the duration
// of one call and switch it back off (false, or the empty indent)
// afterward; the setting in place before the call is not consulted.
type lenientReader interface {
	SetLenient(bool)
}
type lenientWriter interface {
	SetLenient(bool)
}
type failOnUnknownReader interface {
	SetFailOnUnknown(bool)
}
type serializeNullsWriter interface {
	SetSerializeNulls(bool)
}
type indentWriter interface {
	SetIndent(string)
}

// Lenient returns an adapter that sets lenient mode on whichever reader or
// writer it is given for the duration of the call, then sets it to false,
// whatever it was before the call.
func Lenient(a Adapter) Adapter {
	return cachedDecorator(decorKey{inner: a, kind: decorLenient}, func() Adapter {
		return taggedAdapter{Adapter: lenientAdapter{inner: a}, kind: decorLenient}
	})
}

type lenientAdapter struct{ inner Adapter }

func (n lenientAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	lr, ok := r.(lenientReader)
	if !ok {
		return n.inner.FromJSON(r)
	}
	lr.SetLenient(true)
	defer lr.SetLenient(false)
	return n.inner.FromJSON(r)
}

func (n lenientAdapter) ToJSON(w jsontoken.Writer, v any) error {
	lw, ok := w.(lenientWriter)
	if !ok {
		return n.inner.ToJSON(w, v)
	}
	lw.SetLenient(true)
	defer lw.SetLenient(false)
	return n.inner.ToJSON(w, v)
}

// SerializeNulls returns an adapter that emits explicit nulls for the
// duration of the write instead of suppressing them, then sets the
// writer's serializeNulls mode to false, whatever it was before the call.
func SerializeNulls(a Adapter) Adapter {
	return cachedDecorator(decorKey{inner: a, kind: decorSerializeNulls}, func() Adapter {
		return taggedAdapter{Adapter: serializeNullsAdapter{inner: a}, kind: decorSerializeNulls}
	})
}

type serializeNullsAdapter struct{ inner Adapter }

func (n serializeNullsAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	return n.inner.FromJSON(r)
}

func (n serializeNullsAdapter) ToJSON(w jsontoken.Writer, v any) error {
	sw, ok := w.(serializeNullsWriter)
	if !ok {
		return n.inner.ToJSON(w, v)
	}
	sw.SetSerializeNulls(true)
	defer sw.SetSerializeNulls(false)
	return n.inner.ToJSON(w, v)
}

// FailOnUnknown returns an adapter that raises on SkipValue for the
// duration of the read, then sets the reader's failOnUnknown mode to
// false, whatever it was before the call.
func FailOnUnknown(a Adapter) Adapter {
	return cachedDecorator(decorKey{inner: a, kind: decorFailOnUnknown}, func() Adapter {
		return taggedAdapter{Adapter: failOnUnknownAdapter{inner: a}, kind: decorFailOnUnknown}
	})
}

type failOnUnknownAdapter struct{ inner Adapter }

func (n failOnUnknownAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	fr, ok := r.(failOnUnknownReader)
	if !ok {
		return n.inner.FromJSON(r)
	}
	fr.SetFailOnUnknown(true)
	defer fr.SetFailOnUnknown(false)
	return n.inner.FromJSON(r)
}

func (n failOnUnknownAdapter) ToJSON(w jsontoken.Writer, v any) error {
	return n.inner.ToJSON(w, v)
}

// Indent returns an adapter that sets the writer's indent string for the
// duration of the write, then restores the empty (compact) indent.
// Requires a non-empty indent, per spec.md §4.5.
func Indent(a Adapter, indent string) Adapter {
	if indent == "" {
		panic("jsonkit: Indent requires a non-empty indent string")
	}
	return cachedDecorator(decorKey{inner: a, kind: decorIndent, param: indent}, func() Adapter {
		return taggedAdapter{Adapter: indentAdapter{inner: a, indent: indent}, kind: decorIndent}
	})
}

type indentAdapter struct {
	inner  Adapter
	indent string
}

func (n indentAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	return n.inner.FromJSON(r)
}

func (n indentAdapter) ToJSON(w jsontoken.Writer, v any) error {
	iw, ok := w.(indentWriter)
	if !ok {
		return n.inner.ToJSON(w, v)
	}
	iw.SetIndent(n.indent)
	defer iw.SetIndent("")
	return n.inner.ToJSON(w, v)
}
