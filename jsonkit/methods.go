package jsonkit

import (
	"reflect"

	"github.com/jsonkit/jsonkit/jsontoken"
)

// Methods is Go's stand-in for the source's reflective @ToJson/@FromJson
// method-scanning binder (spec.md §4.7): Go carries no runtime-retained
// method annotations, so registration is explicit closures keyed by
// (reflect.Type, qualifier set) instead of a scan over a class's methods.
type Methods struct {
	toJSON   map[TypeKey]methodEntry
	fromJSON map[TypeKey]methodEntry
}

type methodEntry struct {
	name string // for conflict-error messages only
	to   func(w jsontoken.Writer, v any) error
	from func(r jsontoken.Reader) (any, error)
}

// NewMethods returns an empty binder ready for ToJSON/FromJSON
// registrations.
func NewMethods() *Methods {
	return &Methods{
		toJSON:   make(map[TypeKey]methodEntry),
		fromJSON: make(map[TypeKey]methodEntry),
	}
}

// ToJSON registers the serializing half of an adapter-method pair for t
// under quals, named name purely for the conflict-detection error message.
// Registering a second ToJSON for the same (type, qualifier set) panics
// with "Conflicting @ToJson methods: <name1>, <name2>", mirroring spec.md
// §4.7's duplicate-registration invariant.
func (m *Methods) ToJSON(t reflect.Type, name string, quals []Qualifier, fn func(w jsontoken.Writer, v any) error) *Methods {
	key := NewTypeKey(t, quals...)
	if existing, ok := m.toJSON[key]; ok {
		panic("jsonkit: Conflicting @ToJson methods: " + existing.name + ", " + name)
	}
	m.toJSON[key] = methodEntry{name: name, to: fn}
	return m
}

// FromJSON registers the deserializing half, with the same conflict rule
// ("Conflicting @FromJson methods: <name1>, <name2>").
func (m *Methods) FromJSON(t reflect.Type, name string, quals []Qualifier, fn func(r jsontoken.Reader) (any, error)) *Methods {
	key := NewTypeKey(t, quals...)
	if existing, ok := m.fromJSON[key]; ok {
		panic("jsonkit: Conflicting @FromJson methods: " + existing.name + ", " + name)
	}
	m.fromJSON[key] = methodEntry{name: name, from: fn}
	return m
}

// factory returns a Factory that serves an adapter assembled from whichever
// of ToJSON/FromJSON were registered for (t, quals). A direction left
// unregistered fails at invocation time rather than at registry build
// time, since a write-only or read-only adapter is a legitimate and common
// half-registration (spec.md §4.7).
func (m *Methods) factory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		key := NewTypeKey(t, quals...)
		to, hasTo := m.toJSON[key]
		from, hasFrom := m.fromJSON[key]
		if !hasTo && !hasFrom {
			return nil, false
		}
		return methodsAdapter{key: key, to: to, from: from, hasTo: hasTo, hasFrom: hasFrom}, true
	}
}

type methodsAdapter struct {
	key     TypeKey
	to      methodEntry
	from    methodEntry
	hasTo   bool
	hasFrom bool
}

func (a methodsAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	if !a.hasFrom {
		return nil, jsontoken.NewDataError(r.Path(), "No @FromJson adapter for "+a.key.String())
	}
	return a.from.from(r)
}

func (a methodsAdapter) ToJSON(w jsontoken.Writer, v any) error {
	if !a.hasTo {
		return jsontoken.NewDataError(w.Path(), "No @ToJson adapter for "+a.key.String())
	}
	return a.to.to(w, v)
}
