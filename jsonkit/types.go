package jsonkit

import "reflect"

// TypeKey is the registry lookup key of spec.md §3: the pair (structural
// type descriptor, qualifier set). Go's reflect.Type is already a
// canonical, comparable descriptor for any concrete type -- two
// reflect.Type values obtained from unrelated call sites for "the same
// type" are always the identical interned pointer -- so unlike the
// source's wildcard/parameterized-type canonicalization machinery (§3),
// TypeKey only needs to additionally canonicalize the qualifier set.
type TypeKey struct {
	typ   reflect.Type
	quals string // canonicalQualifiers(...) of the qualifier set
}

// NewTypeKey builds the lookup key for t qualified by quals.
func NewTypeKey(t reflect.Type, quals ...Qualifier) TypeKey {
	return TypeKey{typ: t, quals: canonicalQualifiers(quals)}
}

func (k TypeKey) Type() reflect.Type { return k.typ }

func (k TypeKey) String() string {
	if k.quals == "" {
		return k.typ.String()
	}
	return k.typ.String() + " qualified(" + k.quals + ")"
}
