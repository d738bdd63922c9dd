package jsonkit

import (
	"fmt"
	"sort"
	"strings"
)

// Qualifier is a marker value distinguishing a variant of an adapter for
// the same Go type -- spec.md §3's "unordered set of marker values
// distinguished by their identity tag (name + attribute values)". Only
// Qualifier values (Go's stand-in for markers carrying the JsonQualifier
// meta-marker; there is no runtime-retained-annotation equivalent to
// discover automatically) participate in registry lookups.
type Qualifier struct {
	name  string
	attrs string
}

// NewQualifier builds a Qualifier identified by name, optionally carrying
// attribute values (e.g. NewQualifier("Millis"), NewQualifier("Named",
// "createdAt")). Two qualifiers with the same name and attributes compare
// equal regardless of call site.
func NewQualifier(name string, attrs ...any) Qualifier {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = fmt.Sprint(a)
	}
	return Qualifier{name: name, attrs: strings.Join(parts, "\x00")}
}

func (q Qualifier) String() string {
	if q.attrs == "" {
		return q.name
	}
	return q.name + "(" + strings.ReplaceAll(q.attrs, "\x00", ",") + ")"
}

// canonicalQualifiers renders an unordered qualifier set into a stable,
// order-independent string, so two call sites passing the same qualifiers
// in different order produce the same TypeKey.
func canonicalQualifiers(quals []Qualifier) string {
	if len(quals) == 0 {
		return ""
	}
	strs := make([]string, len(quals))
	for i, q := range quals {
		strs[i] = q.name + "\x01" + q.attrs
	}
	sort.Strings(strs)
	return strings.Join(strs, "\x02")
}
