package jsonkit

import (
	"strings"

	"github.com/jsonkit/jsonkit/jsontoken"
)

// Adapter is the bidirectional converter of spec.md §4.5: it reads a value
// from a jsontoken.Reader, or writes one to a jsontoken.Writer. Because the
// registry dispatches by runtime reflect.Type, Adapter is defined over
// `any` rather than a type parameter -- a generic Adapter[T] can't be
// stored in one dynamically-keyed cache alongside Adapter[U] for a
// different U.
type Adapter interface {
	FromJSON(r jsontoken.Reader) (any, error)
	ToJSON(w jsontoken.Writer, v any) error
}

// AdapterFunc pairs of plain functions, for building an Adapter without a
// named type -- the common case for builtin_factories.go's primitives.
type AdapterFunc struct {
	From func(r jsontoken.Reader) (any, error)
	To   func(w jsontoken.Writer, v any) error
}

func (f AdapterFunc) FromJSON(r jsontoken.Reader) (any, error) { return f.From(r) }
func (f AdapterFunc) ToJSON(w jsontoken.Writer, v any) error   { return f.To(w, v) }

// FromJSONString decodes s with a through a UTF-8 Reader, then requires
// (per spec.md §4.5) that nothing but whitespace remains unless lenient.
func FromJSONString(a Adapter, s string, lenient bool) (any, error) {
	dec := jsontoken.NewDecoder(strings.NewReader(s))
	dec.SetLenient(lenient)
	v, err := a.FromJSON(dec)
	if err != nil {
		return nil, err
	}
	if !lenient {
		if k, err := dec.Peek(); err == nil && k != jsontoken.EndDocument {
			return nil, jsontoken.NewEncodingError(dec.Path(), "JSON document was not fully consumed.")
		}
	}
	return v, nil
}

// ToJSONString writes v through a using a fresh UTF-8 Encoder and returns
// the resulting text.
func ToJSONString(a Adapter, v any) (string, error) {
	var sb strings.Builder
	enc := jsontoken.NewEncoder(&sb)
	if err := a.ToJSON(enc, v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
