package jsonkit

import (
	"reflect"
	"strings"

	"github.com/jsonkit/jsonkit/jsontoken"
)

// structField describes one exported field of a struct fallback adapter:
// its JSON member name (from a `json:"name"` tag override, or the Go field
// name) and its field index within the struct.
type structField struct {
	name  string
	index int
}

// StructFactory is the struct fallback factory of spec.md §4.6/§9: for any
// struct type with no explicit binding or adapter-methods registration, it
// builds an adapter over the type's exported fields using a `json:"name"`
// tag to override the member name, same as the teacher's tagging
// convention. Deliberately minimal: no omitempty, no ",string", no
// embedded-field promotion -- spec.md §1 scopes this repo to the core
// codec and composition engine, not a full struct-tag DSL.
func StructFactory() Factory {
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t.Kind() != reflect.Struct {
			return nil, false
		}
		fields, elemTypes, err := structFields(t)
		if err != nil {
			panic("jsonkit: " + err.Error())
		}
		adapters := make([]Adapter, len(fields))
		for i, ft := range elemTypes {
			a, err := reg.Adapter(ft)
			if err != nil {
				return nil, false
			}
			adapters[i] = a
		}
		return &structAdapter{typ: t, fields: fields, adapters: adapters}, true
	}
}

func structFields(t reflect.Type) ([]structField, []reflect.Type, error) {
	var fields []structField
	var types []reflect.Type
	seen := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		if prev, dup := seen[name]; dup {
			return nil, nil, jsontoken.NewEncodingError("", "Duplicate JSON member name '"+name+"' on fields "+prev+" and "+sf.Name)
		}
		seen[name] = sf.Name
		fields = append(fields, structField{name: name, index: i})
		types = append(types, sf.Type)
	}
	return fields, types, nil
}

type structAdapter struct {
	typ      reflect.Type
	fields   []structField
	adapters []Adapter
}

func (a *structAdapter) indexOf(name string) int {
	for i, f := range a.fields {
		if f.name == name {
			return i
		}
	}
	return -1
}

func (a *structAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	k, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if k != jsontoken.ObjectStart {
		return nil, jsontoken.NewDataError(r.Path(), "Expected OBJECT but was "+k.String())
	}
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	out := reflect.New(a.typ).Elem()
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
		i := a.indexOf(name)
		if i < 0 {
			if err := r.SkipValue(); err != nil {
				return nil, err
			}
			continue
		}
		v, err := a.adapters[i].FromJSON(r)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out.Field(a.fields[i].index).Set(reflect.ValueOf(v))
		}
	}
	if err := r.EndObject(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (a *structAdapter) ToJSON(w jsontoken.Writer, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if err := w.BeginObject(); err != nil {
		return err
	}
	for i, f := range a.fields {
		if err := w.Name(f.name); err != nil {
			return err
		}
		fv := rv.Field(f.index).Interface()
		if err := a.adapters[i].ToJSON(w, fv); err != nil {
			return err
		}
	}
	return w.EndObject()
}
