package jsontoken

import "github.com/cockroachdb/apd/v3"

// valueFrame is one entry of the ValueReader's container stack, parallel
// to the shared scope stack's nesting. For an array frame, the current
// element is addressed via st.currentIndex(); for an object frame, pos
// additionally tracks how many members have been visited (the shared
// stack only models "a name was read", not "which entry").
type valueFrame struct {
	container *Value
	pos       int
}

// ValueReader presents an in-memory Value tree through the same token
// protocol as Decoder (spec.md §4.3), so any adapter written against the
// structural reader interface works unmodified against either backend.
type ValueReader struct {
	st     *stack
	root   *Value
	frames []valueFrame
	closed bool
}

// NewValueReader returns a reader positioned at the root of v.
func NewValueReader(v *Value) *ValueReader {
	return &ValueReader{st: newStack(), root: v}
}

func (r *ValueReader) Path() string { return r.st.path() }

func (r *ValueReader) Close() error {
	r.closed = true
	return nil
}

func (r *ValueReader) fail(msg string) error  { return newEncodingError(r.st.path(), msg) }
func (r *ValueReader) failData(msg string) error { return newDataError(r.st.path(), msg) }

func (r *ValueReader) frame() *valueFrame { return &r.frames[len(r.frames)-1] }

// current returns the Value the cursor is positioned at, without
// consuming it. ok is false at a container's end or at end-of-document.
func (r *ValueReader) current() (*Value, bool) {
	switch r.st.top() {
	case scopeEmptyDocument:
		return r.root, true
	case scopeNonemptyDocument:
		return nil, false
	case scopeEmptyArray, scopeNonemptyArray:
		f := r.frame()
		idx := r.st.currentIndex()
		if idx >= len(f.container.arr) {
			return nil, false
		}
		return f.container.arr[idx], true
	case scopeDanglingName:
		f := r.frame()
		members := f.container.Members()
		if f.pos >= len(members) {
			return nil, false
		}
		return members[f.pos].Value, true
	default:
		return nil, false
	}
}

// Peek reports the kind of the next token without consuming it.
func (r *ValueReader) Peek() (Kind, error) {
	if r.closed {
		return invalidKind, r.fail("use of closed reader")
	}
	switch r.st.top() {
	case scopeEmptyArray, scopeNonemptyArray:
		v, ok := r.current()
		if !ok {
			return ArrayEnd, nil
		}
		return v.kind, nil
	case scopeEmptyObject, scopeNonemptyObject:
		f := r.frame()
		if f.pos >= len(f.container.Members()) {
			return ObjectEnd, nil
		}
		return Name, nil
	case scopeClosed:
		return invalidKind, r.fail("use of closed reader")
	default:
		v, ok := r.current()
		if !ok {
			return EndDocument, nil
		}
		return v.kind, nil
	}
}

func (r *ValueReader) afterValue() {
	switch r.st.top() {
	case scopeDanglingName:
		r.frame().pos++
		r.st.setTop(scopeNonemptyObject)
	case scopeEmptyObject:
		r.st.setTop(scopeNonemptyObject)
	case scopeEmptyArray:
		r.st.setTop(scopeNonemptyArray)
		r.st.advanceArray()
	case scopeNonemptyArray:
		r.st.advanceArray()
	case scopeEmptyDocument:
		r.st.setTop(scopeNonemptyDocument)
	}
}

func (r *ValueReader) BeginArray() error {
	v, ok := r.current()
	if !ok || v.kind != ArrayStart {
		got := EndDocument
		if ok {
			got = v.kind
		}
		return wrongTypeError(r.st.path(), "BEGIN_ARRAY", got)
	}
	if err := r.st.push(scopeEmptyArray); err != nil {
		return err
	}
	r.frames = append(r.frames, valueFrame{container: v})
	return nil
}

func (r *ValueReader) EndArray() error {
	if r.st.top() != scopeEmptyArray && r.st.top() != scopeNonemptyArray {
		return wrongTypeError(r.st.path(), "END_ARRAY", invalidKind)
	}
	if _, ok := r.current(); ok {
		return r.fail("array not fully consumed")
	}
	r.st.pop()
	r.frames = r.frames[:len(r.frames)-1]
	r.afterValue()
	return nil
}

func (r *ValueReader) BeginObject() error {
	v, ok := r.current()
	if !ok || v.kind != ObjectStart {
		got := EndDocument
		if ok {
			got = v.kind
		}
		return wrongTypeError(r.st.path(), "BEGIN_OBJECT", got)
	}
	if err := r.st.push(scopeEmptyObject); err != nil {
		return err
	}
	r.frames = append(r.frames, valueFrame{container: v})
	return nil
}

func (r *ValueReader) EndObject() error {
	if r.st.top() != scopeEmptyObject && r.st.top() != scopeNonemptyObject {
		return wrongTypeError(r.st.path(), "END_OBJECT", invalidKind)
	}
	f := r.frame()
	if f.pos < len(f.container.Members()) {
		return r.fail("object not fully consumed")
	}
	r.st.pop()
	r.frames = r.frames[:len(r.frames)-1]
	r.afterValue()
	return nil
}

func (r *ValueReader) HasNext() (bool, error) {
	k, err := r.Peek()
	if err != nil {
		return false, err
	}
	return k != ArrayEnd && k != ObjectEnd && k != EndDocument, nil
}

func (r *ValueReader) ReadName() (string, error) {
	if r.st.top() != scopeEmptyObject && r.st.top() != scopeNonemptyObject {
		return "", wrongTypeError(r.st.path(), "NAME", invalidKind)
	}
	f := r.frame()
	members := f.container.Members()
	if f.pos >= len(members) {
		return "", wrongTypeError(r.st.path(), "NAME", ObjectEnd)
	}
	name := members[f.pos].Name
	r.st.setTop(scopeDanglingName)
	r.st.recordName(name)
	return name, nil
}

// skipName mirrors Decoder.skipName: it advances past a pending object
// member name and clears the path stack's name slot instead of recording
// it, preserving the ".null" quirk documented in spec.md §9 for SkipValue.
func (r *ValueReader) skipName() error {
	if r.st.top() != scopeEmptyObject && r.st.top() != scopeNonemptyObject {
		return wrongTypeError(r.st.path(), "NAME", invalidKind)
	}
	f := r.frame()
	if f.pos >= len(f.container.Members()) {
		return wrongTypeError(r.st.path(), "NAME", ObjectEnd)
	}
	r.st.setTop(scopeDanglingName)
	r.st.recordName("")
	return nil
}

func (r *ValueReader) ReadString() (string, error) {
	v, ok := r.current()
	if !ok || v.kind != String {
		return "", wrongTypeError(r.st.path(), "STRING", peekedOr(v, ok))
	}
	r.afterValue()
	return v.str, nil
}

func (r *ValueReader) ReadBool() (bool, error) {
	v, ok := r.current()
	if !ok || !v.kind.Bool() {
		return false, wrongTypeError(r.st.path(), "BOOLEAN", peekedOr(v, ok))
	}
	r.afterValue()
	return v.kind == True, nil
}

func (r *ValueReader) ReadNull() error {
	v, ok := r.current()
	if !ok || v.kind != Null {
		return wrongTypeError(r.st.path(), "NULL", peekedOr(v, ok))
	}
	r.afterValue()
	return nil
}

func (r *ValueReader) ReadInt64() (int64, error) {
	v, ok := r.current()
	if !ok || v.kind != Number {
		return 0, wrongTypeError(r.st.path(), "NUMBER", peekedOr(v, ok))
	}
	if !v.IsInt64() {
		return 0, r.failData("number " + v.String() + " is not an integer")
	}
	r.afterValue()
	return v.i64, nil
}

func (r *ValueReader) ReadFloat64() (float64, error) {
	v, ok := r.current()
	if !ok || v.kind != Number {
		return 0, wrongTypeError(r.st.path(), "NUMBER", peekedOr(v, ok))
	}
	r.afterValue()
	return v.Float64(), nil
}

func (r *ValueReader) ReadBigDecimal() (*apd.Decimal, error) {
	v, ok := r.current()
	if !ok || v.kind != Number {
		return nil, wrongTypeError(r.st.path(), "NUMBER", peekedOr(v, ok))
	}
	r.afterValue()
	return v.BigDecimal(), nil
}

// SkipValue consumes any well-formed value and its substructure,
// without failOnUnknown support (the tree backend has no unknown bytes
// to be strict about; failOnUnknown is a UTF-8 reader concept only).
func (r *ValueReader) SkipValue() error {
	k, err := r.Peek()
	if err != nil {
		return err
	}
	switch k {
	case Name:
		if err := r.skipName(); err != nil {
			return err
		}
		return r.SkipValue()
	case ObjectStart:
		if err := r.BeginObject(); err != nil {
			return err
		}
		for {
			has, err := r.HasNext()
			if err != nil {
				return err
			}
			if !has {
				break
			}
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
		return r.EndObject()
	case ArrayStart:
		if err := r.BeginArray(); err != nil {
			return err
		}
		for {
			has, err := r.HasNext()
			if err != nil {
				return err
			}
			if !has {
				break
			}
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
		return r.EndArray()
	case String:
		_, err := r.ReadString()
		return err
	case Number:
		r.afterValue()
		return nil
	case Null:
		return r.ReadNull()
	case True, False:
		_, err := r.ReadBool()
		return err
	default:
		return r.fail("cannot skip " + k.String())
	}
}

// PromoteNameToValue bridges a non-string object key into the scalar read
// position, per spec.md §4.3: the reader surfaces the key as the next
// scalar rather than a NAME token. Callers use this when the adapter for
// the map's key type is not string-shaped.
func (r *ValueReader) PromoteNameToValue() (*Value, error) {
	name, err := r.ReadName()
	if err != nil {
		return nil, err
	}
	return NewStringValue(name), nil
}

// PeekJSON returns an independent reader positioned at the same logical
// cursor. Because the tree is immutable from the reader's perspective,
// this is simply a fresh ValueReader over whatever value the cursor
// currently addresses, with no shared mutable state with r.
func (r *ValueReader) PeekJSON() (*ValueReader, error) {
	v, ok := r.current()
	if !ok {
		return nil, r.fail("no value to peek")
	}
	return NewValueReader(v), nil
}

func peekedOr(v *Value, ok bool) Kind {
	if !ok {
		return EndDocument
	}
	return v.kind
}
