package jsontoken

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/jsonkit/jsonkit/internal/numeric"
)

// ValueWriter accumulates an in-memory Value tree through the same token
// protocol as Encoder (spec.md §4.3): an adapter writes through either
// backend without caring which one it got.
type ValueWriter struct {
	st          *stack
	root        *Value
	containers  []*Value // parallel to st's nesting, one entry per open array/object
	pendingName string
	seen        []map[string]string // parallel to containers; duplicate-name detection per object scope
	closed      bool
}

// NewValueWriter returns a writer with no value yet assembled; call Root
// after the single top-level value has been fully written.
func NewValueWriter() *ValueWriter {
	return &ValueWriter{st: newStack()}
}

func (w *ValueWriter) Path() string { return w.st.path() }

func (w *ValueWriter) Close() error {
	w.closed = true
	return nil
}

func (w *ValueWriter) fail(msg string) error { return newEncodingError(w.st.path(), msg) }

// Root returns the assembled tree. Valid only once the writer has
// completed its single top-level value.
func (w *ValueWriter) Root() *Value { return w.root }

func (w *ValueWriter) container() *Value { return w.containers[len(w.containers)-1] }

func (w *ValueWriter) canWriteValueHere() bool {
	switch w.st.top() {
	case scopeEmptyArray, scopeNonemptyArray, scopeDanglingName, scopeEmptyDocument:
		return true
	default:
		return false
	}
}

func (w *ValueWriter) afterValue() {
	switch w.st.top() {
	case scopeDanglingName:
		w.st.setTop(scopeNonemptyObject)
	case scopeEmptyObject:
		w.st.setTop(scopeNonemptyObject)
	case scopeEmptyArray:
		w.st.setTop(scopeNonemptyArray)
		w.st.advanceArray()
	case scopeNonemptyArray:
		w.st.advanceArray()
	case scopeEmptyDocument:
		w.st.setTop(scopeNonemptyDocument)
	}
}

// insertIntoParent installs v at the current cursor: as the document root,
// as the next array element, or as the value half of a pending object
// member. It does not itself advance the scope stack -- callers that are
// about to push a new container call this before st.push; scalar writers
// call place, which additionally advances via afterValue.
func (w *ValueWriter) insertIntoParent(v *Value) {
	switch w.st.top() {
	case scopeEmptyDocument:
		w.root = v
	case scopeEmptyArray, scopeNonemptyArray:
		w.container().Append(v)
	case scopeDanglingName:
		w.container().Set(w.pendingName, v)
	}
}

// place installs v at the current cursor and advances the scope stack, for
// a scalar value that will not itself be pushed onto the container stack.
func (w *ValueWriter) place(v *Value) {
	w.insertIntoParent(v)
	w.afterValue()
}

func (w *ValueWriter) BeginArray() error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	v := NewArrayValue()
	if err := w.openContainer(v); err != nil {
		return err
	}
	return nil
}

func (w *ValueWriter) BeginObject() error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	v := NewObjectValue()
	if err := w.openContainer(v); err != nil {
		return err
	}
	w.seen = append(w.seen, nil)
	return nil
}

func (w *ValueWriter) openContainer(v *Value) error {
	sc := scopeEmptyArray
	if v.kind == ObjectStart {
		sc = scopeEmptyObject
	}
	// The container must be placed into its parent's slot immediately, so
	// EndArray/EndObject afterward only needs to pop bookkeeping, not
	// retroactively splice itself in.
	w.insertIntoParent(v)
	if err := w.st.push(sc); err != nil {
		return err
	}
	w.containers = append(w.containers, v)
	return nil
}

func (w *ValueWriter) EndArray() error {
	if w.st.top() != scopeEmptyArray && w.st.top() != scopeNonemptyArray {
		return w.fail("Nesting problem.")
	}
	w.containers = w.containers[:len(w.containers)-1]
	w.st.pop()
	w.afterValue()
	return nil
}

func (w *ValueWriter) EndObject() error {
	if w.st.top() != scopeEmptyObject && w.st.top() != scopeNonemptyObject {
		return w.fail("Nesting problem.")
	}
	w.containers = w.containers[:len(w.containers)-1]
	w.seen = w.seen[:len(w.seen)-1]
	w.st.pop()
	w.afterValue()
	return nil
}

func (w *ValueWriter) Name(name string) error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	top := w.st.top()
	if top != scopeEmptyObject && top != scopeNonemptyObject {
		return w.fail("Nesting problem.")
	}
	depth := len(w.seen) - 1
	if depth >= 0 {
		if w.seen[depth] == nil {
			w.seen[depth] = make(map[string]string)
		}
	}
	w.pendingName = name
	w.st.recordName(name)
	w.st.setTop(scopeDanglingName)
	return nil
}

// PromoteValueToName bridges a non-string map key (spec.md §4.3): the
// caller passes the key already rendered as text, and the writer records
// it as the next object member name, exactly as Name does.
func (w *ValueWriter) PromoteValueToName(text string) error {
	return w.Name(text)
}

func (w *ValueWriter) recordSeen(value string) error {
	depth := len(w.seen) - 1
	if w.st.top() != scopeDanglingName || depth < 0 || w.seen[depth] == nil {
		return nil
	}
	if prev, ok := w.seen[depth][w.pendingName]; ok {
		return newDataError("", "Map key '"+w.pendingName+"' has multiple values at path "+w.st.path()+": "+prev+" and "+value)
	}
	w.seen[depth][w.pendingName] = value
	return nil
}

func (w *ValueWriter) WriteBool(b bool) error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	text := "false"
	if b {
		text = "true"
	}
	if err := w.recordSeen(text); err != nil {
		return err
	}
	w.place(NewBoolValue(b))
	return nil
}

func (w *ValueWriter) WriteNull() error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	if err := w.recordSeen("null"); err != nil {
		return err
	}
	w.place(NewNullValue())
	return nil
}

func (w *ValueWriter) WriteString(s string) error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	if err := w.recordSeen(s); err != nil {
		return err
	}
	w.place(NewStringValue(s))
	return nil
}

func (w *ValueWriter) WriteInt64(n int64) error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	if err := w.recordSeen(numeric.FormatInt64(n)); err != nil {
		return err
	}
	w.place(NewInt64Value(n))
	return nil
}

func (w *ValueWriter) WriteFloat64(f float64) error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	if err := w.recordSeen(numeric.FormatFloat64(f)); err != nil {
		return err
	}
	w.place(NewFloat64Value(f))
	return nil
}

func (w *ValueWriter) WriteBigDecimal(d *apd.Decimal) error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	if err := w.recordSeen(d.Text('f')); err != nil {
		return err
	}
	w.place(NewBigDecimalValue(d))
	return nil
}

func (w *ValueWriter) WriteValue(v *Value) error {
	if w.closed {
		return w.fail("use of closed writer")
	}
	if !w.canWriteValueHere() {
		return w.fail("Nesting problem.")
	}
	w.place(v)
	return nil
}
