package jsontoken

import (
	"bufio"
	"io"

	"github.com/cockroachdb/apd/v3"

	"github.com/jsonkit/jsonkit/internal/numeric"
)

// flattenMark records one active BeginFlatten region. See spec.md §4.2:
// within a flatten scope, one level of nested array-in-array or
// object-in-object is dissolved -- its elements/members splice directly
// into the enclosing container.
type flattenMark struct {
	id     int
	kind   scope // scopeEmptyArray or scopeEmptyObject: the enclosing container's kind
	depth  int   // st.depth() at BeginFlatten time
	baseTD int   // transparentDepth at BeginFlatten time
}

// FlattenToken is the opaque handle BeginFlatten returns and EndFlatten
// consumes.
type FlattenToken int

// Encoder is the UTF-8 writer of spec.md §4.2, grounded directly on the
// teacher's jsontext.Encoder (jsontext/encode.go): a buffered byte sink
// driven through the same structural operations as the Decoder, plus
// indent/lenient/serializeNulls modes, flatten scopes, and a value-sink
// splice escape hatch.
type Encoder struct {
	w   *bufio.Writer
	st  *stack
	buf []byte

	lenient        bool
	serializeNulls bool
	indent         string
	bigDecimal     bool
	tags           map[any]any

	openKinds        []byte // 'A'/'O' real, 'a'/'o' transparent (dissolved by a flatten scope)
	transparentDepth int
	flatten          []flattenMark
	nextFlattenID    int

	objectSeen []map[string]string // parallel to st.scopes; only populated for object scopes

	promotedName    bool // PromoteValueToName armed: next scalar value written becomes a NAME
	streamingSink   bool // a ValueSink() is open; all other ops fail until it's closed
	pendingNameMark int   // buf offset just before the last Name() write, for serializeNulls=false rewind
	pendingNamePrev scope // scope to restore to if that Name()+null pair gets suppressed
	closed          bool
}

// NewEncoder wraps w as a push-based JSON token sink.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), st: newStack(), objectSeen: []map[string]string{nil}}
}

func (e *Encoder) SetLenient(v bool)        { e.lenient = v }
func (e *Encoder) SetSerializeNulls(v bool) { e.serializeNulls = v }
func (e *Encoder) SetIndent(indent string)  { e.indent = indent }
func (e *Encoder) SetBigDecimal(v bool)     { e.bigDecimal = v }

func (e *Encoder) SetTag(key, value any) {
	if e.tags == nil {
		e.tags = make(map[any]any)
	}
	e.tags[key] = value
}

func (e *Encoder) Tag(key any) (any, bool) {
	v, ok := e.tags[key]
	return v, ok
}

func (e *Encoder) Path() string { return e.st.path() }

// Close flushes the underlying writer; further operations fail.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.Flush()
}

func (e *Encoder) fail(msg string) error { return newEncodingError(e.st.path(), msg) }

func (e *Encoder) checkUsable() error {
	if e.closed {
		return e.fail("use of closed encoder")
	}
	if e.streamingSink {
		return e.fail("Sink from ValueSink() was not closed")
	}
	return nil
}

// --- indentation / delimiters ------------------------------------------------

func (e *Encoder) writeIndent() {
	if e.indent == "" {
		return
	}
	e.buf = append(e.buf, '\n')
	for i := 0; i < e.st.depth(); i++ {
		e.buf = append(e.buf, e.indent...)
	}
}

// beforeValue emits whatever separator is needed before writing a value of
// the given kind at the current scope: a comma between siblings, a colon
// after an object name, or nothing at the start of a container / document.
func (e *Encoder) beforeValue(kind Kind) error {
	top := e.st.top()
	switch top {
	case scopeDanglingName:
		e.buf = append(e.buf, ':')
		if e.indent != "" {
			e.buf = append(e.buf, ' ')
		}
		return nil
	case scopeNonemptyArray, scopeNonemptyObject:
		e.buf = append(e.buf, ',')
		e.writeIndent()
		return nil
	case scopeEmptyArray, scopeEmptyObject:
		e.writeIndent()
		return nil
	case scopeEmptyDocument, scopeNonemptyDocument:
		if top == scopeNonemptyDocument && !e.lenient {
			return e.fail("JSON writer is not lenient: cannot write multiple top-level values")
		}
		return nil
	case scopeClosed:
		return e.fail("use of closed encoder")
	default:
		return nil
	}
}

func (e *Encoder) afterValue() {
	switch e.st.top() {
	case scopeDanglingName:
		e.st.setTop(scopeNonemptyObject)
	case scopeEmptyObject:
		e.st.setTop(scopeNonemptyObject)
	case scopeEmptyArray:
		e.st.setTop(scopeNonemptyArray)
		e.st.advanceArray()
	case scopeNonemptyArray:
		e.st.advanceArray()
	case scopeEmptyDocument:
		e.st.setTop(scopeNonemptyDocument)
	}
}

// --- structural operations ---------------------------------------------------

func (e *Encoder) BeginArray() error { return e.beginContainer(ArrayStart, scopeEmptyArray, 'A', 'a') }
func (e *Encoder) BeginObject() error {
	return e.beginContainer(ObjectStart, scopeEmptyObject, 'O', 'o')
}

func (e *Encoder) beginContainer(kind Kind, empty scope, realMark, transparentMark byte) error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	if e.dissolves(empty) {
		e.openKinds = append(e.openKinds, transparentMark)
		e.transparentDepth++
		return nil
	}
	if e.st.top() == scopeDanglingName {
		// fall through: a value is expected here, which a container satisfies.
	} else if !e.canWriteValueHere() {
		return e.fail("Nesting problem.")
	}
	if err := e.beforeValue(kind); err != nil {
		return err
	}
	e.buf = append(e.buf, byte(kind))
	if err := e.st.push(empty); err != nil {
		return err
	}
	e.objectSeen = append(e.objectSeen, nil)
	e.openKinds = append(e.openKinds, realMark)
	return nil
}

func (e *Encoder) dissolves(kind scope) bool {
	if len(e.flatten) == 0 {
		return false
	}
	top := e.flatten[len(e.flatten)-1]
	return top.kind == kind && top.depth == e.st.depth() && top.baseTD == e.transparentDepth
}

func (e *Encoder) EndArray() error { return e.endContainer(ArrayEnd, scopeEmptyArray, scopeNonemptyArray) }
func (e *Encoder) EndObject() error {
	return e.endContainer(ObjectEnd, scopeEmptyObject, scopeNonemptyObject)
}

func (e *Encoder) endContainer(kind Kind, empty, nonempty scope) error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	if len(e.openKinds) == 0 {
		return e.fail("Nesting problem.")
	}
	mark := e.openKinds[len(e.openKinds)-1]
	e.openKinds = e.openKinds[:len(e.openKinds)-1]
	if mark == 'a' || mark == 'o' {
		e.transparentDepth--
		return nil
	}
	top := e.st.top()
	if top != empty && top != nonempty {
		return e.fail("Nesting problem.")
	}
	e.writeIndent()
	e.buf = append(e.buf, byte(kind))
	e.st.pop()
	e.objectSeen = e.objectSeen[:len(e.objectSeen)-1]
	e.afterValue()
	return nil
}

func (e *Encoder) canWriteValueHere() bool {
	switch e.st.top() {
	case scopeEmptyArray, scopeNonemptyArray, scopeDanglingName,
		scopeEmptyDocument, scopeNonemptyDocument:
		return true
	default:
		return false
	}
}

// --- names --------------------------------------------------------------------

// Name writes the next object member name. It requires being inside an
// object with no dangling name already pending, per spec.md §4.2.
func (e *Encoder) Name(name string) error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	top := e.st.top()
	if top != scopeEmptyObject && top != scopeNonemptyObject {
		return e.fail("Nesting problem.")
	}
	e.pendingNameMark = len(e.buf)
	e.pendingNamePrev = top
	if err := e.beforeValue(Name); err != nil {
		return err
	}
	e.buf = appendEscapedString(e.buf, name)
	e.st.recordName(name)
	e.st.setTop(scopeDanglingName)
	return nil
}

func (e *Encoder) recordSeen(value string) error {
	if e.st.top() != scopeDanglingName {
		return nil // only object members have names to collide
	}
	top := e.st.depth()
	if top < 0 || top >= len(e.objectSeen) {
		return nil
	}
	name := e.st.currentName()
	if e.objectSeen[top] == nil {
		e.objectSeen[top] = make(map[string]string)
	}
	if prev, ok := e.objectSeen[top][name]; ok {
		return newDataError("", "Map key '"+name+"' has multiple values at path "+e.st.path()+": "+prev+" and "+value)
	}
	e.objectSeen[top][name] = value
	return nil
}

// PromoteValueToName arms the next scalar value write to serve as an
// object key instead of a value: strings and the canonical forms of
// numbers become the key text. Booleans and null cannot be promoted.
func (e *Encoder) PromoteValueToName() error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	top := e.st.top()
	if top != scopeEmptyObject && top != scopeNonemptyObject {
		return e.fail("Nesting problem.")
	}
	e.promotedName = true
	return nil
}

func (e *Encoder) consumePromotedName(text string) error {
	e.promotedName = false
	if err := e.beforeValue(Name); err != nil {
		return err
	}
	e.buf = appendEscapedString(e.buf, text)
	e.st.recordName(text)
	e.st.setTop(scopeDanglingName)
	return nil
}

// --- scalar writers -------------------------------------------------------------

func (e *Encoder) WriteBool(v bool) error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	if e.promotedName {
		return e.fail("boolean values cannot be promoted to an object name")
	}
	if !e.canWriteValueHere() {
		return e.fail("Nesting problem.")
	}
	text := "false"
	if v {
		text = "true"
	}
	if err := e.beforeValue(False); err != nil {
		return err
	}
	e.buf = append(e.buf, text...)
	if err := e.recordSeen(text); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

func (e *Encoder) WriteNull() error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	if e.promotedName {
		return e.fail("null cannot be promoted to an object name")
	}
	if e.st.top() == scopeDanglingName && !e.serializeNulls {
		// suppress: drop the pending name entirely (no member emitted)
		e.st.setTop(e.pendingNamePrev)
		return e.suppressPendingNull()
	}
	if !e.canWriteValueHere() {
		return e.fail("Nesting problem.")
	}
	if err := e.beforeValue(Null); err != nil {
		return err
	}
	e.buf = append(e.buf, "null"...)
	if err := e.recordSeen("null"); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

// suppressPendingNull implements serializeNulls=false: name()+nullValue()
// pairs are suppressed entirely (spec.md §4.2). Since Name() already wrote
// the member name (and any preceding comma) into the buffer, suppression
// rewinds the buffer back to the point before that name was appended.
func (e *Encoder) suppressPendingNull() error {
	// The dangling name run is: [comma?]["name":]; rewind to before it by
	// recomputing from the recorded mark captured in Name().
	if e.pendingNameMark < 0 || e.pendingNameMark > len(e.buf) {
		return nil
	}
	e.buf = e.buf[:e.pendingNameMark]
	e.pendingNameMark = -1
	return nil
}

func (e *Encoder) WriteString(s string) error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	if e.promotedName {
		return e.consumePromotedName(s)
	}
	if !e.canWriteValueHere() {
		return e.fail("Nesting problem.")
	}
	if err := e.beforeValue(String); err != nil {
		return err
	}
	text := string(appendEscapedString(nil, s))
	e.buf = append(e.buf, text...)
	if err := e.recordSeen(text); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

func (e *Encoder) WriteFloat64(f float64) error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	text, err := e.formatFloat(f)
	if err != nil {
		return err
	}
	if e.promotedName {
		return e.consumePromotedName(text)
	}
	if !e.canWriteValueHere() {
		return e.fail("Nesting problem.")
	}
	if err := e.beforeValue(Number); err != nil {
		return err
	}
	e.buf = append(e.buf, text...)
	if err := e.recordSeen(text); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

func (e *Encoder) formatFloat(f float64) (string, error) {
	if isNonFinite(f) {
		if !e.lenient {
			return "", e.fail("strict JSON writer cannot encode non-finite numbers")
		}
		switch {
		case f != f:
			return "NaN", nil
		case f > 0:
			return "Infinity", nil
		default:
			return "-Infinity", nil
		}
	}
	return numeric.FormatFloat64(f), nil
}

func isNonFinite(f float64) bool {
	return f != f || f > maxFloat64Finite || f < -maxFloat64Finite
}

const maxFloat64Finite = 1.7976931348623157e+308

func (e *Encoder) WriteInt64(n int64) error {
	return e.writeNumberText(numeric.FormatInt64(n))
}

func (e *Encoder) WriteUint64(n uint64) error {
	return e.writeNumberText(numeric.FormatUint64(n))
}

func (e *Encoder) WriteBigDecimal(d *apd.Decimal) error {
	return e.writeNumberText(numeric.FormatDecimal(d))
}

func (e *Encoder) writeNumberText(text string) error {
	if err := e.checkUsable(); err != nil {
		return err
	}
	if e.promotedName {
		return e.consumePromotedName(text)
	}
	if !e.canWriteValueHere() {
		return e.fail("Nesting problem.")
	}
	if err := e.beforeValue(Number); err != nil {
		return err
	}
	e.buf = append(e.buf, text...)
	if err := e.recordSeen(text); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

// --- flatten ------------------------------------------------------------------

// BeginFlatten opens a flatten scope: until the matching EndFlatten, one
// level of nested arrays-in-array (if the enclosing scope is an array) or
// objects-in-object (if the enclosing scope is an object) is dissolved.
func (e *Encoder) BeginFlatten() FlattenToken {
	kind := scope(0)
	switch e.st.top() {
	case scopeEmptyArray, scopeNonemptyArray:
		kind = scopeEmptyArray
	case scopeEmptyObject, scopeNonemptyObject, scopeDanglingName:
		kind = scopeEmptyObject
	}
	id := e.nextFlattenID
	e.nextFlattenID++
	e.flatten = append(e.flatten, flattenMark{id: id, kind: kind, depth: e.st.depth(), baseTD: e.transparentDepth})
	return FlattenToken(id)
}

func (e *Encoder) EndFlatten(token FlattenToken) error {
	if len(e.flatten) == 0 || e.flatten[len(e.flatten)-1].id != int(token) {
		return e.fail("mismatched EndFlatten token")
	}
	e.flatten = e.flatten[:len(e.flatten)-1]
	return nil
}

// --- value sink -----------------------------------------------------------------

// sinkWriter is returned by ValueSink(); closing it ends the streaming
// scope and resumes normal operations on the Encoder.
type sinkWriter struct {
	e      *Encoder
	closed bool
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	if s.closed {
		return 0, s.e.fail("write to closed value sink")
	}
	s.e.buf = append(s.e.buf, p...)
	return len(p), nil
}

func (s *sinkWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.e.streamingSink = false
	s.e.afterValue()
	return nil
}

// ValueSink returns a raw byte sink for splicing pre-formatted JSON as a
// single value. While open, every other Encoder operation fails with
// "Sink from ValueSink() was not closed", per spec.md §4.2.
func (e *Encoder) ValueSink() (io.WriteCloser, error) {
	if err := e.checkUsable(); err != nil {
		return nil, err
	}
	if !e.canWriteValueHere() && e.st.top() != scopeDanglingName {
		return nil, e.fail("Nesting problem.")
	}
	if err := e.beforeValue(String); err != nil {
		return nil, err
	}
	e.streamingSink = true
	return &sinkWriter{e: e}, nil
}

// --- JSON value tree writer -------------------------------------------------------

// WriteJSONValue writes an arbitrary tree of maps/slices/scalars as JSON,
// rejecting unsupported Go types (spec.md §4.2).
func (e *Encoder) WriteJSONValue(v any) error {
	switch x := v.(type) {
	case nil:
		return e.WriteNull()
	case bool:
		return e.WriteBool(x)
	case string:
		return e.WriteString(x)
	case float64:
		return e.WriteFloat64(x)
	case float32:
		return e.WriteFloat64(float64(x))
	case int:
		return e.WriteInt64(int64(x))
	case int64:
		return e.WriteInt64(x)
	case int32:
		return e.WriteInt64(int64(x))
	case uint64:
		return e.WriteUint64(x)
	case *apd.Decimal:
		return e.WriteBigDecimal(x)
	case []any:
		if err := e.BeginArray(); err != nil {
			return err
		}
		for _, elem := range x {
			if err := e.WriteJSONValue(elem); err != nil {
				return err
			}
		}
		return e.EndArray()
	case map[string]any:
		if err := e.BeginObject(); err != nil {
			return err
		}
		for k, val := range x {
			if err := e.Name(k); err != nil {
				return err
			}
			if err := e.WriteJSONValue(val); err != nil {
				return err
			}
		}
		return e.EndObject()
	default:
		return e.fail("unsupported Go type for jsonValue")
	}
}

// Flush writes any buffered bytes to the underlying io.Writer. Encoder
// operations buffer into e.buf and flush lazily; call Flush (or Close) to
// guarantee bytes reach the sink.
func (e *Encoder) Flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	_, err := e.w.Write(e.buf)
	e.buf = e.buf[:0]
	if err != nil {
		return err
	}
	return e.w.Flush()
}
