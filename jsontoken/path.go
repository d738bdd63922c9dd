package jsontoken

import "strconv"

// scope identifies what kind of JSON container (if any) the top of the
// stack represents, and how much of it has been consumed so far. The set
// and names are exactly spec.md §3's scope codes.
type scope uint8

const (
	scopeEmptyDocument scope = iota
	scopeNonemptyDocument
	scopeEmptyArray
	scopeNonemptyArray
	scopeEmptyObject
	scopeDanglingName
	scopeNonemptyObject
	scopeStreamingValue
	scopeClosed
)

// maxDepth is the maximum nesting depth a reader or writer will accept.
// The 256th nested container always fails; see spec.md §4.2.
const maxDepth = 255

var errNestingTooDeep = "Nesting too deep"

// stack is the shared scope/path machinery embedded by both the UTF-8 and
// value-tree readers and writers. It owns three parallel slices: the scope
// codes themselves, a string slot per object scope (the last name read or
// written into that object), and an integer slot per array scope (the
// number of elements seen so far in that array).
type stack struct {
	scopes  []scope
	names   []string // parallel to scopes; meaningful only for object scopes
	indices []int    // parallel to scopes; meaningful only for array scopes
}

func newStack() *stack {
	return &stack{scopes: []scope{scopeEmptyDocument}, names: []string{""}, indices: []int{0}}
}

func (s *stack) top() scope { return s.scopes[len(s.scopes)-1] }

func (s *stack) setTop(sc scope) { s.scopes[len(s.scopes)-1] = sc }

func (s *stack) depth() int { return len(s.scopes) - 1 }

func (s *stack) closed() bool { return s.top() == scopeClosed }

func (s *stack) push(sc scope) error {
	if len(s.scopes) > maxDepth {
		return &EncodingError{msg: errNestingTooDeep + " at $" + s.path() + ": circular reference?"}
	}
	s.scopes = append(s.scopes, sc)
	s.names = append(s.names, "")
	s.indices = append(s.indices, 0)
	return nil
}

// pop removes the current innermost scope and records the closing event in
// the parent scope (advancing an array's element count, or completing an
// object's dangling name/value pair).
func (s *stack) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
	if len(s.names) > len(s.scopes) {
		s.names = s.names[:len(s.scopes)]
	}
	if len(s.indices) > len(s.scopes) {
		s.indices = s.indices[:len(s.scopes)]
	}
}

// recordName stashes the most recently read/written object member name at
// the current (object) scope, for path rendering.
func (s *stack) recordName(name string) {
	s.names[len(s.names)-1] = name
}

// advanceArray increments the element counter of the current array scope.
func (s *stack) advanceArray() {
	s.indices[len(s.indices)-1]++
}

func (s *stack) currentIndex() int { return s.indices[len(s.indices)-1] }

func (s *stack) currentName() string { return s.names[len(s.names)-1] }

// path folds the scope stack into the JSONPath-subset breadcrumb described
// in spec.md §3/§6: "$" root, ".name" object step, "[index]" array step.
// It is derived purely from the stacks — there is no independent mutable
// path string anywhere, satisfying the path invariant (spec.md §8 property 3).
func (s *stack) path() string {
	var b []byte
	b = append(b, '$')
	for i, sc := range s.scopes {
		if i == 0 {
			continue // the virtual top-level document scope contributes nothing
		}
		switch sc {
		case scopeEmptyArray, scopeNonemptyArray:
			b = append(b, '[')
			b = strconv.AppendInt(b, int64(s.indices[i]), 10)
			b = append(b, ']')
		case scopeEmptyObject, scopeDanglingName, scopeNonemptyObject:
			b = append(b, '.')
			if s.names[i] == "" {
				b = append(b, "null"...)
			} else {
				b = append(b, s.names[i]...)
			}
		}
	}
	return string(b)
}
