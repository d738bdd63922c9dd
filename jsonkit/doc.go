// Package jsonkit is the adapter composition engine of spec.md §4.5–§4.8: a
// registry of factories that resolves a Go type plus a qualifier set to a
// bidirectional Adapter, with stock decorators (NullSafe, NonNull, Lenient,
// SerializeNulls, FailOnUnknown, Indent), explicit adapter-methods binding,
// and a zero-side-effect allocator for user aggregate types. It is built on
// top of the jsontoken package's UTF-8 and value-tree codecs: an Adapter
// reads and writes through jsontoken.Reader/jsontoken.Writer, so the same
// Adapter works against either backend.
package jsonkit
