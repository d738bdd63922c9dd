package jsontoken

import "sync"

// bufPool is a simplified relative of the teacher's internal/bufpools: that
// package maintains a size-classed bank of pools plus a segmented Buffer
// type for streaming decoders/encoders that might grow arbitrarily large.
// jsonkit doesn't need the segmented variant (no benchmark in spec.md
// depends on avoiding a single contiguous reallocation), so this keeps only
// the size-classed []byte recycling half of that design.
var bufPool = sync.Pool{New: func() any { return make([]byte, 0, 512) }}

func getBuffer() []byte {
	return bufPool.Get().([]byte)[:0]
}

func putBuffer(b []byte) {
	if cap(b) > 64<<10 {
		return // avoid pinning arbitrarily large buffers, per teacher's putStreamingEncoder
	}
	bufPool.Put(b) //nolint:staticcheck // intentional: slice header reused, not boxed
}
