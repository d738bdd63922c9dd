package jsontoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPathRendersBreadcrumb(t *testing.T) {
	s := newStack()
	assert.Equal(t, "$", s.path())

	require.NoError(t, s.push(scopeEmptyObject))
	assert.Equal(t, "$.null", s.path())
	s.recordName("a")
	s.setTop(scopeDanglingName)
	assert.Equal(t, "$.a", s.path())

	require.NoError(t, s.push(scopeEmptyArray))
	assert.Equal(t, "$.a[0]", s.path())
	s.advanceArray()
	assert.Equal(t, "$.a[1]", s.path())
	s.pop()
	assert.Equal(t, "$.a", s.path())
	s.pop()
	assert.Equal(t, "$", s.path())
}

func TestStackDepthGuardFiresAt256(t *testing.T) {
	s := newStack()
	var err error
	for i := 0; i <= maxDepth; i++ {
		err = s.push(scopeEmptyArray)
		if err != nil {
			break
		}
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nesting too deep")
	assert.Equal(t, maxDepth, s.depth())
}
