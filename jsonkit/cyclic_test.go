package jsonkit

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// node is a self-referential type: its own adapter must be resolvable
// before the struct factory building it has finished constructing its
// field adapters, exercising the deferred-cell forwarding path in
// registry.go (spec.md §9).
type node struct {
	Value    int    `json:"value"`
	Children []node `json:"children"`
}

func TestRegistryResolvesCyclicStructType(t *testing.T) {
	reg := NewStandardRegistry()
	a, err := reg.Adapter(reflect.TypeOf(node{}))
	require.NoError(t, err)

	tree := node{Value: 1, Children: []node{
		{Value: 2, Children: []node{}},
		{Value: 3, Children: []node{{Value: 4, Children: []node{}}}},
	}}
	s, err := ToJSONString(a, tree)
	require.NoError(t, err)
	assert.Equal(t, `{"value":1,"children":[{"value":2,"children":[]},{"value":3,"children":[{"value":4,"children":[]}]}]}`, s)

	v, err := FromJSONString(a, s, false)
	require.NoError(t, err)
	assert.Equal(t, tree, v)
}
