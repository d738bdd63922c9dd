package jsonkit

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullSafeIdempotent(t *testing.T) {
	reg := NewStandardRegistry()
	base, err := reg.Adapter(reflect.TypeOf(""))
	require.NoError(t, err)
	a := NullSafe(base)
	b := NullSafe(a)
	assert.Same(t, a, b)
}

func TestNullSafePassesNullThrough(t *testing.T) {
	reg := NewStandardRegistry()
	base, err := reg.Adapter(reflect.TypeOf(""))
	require.NoError(t, err)
	a := NullSafe(base)

	v, err := FromJSONString(a, "null", false)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNonNullRejectsNullWithPath(t *testing.T) {
	reg := NewStandardRegistry()
	base, err := reg.Adapter(reflect.TypeOf(""))
	require.NoError(t, err)
	a := NonNull(base)

	_, err = FromJSONString(a, "null", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected null at $")
}

func TestNonNullIdempotent(t *testing.T) {
	reg := NewStandardRegistry()
	base, err := reg.Adapter(reflect.TypeOf(""))
	require.NoError(t, err)
	a := NonNull(base)
	b := NonNull(a)
	assert.Same(t, a, b)
}

func TestIndentRequiresNonEmptyString(t *testing.T) {
	reg := NewStandardRegistry()
	base, err := reg.Adapter(reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Panics(t, func() { Indent(base, "") })
}

type holder struct {
	Ptr *int `json:"ptr"`
}

func TestSerializeNullsDecoratorWritesNull(t *testing.T) {
	reg := NewStandardRegistry()
	base, err := reg.Adapter(reflect.TypeOf(holder{}))
	require.NoError(t, err)

	suppressed, err := ToJSONString(base, holder{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, suppressed)

	explicit, err := ToJSONString(SerializeNulls(base), holder{})
	require.NoError(t, err)
	assert.Equal(t, `{"ptr":null}`, explicit)
}
