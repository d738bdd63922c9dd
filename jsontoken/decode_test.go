package jsontoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderScalars(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`"hello"`))
	s, err := dec.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestDecoderObjectPathInvariant(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`{"a":[1,2,{"b":true}]}`))
	require.NoError(t, dec.BeginObject())
	has, err := dec.HasNext()
	require.NoError(t, err)
	require.True(t, has)
	name, err := dec.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "a", name)
	assert.Equal(t, "$.a", dec.Path())

	require.NoError(t, dec.BeginArray())
	assert.Equal(t, "$.a[0]", dec.Path())
	n, err := dec.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "$.a[1]", dec.Path())
	n, err = dec.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "$.a[2]", dec.Path())

	require.NoError(t, dec.BeginObject())
	name, err = dec.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "b", name)
	assert.Equal(t, "$.a[2].b", dec.Path())
	b, err := dec.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	require.NoError(t, dec.EndObject())
	require.NoError(t, dec.EndArray())
	require.NoError(t, dec.EndObject())
}

func TestDecoderSkipNameLeavesNullPathQuirk(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`{"skip":1,"after":2}`))
	require.NoError(t, dec.BeginObject())
	require.NoError(t, dec.SkipValue())
	assert.Equal(t, "$.null", dec.Path())
	name, err := dec.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "after", name)
	assert.Equal(t, "$.after", dec.Path())
}

func TestDecoderDepthGuard(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < maxDepth+1; i++ {
		sb.WriteByte('[')
	}
	dec := NewDecoder(strings.NewReader(sb.String()))
	var err error
	for i := 0; i < maxDepth+1; i++ {
		err = dec.BeginArray()
		if err != nil {
			break
		}
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nesting too deep")
}

func TestDecoderWrongTypeError(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`"x"`))
	_, err := dec.ReadBool()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected")
}

func TestDecoderLenientExtensions(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`{a:1,}`))
	dec.SetLenient(true)
	require.NoError(t, dec.BeginObject())
	has, err := dec.HasNext()
	require.NoError(t, err)
	require.True(t, has)
	name, err := dec.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "a", name)
	_, err = dec.ReadInt64()
	require.NoError(t, err)
	has, err = dec.HasNext()
	require.NoError(t, err)
	assert.False(t, has)
	require.NoError(t, dec.EndObject())
}
