package jsonkit

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceFactoryRoundTrip(t *testing.T) {
	reg := NewStandardRegistry()
	a, err := reg.Adapter(reflect.TypeOf([]int(nil)))
	require.NoError(t, err)

	s, err := ToJSONString(a, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", s)

	v, err := FromJSONString(a, "[1,2,3]", false)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)
}

func TestMapFactoryRoundTrip(t *testing.T) {
	reg := NewStandardRegistry()
	a, err := reg.Adapter(reflect.TypeOf(map[string]bool(nil)))
	require.NoError(t, err)

	v, err := FromJSONString(a, `{"5":true,"6":false}`, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"5": true, "6": false}, v)
}

func TestPointerFactoryNullRoundTrip(t *testing.T) {
	reg := NewStandardRegistry()
	a, err := reg.Adapter(reflect.TypeOf((*int)(nil)))
	require.NoError(t, err)

	v, err := FromJSONString(a, "null", false)
	require.NoError(t, err)
	assert.Nil(t, v)

	s, err := ToJSONString(a, (*int)(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", s)

	n := 5
	s, err = ToJSONString(a, &n)
	require.NoError(t, err)
	assert.Equal(t, "5", s)
}

func TestAnyFactoryRoundTripsMixedShapes(t *testing.T) {
	reg := NewStandardRegistry()
	anyType := reflect.TypeOf((*any)(nil)).Elem()
	a, err := reg.Adapter(anyType)
	require.NoError(t, err)

	v, err := FromJSONString(a, `{"a":[1,"x",null,true]}`, false)
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	arr, ok := m["a"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{1.0, "x", nil, true}, arr)

	s, err := ToJSONString(a, map[string]any{"k": []any{1.0, "y"}})
	require.NoError(t, err)
	assert.Equal(t, `{"k":[1,"y"]}`, s)
}

func TestBigDecimalFactoryRoundTrip(t *testing.T) {
	reg := NewStandardRegistry()
	decType := reflect.TypeOf((*apd.Decimal)(nil))
	a, err := reg.Adapter(decType)
	require.NoError(t, err)

	d, _, err := apd.NewFromString("1.2300")
	require.NoError(t, err)
	s, err := ToJSONString(a, d)
	require.NoError(t, err)
	assert.Equal(t, "1.2300", s)
}
