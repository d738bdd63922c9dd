package jsonkit

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRegistryCacheIdentity(t *testing.T) {
	reg := NewStandardRegistry()
	a1, err := reg.Adapter(reflect.TypeOf(widget{}))
	require.NoError(t, err)
	a2, err := reg.Adapter(reflect.TypeOf(widget{}))
	require.NoError(t, err)
	assert.Same(t, a1, a2)
}

func TestRegistryQualifiersProduceDistinctCacheEntries(t *testing.T) {
	reg := NewStandardRegistry()
	plain, err := reg.Adapter(reflect.TypeOf(widget{}))
	require.NoError(t, err)
	qualified, err := reg.Adapter(reflect.TypeOf(widget{}), NewQualifier("Lenient"))
	require.NoError(t, err)
	assert.NotSame(t, plain, qualified)
}

func TestStructAdapterRoundTrip(t *testing.T) {
	reg := NewStandardRegistry()
	a, err := reg.Adapter(reflect.TypeOf(widget{}))
	require.NoError(t, err)

	s, err := ToJSONString(a, widget{Name: "thing", Count: 3})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"thing","count":3}`, s)

	v, err := FromJSONString(a, `{"name":"thing","count":3}`, false)
	require.NoError(t, err)
	assert.Equal(t, widget{Name: "thing", Count: 3}, v)
}

func TestStructAdapterSkipsUnknownFields(t *testing.T) {
	reg := NewStandardRegistry()
	a, err := reg.Adapter(reflect.TypeOf(widget{}))
	require.NoError(t, err)

	v, err := FromJSONString(a, `{"name":"thing","bogus":true,"count":9}`, false)
	require.NoError(t, err)
	assert.Equal(t, widget{Name: "thing", Count: 9}, v)
}

func TestFromJSONStringRejectsTrailingData(t *testing.T) {
	reg := NewStandardRegistry()
	a, err := reg.Adapter(reflect.TypeOf(0))
	require.NoError(t, err)
	_, err = FromJSONString(a, `1 2`, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not fully consumed")
}
