package jsonkit

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainStruct struct {
	N int
}

func TestAllocateZeroValue(t *testing.T) {
	v, err := Allocate(reflect.TypeOf(plainStruct{}))
	require.NoError(t, err)
	assert.Equal(t, plainStruct{}, v.Interface())
}

type defaultedConfig struct {
	Retries int
}

func (defaultedConfig) JSONDefault() any { return defaultedConfig{Retries: 3} }

func TestAllocateUsesDefaulterHook(t *testing.T) {
	v, err := Allocate(reflect.TypeOf(defaultedConfig{}))
	require.NoError(t, err)
	assert.Equal(t, defaultedConfig{Retries: 3}, v.Interface())
}
