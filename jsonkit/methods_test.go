package jsonkit

import (
	"reflect"
	"testing"

	"github.com/jsonkit/jsonkit/jsontoken"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

func TestMethodsRegistersBothDirections(t *testing.T) {
	m := NewMethods()
	pointType := reflect.TypeOf(point{})
	m.ToJSON(pointType, "pointToJSON", nil, func(w jsontoken.Writer, v any) error {
		p := v.(point)
		if err := w.BeginArray(); err != nil {
			return err
		}
		if err := w.WriteInt64(int64(p.X)); err != nil {
			return err
		}
		if err := w.WriteInt64(int64(p.Y)); err != nil {
			return err
		}
		return w.EndArray()
	})
	m.FromJSON(pointType, "pointFromJSON", nil, func(r jsontoken.Reader) (any, error) {
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		x, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		y, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return point{X: int(x), Y: int(y)}, r.EndArray()
	})

	reg := NewBuilder().AddMethods(m).Build()
	a, err := reg.Adapter(pointType)
	require.NoError(t, err)

	s, err := ToJSONString(a, point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", s)

	v, err := FromJSONString(a, "[1,2]", false)
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, v)
}

func TestMethodsConflictingToJSONPanics(t *testing.T) {
	m := NewMethods()
	pointType := reflect.TypeOf(point{})
	fn := func(w jsontoken.Writer, v any) error { return nil }
	m.ToJSON(pointType, "first", nil, fn)
	assert.PanicsWithValue(t, "jsonkit: Conflicting @ToJson methods: first, second", func() {
		m.ToJSON(pointType, "second", nil, fn)
	})
}

func TestMethodsMissingDirectionFailsAtInvocation(t *testing.T) {
	m := NewMethods()
	pointType := reflect.TypeOf(point{})
	m.ToJSON(pointType, "pointToJSON", nil, func(w jsontoken.Writer, v any) error {
		return w.WriteNull()
	})
	reg := NewBuilder().AddMethods(m).Build()
	a, err := reg.Adapter(pointType)
	require.NoError(t, err)

	_, err = FromJSONString(a, "null", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No @FromJson adapter for")
}
