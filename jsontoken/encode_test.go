package jsontoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeToString(t *testing.T, fn func(e *Encoder) error) string {
	t.Helper()
	var sb strings.Builder
	e := NewEncoder(&sb)
	require.NoError(t, fn(e))
	require.NoError(t, e.Close())
	return sb.String()
}

func TestEncoderRoundTripObject(t *testing.T) {
	out := encodeToString(t, func(e *Encoder) error {
		if err := e.BeginObject(); err != nil {
			return err
		}
		if err := e.Name("a"); err != nil {
			return err
		}
		if err := e.WriteInt64(1); err != nil {
			return err
		}
		if err := e.Name("b"); err != nil {
			return err
		}
		if err := e.WriteString("x"); err != nil {
			return err
		}
		return e.EndObject()
	})
	assert.Equal(t, `{"a":1,"b":"x"}`, out)
}

func TestEncoderSuppressesNullByDefault(t *testing.T) {
	out := encodeToString(t, func(e *Encoder) error {
		if err := e.BeginObject(); err != nil {
			return err
		}
		if err := e.Name("a"); err != nil {
			return err
		}
		if err := e.WriteNull(); err != nil {
			return err
		}
		if err := e.Name("b"); err != nil {
			return err
		}
		if err := e.WriteInt64(2); err != nil {
			return err
		}
		return e.EndObject()
	})
	assert.Equal(t, `{"b":2}`, out)
}

func TestEncoderSerializeNulls(t *testing.T) {
	out := encodeToString(t, func(e *Encoder) error {
		e.SetSerializeNulls(true)
		if err := e.BeginObject(); err != nil {
			return err
		}
		if err := e.Name("a"); err != nil {
			return err
		}
		if err := e.WriteNull(); err != nil {
			return err
		}
		return e.EndObject()
	})
	assert.Equal(t, `{"a":null}`, out)
}

func TestEncoderDuplicateNameFails(t *testing.T) {
	var sb strings.Builder
	e := NewEncoder(&sb)
	require.NoError(t, e.BeginObject())
	require.NoError(t, e.Name("a"))
	require.NoError(t, e.WriteInt64(1))
	require.NoError(t, e.Name("a"))
	err := e.WriteInt64(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Map key 'a' has multiple values")
}

func TestEncoderDepthGuard(t *testing.T) {
	var sb strings.Builder
	e := NewEncoder(&sb)
	var err error
	for i := 0; i < maxDepth+1; i++ {
		err = e.BeginArray()
		if err != nil {
			break
		}
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nesting too deep")
}

func TestEncoderFlattenEquivalence(t *testing.T) {
	flattened := encodeToString(t, func(e *Encoder) error {
		if err := e.BeginObject(); err != nil {
			return err
		}
		if err := e.Name("x"); err != nil {
			return err
		}
		if err := e.WriteInt64(1); err != nil {
			return err
		}
		tok := e.BeginFlatten()
		if err := e.BeginObject(); err != nil {
			return err
		}
		if err := e.Name("y"); err != nil {
			return err
		}
		if err := e.WriteInt64(2); err != nil {
			return err
		}
		if err := e.EndObject(); err != nil {
			return err
		}
		if err := e.EndFlatten(tok); err != nil {
			return err
		}
		return e.EndObject()
	})
	manual := encodeToString(t, func(e *Encoder) error {
		if err := e.BeginObject(); err != nil {
			return err
		}
		if err := e.Name("x"); err != nil {
			return err
		}
		if err := e.WriteInt64(1); err != nil {
			return err
		}
		if err := e.Name("y"); err != nil {
			return err
		}
		if err := e.WriteInt64(2); err != nil {
			return err
		}
		return e.EndObject()
	})
	assert.Equal(t, manual, flattened)
}

func TestEncoderValueSinkSplice(t *testing.T) {
	var sb strings.Builder
	e := NewEncoder(&sb)
	require.NoError(t, e.BeginObject())
	require.NoError(t, e.Name("raw"))
	sink, err := e.ValueSink()
	require.NoError(t, err)
	_, err = sink.Write([]byte(`{"already":"json"}`))
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	require.NoError(t, e.EndObject())
	require.NoError(t, e.Close())
	assert.Equal(t, `{"raw":{"already":"json"}}`, sb.String())
}
