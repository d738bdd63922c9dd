package jsontoken

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueTreeRoundTrip(t *testing.T) {
	obj := NewObjectValue()
	obj.Set("name", NewStringValue("ok"))
	arr := NewArrayValue()
	arr.Append(NewInt64Value(1))
	arr.Append(NewInt64Value(2))
	obj.Set("nums", arr)
	obj.Set("flag", NewBoolValue(true))
	obj.Set("none", NewNullValue())

	r := NewValueReader(obj)
	require.NoError(t, r.BeginObject())

	has, err := r.HasNext()
	require.NoError(t, err)
	require.True(t, has)
	name, err := r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "name", name)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "ok", s)

	name, err = r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "nums", name)
	require.NoError(t, r.BeginArray())
	n, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, r.EndArray())

	name, err = r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "flag", name)
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	name, err = r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "none", name)
	require.NoError(t, r.ReadNull())

	has, err = r.HasNext()
	require.NoError(t, err)
	assert.False(t, has)
	require.NoError(t, r.EndObject())
}

func TestValueWriterBuildsTree(t *testing.T) {
	w := NewValueWriter()
	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("a"))
	require.NoError(t, w.WriteInt64(7))
	require.NoError(t, w.Name("b"))
	require.NoError(t, w.BeginArray())
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteString("z"))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndObject())

	root := w.Root()
	require.Equal(t, ObjectStart, root.Kind())
	v, ok := root.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(7), v.Int64())

	bv, ok := root.Get("b")
	require.True(t, ok)
	require.Equal(t, ArrayStart, bv.Kind())
	elems := bv.Elements()
	require.Len(t, elems, 2)
	assert.True(t, elems[0].Bool())
	assert.Equal(t, "z", elems[1].String())
}

func TestValueWriterDuplicateNameFails(t *testing.T) {
	w := NewValueWriter()
	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("k"))
	require.NoError(t, w.WriteInt64(1))
	require.NoError(t, w.Name("k"))
	err := w.WriteInt64(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Map key 'k' has multiple values")
}

func TestValueBigDecimalPreservesPrecision(t *testing.T) {
	d, _, err := apd.NewFromString("1.100")
	require.NoError(t, err)
	v := NewBigDecimalValue(d)
	assert.Equal(t, "1.100", v.BigDecimal().String())
}

func TestValueTreeDeepEqualViaGoCmp(t *testing.T) {
	build := func() *Value {
		obj := NewObjectValue()
		obj.Set("name", NewStringValue("ok"))
		arr := NewArrayValue()
		arr.Append(NewInt64Value(1))
		arr.Append(NewInt64Value(2))
		obj.Set("nums", arr)
		nested := NewObjectValue()
		nested.Set("flag", NewBoolValue(true))
		obj.Set("inner", nested)
		return obj
	}

	a, b := build(), build()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("trees built the same way diverged (-want +got):\n%s", diff)
	}

	b.Set("name", NewStringValue("different"))
	if diff := cmp.Diff(a, b); diff == "" {
		t.Fatal("expected a diff after mutating b, got none")
	}
}

func TestValueReaderSkipNamePreservesNullPathQuirk(t *testing.T) {
	obj := NewObjectValue()
	obj.Set("skip", NewInt64Value(1))
	obj.Set("after", NewInt64Value(2))

	r := NewValueReader(obj)
	require.NoError(t, r.BeginObject())
	require.NoError(t, r.SkipValue())
	assert.Equal(t, "$.null", r.Path())
	name, err := r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "after", name)
	assert.Equal(t, "$.after", r.Path())
}
