package ordered

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stringKey is the simplest Key implementation: lexical order.
type stringKey string

func (k stringKey) Less(other any) bool  { return k < other.(stringKey) }
func (k stringKey) Equal(other any) bool { return k == other.(stringKey) }

func TestMapInsertionOrderSurvivesRehash(t *testing.T) {
	m := New()
	var want []string
	for i := 0; i < 200; i++ {
		k := stringKey("k" + strconv.Itoa(i))
		m.Set(k, i)
		want = append(want, string(k))
	}
	require.Equal(t, 200, m.Len())

	var got []string
	m.Range(func(k Key, v any) bool {
		got = append(got, string(k.(stringKey)))
		return true
	})
	assert.Equal(t, want, got, "iteration order must remain insertion order across multiple rehashes")
}

func TestMapGetSet(t *testing.T) {
	m := New()
	m.Set(stringKey("a"), 1)
	m.Set(stringKey("b"), 2)

	v, ok := m.Get(stringKey("a"))
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = m.Get(stringKey("missing"))
	assert.False(t, ok)
}

func TestMapSetOverwritesWithoutReordering(t *testing.T) {
	m := New()
	m.Set(stringKey("a"), 1)
	m.Set(stringKey("b"), 2)
	m.Set(stringKey("a"), 99)

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, stringKey("a"), entries[0].Key)
	assert.Equal(t, 99, entries[0].Value)
	assert.Equal(t, stringKey("b"), entries[1].Key)
}

func TestMapDeleteDoesNotDoubleUnlink(t *testing.T) {
	m := New()
	for i := 0; i < 20; i++ {
		m.Set(stringKey("k"+strconv.Itoa(i)), i)
	}
	entries := m.Entries() // snapshot before mutating, per the documented iterator contract
	for _, e := range entries {
		require.True(t, m.Delete(e.Key))
	}
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Entries())
	assert.Nil(t, m.head)
	assert.Nil(t, m.tail)
}

func TestMapDeleteMissingKey(t *testing.T) {
	m := New()
	m.Set(stringKey("a"), 1)
	assert.False(t, m.Delete(stringKey("z")))
	assert.Equal(t, 1, m.Len())
}

func TestMapNilKeyPanics(t *testing.T) {
	m := New()
	assert.Panics(t, func() { m.Set(nil, 1) })
}
