package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGet(t *testing.T) {
	c, err := NewMemory(2)
	require.NoError(t, err)

	c.Put("a", []byte("one"))

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("one"), got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewMemory(2)
	require.NoError(t, err)

	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))
	c.Get("a")
	c.Put("c", []byte("3"))

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestKey_IsStableAndContentSensitive(t *testing.T) {
	assert.Equal(t, Key([]byte("doc")), Key([]byte("doc")))
	assert.NotEqual(t, Key([]byte("doc")), Key([]byte("doc2")))
	assert.Len(t, Key([]byte("doc")), 64)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	c.Put("a", []byte("1"))
	_, ok := c.Get("a")
	assert.False(t, ok)
}
