package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("b", "1")
	c.Set("a", "2")
	c.Set("b", "3")

	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}
