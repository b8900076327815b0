package bondgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionFind_Singletons(t *testing.T) {
	u := NewUnionFind(3)
	assert.False(t, u.Connected(0, 1))
	assert.False(t, u.Connected(1, 2))
	assert.Equal(t, 1, u.Find(1))
}

func TestUnionFind_TransitiveMerge(t *testing.T) {
	u := NewUnionFind(5)
	u.Union(0, 1)
	u.Union(1, 2)
	u.Union(3, 4)

	assert.True(t, u.Connected(0, 2))
	assert.True(t, u.Connected(3, 4))
	assert.False(t, u.Connected(2, 3))

	u.Union(2, 4)
	assert.True(t, u.Connected(0, 3))
}

func TestUnionFind_RepeatedUnionIsStable(t *testing.T) {
	u := NewUnionFind(2)
	u.Union(0, 1)
	r := u.Find(0)
	u.Union(0, 1)
	u.Union(1, 0)
	assert.Equal(t, r, u.Find(1))
}
