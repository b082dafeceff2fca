package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSetAddIsIdempotent(t *testing.T) {
	s := IDSet{}
	s = s.Add(1)
	s = s.Add(2)
	s = s.Add(1)

	assert.Equal(t, IDSet{1, 2}, s)
}

func TestIDSetRemove(t *testing.T) {
	s := IDSet{1, 2, 3}

	s = s.Remove(2)
	assert.Equal(t, IDSet{1, 3}, s)

	// Removing an absent element changes nothing.
	s = s.Remove(42)
	assert.Equal(t, IDSet{1, 3}, s)
}

func TestIDSetRemoveDoesNotAliasOriginal(t *testing.T) {
	s := IDSet{1, 2, 3}
	removed := s.Remove(1)

	assert.Equal(t, IDSet{2, 3}, removed)
	assert.Equal(t, IDSet{1, 2, 3}, s)
}

func TestIDSetDiff(t *testing.T) {
	old := IDSet{2, 3}
	next := IDSet{3, 4}

	assert.Equal(t, IDSet{4}, next.Diff(old))
	assert.Equal(t, IDSet{2}, old.Diff(next))
	assert.Empty(t, old.Diff(old))
}

func TestIDSetDedup(t *testing.T) {
	s := IDSet{5, 5, 1, 5, 1}
	assert.Equal(t, IDSet{5, 1}, s.Dedup())
}
