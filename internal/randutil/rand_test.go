package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestSeeded(t *testing.T) {
	seed := int64(7)
	rng, used := Seeded(&seed)
	assert.Equal(t, seed, used)
	assert.Equal(t, New(7).Uint64(), rng.Uint64())

	_, random := Seeded(nil)
	assert.NotZero(t, random)
}

func TestSplit(t *testing.T) {
	parent := New(99)
	x, y := Split(parent), Split(parent)
	assert.NotEqual(t, x.Uint64(), y.Uint64())
}
