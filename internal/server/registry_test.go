package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAcquireIsAllOrNothing(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Acquire("#a", "r1", []string{"alice", "bob"}))

	err := r.Acquire("#a", "r2", []string{"carol", "bob"})
	assert.ErrorIs(t, err, ErrAlreadyPlaying)
	_, ok := r.Playing("#a", "carol")
	assert.False(t, ok, "carol must not be held by a failed acquire")

	// other channels are independent
	require.NoError(t, r.Acquire("#b", "r3", []string{"bob"}))
}

func TestRegistryRelease(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Acquire("#a", "r1", []string{"alice"}))

	r.Release("#a", "stale", []string{"alice"})
	round, ok := r.Playing("#a", "alice")
	require.True(t, ok)
	assert.Equal(t, "r1", round)

	r.Release("#a", "r1", []string{"alice"})
	_, ok = r.Playing("#a", "alice")
	assert.False(t, ok)
	require.NoError(t, r.Acquire("#a", "r2", []string{"alice"}))
}
