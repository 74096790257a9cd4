package server

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAlreadyPlaying is returned when an identity is already seated in a
// round on the same channel
var ErrAlreadyPlaying = errors.New("already playing")

// Registry tracks which identities are in an active round, per channel.
// An identity can play in several channels at once but in only one round
// per channel.
type Registry struct {
	mu       sync.Mutex
	channels map[string]map[string]string // channel -> identity -> round ID
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]map[string]string)}
}

// Acquire marks every identity as playing roundID in channel. It is all or
// nothing: if any identity is already playing, nothing is recorded.
func (r *Registry) Acquire(channel, roundID string, identities []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := r.channels[channel]
	for _, id := range identities {
		if other, ok := active[id]; ok {
			return fmt.Errorf("%w: %s is in round %s", ErrAlreadyPlaying, id, other)
		}
	}

	if active == nil {
		active = make(map[string]string, len(identities))
		r.channels[channel] = active
	}
	for _, id := range identities {
		active[id] = roundID
	}
	return nil
}

// Release removes identities from channel, but only where they are still
// recorded against roundID
func (r *Registry) Release(channel, roundID string, identities []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := r.channels[channel]
	for _, id := range identities {
		if active[id] == roundID {
			delete(active, id)
		}
	}
	if len(active) == 0 {
		delete(r.channels, channel)
	}
}

// Playing returns the round identity is playing in channel, if any
func (r *Registry) Playing(channel, identity string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roundID, ok := r.channels[channel][identity]
	return roundID, ok
}
