package memory

import (
	"sync"

	"botf2/internal/domain/diplomacy"
)

// Store keeps the diplomacy state serialized so every Load hands out an
// independent copy.
type Store struct {
	mu      sync.RWMutex
	state   []byte
	version int64
	events  []diplomacy.Event
}

func NewStore() *Store {
	return &Store{}
}
