package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

type DiplomacyStateRepo struct {
	store *Store
}

func NewDiplomacyStateRepo(store *Store) DiplomacyStateRepo {
	return DiplomacyStateRepo{store: store}
}

// Load returns a fresh state while nothing has been saved yet.
func (r DiplomacyStateRepo) Load(_ context.Context) (*diplomacy.State, error) {
	if r.store.state == nil {
		return diplomacy.NewState(), nil
	}
	var snap diplomacy.Snapshot
	if err := json.Unmarshal(r.store.state, &snap); err != nil {
		return nil, fmt.Errorf("decode diplomacy state: %w", err)
	}
	return diplomacy.FromSnapshot(snap)
}

func (r DiplomacyStateRepo) SaveWithVersion(_ context.Context, state *diplomacy.State, expectedVersion int64) error {
	if r.store.version != expectedVersion {
		return ports.ErrConflict
	}
	b, err := json.Marshal(state.Snapshot())
	if err != nil {
		return fmt.Errorf("encode diplomacy state: %w", err)
	}
	r.store.state = b
	r.store.version = state.Version
	return nil
}
