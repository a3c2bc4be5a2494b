package ports

import (
	"context"
	"time"

	"botf2/internal/domain/diplomacy"
)

// DiplomacyStateRepository loads and stores the whole diplomacy state.
// SaveWithVersion fails with ErrConflict when the stored version moved.
type DiplomacyStateRepository interface {
	Load(ctx context.Context) (*diplomacy.State, error)
	SaveWithVersion(ctx context.Context, state *diplomacy.State, expectedVersion int64) error
}

// EventFilter narrows an event listing. Empty Civs matches every civilization,
// zero turns leave the window open and Limit keeps the most recent events.
type EventFilter struct {
	Civs     []diplomacy.CivID
	FromTurn int
	ToTurn   int
	Limit    int
}

func (f EventFilter) Match(evt diplomacy.Event) bool {
	if f.FromTurn > 0 && evt.Turn < f.FromTurn {
		return false
	}
	if f.ToTurn > 0 && evt.Turn > f.ToTurn {
		return false
	}
	if len(f.Civs) == 0 {
		return true
	}
	for _, civ := range f.Civs {
		if evt.Involves(civ) {
			return true
		}
	}
	return false
}

// EventRepository lists events oldest first.
type EventRepository interface {
	Append(ctx context.Context, events []diplomacy.Event) error
	List(ctx context.Context, filter EventFilter) ([]diplomacy.Event, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, events []diplomacy.Event) error
}

// SnapshotStore keeps one serialized state per turn.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, turn int, snap diplomacy.Snapshot) error
	LoadSnapshot(ctx context.Context, turn int) (diplomacy.Snapshot, error)
}

type CivCredentialRecord struct {
	Civ       diplomacy.CivID
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

// CivCredentialRepository keeps at most one credential per civilization.
// Create fails with ErrConflict when the civilization already holds one.
type CivCredentialRepository interface {
	Create(ctx context.Context, credential CivCredentialRecord) error
	GetByCiv(ctx context.Context, civ diplomacy.CivID) (CivCredentialRecord, error)
}
