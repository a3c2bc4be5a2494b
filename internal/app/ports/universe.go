package ports

import (
	"context"

	"botf2/internal/domain/diplomacy"
)

type Civilization struct {
	ID       diplomacy.CivID
	Name     string
	IsEmpire bool
}

type Colony struct {
	ID                  diplomacy.ColonyID
	Name                string
	Owner               diplomacy.CivID
	Location            diplomacy.Point
	LastOwnershipChange int
}

type Fleet struct {
	ID       diplomacy.FleetID
	Owner    diplomacy.CivID
	Location diplomacy.Point
	Route    []diplomacy.Point
}

// Universe is the slice of the game world the diplomacy engine touches.
type Universe interface {
	Civilization(ctx context.Context, id diplomacy.CivID) (Civilization, error)
	Civilizations(ctx context.Context) ([]Civilization, error)
	Colony(ctx context.Context, id diplomacy.ColonyID) (Colony, error)
	ColoniesOwnedBy(ctx context.Context, owner diplomacy.CivID) ([]Colony, error)
	// TakeOwnership moves a colony to newOwner and stamps LastOwnershipChange.
	TakeOwnership(ctx context.Context, id diplomacy.ColonyID, newOwner diplomacy.CivID, isConquest bool, turn int) error
	FleetsOwnedBy(ctx context.Context, owner diplomacy.CivID) ([]Fleet, error)
	// SectorOwner reports the owner or claimant of a sector.
	SectorOwner(ctx context.Context, at diplomacy.Point) (diplomacy.CivID, bool, error)
	NearestOwnedColony(ctx context.Context, owner diplomacy.CivID, from diplomacy.Point) (Colony, bool, error)
	// RelocateFleet moves a fleet and clears its route.
	RelocateFleet(ctx context.Context, id diplomacy.FleetID, to diplomacy.Point) error
}

type Treasury interface {
	Credits(ctx context.Context, civ diplomacy.CivID) (int64, error)
	AdjustCurrent(ctx context.Context, civ diplomacy.CivID, delta int64) error
}

type TurnClock interface {
	CurrentTurn(ctx context.Context) (int, error)
	Advance(ctx context.Context) (int, error)
}
