package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

// Universe is an in-memory game world: civilizations, colonies, fleets,
// sector claims, treasuries and the turn counter.
type Universe struct {
	mu        sync.RWMutex
	turn      int
	civs      map[diplomacy.CivID]ports.Civilization
	colonies  map[diplomacy.ColonyID]ports.Colony
	fleets    map[diplomacy.FleetID]ports.Fleet
	claims    map[diplomacy.Point]diplomacy.CivID
	treasury  map[diplomacy.CivID]int64
	conquests []diplomacy.ColonyID
}

var (
	_ ports.Universe  = (*Universe)(nil)
	_ ports.Treasury  = (*Universe)(nil)
	_ ports.TurnClock = (*Universe)(nil)
)

func NewUniverse(startTurn int) *Universe {
	if startTurn < 1 {
		startTurn = 1
	}
	return &Universe{
		turn:     startTurn,
		civs:     map[diplomacy.CivID]ports.Civilization{},
		colonies: map[diplomacy.ColonyID]ports.Colony{},
		fleets:   map[diplomacy.FleetID]ports.Fleet{},
		claims:   map[diplomacy.Point]diplomacy.CivID{},
		treasury: map[diplomacy.CivID]int64{},
	}
}

func (u *Universe) AddCivilization(c ports.Civilization, credits int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.civs[c.ID] = c
	u.treasury[c.ID] = credits
}

func (u *Universe) AddColony(c ports.Colony) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.colonies[c.ID] = c
}

func (u *Universe) AddFleet(f ports.Fleet) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fleets[f.ID] = f
}

func (u *Universe) Claim(at diplomacy.Point, owner diplomacy.CivID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.claims[at] = owner
}

func (u *Universe) Fleet(id diplomacy.FleetID) (ports.Fleet, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	f, ok := u.fleets[id]
	return f, ok
}

// Conquests lists colonies taken by force, in order.
func (u *Universe) Conquests() []diplomacy.ColonyID {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]diplomacy.ColonyID(nil), u.conquests...)
}

func (u *Universe) Civilization(_ context.Context, id diplomacy.CivID) (ports.Civilization, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	c, ok := u.civs[id]
	if !ok {
		return ports.Civilization{}, fmt.Errorf("civilization %d: %w", id, ports.ErrNotFound)
	}
	return c, nil
}

func (u *Universe) Civilizations(_ context.Context) ([]ports.Civilization, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]ports.Civilization, 0, len(u.civs))
	for _, c := range u.civs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u *Universe) Colony(_ context.Context, id diplomacy.ColonyID) (ports.Colony, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	c, ok := u.colonies[id]
	if !ok {
		return ports.Colony{}, fmt.Errorf("colony %d: %w", id, ports.ErrNotFound)
	}
	return c, nil
}

func (u *Universe) ColoniesOwnedBy(_ context.Context, owner diplomacy.CivID) ([]ports.Colony, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := []ports.Colony{}
	for _, c := range u.colonies {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u *Universe) TakeOwnership(_ context.Context, id diplomacy.ColonyID, newOwner diplomacy.CivID, isConquest bool, turn int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	c, ok := u.colonies[id]
	if !ok {
		return fmt.Errorf("colony %d: %w", id, ports.ErrNotFound)
	}
	if _, ok := u.civs[newOwner]; !ok {
		return fmt.Errorf("civilization %d: %w", newOwner, ports.ErrNotFound)
	}
	c.Owner = newOwner
	c.LastOwnershipChange = turn
	u.colonies[id] = c
	if isConquest {
		u.conquests = append(u.conquests, id)
	}
	return nil
}

func (u *Universe) FleetsOwnedBy(_ context.Context, owner diplomacy.CivID) ([]ports.Fleet, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := []ports.Fleet{}
	for _, f := range u.fleets {
		if f.Owner == owner {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SectorOwner prefers the owner of a colony in the sector over a claim.
func (u *Universe) SectorOwner(_ context.Context, at diplomacy.Point) (diplomacy.CivID, bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, c := range u.colonies {
		if c.Location == at {
			return c.Owner, true, nil
		}
	}
	owner, ok := u.claims[at]
	return owner, ok, nil
}

func (u *Universe) NearestOwnedColony(_ context.Context, owner diplomacy.CivID, from diplomacy.Point) (ports.Colony, bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var best ports.Colony
	bestDist := -1
	for _, c := range u.colonies {
		if c.Owner != owner {
			continue
		}
		d := distance(from, c.Location)
		if bestDist < 0 || d < bestDist || (d == bestDist && c.ID < best.ID) {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0, nil
}

func (u *Universe) RelocateFleet(_ context.Context, id diplomacy.FleetID, to diplomacy.Point) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	f, ok := u.fleets[id]
	if !ok {
		return fmt.Errorf("fleet %d: %w", id, ports.ErrNotFound)
	}
	f.Location = to
	f.Route = nil
	u.fleets[id] = f
	return nil
}

func (u *Universe) Credits(_ context.Context, civ diplomacy.CivID) (int64, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	v, ok := u.treasury[civ]
	if !ok {
		return 0, fmt.Errorf("treasury %d: %w", civ, ports.ErrNotFound)
	}
	return v, nil
}

// AdjustCurrent may take a treasury below zero; debt is the caller's concern.
func (u *Universe) AdjustCurrent(_ context.Context, civ diplomacy.CivID, delta int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.treasury[civ]; !ok {
		return fmt.Errorf("treasury %d: %w", civ, ports.ErrNotFound)
	}
	u.treasury[civ] += delta
	return nil
}

func (u *Universe) CurrentTurn(_ context.Context) (int, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.turn, nil
}

func (u *Universe) Advance(_ context.Context) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.turn++
	return u.turn, nil
}

// SetTurn moves the clock directly.
func (u *Universe) SetTurn(turn int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.turn = turn
}

func distance(a, b diplomacy.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
