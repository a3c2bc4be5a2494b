package treaty

import (
	"io"
	"log/slog"
	"testing"
	"time"

	universemem "botf2/internal/adapter/universe/memory"
	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

const (
	federation  diplomacy.CivID = 1
	romulans    diplomacy.CivID = 2
	klingons    diplomacy.CivID = 3
	cardassians diplomacy.CivID = 4
	bajorans    diplomacy.CivID = 5
)

type testWorld struct {
	universe *universemem.Universe
	state    *diplomacy.State
	events   *Collector
	engine   Engine
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	u := universemem.NewUniverse(1)
	u.AddCivilization(ports.Civilization{ID: federation, Name: "Federation", IsEmpire: true}, 1000)
	u.AddCivilization(ports.Civilization{ID: romulans, Name: "Romulans", IsEmpire: true}, 1000)
	u.AddCivilization(ports.Civilization{ID: klingons, Name: "Klingons", IsEmpire: true}, 1000)
	u.AddCivilization(ports.Civilization{ID: cardassians, Name: "Cardassians", IsEmpire: true}, 1000)
	u.AddCivilization(ports.Civilization{ID: bajorans, Name: "Bajorans"}, 100)

	u.AddColony(ports.Colony{ID: 10, Name: "Earth", Owner: federation, Location: diplomacy.Point{X: 0, Y: 0}})
	u.AddColony(ports.Colony{ID: 11, Name: "Vulcan", Owner: federation, Location: diplomacy.Point{X: 6, Y: 1}})
	u.AddColony(ports.Colony{ID: 20, Name: "Romulus", Owner: romulans, Location: diplomacy.Point{X: 20, Y: 20}})
	u.AddColony(ports.Colony{ID: 50, Name: "Bajor", Owner: bajorans, Location: diplomacy.Point{X: 3, Y: 9}})
	u.AddColony(ports.Colony{ID: 51, Name: "Derna", Owner: bajorans, Location: diplomacy.Point{X: 4, Y: 9}})

	events := &Collector{}
	return &testWorld{
		universe: u,
		state:    diplomacy.NewState(),
		events:   events,
		engine: Engine{
			Universe: u,
			Treasury: u,
			Clock:    u,
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
			Events:   events,
			Now:      func() time.Time { return time.Unix(1700000000, 0) },
		},
	}
}

func mustClause(t *testing.T, kind diplomacy.ClauseKind, data any, duration int) diplomacy.Clause {
	t.Helper()
	c, err := diplomacy.NewClause(kind, data, duration)
	if err != nil {
		t.Fatalf("NewClause(%s): %v", kind, err)
	}
	return c
}

func mustProposal(t *testing.T, sender, recipient diplomacy.CivID, turn int, clauses ...diplomacy.Clause) *diplomacy.Proposal {
	t.Helper()
	p, err := diplomacy.NewProposal(sender, recipient, turn, clauses...)
	if err != nil {
		t.Fatalf("NewProposal: %v", err)
	}
	return p
}

func (w *testWorld) credits(t *testing.T, civ diplomacy.CivID) int64 {
	t.Helper()
	v, err := w.universe.Credits(t.Context(), civ)
	if err != nil {
		t.Fatalf("Credits(%d): %v", civ, err)
	}
	return v
}

func (w *testWorld) colonyOwner(t *testing.T, id diplomacy.ColonyID) diplomacy.CivID {
	t.Helper()
	c, err := w.universe.Colony(t.Context(), id)
	if err != nil {
		t.Fatalf("Colony(%d): %v", id, err)
	}
	return c.Owner
}

func (w *testWorld) eventsOfType(typ string) []diplomacy.Event {
	out := []diplomacy.Event{}
	for _, evt := range w.events.Events {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}
