package inmemory

import (
	"sync"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

type Snapshot struct {
	ResolutionTotal  uint64            `json:"resolution_total"`
	ByOutcome        map[string]uint64 `json:"by_outcome"`
	ByCategory       map[string]uint64 `json:"by_category"`
	CreditsMoved     int64             `json:"credits_moved"`
	TurnsAdvanced    uint64            `json:"turns_advanced"`
	ActiveAgreements int               `json:"active_agreements"`
	Conflicts        uint64            `json:"conflicts"`
	Failures         uint64            `json:"failures"`
}

type Recorder struct {
	mu         sync.Mutex
	total      uint64
	byOutcome  map[string]uint64
	byCategory map[string]uint64
	credits    int64
	turns      uint64
	active     int
	conflict   uint64
	failure    uint64
}

var _ ports.DiplomacyMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		byOutcome:  map[string]uint64{},
		byCategory: map[string]uint64{},
	}
}

func (r *Recorder) RecordResolution(outcome ports.Outcome, category diplomacy.ProposalCategory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	r.byOutcome[string(outcome)]++
	r.byCategory[string(category)]++
}

func (r *Recorder) RecordCreditsTransferred(amount int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credits += amount
}

func (r *Recorder) RecordTurn(activeAgreements int, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns++
	r.active = activeAgreements
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ResolutionTotal:  r.total,
		ByOutcome:        make(map[string]uint64, len(r.byOutcome)),
		ByCategory:       make(map[string]uint64, len(r.byCategory)),
		CreditsMoved:     r.credits,
		TurnsAdvanced:    r.turns,
		ActiveAgreements: r.active,
		Conflicts:        r.conflict,
		Failures:         r.failure,
	}
	for k, v := range r.byOutcome {
		out.ByOutcome[k] = v
	}
	for k, v := range r.byCategory {
		out.ByCategory[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
