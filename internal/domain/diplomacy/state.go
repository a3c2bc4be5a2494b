package diplomacy

import (
	"errors"
	"sort"
)

var ErrProposalNotPending = errors.New("proposal is not pending")

// State owns every diplomat, the agreement matrix and the proposals still
// awaiting an answer. It is not safe for concurrent use.
type State struct {
	Matrix    *AgreementMatrix
	Version   int64
	diplomats map[CivID]*Diplomat
	pending   map[string]*Proposal
}

func NewState() *State {
	return &State{
		Matrix:    NewAgreementMatrix(),
		diplomats: map[CivID]*Diplomat{},
		pending:   map[string]*Proposal{},
	}
}

// Diplomat returns the diplomat for civ, creating it on first use.
func (s *State) Diplomat(civ CivID) *Diplomat {
	d, ok := s.diplomats[civ]
	if !ok {
		d = NewDiplomat(civ)
		s.diplomats[civ] = d
	}
	return d
}

func (s *State) ForeignPower(owner, counterparty CivID) *ForeignPower {
	return s.Diplomat(owner).GetForeignPower(counterparty)
}

func (s *State) Diplomats() []*Diplomat {
	out := make([]*Diplomat, 0, len(s.diplomats))
	for _, d := range s.diplomats {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out
}

func (s *State) AddPending(p *Proposal) {
	s.pending[p.ID] = p
}

func (s *State) Pending(id string) (*Proposal, bool) {
	p, ok := s.pending[id]
	return p, ok
}

// TakePending removes and returns a pending proposal.
func (s *State) TakePending(id string) (*Proposal, error) {
	p, ok := s.pending[id]
	if !ok {
		return nil, ErrProposalNotPending
	}
	delete(s.pending, id)
	return p, nil
}

func (s *State) PendingProposals() []*Proposal {
	out := make([]*Proposal, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TurnSent != out[j].TurnSent {
			return out[i].TurnSent < out[j].TurnSent
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *State) AreAtWar(a, b CivID) bool {
	fp := s.ForeignPower(a, b)
	return fp != nil && fp.Status == StatusAtWar
}

func (s *State) AreAllied(a, b CivID) bool {
	fp := s.ForeignPower(a, b)
	return fp != nil && fp.Status >= StatusAllied && fp.Status != StatusSelf
}

func (s *State) AreFriendly(a, b CivID) bool {
	fp := s.ForeignPower(a, b)
	return fp != nil && fp.Status >= StatusFriendly && fp.Status != StatusSelf
}

// IsEmbargoInPlace reports whether either side keeps an embargo on the other.
func (s *State) IsEmbargoInPlace(a, b CivID) bool {
	return s.ForeignPower(a, b).IsEmbargoInPlace || s.ForeignPower(b, a).IsEmbargoInPlace
}

func (s *State) IsTradeEstablished(a, b CivID) bool {
	if s.IsEmbargoInPlace(a, b) {
		return false
	}
	if s.Matrix.IsAgreementActive(a, b, ClauseTreatyTradePact) {
		return true
	}
	fp := s.ForeignPower(a, b)
	return fp != nil && fp.Status >= StatusAffiliated && fp.Status != StatusSelf
}

func (s *State) IsTravelAllowed(a, b CivID) bool {
	if a == b || s.Matrix.IsAgreementActive(a, b, ClauseTreatyOpenBorders) {
		return true
	}
	fp := s.ForeignPower(a, b)
	return fp != nil && fp.Status >= StatusAffiliated
}

// Snapshot is the serializable form of State.
type Snapshot struct {
	Version       int64          `json:"version"`
	ForeignPowers []ForeignPower `json:"foreign_powers"`
	Agreements    []*Agreement   `json:"agreements"`
	Pending       []*Proposal    `json:"pending"`
}

func (s *State) Snapshot() Snapshot {
	out := Snapshot{Version: s.Version, Agreements: s.Matrix.All(), Pending: s.PendingProposals()}
	for _, d := range s.Diplomats() {
		for _, fp := range d.ForeignPowers() {
			out.ForeignPowers = append(out.ForeignPowers, *fp)
		}
	}
	return out
}

// FromSnapshot rebuilds a State. Agreements are re-added in snapshot order.
func FromSnapshot(snap Snapshot) (*State, error) {
	s := NewState()
	s.Version = snap.Version
	for i := range snap.ForeignPowers {
		fp := snap.ForeignPowers[i]
		s.Diplomat(fp.OwnerID).put(&fp)
	}
	for _, a := range snap.Agreements {
		if a == nil || a.Proposal == nil {
			continue
		}
		if err := s.Matrix.Add(a); err != nil {
			return nil, err
		}
	}
	for _, p := range snap.Pending {
		if p != nil {
			s.AddPending(p)
		}
	}
	return s, nil
}
