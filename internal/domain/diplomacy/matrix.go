package diplomacy

import (
	"errors"
	"sort"
)

var ErrDuplicateAgreement = errors.New("agreement already registered")

// Pair is an unordered civilization pair, stored with the lower id first.
type Pair struct {
	A CivID `json:"a"`
	B CivID `json:"b"`
}

func NewPair(a, b CivID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// AgreementMatrix indexes active agreements by civilization pair.
type AgreementMatrix struct {
	byPair map[Pair][]*Agreement
}

func NewAgreementMatrix() *AgreementMatrix {
	return &AgreementMatrix{byPair: map[Pair][]*Agreement{}}
}

func (m *AgreementMatrix) Add(a *Agreement) error {
	key := a.Pair()
	for _, existing := range m.byPair[key] {
		if existing.ID == a.ID {
			return ErrDuplicateAgreement
		}
	}
	m.byPair[key] = append(m.byPair[key], a)
	return nil
}

// Remove deletes the agreement and reports whether it was present.
func (m *AgreementMatrix) Remove(a *Agreement) bool {
	if a == nil {
		return false
	}
	removed := m.RemoveWhere(a.Sender(), a.Recipient(), func(x *Agreement) bool { return x.ID == a.ID })
	return len(removed) > 0
}

// RemoveWhere deletes and returns every agreement of the pair matching pred.
func (m *AgreementMatrix) RemoveWhere(a, b CivID, pred func(*Agreement) bool) []*Agreement {
	key := NewPair(a, b)
	list := m.byPair[key]
	kept := list[:0]
	var removed []*Agreement
	for _, x := range list {
		if pred(x) {
			removed = append(removed, x)
			continue
		}
		kept = append(kept, x)
	}
	clear(list[len(kept):])
	if len(kept) == 0 {
		delete(m.byPair, key)
	} else {
		m.byPair[key] = kept
	}
	return removed
}

// ForPair returns a copy of the pair's agreements.
func (m *AgreementMatrix) ForPair(a, b CivID) []*Agreement {
	list := m.byPair[NewPair(a, b)]
	out := make([]*Agreement, len(list))
	copy(out, list)
	return out
}

func (m *AgreementMatrix) Find(a, b CivID, pred func(*Agreement) bool) *Agreement {
	for _, x := range m.byPair[NewPair(a, b)] {
		if pred(x) {
			return x
		}
	}
	return nil
}

func (m *AgreementMatrix) FindByID(id string) *Agreement {
	for _, list := range m.byPair {
		for _, x := range list {
			if x.ID == id {
				return x
			}
		}
	}
	return nil
}

func (m *AgreementMatrix) IsAgreementActive(a, b CivID, kind ClauseKind) bool {
	return m.Find(a, b, func(x *Agreement) bool { return x.HasClause(kind) }) != nil
}

// ActiveTreaties returns the treaty kinds in force for the pair and the empire
// side of any membership among them.
func (m *AgreementMatrix) ActiveTreaties(a, b CivID) (map[ClauseKind]bool, *Agreement) {
	kinds := map[ClauseKind]bool{}
	var membership *Agreement
	for _, x := range m.byPair[NewPair(a, b)] {
		for _, c := range x.Proposal.Clauses {
			if !c.Kind.IsTreaty() {
				continue
			}
			kinds[c.Kind] = true
			if c.Kind == ClauseTreatyMembership && membership == nil {
				membership = x
			}
		}
	}
	return kinds, membership
}

// All returns every agreement ordered by pair, then start turn, then id.
func (m *AgreementMatrix) All() []*Agreement {
	out := make([]*Agreement, 0, m.Len())
	for _, list := range m.byPair {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Pair(), out[j].Pair()
		if pi != pj {
			if pi.A != pj.A {
				return pi.A < pj.A
			}
			return pi.B < pj.B
		}
		if out[i].StartTurn != out[j].StartTurn {
			return out[i].StartTurn < out[j].StartTurn
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *AgreementMatrix) Len() int {
	n := 0
	for _, list := range m.byPair {
		n += len(list)
	}
	return n
}
