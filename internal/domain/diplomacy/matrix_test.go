package diplomacy

import (
	"errors"
	"testing"
)

func agreementFor(id string, sender, recipient CivID, start int, kinds ...ClauseKind) *Agreement {
	clauses := make([]Clause, 0, len(kinds))
	for _, k := range kinds {
		clauses = append(clauses, Clause{Kind: k})
	}
	return &Agreement{ID: id, StartTurn: start, Proposal: &Proposal{ID: "p-" + id, Sender: sender, Recipient: recipient, Clauses: clauses}}
}

func TestMatrixPairIsUnordered(t *testing.T) {
	m := NewAgreementMatrix()
	if err := m.Add(agreementFor("a1", 5, 2, 1, ClauseTreatyTradePact)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !m.IsAgreementActive(2, 5, ClauseTreatyTradePact) || !m.IsAgreementActive(5, 2, ClauseTreatyTradePact) {
		t.Fatalf("expected trade pact active in both directions")
	}
	if m.IsAgreementActive(2, 5, ClauseTreatyOpenBorders) {
		t.Fatalf("unexpected open borders")
	}
	if len(m.ForPair(9, 10)) != 0 {
		t.Fatalf("expected empty list for unknown pair")
	}
}

func TestMatrixRejectsDuplicateAndRemoves(t *testing.T) {
	m := NewAgreementMatrix()
	a := agreementFor("a1", 1, 2, 1, ClauseTreatyCeaseFire)
	_ = m.Add(a)
	if err := m.Add(a); !errors.Is(err, ErrDuplicateAgreement) {
		t.Fatalf("expected ErrDuplicateAgreement, got %v", err)
	}
	if !m.Remove(a) {
		t.Fatalf("expected removal")
	}
	if m.Remove(a) {
		t.Fatalf("expected second removal to report false")
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty matrix, got %d", m.Len())
	}
}

func TestMatrixRemoveWhereAndFind(t *testing.T) {
	m := NewAgreementMatrix()
	_ = m.Add(agreementFor("a1", 1, 2, 1, ClauseTreatyTradePact))
	_ = m.Add(agreementFor("a2", 2, 1, 2, ClauseTreatyOpenBorders))
	_ = m.Add(agreementFor("a3", 1, 3, 2, ClauseTreatyOpenBorders))

	if got := m.FindByID("a3"); got == nil || got.Recipient() != 3 {
		t.Fatalf("FindByID failed: %+v", got)
	}
	removed := m.RemoveWhere(1, 2, func(a *Agreement) bool { return a.HasClause(ClauseTreatyOpenBorders) })
	if len(removed) != 1 || removed[0].ID != "a2" {
		t.Fatalf("unexpected removal: %+v", removed)
	}
	if m.Find(1, 2, func(a *Agreement) bool { return a.ID == "a1" }) == nil {
		t.Fatalf("expected a1 kept")
	}
	if !m.IsAgreementActive(3, 1, ClauseTreatyOpenBorders) {
		t.Fatalf("other pair must be untouched")
	}
}

func TestMatrixAllIsOrdered(t *testing.T) {
	m := NewAgreementMatrix()
	_ = m.Add(agreementFor("b", 3, 4, 2))
	_ = m.Add(agreementFor("c", 2, 1, 5))
	_ = m.Add(agreementFor("a", 1, 2, 3))
	all := m.All()
	got := []string{all[0].ID, all[1].ID, all[2].ID}
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestActiveTreatiesReportsMembership(t *testing.T) {
	m := NewAgreementMatrix()
	_ = m.Add(agreementFor("m", 1, 7, 1, ClauseTreatyMembership, ClauseGiveCreditsOffer))
	kinds, membership := m.ActiveTreaties(7, 1)
	if !kinds[ClauseTreatyMembership] || kinds[ClauseGiveCreditsOffer] {
		t.Fatalf("unexpected treaty kinds: %v", kinds)
	}
	if membership == nil || membership.ID != "m" {
		t.Fatalf("expected membership agreement")
	}
}

func TestMatrixRemoveWhereReleasesRemovedAgreements(t *testing.T) {
	m := NewAgreementMatrix()
	_ = m.Add(agreementFor("a1", 1, 2, 1, ClauseTreatyOpenBorders))
	_ = m.Add(agreementFor("a2", 1, 2, 1, ClauseTreatyTradePact))
	_ = m.Add(agreementFor("a3", 2, 1, 2, ClauseTreatyOpenBorders))
	backing := m.byPair[NewPair(1, 2)]

	m.RemoveWhere(1, 2, func(a *Agreement) bool { return a.HasClause(ClauseTreatyOpenBorders) })
	kept := m.byPair[NewPair(1, 2)]
	if len(kept) != 1 || kept[0].ID != "a2" {
		t.Fatalf("unexpected kept agreements: %+v", kept)
	}
	for i, a := range kept[len(kept):cap(kept)] {
		if a != nil {
			t.Fatalf("slot %d still holds %s", len(kept)+i, a.ID)
		}
	}

	m.RemoveWhere(1, 2, func(*Agreement) bool { return true })
	for i, a := range backing {
		if a != nil {
			t.Fatalf("slot %d still holds %s after the pair was emptied", i, a.ID)
		}
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty matrix, got %d", m.Len())
	}
}
