package diplomacy

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDiplomatCreatesForeignPowersLazily(t *testing.T) {
	s := NewState()
	fp := s.Diplomat(1).GetForeignPower(2)
	if fp == nil || fp.OwnerID != 1 || fp.CounterpartyID != 2 {
		t.Fatalf("unexpected foreign power: %+v", fp)
	}
	if fp.Status != StatusNoContact || fp.PendingAction != PendingNone {
		t.Fatalf("unexpected initial state: %+v", fp)
	}
	if s.ForeignPower(1, 2) != fp {
		t.Fatalf("expected the same record on second lookup")
	}
	if s.Diplomat(1).GetForeignPower(1) != nil {
		t.Fatalf("expected no record for self")
	}
}

func TestEnsureForeignPowers(t *testing.T) {
	d := NewDiplomat(1)
	d.EnsureForeignPowers([]CivID{3, 1, 2})
	fps := d.ForeignPowers()
	if len(fps) != 2 || fps[0].CounterpartyID != 2 || fps[1].CounterpartyID != 3 {
		t.Fatalf("unexpected foreign powers: %+v", fps)
	}
}

func TestPendingProposals(t *testing.T) {
	s := NewState()
	p := &Proposal{ID: "p1", Sender: 1, Recipient: 2}
	s.AddPending(p)
	if _, ok := s.Pending("p1"); !ok {
		t.Fatalf("expected pending proposal")
	}
	got, err := s.TakePending("p1")
	if err != nil || got != p {
		t.Fatalf("TakePending: %v", err)
	}
	if _, err := s.TakePending("p1"); !errors.Is(err, ErrProposalNotPending) {
		t.Fatalf("expected ErrProposalNotPending, got %v", err)
	}
}

func TestSnapshotRoundTripThroughJSON(t *testing.T) {
	s := NewState()
	s.Version = 4
	fp := s.ForeignPower(1, 2)
	fp.ContactTurn = 2
	fp.SetStatus(StatusFriendly, 3)
	data := AgreementData{}
	data.Set(DataKeyTransferredColonies, []ColonyID{5})
	p := &Proposal{ID: "p1", Sender: 1, Recipient: 2, Category: CategoryTreaty, Clauses: []Clause{
		{Kind: ClauseTreatyTradePact},
		{Kind: ClauseGiveCreditsOffer, Data: CreditsClauseData{RecurringAmount: 4}},
	}}
	if err := s.Matrix.Add(NewAgreement(p, 3, data)); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.AddPending(&Proposal{ID: "p2", Sender: 2, Recipient: 1, Clauses: []Clause{{Kind: ClauseMapDataRequest}}})

	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if restored.Version != 4 {
		t.Fatalf("expected version 4, got %d", restored.Version)
	}
	if got := restored.ForeignPower(1, 2).Status; got != StatusFriendly {
		t.Fatalf("expected friendly, got %s", got)
	}
	all := restored.Matrix.All()
	if len(all) != 1 {
		t.Fatalf("expected one agreement, got %d", len(all))
	}
	credits, ok := all[0].Proposal.Clauses[1].Data.(CreditsClauseData)
	if !ok || credits.RecurringAmount != 4 {
		t.Fatalf("expected typed credits payload, got %#v", all[0].Proposal.Clauses[1].Data)
	}
	if ids := all[0].TransferredColonies(); len(ids) != 1 || ids[0] != 5 {
		t.Fatalf("unexpected agreement data: %v", ids)
	}
	if _, ok := restored.Pending("p2"); !ok {
		t.Fatalf("expected pending proposal restored")
	}
}

func TestRelationHelpers(t *testing.T) {
	s := NewState()
	s.ForeignPower(1, 2).SetStatus(StatusAllied, 1)
	s.ForeignPower(1, 3).SetStatus(StatusAtWar, 1)
	if !s.AreAllied(1, 2) || !s.AreFriendly(1, 2) {
		t.Fatalf("expected allied and friendly")
	}
	if !s.AreAtWar(1, 3) || s.AreFriendly(1, 3) {
		t.Fatalf("expected at war and not friendly")
	}
	if !s.IsTravelAllowed(1, 2) || s.IsTravelAllowed(1, 3) {
		t.Fatalf("unexpected travel rights")
	}
	if !s.IsTradeEstablished(1, 2) {
		t.Fatalf("expected trade through alliance")
	}
}

func TestEmbargoBlocksTrade(t *testing.T) {
	s := NewState()
	s.ForeignPower(1, 2).SetStatus(StatusAffiliated, 1)
	s.ForeignPower(2, 1).BeginEmbargo()
	if !s.IsEmbargoInPlace(1, 2) || !s.IsEmbargoInPlace(2, 1) {
		t.Fatalf("expected the embargo to be seen from both sides")
	}
	if s.IsTradeEstablished(1, 2) {
		t.Fatalf("expected no trade under embargo")
	}
	s.ForeignPower(2, 1).EndEmbargo()
	if s.IsEmbargoInPlace(1, 2) || !s.IsTradeEstablished(1, 2) {
		t.Fatalf("expected trade back after the embargo ended")
	}
}
