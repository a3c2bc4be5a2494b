package diplomacy

import (
	"errors"
	"strings"
	"testing"
)

func TestNewProposalRejectsSameParty(t *testing.T) {
	_, err := NewProposal(1, 1, 1, Clause{Kind: ClauseMapDataOffer})
	if !errors.Is(err, ErrSameParty) {
		t.Fatalf("expected ErrSameParty, got %v", err)
	}
	if _, err := NewProposal(1, 2, 1); !errors.Is(err, ErrNoClauses) {
		t.Fatalf("expected ErrNoClauses, got %v", err)
	}
}

func TestNewProposalAssignsIDAndCategory(t *testing.T) {
	p, err := NewProposal(1, 2, 4, Clause{Kind: ClauseGiveCreditsOffer, Data: CreditsClauseData{ImmediateAmount: 10}})
	if err != nil {
		t.Fatalf("NewProposal: %v", err)
	}
	if !strings.HasPrefix(p.ID, "prop_") {
		t.Fatalf("unexpected id: %q", p.ID)
	}
	if p.Category != CategoryGift {
		t.Fatalf("expected gift, got %s", p.Category)
	}
	if p.TurnSent != 4 {
		t.Fatalf("expected turn sent 4, got %d", p.TurnSent)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		name    string
		clauses []Clause
		want    ProposalCategory
	}{
		{"offers only", []Clause{{Kind: ClauseMapDataOffer}, {Kind: ClauseGiveCreditsOffer}}, CategoryGift},
		{"requests only", []Clause{{Kind: ClauseMapDataRequest}}, CategoryDemand},
		{"mixed", []Clause{{Kind: ClauseMapDataOffer}, {Kind: ClauseGiveCreditsRequest}}, CategoryExchange},
		{"treaty wins over gifts", []Clause{{Kind: ClauseMapDataOffer}, {Kind: ClauseTreatyTradePact}}, CategoryTreaty},
		{"war pact wins", []Clause{{Kind: ClauseTreatyTradePact}, {Kind: ClauseWarPact}}, CategoryWarPact},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Categorize(tc.clauses); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestProposalOther(t *testing.T) {
	p := &Proposal{Sender: 3, Recipient: 5}
	if p.Other(3) != 5 || p.Other(5) != 3 {
		t.Fatalf("unexpected counterpart")
	}
	if !p.Involves(5) || p.Involves(7) {
		t.Fatalf("unexpected involvement")
	}
}

func TestAgreementEndTurn(t *testing.T) {
	finite := &Proposal{Sender: 1, Recipient: 2, Clauses: []Clause{{Kind: ClauseMapDataOffer, Duration: 1}, {Kind: ClauseGiveCreditsOffer, Duration: 10}}}
	a := NewAgreement(finite, 5, nil)
	if a.EndTurn != 15 {
		t.Fatalf("expected end turn 15, got %d", a.EndTurn)
	}
	if a.IsExpired(14) || !a.IsExpired(15) {
		t.Fatalf("unexpected expiry around end turn")
	}

	open := &Proposal{Sender: 1, Recipient: 2, Clauses: []Clause{{Kind: ClauseMapDataOffer, Duration: 1}, {Kind: ClauseTreatyTradePact}}}
	if NewAgreement(open, 5, nil).EndTurn != 0 {
		t.Fatalf("expected indefinite agreement")
	}
}

func TestAgreementDataRoundTrip(t *testing.T) {
	data := AgreementData{}
	data.Set(DataKeyTransferredColonies, []ColonyID{11, 12})
	a := NewAgreement(&Proposal{Sender: 1, Recipient: 2, Clauses: []Clause{{Kind: ClauseTreatyMembership}}}, 3, data)
	got := a.TransferredColonies()
	if len(got) != 2 || got[0] != 11 || got[1] != 12 {
		t.Fatalf("unexpected transferred colonies: %v", got)
	}
}
