package diplomacy

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSameParty = errors.New("proposal sender and recipient must differ")
	ErrNoClauses = errors.New("proposal has no clauses")
)

type ProposalCategory string

const (
	CategoryGift     ProposalCategory = "gift"
	CategoryDemand   ProposalCategory = "demand"
	CategoryExchange ProposalCategory = "exchange"
	CategoryWarPact  ProposalCategory = "war_pact"
	CategoryTreaty   ProposalCategory = "treaty"
)

type Proposal struct {
	ID        string           `json:"id"`
	Sender    CivID            `json:"sender"`
	Recipient CivID            `json:"recipient"`
	Category  ProposalCategory `json:"category"`
	Clauses   []Clause         `json:"clauses"`
	TurnSent  int              `json:"turn_sent"`
}

func NewProposal(sender, recipient CivID, turnSent int, clauses ...Clause) (*Proposal, error) {
	if sender == recipient {
		return nil, ErrSameParty
	}
	if len(clauses) == 0 {
		return nil, ErrNoClauses
	}
	cs := make([]Clause, len(clauses))
	copy(cs, clauses)
	return &Proposal{
		ID:        "prop_" + uuid.New().String()[:16],
		Sender:    sender,
		Recipient: recipient,
		Category:  Categorize(cs),
		Clauses:   cs,
		TurnSent:  turnSent,
	}, nil
}

// Categorize derives the proposal category from its clause kinds.
func Categorize(clauses []Clause) ProposalCategory {
	offers, requests := 0, 0
	treaty := false
	for _, c := range clauses {
		switch {
		case c.Kind == ClauseWarPact:
			return CategoryWarPact
		case c.Kind.IsTreaty():
			treaty = true
		case c.Kind.IsOffer():
			offers++
		case c.Kind.IsRequest():
			requests++
		}
	}
	switch {
	case treaty:
		return CategoryTreaty
	case offers > 0 && requests == 0:
		return CategoryGift
	case requests > 0 && offers == 0:
		return CategoryDemand
	default:
		return CategoryExchange
	}
}

func (p *Proposal) HasClause(kind ClauseKind) bool {
	for _, c := range p.Clauses {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func (p *Proposal) HasTreaty() bool {
	for _, c := range p.Clauses {
		if c.Kind.IsTreaty() {
			return true
		}
	}
	return false
}

// Involves reports whether civ is either party of the proposal.
func (p *Proposal) Involves(civ CivID) bool {
	return p.Sender == civ || p.Recipient == civ
}

// Other returns the counterpart of civ in the proposal.
func (p *Proposal) Other(civ CivID) CivID {
	if p.Sender == civ {
		return p.Recipient
	}
	return p.Sender
}

type ResponseType string

const (
	ResponseNone   ResponseType = "none"
	ResponseAccept ResponseType = "accept"
	ResponseReject ResponseType = "reject"
)

type Response struct {
	Type     ResponseType `json:"type"`
	Proposal *Proposal    `json:"proposal"`
	Turn     int          `json:"turn"`
}
