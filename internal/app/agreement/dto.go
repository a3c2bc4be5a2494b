package agreement

import "botf2/internal/domain/diplomacy"

type BreakRequest struct {
	AgreementID string
	// RequestedBy must be one of the agreement's parties.
	RequestedBy diplomacy.CivID
}

type BreakResponse struct {
	Agreement *diplomacy.Agreement `json:"agreement"`
	Turn      int                  `json:"turn"`
	Events    []diplomacy.Event    `json:"events"`
}

type AdvanceTurnRequest struct{}

type AdvanceTurnResponse struct {
	Turn             int              `json:"turn"`
	NextTurn         int              `json:"next_turn"`
	Resolved         []ResolvedIntent `json:"resolved"`
	Fulfilled        int              `json:"fulfilled"`
	Expired          []string         `json:"expired"`
	CreditsMoved     int64            `json:"credits_moved"`
	ActiveAgreements int              `json:"active_agreements"`
}

// ResolvedIntent is a queued answer carried out while the turn closed.
type ResolvedIntent struct {
	ProposalID  string                 `json:"proposal_id"`
	Response    diplomacy.ResponseType `json:"response"`
	AgreementID string                 `json:"agreement_id,omitempty"`
}

type DeclareWarRequest struct {
	Declarer diplomacy.CivID
	Target   diplomacy.CivID
}

type DeclareWarResponse struct {
	Turn   int                          `json:"turn"`
	Status diplomacy.ForeignPowerStatus `json:"status"`
	Events []diplomacy.Event            `json:"events"`
}
