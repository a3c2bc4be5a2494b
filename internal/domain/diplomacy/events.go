package diplomacy

import "time"

const (
	EventProposalSent       = "proposal_sent"
	EventProposalAccepted   = "proposal_accepted"
	EventProposalRejected   = "proposal_rejected"
	EventAgreementBroken    = "agreement_broken"
	EventAgreementExpired   = "agreement_expired"
	EventAgreementFulfilled = "agreement_fulfilled"
	EventStatusChanged      = "status_changed"
	EventWarDeclared        = "war_declared"
)

type Event struct {
	Type        string         `json:"type"`
	Turn        int            `json:"turn"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Sender      CivID          `json:"sender"`
	Recipient   CivID          `json:"recipient"`
	AgreementID string         `json:"agreement_id,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// Involves reports whether civ is a party of the event.
func (e Event) Involves(civ CivID) bool {
	return e.Sender == civ || e.Recipient == civ
}
