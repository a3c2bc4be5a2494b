package proposal

import "botf2/internal/domain/diplomacy"

type ProposeRequest struct {
	Sender    diplomacy.CivID
	Recipient diplomacy.CivID
	Clauses   []diplomacy.Clause
}

type ProposeResponse struct {
	Proposal *diplomacy.Proposal `json:"proposal"`
	Turn     int                 `json:"turn"`
}

type RespondRequest struct {
	ProposalID string
	// Responder must be the proposal's recipient.
	Responder diplomacy.CivID
	Accept    bool
}

type RespondResponse struct {
	Proposal  *diplomacy.Proposal    `json:"proposal"`
	Response  diplomacy.ResponseType `json:"response"`
	Agreement *diplomacy.Agreement   `json:"agreement,omitempty"`
	Status    string                 `json:"status"`
	Events    []diplomacy.Event      `json:"events"`
}

type IntentRequest struct {
	ProposalID string
	Responder  diplomacy.CivID
	Action     diplomacy.PendingAction
}

type IntentResponse struct {
	Proposal *diplomacy.Proposal     `json:"proposal"`
	Action   diplomacy.PendingAction `json:"pending_action"`
	Turn     int                     `json:"turn"`
}
