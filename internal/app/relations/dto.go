package relations

import "botf2/internal/domain/diplomacy"

type Request struct {
	Civ diplomacy.CivID
	// Counterparty narrows the answer to one relation when set.
	Counterparty *diplomacy.CivID
}

type AgreementSummary struct {
	ID        string                     `json:"id"`
	Category  diplomacy.ProposalCategory `json:"category"`
	StartTurn int                        `json:"start_turn"`
	EndTurn   int                        `json:"end_turn"`
	Clauses   []diplomacy.ClauseKind     `json:"clauses"`
}

type Relation struct {
	Counterparty      diplomacy.CivID              `json:"counterparty"`
	Name              string                       `json:"name"`
	Status            diplomacy.ForeignPowerStatus `json:"status"`
	Base              diplomacy.ForeignPowerStatus `json:"base"`
	ContactTurn       int                          `json:"contact_turn"`
	LastStatusChange  int                          `json:"last_status_change"`
	DiplomatAvailable bool                         `json:"diplomat_available"`
	EmbargoInPlace    bool                         `json:"embargo_in_place"`
	TradeEstablished  bool                         `json:"trade_established"`
	TravelAllowed     bool                         `json:"travel_allowed"`
	PendingAction     diplomacy.PendingAction      `json:"pending_action"`
	ResponseSent      diplomacy.ResponseType       `json:"response_sent"`
	Agreements        []AgreementSummary           `json:"agreements"`
}

type Response struct {
	Civ       diplomacy.CivID       `json:"civ"`
	Turn      int                   `json:"turn"`
	Relations []Relation            `json:"relations"`
	Pending   []*diplomacy.Proposal `json:"pending"`
}
