package ports

import "botf2/internal/domain/diplomacy"

type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeBroken   Outcome = "broken"
	OutcomeExpired  Outcome = "expired"
)

type DiplomacyMetrics interface {
	RecordResolution(outcome Outcome, category diplomacy.ProposalCategory)
	RecordCreditsTransferred(amount int64)
	RecordTurn(activeAgreements int, seconds float64)
	RecordConflict()
	RecordFailure()
}
