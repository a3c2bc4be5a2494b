package treaty

import (
	"context"

	"botf2/internal/domain/diplomacy"
)

// Reject answers p with a refusal. No agreement is created and world state
// is untouched. turnRejected of 0 means the current turn.
func (e Engine) Reject(ctx context.Context, st *diplomacy.State, p *diplomacy.Proposal, turnRejected int) (err error) {
	if st == nil {
		return ErrNilState
	}
	if p == nil {
		return ErrNilProposal
	}
	ctx, span := startSpan(ctx, "treaty.reject", p.Sender, p.Recipient)
	defer func() { endSpan(span, err) }()

	if p.Sender == p.Recipient {
		return ErrInvalidParties
	}
	turn, err := e.resolveTurn(ctx, turnRejected)
	if err != nil {
		return err
	}

	v := &rejectVisitor{declined: map[string]any{}}
	diplomacy.Walk(ctx, p.Clauses, v)

	resp := &diplomacy.Response{Type: diplomacy.ResponseReject, Proposal: p, Turn: turn}
	recordResponse(st, p, resp)
	e.UpdateStatus(ctx, st, p.Sender, p.Recipient, turn)

	payload := map[string]any{"proposal_id": p.ID, "category": string(p.Category)}
	for k, val := range v.declined {
		payload[k] = val
	}
	e.emit(diplomacy.Event{
		Type:      diplomacy.EventProposalRejected,
		Turn:      turn,
		Sender:    p.Sender,
		Recipient: p.Recipient,
		Payload:   payload,
	})
	e.log().Info("proposal_rejected", "proposal_id", p.ID, "sender", int(p.Sender), "recipient", int(p.Recipient), "turn", turn)
	return nil
}

// rejectVisitor only notes what was turned down for the event log.
type rejectVisitor struct {
	diplomacy.BaseVisitor
	declined map[string]any
}

func (v *rejectVisitor) VisitWarPact(_ context.Context, c diplomacy.Clause) {
	if pact, ok := c.Data.(diplomacy.WarPactClauseData); ok {
		v.declined["declined_war_pact_target"] = int(pact.Target)
	}
}

func (v *rejectVisitor) VisitTreatyMembership(context.Context, diplomacy.Clause) {
	v.declined["declined_membership"] = true
}

func (v *rejectVisitor) VisitGiveCreditsRequest(_ context.Context, c diplomacy.Clause) {
	if credits, ok := c.Data.(diplomacy.CreditsClauseData); ok {
		v.declined["declined_credit_demand"] = credits.ImmediateAmount + credits.RecurringAmount
	}
}
