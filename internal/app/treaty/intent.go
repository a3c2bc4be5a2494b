package treaty

import (
	"context"
	"errors"

	"botf2/internal/domain/diplomacy"
)

// IntentResolution is a queued answer carried out at turn end.
type IntentResolution struct {
	Proposal  *diplomacy.Proposal
	Response  diplomacy.ResponseType
	Agreement *diplomacy.Agreement
}

// ResolveIntents answers the pending proposals whose recipients queued an
// intent on their foreign power record. Only the latest proposal received
// from a sender can carry an intent. The intent is cleared even when the
// answer fails; the proposal then stays pending.
func (e Engine) ResolveIntents(ctx context.Context, st *diplomacy.State, turn int) ([]IntentResolution, error) {
	if st == nil {
		return nil, ErrNilState
	}
	turn, err := e.resolveTurn(ctx, turn)
	if err != nil {
		return nil, err
	}
	var out []IntentResolution
	for _, p := range st.PendingProposals() {
		fp := st.ForeignPower(p.Recipient, p.Sender)
		if fp.PendingAction == diplomacy.PendingNone || fp.ProposalReceived == nil || fp.ProposalReceived.ID != p.ID {
			continue
		}
		action := fp.PendingAction
		fp.PendingAction = diplomacy.PendingNone

		res := IntentResolution{Proposal: p}
		switch action {
		case diplomacy.PendingAcceptProposal:
			a, err := e.Accept(ctx, st, p, turn)
			if errors.Is(err, ErrAtWar) {
				e.log().Warn("intent_accept_refused", "proposal_id", p.ID, "error", err)
				continue
			}
			if err != nil {
				return out, err
			}
			res.Response, res.Agreement = diplomacy.ResponseAccept, a
		case diplomacy.PendingRejectProposal:
			if err := e.Reject(ctx, st, p, turn); err != nil {
				return out, err
			}
			res.Response = diplomacy.ResponseReject
		default:
			e.log().Warn("intent_unknown", "proposal_id", p.ID, "action", string(action))
			continue
		}
		if _, err := st.TakePending(p.ID); err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}
