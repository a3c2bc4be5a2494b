package relations

import (
	"context"
	"fmt"

	"botf2/internal/app/ports"
	"botf2/internal/app/shared/statetx"
	"botf2/internal/domain/diplomacy"
)

type UseCase struct {
	Runner   statetx.Runner
	Universe ports.Universe
	Clock    ports.TurnClock
}

// Execute lists how civ stands with every other known civilization.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if _, err := u.Universe.Civilization(ctx, req.Civ); err != nil {
		return Response{}, err
	}
	civs, err := u.Universe.Civilizations(ctx)
	if err != nil {
		return Response{}, err
	}
	turn, err := u.Clock.CurrentTurn(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("read current turn: %w", err)
	}
	names := make(map[diplomacy.CivID]string, len(civs))
	ids := make([]diplomacy.CivID, 0, len(civs))
	for _, c := range civs {
		names[c.ID] = c.Name
		ids = append(ids, c.ID)
	}

	out := Response{Civ: req.Civ, Turn: turn, Relations: []Relation{}, Pending: []*diplomacy.Proposal{}}
	err = u.Runner.View(ctx, func(_ context.Context, st *diplomacy.State) error {
		d := st.Diplomat(req.Civ)
		d.EnsureForeignPowers(ids)
		for _, fp := range d.ForeignPowers() {
			if req.Counterparty != nil && fp.CounterpartyID != *req.Counterparty {
				continue
			}
			responseSent := diplomacy.ResponseNone
			if fp.ResponseSent != nil {
				responseSent = fp.ResponseSent.Type
			}
			out.Relations = append(out.Relations, Relation{
				Counterparty:      fp.CounterpartyID,
				Name:              names[fp.CounterpartyID],
				Status:            fp.Status,
				Base:              fp.Base,
				ContactTurn:       fp.ContactTurn,
				LastStatusChange:  fp.LastStatusChange,
				DiplomatAvailable: fp.IsDiplomatAvailable(turn),
				EmbargoInPlace:    fp.IsEmbargoInPlace,
				TradeEstablished:  st.IsTradeEstablished(req.Civ, fp.CounterpartyID),
				TravelAllowed:     st.IsTravelAllowed(req.Civ, fp.CounterpartyID),
				PendingAction:     fp.PendingAction,
				ResponseSent:      responseSent,
				Agreements:        summarize(st.Matrix.ForPair(req.Civ, fp.CounterpartyID)),
			})
		}
		for _, p := range st.PendingProposals() {
			if p.Involves(req.Civ) {
				out.Pending = append(out.Pending, p)
			}
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}

func summarize(agreements []*diplomacy.Agreement) []AgreementSummary {
	out := make([]AgreementSummary, 0, len(agreements))
	for _, a := range agreements {
		kinds := make([]diplomacy.ClauseKind, 0, len(a.Proposal.Clauses))
		for _, c := range a.Proposal.Clauses {
			kinds = append(kinds, c.Kind)
		}
		out = append(out, AgreementSummary{
			ID:        a.ID,
			Category:  a.Proposal.Category,
			StartTurn: a.StartTurn,
			EndTurn:   a.EndTurn,
			Clauses:   kinds,
		})
	}
	return out
}
