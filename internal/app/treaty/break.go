package treaty

import (
	"context"
	"fmt"

	"botf2/internal/domain/diplomacy"
)

// Break terminates an active agreement, reversing what can be reversed.
func (e Engine) Break(ctx context.Context, st *diplomacy.State, a *diplomacy.Agreement) (err error) {
	if st == nil {
		return ErrNilState
	}
	if a == nil || a.Proposal == nil {
		return ErrNilAgreement
	}
	ctx, span := startSpan(ctx, "treaty.break", a.Sender(), a.Recipient())
	defer func() { endSpan(span, err) }()

	if st.Matrix.FindByID(a.ID) == nil {
		return fmt.Errorf("%w: %s", ErrAgreementNotActive, a.ID)
	}
	turn, err := e.resolveTurn(ctx, 0)
	if err != nil {
		return err
	}
	e.breakAgreement(ctx, st, a, turn, "broken")
	e.UpdateStatus(ctx, st, a.Sender(), a.Recipient(), turn)
	return nil
}

func (e Engine) breakAgreement(ctx context.Context, st *diplomacy.State, a *diplomacy.Agreement, turn int, reason string) {
	v := &breakVisitor{engine: e, agreement: a, turn: turn}
	diplomacy.Walk(ctx, a.Proposal.Clauses, v)
	st.Matrix.Remove(a)

	e.emit(diplomacy.Event{
		Type:        diplomacy.EventAgreementBroken,
		Turn:        turn,
		Sender:      a.Sender(),
		Recipient:   a.Recipient(),
		AgreementID: a.ID,
		Payload:     map[string]any{"reason": reason, "reverted_colonies": len(v.reverted)},
	})
	e.log().Info("agreement_broken", "agreement_id", a.ID, "reason", reason, "turn", turn)
}

// breakAll breaks every agreement between a and b.
func (e Engine) breakAll(ctx context.Context, st *diplomacy.State, a, b diplomacy.CivID, turn int, reason string) {
	for _, agreement := range st.Matrix.ForPair(a, b) {
		e.breakAgreement(ctx, st, agreement, turn, reason)
	}
}

type breakVisitor struct {
	diplomacy.BaseVisitor
	engine    Engine
	agreement *diplomacy.Agreement
	turn      int
	reverted  []diplomacy.ColonyID
}

// VisitTreatyMembership hands back only colonies that have not changed hands
// since the membership started.
func (v *breakVisitor) VisitTreatyMembership(ctx context.Context, _ diplomacy.Clause) {
	log := v.engine.log()
	if v.engine.Universe == nil {
		return
	}
	empire, ok := v.agreement.MembershipEmpire()
	if !ok {
		log.Warn("membership_empire_unknown", "agreement_id", v.agreement.ID)
		return
	}
	member := v.agreement.Proposal.Other(empire)
	for _, id := range v.agreement.TransferredColonies() {
		col, err := v.engine.Universe.Colony(ctx, id)
		if err != nil {
			log.Debug("membership_colony_skipped", "colony_id", int(id), "reason", "lookup_failed", "error", err)
			continue
		}
		if col.Owner != empire || col.LastOwnershipChange != v.agreement.StartTurn {
			log.Debug("membership_colony_skipped", "colony_id", int(id), "reason", "changed_hands",
				"owner", int(col.Owner), "last_ownership_change", col.LastOwnershipChange)
			continue
		}
		if err := v.engine.Universe.TakeOwnership(ctx, id, member, false, v.turn); err != nil {
			log.Warn("membership_revert_failed", "colony_id", int(id), "error", err)
			continue
		}
		v.reverted = append(v.reverted, id)
	}
}
