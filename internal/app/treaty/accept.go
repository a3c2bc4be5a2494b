package treaty

import (
	"context"

	"botf2/internal/domain/diplomacy"
)

// Accept puts every clause of p into force, registers the resulting
// agreement and answers the sender. turnAccepted of 0 means the current turn.
func (e Engine) Accept(ctx context.Context, st *diplomacy.State, p *diplomacy.Proposal, turnAccepted int) (_ *diplomacy.Agreement, err error) {
	if st == nil {
		return nil, ErrNilState
	}
	if p == nil {
		return nil, ErrNilProposal
	}
	ctx, span := startSpan(ctx, "treaty.accept", p.Sender, p.Recipient)
	defer func() { endSpan(span, err) }()

	if p.Sender == p.Recipient {
		return nil, ErrInvalidParties
	}
	if !p.HasTreaty() && PairAtWar(st, p.Sender, p.Recipient) {
		return nil, ErrAtWar
	}
	turn, err := e.resolveTurn(ctx, turnAccepted)
	if err != nil {
		return nil, err
	}

	e.makeContact(st, p.Sender, p.Recipient, turn)

	v := &acceptVisitor{engine: e, state: st, proposal: p, turn: turn, data: diplomacy.AgreementData{}}
	diplomacy.Walk(ctx, p.Clauses, v)

	if p.HasTreaty() {
		e.restorePeace(st, p.Sender, p.Recipient)
		e.supersede(st, p, turn)
	}

	agreement := diplomacy.NewAgreement(p, turn, v.data)
	if err := st.Matrix.Add(agreement); err != nil {
		return nil, err
	}

	resp := &diplomacy.Response{Type: diplomacy.ResponseAccept, Proposal: p, Turn: turn}
	recordResponse(st, p, resp)
	e.UpdateStatus(ctx, st, p.Sender, p.Recipient, turn)

	e.emit(diplomacy.Event{
		Type:        diplomacy.EventProposalAccepted,
		Turn:        turn,
		Sender:      p.Sender,
		Recipient:   p.Recipient,
		AgreementID: agreement.ID,
		Payload: map[string]any{
			"proposal_id": p.ID,
			"category":    string(p.Category),
			"clauses":     len(p.Clauses),
		},
	})
	e.log().Info("proposal_accepted",
		"proposal_id", p.ID, "agreement_id", agreement.ID,
		"sender", int(p.Sender), "recipient", int(p.Recipient), "turn", turn)
	return agreement, nil
}

// The response is stored on the recipient's record for the sender and
// mirrored on the sender's record for the recipient.
func recordResponse(st *diplomacy.State, p *diplomacy.Proposal, resp *diplomacy.Response) {
	recipientSide := st.ForeignPower(p.Recipient, p.Sender)
	recipientSide.ResponseSent = resp
	recipientSide.PendingAction = diplomacy.PendingNone
	senderSide := st.ForeignPower(p.Sender, p.Recipient)
	senderSide.ResponseReceived = resp
}

// PairAtWar reports whether either side keeps a war base against the other.
func PairAtWar(st *diplomacy.State, a, b diplomacy.CivID) bool {
	return st.ForeignPower(a, b).Base == diplomacy.StatusAtWar ||
		st.ForeignPower(b, a).Base == diplomacy.StatusAtWar
}

func (e Engine) restorePeace(st *diplomacy.State, a, b diplomacy.CivID) {
	for _, fp := range []*diplomacy.ForeignPower{st.ForeignPower(a, b), st.ForeignPower(b, a)} {
		if fp.Base == diplomacy.StatusNeutral {
			continue
		}
		if err := fp.SetBase(diplomacy.StatusNeutral); err != nil {
			e.log().Warn("peace_restore_failed", "owner", int(fp.OwnerID), "counterparty", int(fp.CounterpartyID), "error", err)
		}
	}
}

// supersede drops older agreements of the pair that carry a treaty kind the
// new proposal also carries. No reversal is applied.
func (e Engine) supersede(st *diplomacy.State, p *diplomacy.Proposal, turn int) {
	removed := st.Matrix.RemoveWhere(p.Sender, p.Recipient, func(a *diplomacy.Agreement) bool {
		for _, c := range p.Clauses {
			if c.Kind.IsTreaty() && a.HasClause(c.Kind) {
				return true
			}
		}
		return false
	})
	for _, a := range removed {
		e.emit(diplomacy.Event{
			Type:        diplomacy.EventAgreementBroken,
			Turn:        turn,
			Sender:      a.Sender(),
			Recipient:   a.Recipient(),
			AgreementID: a.ID,
			Payload:     map[string]any{"reason": "superseded", "superseded_by": p.ID},
		})
	}
}

type acceptVisitor struct {
	diplomacy.BaseVisitor
	engine   Engine
	state    *diplomacy.State
	proposal *diplomacy.Proposal
	turn     int
	data     diplomacy.AgreementData
}

func (v *acceptVisitor) VisitWarPact(ctx context.Context, c diplomacy.Clause) {
	log := v.engine.log()
	pact, ok := c.Data.(diplomacy.WarPactClauseData)
	if !ok {
		log.Warn("war_pact_target_missing", "proposal_id", v.proposal.ID)
		return
	}
	target := pact.Target
	if target == v.proposal.Sender || target == v.proposal.Recipient {
		log.Warn("war_pact_target_invalid", "proposal_id", v.proposal.ID, "target", int(target))
		return
	}
	if v.engine.Universe != nil {
		if _, err := v.engine.Universe.Civilization(ctx, target); err != nil {
			log.Warn("war_pact_target_unresolved", "proposal_id", v.proposal.ID, "target", int(target), "error", err)
			return
		}
	}
	for _, civ := range []diplomacy.CivID{v.proposal.Sender, v.proposal.Recipient} {
		if err := v.engine.declareWar(ctx, v.state, civ, target, v.turn); err != nil {
			log.Warn("war_pact_declaration_failed", "civ", int(civ), "target", int(target), "error", err)
		}
	}
}

func (v *acceptVisitor) VisitEndEmbargoOffer(context.Context, diplomacy.Clause) {
	v.liftEmbargo(v.proposal.Sender, v.proposal.Recipient)
}

func (v *acceptVisitor) VisitEndEmbargoRequest(context.Context, diplomacy.Clause) {
	v.liftEmbargo(v.proposal.Recipient, v.proposal.Sender)
}

// A trade pact ends the embargoes of both sides.
func (v *acceptVisitor) VisitTreatyTradePact(context.Context, diplomacy.Clause) {
	v.liftEmbargo(v.proposal.Sender, v.proposal.Recipient)
	v.liftEmbargo(v.proposal.Recipient, v.proposal.Sender)
}

func (v *acceptVisitor) liftEmbargo(owner, counterparty diplomacy.CivID) {
	fp := v.state.ForeignPower(owner, counterparty)
	if !fp.IsEmbargoInPlace {
		return
	}
	fp.EndEmbargo()
	v.engine.log().Info("embargo_lifted", "owner", int(owner), "counterparty", int(counterparty), "proposal_id", v.proposal.ID)
}

func (v *acceptVisitor) VisitTreatyNonAggression(ctx context.Context, _ diplomacy.Clause) {
	v.moveTrappedFleets(ctx, v.proposal.Sender, v.proposal.Recipient)
	v.moveTrappedFleets(ctx, v.proposal.Recipient, v.proposal.Sender)
}

// moveTrappedFleets sends owner's fleets out of territory held by other.
func (v *acceptVisitor) moveTrappedFleets(ctx context.Context, owner, other diplomacy.CivID) {
	log := v.engine.log()
	if v.engine.Universe == nil {
		return
	}
	fleets, err := v.engine.Universe.FleetsOwnedBy(ctx, owner)
	if err != nil {
		log.Warn("fleet_scan_failed", "owner", int(owner), "error", err)
		return
	}
	for _, f := range fleets {
		sectorOwner, claimed, err := v.engine.Universe.SectorOwner(ctx, f.Location)
		if err != nil {
			log.Warn("sector_owner_lookup_failed", "fleet_id", int(f.ID), "error", err)
			continue
		}
		if !claimed || sectorOwner != other {
			continue
		}
		colony, found, err := v.engine.Universe.NearestOwnedColony(ctx, owner, f.Location)
		if err != nil || !found {
			log.Warn("fleet_has_no_retreat", "fleet_id", int(f.ID), "owner", int(owner), "error", err)
			continue
		}
		if err := v.engine.Universe.RelocateFleet(ctx, f.ID, colony.Location); err != nil {
			log.Warn("fleet_relocation_failed", "fleet_id", int(f.ID), "error", err)
			continue
		}
		log.Debug("fleet_relocated", "fleet_id", int(f.ID), "owner", int(owner), "colony_id", int(colony.ID))
	}
}

func (v *acceptVisitor) VisitTreatyMembership(ctx context.Context, _ diplomacy.Clause) {
	log := v.engine.log()
	if v.engine.Universe == nil {
		log.Warn("membership_universe_missing", "proposal_id", v.proposal.ID)
		return
	}
	empire, member, err := v.engine.membershipParties(ctx, v.proposal)
	if err != nil {
		log.Warn("membership_parties_unresolved", "proposal_id", v.proposal.ID, "error", err)
		return
	}
	colonies, err := v.engine.Universe.ColoniesOwnedBy(ctx, member)
	if err != nil {
		log.Warn("membership_colony_scan_failed", "member", int(member), "error", err)
		return
	}
	transferred := make([]diplomacy.ColonyID, 0, len(colonies))
	for _, col := range colonies {
		if err := v.engine.Universe.TakeOwnership(ctx, col.ID, empire, false, v.turn); err != nil {
			log.Warn("membership_transfer_failed", "colony_id", int(col.ID), "error", err)
			continue
		}
		transferred = append(transferred, col.ID)
	}
	v.data.Set(diplomacy.DataKeyTransferredColonies, transferred)
	v.data.Set(diplomacy.DataKeyMembershipEmpire, empire)
}
