package treaty

import (
	"context"
	"errors"
	"fmt"

	"botf2/internal/domain/diplomacy"
)

var ErrNoEmpire = errors.New("membership needs an empire party")

// UpdateStatus recomputes the displayed status in both directions of the
// pair from the active agreements and the raw war/peace axis.
func (e Engine) UpdateStatus(ctx context.Context, st *diplomacy.State, a, b diplomacy.CivID, turn int) {
	if st == nil || a == b {
		return
	}
	treaties, membership := st.Matrix.ActiveTreaties(a, b)
	empire := diplomacy.NoCiv
	if membership != nil {
		if civ, ok := membership.MembershipEmpire(); ok {
			empire = civ
		}
	}
	for _, fp := range []*diplomacy.ForeignPower{st.ForeignPower(a, b), st.ForeignPower(b, a)} {
		before := fp.Status
		status := diplomacy.ResolveStatus(diplomacy.StatusInput{
			Owner:        fp.OwnerID,
			Counterparty: fp.CounterpartyID,
			ContactMade:  fp.IsContactMade(),
			Base:         fp.Base,
			Treaties:     treaties,
			Empire:       empire,
		})
		if !fp.SetStatus(status, turn) {
			continue
		}
		e.emit(diplomacy.Event{
			Type:      diplomacy.EventStatusChanged,
			Turn:      turn,
			Sender:    fp.OwnerID,
			Recipient: fp.CounterpartyID,
			Payload:   map[string]any{"from": before.String(), "to": status.String()},
		})
		e.log().Debug("status_changed", "owner", int(fp.OwnerID), "counterparty", int(fp.CounterpartyID),
			"from", before.String(), "to", status.String(), "turn", turn)
	}
}

// MakeContact records first contact for both sides of the pair.
func (e Engine) MakeContact(ctx context.Context, st *diplomacy.State, a, b diplomacy.CivID, turn int) error {
	if st == nil {
		return ErrNilState
	}
	if a == b {
		return ErrInvalidParties
	}
	turn, err := e.resolveTurn(ctx, turn)
	if err != nil {
		return err
	}
	if e.makeContact(st, a, b, turn) {
		e.UpdateStatus(ctx, st, a, b, turn)
	}
	return nil
}

func (e Engine) makeContact(st *diplomacy.State, a, b diplomacy.CivID, turn int) bool {
	changed := false
	for _, fp := range []*diplomacy.ForeignPower{st.ForeignPower(a, b), st.ForeignPower(b, a)} {
		if fp.IsContactMade() {
			continue
		}
		fp.ContactTurn = turn
		changed = true
	}
	return changed
}

// DeclareWar puts declarer and target at war. Every agreement between them is
// broken first so no treaty survives alongside the war.
func (e Engine) DeclareWar(ctx context.Context, st *diplomacy.State, declarer, target diplomacy.CivID, turn int) (err error) {
	if st == nil {
		return ErrNilState
	}
	ctx, span := startSpan(ctx, "treaty.declare_war", declarer, target)
	defer func() { endSpan(span, err) }()
	if declarer == target {
		return ErrInvalidParties
	}
	turn, err = e.resolveTurn(ctx, turn)
	if err != nil {
		return err
	}
	return e.declareWar(ctx, st, declarer, target, turn)
}

func (e Engine) declareWar(ctx context.Context, st *diplomacy.State, declarer, target diplomacy.CivID, turn int) error {
	fp := st.ForeignPower(declarer, target)
	if fp.Status == diplomacy.StatusAtWar {
		return nil
	}
	if fp.Status.IsMembership() {
		e.log().Warn("war_blocked_by_membership", "declarer", int(declarer), "target", int(target))
		return nil
	}
	e.makeContact(st, declarer, target, turn)
	e.breakAll(ctx, st, declarer, target, turn, "war_declared")
	for _, side := range []*diplomacy.ForeignPower{fp, st.ForeignPower(target, declarer)} {
		if err := side.SetBase(diplomacy.StatusAtWar); err != nil {
			return err
		}
		side.BeginEmbargo()
	}
	e.UpdateStatus(ctx, st, declarer, target, turn)
	e.emit(diplomacy.Event{Type: diplomacy.EventWarDeclared, Turn: turn, Sender: declarer, Recipient: target})
	e.log().Info("war_declared", "declarer", int(declarer), "target", int(target), "turn", turn)
	return nil
}

// ViolateNonAggression breaks the pair's agreements and leaves both sides
// hostile.
func (e Engine) ViolateNonAggression(ctx context.Context, st *diplomacy.State, violator, victim diplomacy.CivID, turn int) error {
	return e.dissolve(ctx, st, violator, victim, turn, diplomacy.StatusHostile, "non_aggression_violated")
}

// CancelTreaty breaks the pair's agreements and returns both sides to neutral.
func (e Engine) CancelTreaty(ctx context.Context, st *diplomacy.State, a, b diplomacy.CivID, turn int) error {
	return e.dissolve(ctx, st, a, b, turn, diplomacy.StatusNeutral, "treaty_cancelled")
}

func (e Engine) dissolve(ctx context.Context, st *diplomacy.State, a, b diplomacy.CivID, turn int, base diplomacy.ForeignPowerStatus, reason string) error {
	if st == nil {
		return ErrNilState
	}
	if a == b {
		return ErrInvalidParties
	}
	turn, err := e.resolveTurn(ctx, turn)
	if err != nil {
		return err
	}
	e.breakAll(ctx, st, a, b, turn, reason)
	for _, fp := range []*diplomacy.ForeignPower{st.ForeignPower(a, b), st.ForeignPower(b, a)} {
		if fp.Base == diplomacy.StatusAtWar {
			continue
		}
		if err := fp.SetBase(base); err != nil {
			return err
		}
	}
	e.UpdateStatus(ctx, st, a, b, turn)
	return nil
}

func (e Engine) membershipParties(ctx context.Context, p *diplomacy.Proposal) (empire, member diplomacy.CivID, err error) {
	sender, err := e.Universe.Civilization(ctx, p.Sender)
	if err != nil {
		return diplomacy.NoCiv, diplomacy.NoCiv, fmt.Errorf("load sender: %w", err)
	}
	if sender.IsEmpire {
		return p.Sender, p.Recipient, nil
	}
	recipient, err := e.Universe.Civilization(ctx, p.Recipient)
	if err != nil {
		return diplomacy.NoCiv, diplomacy.NoCiv, fmt.Errorf("load recipient: %w", err)
	}
	if !recipient.IsEmpire {
		return diplomacy.NoCiv, diplomacy.NoCiv, ErrNoEmpire
	}
	return p.Recipient, p.Sender, nil
}

// CanAfford reports whether each paying side holds the credits for the first
// payment of every credit clause.
func (e Engine) CanAfford(ctx context.Context, p *diplomacy.Proposal) (bool, error) {
	if p == nil {
		return false, ErrNilProposal
	}
	owed := map[diplomacy.CivID]int64{}
	for _, c := range p.Clauses {
		data, ok := c.Data.(diplomacy.CreditsClauseData)
		if !ok {
			continue
		}
		first := data.ImmediateAmount + data.RecurringAmount
		switch c.Kind {
		case diplomacy.ClauseGiveCreditsOffer:
			owed[p.Sender] += first
		case diplomacy.ClauseGiveCreditsRequest:
			owed[p.Recipient] += first
		}
	}
	if len(owed) == 0 {
		return true, nil
	}
	if e.Treasury == nil {
		return false, errors.New("treasury not configured")
	}
	for civ, amount := range owed {
		have, err := e.Treasury.Credits(ctx, civ)
		if err != nil {
			return false, fmt.Errorf("read credits of %d: %w", civ, err)
		}
		if have < amount {
			return false, nil
		}
	}
	return true, nil
}
