package treaty

import (
	"context"
	"errors"
	"fmt"

	"botf2/internal/domain/diplomacy"
)

// Fulfill applies the recurring obligations of a for currentTurn. A second
// call for the same turn returns ErrAlreadyFulfilled and transfers nothing.
func (e Engine) Fulfill(ctx context.Context, st *diplomacy.State, a *diplomacy.Agreement, currentTurn int) error {
	_, err := e.fulfill(ctx, st, a, currentTurn)
	return err
}

func (e Engine) fulfill(ctx context.Context, st *diplomacy.State, a *diplomacy.Agreement, currentTurn int) (_ int64, err error) {
	if st == nil {
		return 0, ErrNilState
	}
	if a == nil || a.Proposal == nil {
		return 0, ErrNilAgreement
	}
	ctx, span := startSpan(ctx, "treaty.fulfill", a.Sender(), a.Recipient())
	defer func() { endSpan(span, err) }()

	if a.LastFulfilledTurn == currentTurn {
		return 0, fmt.Errorf("%w: %s turn %d", ErrAlreadyFulfilled, a.ID, currentTurn)
	}
	if currentTurn < a.StartTurn {
		return 0, nil
	}

	v := &fulfillVisitor{engine: e, agreement: a, turn: currentTurn}
	diplomacy.Walk(ctx, a.Proposal.Clauses, v)
	a.LastFulfilledTurn = currentTurn

	if v.credits > 0 {
		e.emit(diplomacy.Event{
			Type:        diplomacy.EventAgreementFulfilled,
			Turn:        currentTurn,
			Sender:      a.Sender(),
			Recipient:   a.Recipient(),
			AgreementID: a.ID,
			Payload:     map[string]any{"credits": v.credits},
		})
	}
	return v.credits, nil
}

type FulfillReport struct {
	Fulfilled        int
	Expired          []*diplomacy.Agreement
	CreditsMoved     int64
	ActiveAgreements int
}

// FulfillAll expires finished agreements and fulfills the rest once.
func (e Engine) FulfillAll(ctx context.Context, st *diplomacy.State, turn int) (FulfillReport, error) {
	if st == nil {
		return FulfillReport{}, ErrNilState
	}
	report := FulfillReport{}
	for _, a := range st.Matrix.All() {
		if a.IsExpired(turn) {
			st.Matrix.Remove(a)
			e.UpdateStatus(ctx, st, a.Sender(), a.Recipient(), turn)
			e.emit(diplomacy.Event{
				Type:        diplomacy.EventAgreementExpired,
				Turn:        turn,
				Sender:      a.Sender(),
				Recipient:   a.Recipient(),
				AgreementID: a.ID,
			})
			report.Expired = append(report.Expired, a)
			continue
		}
		credits, err := e.fulfill(ctx, st, a, turn)
		if err != nil {
			if errors.Is(err, ErrAlreadyFulfilled) {
				continue
			}
			return report, err
		}
		report.CreditsMoved += credits
		report.Fulfilled++
	}
	report.ActiveAgreements = st.Matrix.Len()
	return report, nil
}

type fulfillVisitor struct {
	diplomacy.BaseVisitor
	engine    Engine
	agreement *diplomacy.Agreement
	turn      int
	credits   int64
}

func (v *fulfillVisitor) VisitGiveCreditsOffer(ctx context.Context, c diplomacy.Clause) {
	v.transferCredits(ctx, c, v.agreement.Sender(), v.agreement.Recipient())
}

func (v *fulfillVisitor) VisitGiveCreditsRequest(ctx context.Context, c diplomacy.Clause) {
	v.transferCredits(ctx, c, v.agreement.Recipient(), v.agreement.Sender())
}

func (v *fulfillVisitor) transferCredits(ctx context.Context, c diplomacy.Clause, payer, payee diplomacy.CivID) {
	log := v.engine.log()
	data, ok := c.Data.(diplomacy.CreditsClauseData)
	if !ok {
		log.Warn("credits_payload_missing", "agreement_id", v.agreement.ID, "kind", string(c.Kind))
		return
	}
	amount := data.RecurringAmount
	if v.turn == v.agreement.StartTurn {
		amount += data.ImmediateAmount
	}
	if amount == 0 {
		return
	}
	if v.engine.Treasury == nil {
		log.Warn("treasury_missing", "agreement_id", v.agreement.ID)
		return
	}
	if err := v.engine.Treasury.AdjustCurrent(ctx, payer, -amount); err != nil {
		log.Warn("credits_debit_failed", "agreement_id", v.agreement.ID, "payer", int(payer), "amount", amount, "error", err)
		return
	}
	if err := v.engine.Treasury.AdjustCurrent(ctx, payee, amount); err != nil {
		log.Warn("credits_credit_failed", "agreement_id", v.agreement.ID, "payee", int(payee), "amount", amount, "error", err)
		if rbErr := v.engine.Treasury.AdjustCurrent(ctx, payer, amount); rbErr != nil {
			log.Error("credits_refund_failed", "agreement_id", v.agreement.ID, "payer", int(payer), "error", rbErr)
		}
		return
	}
	v.credits += amount
}
