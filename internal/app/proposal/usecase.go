package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"botf2/internal/app/ports"
	"botf2/internal/app/shared/statetx"
	"botf2/internal/app/treaty"
	"botf2/internal/domain/diplomacy"
)

var (
	ErrInvalidRequest      = errors.New("invalid proposal request")
	ErrDiplomatUnavailable = errors.New("counterparty does not receive envoys")
	ErrNotRecipient        = errors.New("only the recipient can answer a proposal")
	ErrStaleProposal       = errors.New("a newer proposal from the sender replaced this one")
)

type ProposeUseCase struct {
	Runner   statetx.Runner
	Engine   treaty.Engine
	Universe ports.Universe
	Clock    ports.TurnClock
	Now      func() time.Time
}

func (u ProposeUseCase) Execute(ctx context.Context, req ProposeRequest) (ProposeResponse, error) {
	if req.Sender == req.Recipient || len(req.Clauses) == 0 {
		return ProposeResponse{}, ErrInvalidRequest
	}
	for _, civ := range []diplomacy.CivID{req.Sender, req.Recipient} {
		if _, err := u.Universe.Civilization(ctx, civ); err != nil {
			return ProposeResponse{}, err
		}
	}
	turn, err := u.Clock.CurrentTurn(ctx)
	if err != nil {
		return ProposeResponse{}, fmt.Errorf("read current turn: %w", err)
	}

	clauses := make([]diplomacy.Clause, 0, len(req.Clauses))
	for _, c := range req.Clauses {
		checked, err := diplomacy.NewClause(c.Kind, c.Data, c.Duration)
		if err != nil {
			return ProposeResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		clauses = append(clauses, checked)
	}
	p, err := diplomacy.NewProposal(req.Sender, req.Recipient, turn, clauses...)
	if err != nil {
		return ProposeResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	affordable, err := u.Engine.CanAfford(ctx, p)
	if err != nil {
		return ProposeResponse{}, err
	}
	if !affordable {
		return ProposeResponse{}, ports.ErrInsufficientCredits
	}

	_, err = u.Runner.Mutate(ctx, func(ctx context.Context, st *diplomacy.State, sink treaty.EventSink) error {
		engine := u.Engine.WithEvents(sink)
		if !st.ForeignPower(req.Recipient, req.Sender).IsDiplomatAvailable(turn) {
			return ErrDiplomatUnavailable
		}
		if !p.HasTreaty() && treaty.PairAtWar(st, req.Sender, req.Recipient) {
			return treaty.ErrAtWar
		}
		if err := engine.MakeContact(ctx, st, req.Sender, req.Recipient, turn); err != nil {
			return err
		}
		st.AddPending(p)
		st.ForeignPower(req.Sender, req.Recipient).ProposalSent = p
		received := st.ForeignPower(req.Recipient, req.Sender)
		received.ProposalReceived = p
		received.PendingAction = diplomacy.PendingNone

		sink.Emit(diplomacy.Event{
			Type:       diplomacy.EventProposalSent,
			Turn:       turn,
			OccurredAt: u.now(),
			Sender:     p.Sender,
			Recipient:  p.Recipient,
			Payload: map[string]any{
				"proposal_id": p.ID,
				"category":    string(p.Category),
				"clauses":     len(p.Clauses),
			},
		})
		return nil
	})
	if err != nil {
		return ProposeResponse{}, err
	}
	return ProposeResponse{Proposal: p, Turn: turn}, nil
}

func (u ProposeUseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

type RespondUseCase struct {
	Runner  statetx.Runner
	Engine  treaty.Engine
	Metrics ports.DiplomacyMetrics
}

func (u RespondUseCase) Execute(ctx context.Context, req RespondRequest) (RespondResponse, error) {
	if req.ProposalID == "" {
		return RespondResponse{}, ErrInvalidRequest
	}
	var out RespondResponse
	events, err := u.Runner.Mutate(ctx, func(ctx context.Context, st *diplomacy.State, sink treaty.EventSink) error {
		p, ok := st.Pending(req.ProposalID)
		if !ok {
			return fmt.Errorf("%w: %w", ports.ErrNotFound, diplomacy.ErrProposalNotPending)
		}
		if req.Responder != p.Recipient {
			return ErrNotRecipient
		}
		if _, err := st.TakePending(p.ID); err != nil {
			return err
		}
		engine := u.Engine.WithEvents(sink)
		out.Proposal = p
		if req.Accept {
			agreement, err := engine.Accept(ctx, st, p, 0)
			if err != nil {
				return err
			}
			out.Agreement = agreement
			out.Response = diplomacy.ResponseAccept
		} else {
			if err := engine.Reject(ctx, st, p, 0); err != nil {
				return err
			}
			out.Response = diplomacy.ResponseReject
		}
		out.Status = st.ForeignPower(p.Recipient, p.Sender).Status.String()
		return nil
	})
	if err != nil {
		return RespondResponse{}, err
	}
	out.Events = events
	if u.Metrics != nil {
		outcome := ports.OutcomeRejected
		if req.Accept {
			outcome = ports.OutcomeAccepted
		}
		u.Metrics.RecordResolution(outcome, out.Proposal.Category)
	}
	return out, nil
}

// IntentUseCase queues the recipient's answer on its foreign power record.
// The answer is carried out when the turn advances.
type IntentUseCase struct {
	Runner statetx.Runner
	Clock  ports.TurnClock
}

func (u IntentUseCase) Execute(ctx context.Context, req IntentRequest) (IntentResponse, error) {
	if req.ProposalID == "" || !req.Action.IsValid() {
		return IntentResponse{}, ErrInvalidRequest
	}
	turn, err := u.Clock.CurrentTurn(ctx)
	if err != nil {
		return IntentResponse{}, fmt.Errorf("read current turn: %w", err)
	}
	out := IntentResponse{Action: req.Action, Turn: turn}
	_, err = u.Runner.Mutate(ctx, func(_ context.Context, st *diplomacy.State, _ treaty.EventSink) error {
		p, ok := st.Pending(req.ProposalID)
		if !ok {
			return fmt.Errorf("%w: %w", ports.ErrNotFound, diplomacy.ErrProposalNotPending)
		}
		if req.Responder != p.Recipient {
			return ErrNotRecipient
		}
		fp := st.ForeignPower(p.Recipient, p.Sender)
		if fp.ProposalReceived == nil || fp.ProposalReceived.ID != p.ID {
			return ErrStaleProposal
		}
		fp.PendingAction = req.Action
		out.Proposal = p
		return nil
	})
	if err != nil {
		return IntentResponse{}, err
	}
	return out, nil
}
