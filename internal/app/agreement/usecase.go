package agreement

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
	ErrInvalidRequest = errors.New("invalid agreement request")
	ErrNotParty       = errors.New("requester is not a party of the agreement")
)

type BreakUseCase struct {
	Runner  statetx.Runner
	Engine  treaty.Engine
	Clock   ports.TurnClock
	Metrics ports.DiplomacyMetrics
}

func (u BreakUseCase) Execute(ctx context.Context, req BreakRequest) (BreakResponse, error) {
	if req.AgreementID == "" {
		return BreakResponse{}, ErrInvalidRequest
	}
	turn, err := u.Clock.CurrentTurn(ctx)
	if err != nil {
		return BreakResponse{}, fmt.Errorf("read current turn: %w", err)
	}
	var broken *diplomacy.Agreement
	events, err := u.Runner.Mutate(ctx, func(ctx context.Context, st *diplomacy.State, sink treaty.EventSink) error {
		a := st.Matrix.FindByID(req.AgreementID)
		if a == nil {
			return fmt.Errorf("agreement %s: %w", req.AgreementID, ports.ErrNotFound)
		}
		if !a.Proposal.Involves(req.RequestedBy) {
			return ErrNotParty
		}
		broken = a
		return u.Engine.WithEvents(sink).Break(ctx, st, a)
	})
	if err != nil {
		return BreakResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordResolution(ports.OutcomeBroken, broken.Proposal.Category)
	}
	return BreakResponse{Agreement: broken, Turn: turn, Events: events}, nil
}

// AdvanceTurnUseCase closes the current turn: queued answers are carried out,
// finished agreements expire, the rest are fulfilled once, a snapshot is
// stored and the clock moves on.
type AdvanceTurnUseCase struct {
	Runner    statetx.Runner
	Engine    treaty.Engine
	Clock     ports.TurnClock
	Snapshots ports.SnapshotStore
	Metrics   ports.DiplomacyMetrics
	Now       func() time.Time
}

func (u AdvanceTurnUseCase) Execute(ctx context.Context, _ AdvanceTurnRequest) (AdvanceTurnResponse, error) {
	started := u.now()
	var out AdvanceTurnResponse
	var expired []*diplomacy.Agreement
	var answered []treaty.IntentResolution
	_, err := u.Runner.Mutate(ctx, func(ctx context.Context, st *diplomacy.State, sink treaty.EventSink) error {
		turn, err := u.Clock.CurrentTurn(ctx)
		if err != nil {
			return fmt.Errorf("read current turn: %w", err)
		}
		engine := u.Engine.WithEvents(sink)
		answered, err = engine.ResolveIntents(ctx, st, turn)
		if err != nil {
			return fmt.Errorf("resolve intents: %w", err)
		}
		report, err := engine.FulfillAll(ctx, st, turn)
		if err != nil {
			return err
		}
		if u.Snapshots != nil {
			snap := st.Snapshot()
			snap.Version = st.Version + 1
			if err := u.Snapshots.SaveSnapshot(ctx, turn, snap); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
		}
		next, err := u.Clock.Advance(ctx)
		if err != nil {
			return fmt.Errorf("advance turn: %w", err)
		}
		expired = report.Expired
		out = AdvanceTurnResponse{
			Turn:             turn,
			NextTurn:         next,
			Resolved:         make([]ResolvedIntent, 0, len(answered)),
			Fulfilled:        report.Fulfilled,
			Expired:          make([]string, 0, len(report.Expired)),
			CreditsMoved:     report.CreditsMoved,
			ActiveAgreements: report.ActiveAgreements,
		}
		for _, a := range report.Expired {
			out.Expired = append(out.Expired, a.ID)
		}
		for _, r := range answered {
			resolved := ResolvedIntent{ProposalID: r.Proposal.ID, Response: r.Response}
			if r.Agreement != nil {
				resolved.AgreementID = r.Agreement.ID
			}
			out.Resolved = append(out.Resolved, resolved)
		}
		return nil
	})
	if err != nil {
		return AdvanceTurnResponse{}, err
	}
	if u.Metrics != nil {
		for _, r := range answered {
			outcome := ports.OutcomeRejected
			if r.Response == diplomacy.ResponseAccept {
				outcome = ports.OutcomeAccepted
			}
			u.Metrics.RecordResolution(outcome, r.Proposal.Category)
		}
		for _, a := range expired {
			u.Metrics.RecordResolution(ports.OutcomeExpired, a.Proposal.Category)
		}
		u.Metrics.RecordCreditsTransferred(out.CreditsMoved)
		u.Metrics.RecordTurn(out.ActiveAgreements, u.now().Sub(started).Seconds())
	}
	return out, nil
}

func (u AdvanceTurnUseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

type DeclareWarUseCase struct {
	Runner   statetx.Runner
	Engine   treaty.Engine
	Universe ports.Universe
	Clock    ports.TurnClock
}

func (u DeclareWarUseCase) Execute(ctx context.Context, req DeclareWarRequest) (DeclareWarResponse, error) {
	if req.Declarer == req.Target {
		return DeclareWarResponse{}, ErrInvalidRequest
	}
	for _, civ := range []diplomacy.CivID{req.Declarer, req.Target} {
		if _, err := u.Universe.Civilization(ctx, civ); err != nil {
			return DeclareWarResponse{}, err
		}
	}
	turn, err := u.Clock.CurrentTurn(ctx)
	if err != nil {
		return DeclareWarResponse{}, fmt.Errorf("read current turn: %w", err)
	}
	out := DeclareWarResponse{Turn: turn}
	events, err := u.Runner.Mutate(ctx, func(ctx context.Context, st *diplomacy.State, sink treaty.EventSink) error {
		if err := u.Engine.WithEvents(sink).DeclareWar(ctx, st, req.Declarer, req.Target, turn); err != nil {
			return err
		}
		out.Status = st.ForeignPower(req.Declarer, req.Target).Status
		return nil
	})
	if err != nil {
		return DeclareWarResponse{}, err
	}
	out.Events = events
	return out, nil
}
