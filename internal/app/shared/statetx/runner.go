package statetx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"botf2/internal/app/ports"
	"botf2/internal/app/treaty"
	"botf2/internal/domain/diplomacy"
)

// MutateFunc changes st and reports every domain event through sink.
type MutateFunc func(ctx context.Context, st *diplomacy.State, sink treaty.EventSink) error

// Runner loads the diplomacy state, applies a mutation and persists the state
// and its events in one transaction. Published events go out after commit.
type Runner struct {
	TxManager ports.TxManager
	StateRepo ports.DiplomacyStateRepository
	EventRepo ports.EventRepository
	Publisher ports.EventPublisher
	Metrics   ports.DiplomacyMetrics
	Logger    *slog.Logger
}

func (r Runner) Mutate(ctx context.Context, fn MutateFunc) ([]diplomacy.Event, error) {
	if r.TxManager == nil || r.StateRepo == nil || r.EventRepo == nil {
		return nil, errors.New("state runner is not configured")
	}
	var events []diplomacy.Event
	err := r.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		st, err := r.StateRepo.Load(txCtx)
		if err != nil {
			return fmt.Errorf("load diplomacy state: %w", err)
		}
		expected := st.Version
		sink := &treaty.Collector{}
		if err := fn(txCtx, st, sink); err != nil {
			return err
		}
		st.Version = expected + 1
		if err := r.StateRepo.SaveWithVersion(txCtx, st, expected); err != nil {
			return err
		}
		if len(sink.Events) > 0 {
			if err := r.EventRepo.Append(txCtx, sink.Events); err != nil {
				return fmt.Errorf("append events: %w", err)
			}
		}
		events = sink.Events
		return nil
	})
	if err != nil {
		if r.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				r.Metrics.RecordConflict()
			} else {
				r.Metrics.RecordFailure()
			}
		}
		return nil, err
	}
	r.publish(ctx, events)
	return events, nil
}

// View loads the state inside a transaction and discards any change fn makes.
func (r Runner) View(ctx context.Context, fn func(ctx context.Context, st *diplomacy.State) error) error {
	if r.TxManager == nil || r.StateRepo == nil {
		return errors.New("state runner is not configured")
	}
	return r.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		st, err := r.StateRepo.Load(txCtx)
		if err != nil {
			return fmt.Errorf("load diplomacy state: %w", err)
		}
		return fn(txCtx, st)
	})
}

func (r Runner) publish(ctx context.Context, events []diplomacy.Event) {
	if r.Publisher == nil || len(events) == 0 {
		return
	}
	if err := r.Publisher.Publish(ctx, events); err != nil {
		r.log().Warn("event_publish_failed", "events", len(events), "error", err)
	}
}

func (r Runner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
