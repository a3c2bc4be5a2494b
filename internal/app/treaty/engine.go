package treaty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("botf2/treaty")

var (
	ErrNilState           = errors.New("diplomacy state is nil")
	ErrNilProposal        = errors.New("proposal is nil")
	ErrNilAgreement       = errors.New("agreement is nil")
	ErrInvalidParties     = errors.New("invalid proposal parties")
	ErrAgreementNotActive = errors.New("agreement is not active")
	ErrAlreadyFulfilled   = errors.New("agreement already fulfilled this turn")
	ErrAtWar              = errors.New("parties are at war; only a treaty can be agreed")
)

// EventSink receives the domain events produced while resolving diplomacy.
type EventSink interface {
	Emit(evt diplomacy.Event)
}

// Collector is an EventSink that keeps events in memory.
type Collector struct {
	Events []diplomacy.Event
}

func (c *Collector) Emit(evt diplomacy.Event) {
	c.Events = append(c.Events, evt)
}

// Engine resolves proposals and agreements against a DiplomacyState. It holds
// no locks; callers serialize access to the state.
type Engine struct {
	Universe ports.Universe
	Treasury ports.Treasury
	Clock    ports.TurnClock
	Logger   *slog.Logger
	Events   EventSink
	Now      func() time.Time
}

// WithEvents returns a copy of the engine that emits into sink.
func (e Engine) WithEvents(sink EventSink) Engine {
	e.Events = sink
	return e
}

func (e Engine) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) emit(evt diplomacy.Event) {
	if e.Events == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = e.now()
	}
	e.Events.Emit(evt)
}

func (e Engine) resolveTurn(ctx context.Context, turn int) (int, error) {
	if turn > 0 {
		return turn, nil
	}
	if e.Clock == nil {
		return 0, errors.New("turn clock not configured")
	}
	current, err := e.Clock.CurrentTurn(ctx)
	if err != nil {
		return 0, fmt.Errorf("read current turn: %w", err)
	}
	return current, nil
}

func startSpan(ctx context.Context, name string, a, b diplomacy.CivID) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("botf2.civ.a", int(a)),
		attribute.Int("botf2.civ.b", int(b)),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
