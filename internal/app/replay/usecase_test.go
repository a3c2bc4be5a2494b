package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

func TestUseCase_ReconstructsLatestStatusFromEvents(t *testing.T) {
	repo := &fakeRepo{events: []diplomacy.Event{
		{Type: diplomacy.EventStatusChanged, Turn: 1, OccurredAt: time.Unix(1, 0), Sender: 1, Recipient: 2, Payload: map[string]any{"from": "no_contact", "to": "neutral"}},
		{Type: diplomacy.EventProposalAccepted, Turn: 2, OccurredAt: time.Unix(2, 0), Sender: 2, Recipient: 1},
		{Type: diplomacy.EventStatusChanged, Turn: 2, OccurredAt: time.Unix(2, 0), Sender: 1, Recipient: 2, Payload: map[string]any{"from": "neutral", "to": "friendly"}},
		{Type: diplomacy.EventStatusChanged, Turn: 2, OccurredAt: time.Unix(2, 0), Sender: 2, Recipient: 1, Payload: map[string]any{"from": "neutral", "to": "friendly"}},
		{Type: diplomacy.EventStatusChanged, Turn: 3, OccurredAt: time.Unix(3, 0), Sender: 1, Recipient: 3, Payload: map[string]any{"from": "neutral", "to": "at_war"}},
	}}

	uc := UseCase{Events: repo}
	out, err := uc.Execute(context.Background(), Request{Civ: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(out.Events))
	}
	if out.LatestStatus[2] != "friendly" || out.LatestStatus[3] != "at_war" {
		t.Fatalf("unexpected latest status: %v", out.LatestStatus)
	}
	if len(repo.lastFilter.Civs) != 1 || repo.lastFilter.Civs[0] != 1 || repo.lastFilter.Limit != 10 {
		t.Fatalf("unexpected filter: %+v", repo.lastFilter)
	}
}

func TestUseCase_FiltersByOccurredWindow(t *testing.T) {
	repo := &fakeRepo{events: []diplomacy.Event{
		{Type: diplomacy.EventWarDeclared, OccurredAt: time.Unix(10, 0), Sender: 1, Recipient: 2},
		{Type: diplomacy.EventWarDeclared, OccurredAt: time.Unix(20, 0), Sender: 1, Recipient: 3},
		{Type: diplomacy.EventWarDeclared, OccurredAt: time.Unix(30, 0), Sender: 1, Recipient: 4},
	}}
	out, err := UseCase{Events: repo}.Execute(context.Background(), Request{Civ: 1, OccurredFrom: 15, OccurredTo: 25})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Events) != 1 || out.Events[0].Recipient != 3 {
		t.Fatalf("expected only the event at 20, got %+v", out.Events)
	}
}

func TestUseCase_PropagatesRepoError(t *testing.T) {
	wantErr := errors.New("event store down")
	_, err := UseCase{Events: &fakeRepo{err: wantErr}}.Execute(context.Background(), Request{Civ: 1})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

type fakeRepo struct {
	events     []diplomacy.Event
	err        error
	lastFilter ports.EventFilter
}

func (r *fakeRepo) Append(_ context.Context, _ []diplomacy.Event) error {
	return nil
}

func (r *fakeRepo) List(_ context.Context, filter ports.EventFilter) ([]diplomacy.Event, error) {
	r.lastFilter = filter
	return r.events, r.err
}
