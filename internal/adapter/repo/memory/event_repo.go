package memory

import (
	"context"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, events []diplomacy.Event) error {
	r.store.events = append(r.store.events, events...)
	return nil
}

func (r EventRepo) List(_ context.Context, filter ports.EventFilter) ([]diplomacy.Event, error) {
	out := []diplomacy.Event{}
	for _, evt := range r.store.events {
		if filter.Match(evt) {
			out = append(out, evt)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out, nil
}
