package replay

import (
	"context"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"
)

type UseCase struct {
	TxManager ports.TxManager
	Events    ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	filter := ports.EventFilter{
		Civs:     []diplomacy.CivID{req.Civ},
		FromTurn: req.FromTurn,
		ToTurn:   req.ToTurn,
		Limit:    req.Limit,
	}
	var events []diplomacy.Event
	list := func(ctx context.Context) error {
		var err error
		events, err = u.Events.List(ctx, filter)
		return err
	}
	var err error
	if u.TxManager != nil {
		err = u.TxManager.RunInTx(ctx, list)
	} else {
		err = list(ctx)
	}
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	return Response{Events: events, LatestStatus: reconstruct(events, req.Civ)}, nil
}

func filterByTimeWindow(events []diplomacy.Event, from, to int64) []diplomacy.Event {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]diplomacy.Event, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// status_changed events carry the owner as Sender and the counterparty as
// Recipient; events arrive oldest first so later ones win.
func reconstruct(events []diplomacy.Event, civ diplomacy.CivID) map[diplomacy.CivID]string {
	latest := map[diplomacy.CivID]string{}
	for _, evt := range events {
		if evt.Type != diplomacy.EventStatusChanged || evt.Sender != civ {
			continue
		}
		to, ok := evt.Payload["to"].(string)
		if !ok {
			continue
		}
		latest[evt.Recipient] = to
	}
	return latest
}
