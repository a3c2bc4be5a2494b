package gormrepo

import (
	"context"
	"encoding/json"

	"botf2/internal/adapter/repo/gorm/model"
	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, events []diplomacy.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.DiplomacyEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.DiplomacyEvent{
			Type:        e.Type,
			Turn:        int32(e.Turn),
			Sender:      int64(e.Sender),
			Recipient:   int64(e.Recipient),
			AgreementID: e.AgreementID,
			OccurredAt:  e.OccurredAt,
			Payload:     b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// List reads newest first so Limit keeps the most recent events, then
// returns them oldest first.
func (r EventRepo) List(ctx context.Context, filter ports.EventFilter) ([]diplomacy.Event, error) {
	rows := []model.DiplomacyEvent{}
	query := getDBFromCtx(ctx, r.db).Model(&model.DiplomacyEvent{})
	if len(filter.Civs) > 0 {
		civs := make([]int64, 0, len(filter.Civs))
		for _, c := range filter.Civs {
			civs = append(civs, int64(c))
		}
		query = query.Where("sender IN ? OR recipient IN ?", civs, civs)
	}
	if filter.FromTurn > 0 {
		query = query.Where("turn >= ?", filter.FromTurn)
	}
	if filter.ToTurn > 0 {
		query = query.Where("turn <= ?", filter.ToTurn)
	}
	query = query.Clauses(clause.OrderBy{
		Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
	})
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]diplomacy.Event, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, diplomacy.Event{
			Type:        row.Type,
			Turn:        int(row.Turn),
			OccurredAt:  row.OccurredAt,
			Sender:      diplomacy.CivID(row.Sender),
			Recipient:   diplomacy.CivID(row.Recipient),
			AgreementID: row.AgreementID,
			Payload:     payload,
		})
	}
	return out, nil
}
