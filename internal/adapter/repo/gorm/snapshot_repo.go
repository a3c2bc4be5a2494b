package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"botf2/internal/adapter/repo/gorm/model"
	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepo keeps per-turn snapshots in postgres. Saving a turn twice
// overwrites the earlier snapshot.
type SnapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return SnapshotRepo{db: db}
}

func (r SnapshotRepo) SaveSnapshot(ctx context.Context, turn int, snap diplomacy.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	row := model.DiplomacySnapshot{
		Turn:      int32(turn),
		Version:   snap.Version,
		Snapshot:  b,
		CreatedAt: time.Now(),
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "turn"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "snapshot", "created_at"}),
	}).Create(&row).Error
}

func (r SnapshotRepo) LoadSnapshot(ctx context.Context, turn int) (diplomacy.Snapshot, error) {
	var row model.DiplomacySnapshot
	if err := getDBFromCtx(ctx, r.db).Where("turn = ?", turn).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return diplomacy.Snapshot{}, ports.ErrNotFound
		}
		return diplomacy.Snapshot{}, err
	}
	var snap diplomacy.Snapshot
	if err := json.Unmarshal(row.Snapshot, &snap); err != nil {
		return diplomacy.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
