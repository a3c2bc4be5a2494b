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
)

// stateRowID is the key of the single diplomacy state row.
const stateRowID = 1

type DiplomacyStateRepo struct {
	db *gorm.DB
}

func NewDiplomacyStateRepo(db *gorm.DB) DiplomacyStateRepo {
	return DiplomacyStateRepo{db: db}
}

func (r DiplomacyStateRepo) Load(ctx context.Context) (*diplomacy.State, error) {
	var m model.DiplomacyState
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", stateRowID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return diplomacy.NewState(), nil
		}
		return nil, err
	}
	var snap diplomacy.Snapshot
	if err := json.Unmarshal(m.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode diplomacy state: %w", err)
	}
	snap.Version = m.Version
	return diplomacy.FromSnapshot(snap)
}

func (r DiplomacyStateRepo) SaveWithVersion(ctx context.Context, state *diplomacy.State, expectedVersion int64) error {
	b, err := json.Marshal(state.Snapshot())
	if err != nil {
		return fmt.Errorf("encode diplomacy state: %w", err)
	}
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := model.DiplomacyState{
			ID:        stateRowID,
			Version:   state.Version,
			Snapshot:  b,
			UpdatedAt: time.Now(),
		}
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.DiplomacyState{}).
		Where("id = ? AND version = ?", stateRowID, expectedVersion).
		Updates(map[string]any{
			"version":    state.Version,
			"snapshot":   b,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
