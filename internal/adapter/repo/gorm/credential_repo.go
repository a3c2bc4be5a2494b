package gormrepo

import (
	"context"
	"errors"
	"time"

	"botf2/internal/adapter/repo/gorm/model"
	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"gorm.io/gorm"
)

type CivCredentialRepo struct {
	db *gorm.DB
}

func NewCivCredentialRepo(db *gorm.DB) CivCredentialRepo {
	return CivCredentialRepo{db: db}
}

func (r CivCredentialRepo) Create(ctx context.Context, credential ports.CivCredentialRecord) error {
	row := model.CivCredential{
		CivID:     int64(credential.Civ),
		KeySalt:   credential.KeySalt,
		KeyHash:   credential.KeyHash,
		Status:    credential.Status,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r CivCredentialRepo) GetByCiv(ctx context.Context, civ diplomacy.CivID) (ports.CivCredentialRecord, error) {
	var row model.CivCredential
	if err := getDBFromCtx(ctx, r.db).Where("civ_id = ?", int64(civ)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CivCredentialRecord{}, ports.ErrNotFound
		}
		return ports.CivCredentialRecord{}, err
	}
	return ports.CivCredentialRecord{
		Civ:       diplomacy.CivID(row.CivID),
		KeySalt:   row.KeySalt,
		KeyHash:   row.KeyHash,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}, nil
}
