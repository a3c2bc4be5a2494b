package model

import (
	"time"
)

const TableNameCivCredential = "civ_credentials"

// CivCredential mapped from table <civ_credentials>
type CivCredential struct {
	CivID     int64     `gorm:"column:civ_id;primaryKey" json:"civ_id"`
	KeySalt   []byte    `gorm:"column:key_salt;not null" json:"key_salt"`
	KeyHash   []byte    `gorm:"column:key_hash;not null" json:"key_hash"`
	Status    string    `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

// TableName CivCredential's table name
func (*CivCredential) TableName() string {
	return TableNameCivCredential
}
