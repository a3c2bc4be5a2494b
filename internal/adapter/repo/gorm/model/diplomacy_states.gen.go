package model

import (
	"time"
)

const TableNameDiplomacyState = "diplomacy_states"

// DiplomacyState mapped from table <diplomacy_states>
type DiplomacyState struct {
	ID        int32     `gorm:"column:id;primaryKey" json:"id"`
	Version   int64     `gorm:"column:version;not null" json:"version"`
	Snapshot  []byte    `gorm:"column:snapshot;type:jsonb;not null" json:"snapshot"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

// TableName DiplomacyState's table name
func (*DiplomacyState) TableName() string {
	return TableNameDiplomacyState
}
