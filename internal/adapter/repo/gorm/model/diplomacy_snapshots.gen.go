package model

import (
	"time"
)

const TableNameDiplomacySnapshot = "diplomacy_snapshots"

// DiplomacySnapshot mapped from table <diplomacy_snapshots>
type DiplomacySnapshot struct {
	Turn      int32     `gorm:"column:turn;primaryKey" json:"turn"`
	Version   int64     `gorm:"column:version;not null" json:"version"`
	Snapshot  []byte    `gorm:"column:snapshot;type:jsonb;not null" json:"snapshot"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName DiplomacySnapshot's table name
func (*DiplomacySnapshot) TableName() string {
	return TableNameDiplomacySnapshot
}
