package model

import (
	"time"
)

const TableNameDiplomacyEvent = "diplomacy_events"

// DiplomacyEvent mapped from table <diplomacy_events>
type DiplomacyEvent struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Type        string    `gorm:"column:type;not null" json:"type"`
	Turn        int32     `gorm:"column:turn;not null" json:"turn"`
	Sender      int64     `gorm:"column:sender;not null" json:"sender"`
	Recipient   int64     `gorm:"column:recipient;not null" json:"recipient"`
	AgreementID string    `gorm:"column:agreement_id;not null" json:"agreement_id"`
	OccurredAt  time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload     []byte    `gorm:"column:payload;type:jsonb" json:"payload"`
}

// TableName DiplomacyEvent's table name
func (*DiplomacyEvent) TableName() string {
	return TableNameDiplomacyEvent
}
