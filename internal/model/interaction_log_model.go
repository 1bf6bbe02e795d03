package model

import (
	"time"

	"gorm.io/datatypes"
)

// InteractionLog records answers served from the similarity cache.
type InteractionLog struct {
	Id           int64          `gorm:"primaryKey;autoIncrement"`
	SessionId    string         `gorm:"type:varchar(64);index"`
	QuestionId   *int64         `gorm:"index"`
	DepartmentId *int64         `gorm:"index"`
	Kind         string         `gorm:"type:varchar(32);not null"`
	Similarity   float64        `gorm:"not null;default:0"`
	Details      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (InteractionLog) TableName() string {
	return "interaction_logs"
}
