package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type Question struct {
	Id           int64            `gorm:"column:question_id;primaryKey;autoIncrement"`
	QuestionText string           `gorm:"column:question_text;type:text;not null"`
	AnswerText   *string          `gorm:"column:answer_text;type:text"`
	Status       string           `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	Embedding    *pgvector.Vector `gorm:"column:embedding;type:vector(768)"`
	DepartmentId *int64           `gorm:"column:department_id;index"`
	CreatedAt    time.Time        `gorm:"autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime"`

	Feedback []Feedback `gorm:"foreignKey:QuestionId;references:Id;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

type Feedback struct {
	Id         int64     `gorm:"column:feed_id;primaryKey;autoIncrement"`
	QuestionId int64     `gorm:"column:question_id;not null;index"`
	IsGood     bool      `gorm:"column:is_good;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}
