package entity

import "time"

type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionAnswered QuestionStatus = "answered"
)

// NotAnswered is the answer text stored with pending questions.
const NotAnswered = "not answered"

type Question struct {
	Id           int64
	Text         string
	Answer       *string
	Status       QuestionStatus
	Embedding    []float32
	DepartmentId *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScoredQuestion is a question returned by similarity search.
type ScoredQuestion struct {
	Question   *Question
	Similarity float64
}

type Feedback struct {
	Id         int64
	QuestionId int64
	IsGood     bool
	CreatedAt  time.Time
}

// FeedbackSummary counts feedback rows for one question.
type FeedbackSummary struct {
	Good int64
	Bad  int64
}
