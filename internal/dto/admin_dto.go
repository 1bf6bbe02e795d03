package dto

import "time"

type AdminTokenRequest struct {
	Secret string `json:"secret" validate:"required"`
}

type AdminTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type QuestionListResponse struct {
	Id           int64     `json:"id"`
	Question     string    `json:"question"`
	Answer       *string   `json:"answer"`
	Status       string    `json:"status"`
	DepartmentId *int64    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type QuestionPage struct {
	Items  []*QuestionListResponse `json:"items"`
	Total  int64                   `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

type QuestionDetailResponse struct {
	QuestionListResponse
	GoodFeedback int64 `json:"good_feedback"`
	BadFeedback  int64 `json:"bad_feedback"`
}

type AnswerQuestionRequest struct {
	Answer       string `json:"answer" validate:"required"`
	DepartmentId *int64 `json:"department_id"`
}
