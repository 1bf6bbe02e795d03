package dto

type AskRequest struct {
	Question      string `json:"question" validate:"required"`
	SessionId     string `json:"session_id"`
	Language      string `json:"language" validate:"omitempty,oneof=ar en"`
	TopK          int    `json:"top_k" validate:"gte=0,lte=50"`
	MenuSelection bool   `json:"is_menu_selection"`

	// CommonQuestion is the key older chat widgets send for a menu click.
	CommonQuestion bool `json:"is_common_question"`
}

func (r *AskRequest) IsMenuSelection() bool {
	return r.MenuSelection || r.CommonQuestion
}

type SimilarQuestion struct {
	Id         int64   `json:"id"`
	Question   string  `json:"question"`
	Similarity float64 `json:"similarity"`
}

type AskResponse struct {
	Answers          []string          `json:"answers"`
	ConfidenceScores []float64         `json:"confidence_scores"`
	QuestionId       *int64            `json:"question_id"`
	Status           string            `json:"status"`
	SessionId        string            `json:"session_id"`
	Similar          []SimilarQuestion `json:"similar,omitempty"`
}

// FeedbackRequest uses pointers so a missing field is distinguishable from
// a zero value.
type FeedbackRequest struct {
	QuestionId *int64 `json:"question_id" validate:"required"`
	IsGood     *bool  `json:"is_good" validate:"required"`
}

type FeedbackResponse struct {
	QuestionId int64 `json:"question_id"`
	IsGood     bool  `json:"is_good"`
}

type CommonQuestionResponse struct {
	Id   string `json:"id"`
	Text string `json:"text"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	CorpusSize  int    `json:"corpus_size"`
	Database    string `json:"database"`
	SessionMode string `json:"session_store"`
}
