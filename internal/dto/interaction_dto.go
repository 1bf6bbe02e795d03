package dto

// InteractionLogMessage is the in-process payload behind every cache hit.
type InteractionLogMessage struct {
	SessionId    string  `json:"session_id"`
	QuestionId   int64   `json:"question_id"`
	DepartmentId *int64  `json:"department_id"`
	Question     string  `json:"question"`
	Similarity   float64 `json:"similarity"`
}
