package dto

import "time"

// LogListResponse.Id is the md5 of the raw log line, not a database key.
type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
