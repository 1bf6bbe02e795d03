package entity

import "time"

const InteractionCacheHit = "cache_hit"

type InteractionLog struct {
	Id           int64
	SessionId    string
	QuestionId   *int64
	DepartmentId *int64
	Kind         string
	Similarity   float64
	Details      map[string]interface{}
	CreatedAt    time.Time
}
