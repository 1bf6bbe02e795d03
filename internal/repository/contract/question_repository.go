package contract

import (
	"context"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/repository/specification"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	Update(ctx context.Context, question *entity.Question) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Question, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns answered questions ordered by cosine
	// similarity to embedding, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredQuestion, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	Summarize(ctx context.Context, questionId int64) (entity.FeedbackSummary, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
