package mapper

import (
	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToEntity(q *model.Question) *entity.Question {
	if q == nil {
		return nil
	}

	var embedding []float32
	if q.Embedding != nil {
		embedding = q.Embedding.Slice()
	}

	return &entity.Question{
		Id:           q.Id,
		Text:         q.QuestionText,
		Answer:       q.AnswerText,
		Status:       entity.QuestionStatus(q.Status),
		Embedding:    embedding,
		DepartmentId: q.DepartmentId,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

func (m *QuestionMapper) ToModel(q *entity.Question) *model.Question {
	if q == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(q.Embedding) > 0 {
		v := pgvector.NewVector(q.Embedding)
		embedding = &v
	}

	return &model.Question{
		Id:           q.Id,
		QuestionText: q.Text,
		AnswerText:   q.Answer,
		Status:       string(q.Status),
		Embedding:    embedding,
		DepartmentId: q.DepartmentId,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

func (m *QuestionMapper) ToEntities(questions []*model.Question) []*entity.Question {
	entities := make([]*entity.Question, len(questions))
	for i, q := range questions {
		entities[i] = m.ToEntity(q)
	}
	return entities
}

func (m *QuestionMapper) FeedbackToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}
	return &entity.Feedback{
		Id:         f.Id,
		QuestionId: f.QuestionId,
		IsGood:     f.IsGood,
		CreatedAt:  f.CreatedAt,
	}
}

func (m *QuestionMapper) FeedbackToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}
	return &model.Feedback{
		Id:         f.Id,
		QuestionId: f.QuestionId,
		IsGood:     f.IsGood,
		CreatedAt:  f.CreatedAt,
	}
}
