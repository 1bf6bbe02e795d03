package implementation

import (
	"context"
	"errors"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/mapper"
	"hr-faq-be/internal/model"
	"hr-faq-be/internal/repository/contract"
	"hr-faq-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type QuestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuestionMapper
}

func NewQuestionRepository(db *gorm.DB) contract.QuestionRepository {
	return &QuestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuestionMapper(),
	}
}

func (r *QuestionRepositoryImpl) Create(ctx context.Context, question *entity.Question) error {
	m := r.mapper.ToModel(question)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*question = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuestionRepositoryImpl) Update(ctx context.Context, question *entity.Question) error {
	m := r.mapper.ToModel(question)
	res := r.db.WithContext(ctx).Model(&model.Question{}).
		Where("question_id = ?", m.Id).
		Updates(map[string]interface{}{
			"answer_text":   m.AnswerText,
			"status":        m.Status,
			"embedding":     m.Embedding,
			"department_id": m.DepartmentId,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *QuestionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Question, error) {
	var m model.Question
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QuestionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	var models []*model.Question
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QuestionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Question{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *QuestionRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredQuestion, error) {
	if limit <= 0 {
		limit = 3
	}

	// pgvector <=> is cosine distance, so similarity is 1 - distance.
	type result struct {
		model.Question
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("questions").
		Select("questions.*, 1 - (embedding <=> ?) AS similarity", queryVector)
	err := applySpecifications(query,
		specification.ByStatus{Status: string(entity.QuestionAnswered)},
		specification.WithEmbedding{},
	).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredQuestion, len(results))
	for i := range results {
		scored[i] = &entity.ScoredQuestion{
			Question:   r.mapper.ToEntity(&results[i].Question),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuestionMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuestionMapper(),
	}
}

func (r *FeedbackRepositoryImpl) Create(ctx context.Context, feedback *entity.Feedback) error {
	m := r.mapper.FeedbackToModel(feedback)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*feedback = *r.mapper.FeedbackToEntity(m)
	return nil
}

func (r *FeedbackRepositoryImpl) Summarize(ctx context.Context, questionId int64) (entity.FeedbackSummary, error) {
	var rows []struct {
		IsGood bool
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Select("is_good, COUNT(*) AS total").
		Where("question_id = ?", questionId).
		Group("is_good").
		Scan(&rows).Error
	if err != nil {
		return entity.FeedbackSummary{}, err
	}

	var summary entity.FeedbackSummary
	for _, row := range rows {
		if row.IsGood {
			summary.Good = row.Total
		} else {
			summary.Bad = row.Total
		}
	}
	return summary, nil
}

func (r *FeedbackRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Feedback{}), specs...)
	err := query.Count(&count).Error
	return count, err
}
