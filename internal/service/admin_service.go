package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hr-faq-be/internal/dto"
	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/internal/repository/specification"
	"hr-faq-be/internal/repository/unitofwork"
	"hr-faq-be/pkg/apperr"
	"hr-faq-be/pkg/embedding"
	"hr-faq-be/pkg/events"

	"gorm.io/gorm"
)

const (
	adminModule      = "AdminService"
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type IAdminService interface {
	ListQuestions(ctx context.Context, status string, limit, offset int) (*dto.QuestionPage, error)
	GetQuestion(ctx context.Context, id int64) (*dto.QuestionDetailResponse, error)
	AnswerQuestion(ctx context.Context, id int64, req *dto.AnswerQuestionRequest) (*dto.QuestionListResponse, error)
	ClearSession(ctx context.Context, sessionID string) error

	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	dialogue   DialogueEngine
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	dialogueEngine DialogueEngine,
	publisher events.Publisher,
	log logger.ILogger,
) IAdminService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &adminService{
		uowFactory: uowFactory,
		embedder:   embedder,
		dialogue:   dialogueEngine,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *adminService) ListQuestions(ctx context.Context, status string, limit, offset int) (*dto.QuestionPage, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != string(entity.QuestionPending) && status != string(entity.QuestionAnswered) {
		return nil, apperr.Validation("list questions", fmt.Errorf("unknown status %q", status))
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.QuestionRepository()

	total, err := repo.Count(ctx, specification.ByStatus{Status: status})
	if err != nil {
		return nil, apperr.Backend("list questions", err)
	}
	questions, err := repo.FindAll(ctx,
		specification.ByStatus{Status: status},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, apperr.Backend("list questions", err)
	}

	items := make([]*dto.QuestionListResponse, len(questions))
	for i, q := range questions {
		items[i] = toQuestionResponse(q)
	}
	return &dto.QuestionPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *adminService) GetQuestion(ctx context.Context, id int64) (*dto.QuestionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	q, err := uow.QuestionRepository().FindOne(ctx, specification.ByQuestionID{ID: id})
	if err != nil {
		return nil, apperr.Backend("get question", err)
	}
	if q == nil {
		return nil, apperr.NotFound("get question", fmt.Errorf("question %d not found", id))
	}

	summary, err := uow.FeedbackRepository().Summarize(ctx, id)
	if err != nil {
		return nil, apperr.Backend("get question", err)
	}

	return &dto.QuestionDetailResponse{
		QuestionListResponse: *toQuestionResponse(q),
		GoodFeedback:         summary.Good,
		BadFeedback:          summary.Bad,
	}, nil
}

// AnswerQuestion stores a human answer and regenerates the embedding from the
// question text so the row becomes a cache candidate.
func (s *adminService) AnswerQuestion(ctx context.Context, id int64, req *dto.AnswerQuestionRequest) (*dto.QuestionListResponse, error) {
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, apperr.Validation("answer question", errors.New("answer is required"))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	q, err := uow.QuestionRepository().FindOne(ctx, specification.ByQuestionID{ID: id})
	if err != nil {
		return nil, apperr.Backend("answer question", err)
	}
	if q == nil {
		return nil, apperr.NotFound("answer question", fmt.Errorf("question %d not found", id))
	}

	vec, err := s.embedder.Generate(ctx, q.Text)
	if err != nil {
		s.logger.Error(adminModule, "failed to embed question", map[string]interface{}{"question_id": id, "error": err.Error()})
		return nil, apperr.Backend("answer question", err)
	}

	q.Answer = &answer
	q.Status = entity.QuestionAnswered
	q.Embedding = vec
	if req.DepartmentId != nil {
		q.DepartmentId = req.DepartmentId
	}

	if err := uow.QuestionRepository().Update(ctx, q); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("answer question", fmt.Errorf("question %d not found", id))
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperr.Integrity("answer question", errors.New("department does not exist"))
		}
		return nil, apperr.Backend("answer question", err)
	}
	q.UpdatedAt = time.Now()

	s.logger.Info(adminModule, "question answered", map[string]interface{}{"question_id": id})
	ev := events.New(events.QuestionAnswered, map[string]interface{}{
		"question_id":   id,
		"department_id": q.DepartmentId,
	})
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn(adminModule, "failed to publish answered event", map[string]interface{}{"question_id": id, "error": err.Error()})
	}

	return toQuestionResponse(q), nil
}

func (s *adminService) ClearSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperr.Validation("clear session", errors.New("session id is required"))
	}
	return s.dialogue.Reset(ctx, sessionID)
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	entries, err := s.logger.GetLogs(strings.ToUpper(level), limit, (page-1)*limit)
	if err != nil {
		return nil, apperr.Backend("system logs", err)
	}

	out := make([]*dto.LogListResponse, len(entries))
	for i, e := range entries {
		out[i] = toLogResponse(e)
	}
	return out, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, apperr.NotFound("log detail", err)
	}
	return &dto.LogDetailResponse{
		LogListResponse: *toLogResponse(*entry),
		Details:         entry.Details,
	}, nil
}

func toQuestionResponse(q *entity.Question) *dto.QuestionListResponse {
	return &dto.QuestionListResponse{
		Id:           q.Id,
		Question:     q.Text,
		Answer:       q.Answer,
		Status:       string(q.Status),
		DepartmentId: q.DepartmentId,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

func toLogResponse(e logger.LogEntry) *dto.LogListResponse {
	createdAt, _ := time.Parse("2006-01-02T15:04:05.000Z0700", e.Timestamp)
	return &dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		CreatedAt: createdAt,
	}
}
