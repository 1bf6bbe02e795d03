package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"hr-faq-be/internal/dto"
	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/metrics"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/internal/repository/specification"
	"hr-faq-be/internal/repository/unitofwork"
	"hr-faq-be/pkg/apperr"
	"hr-faq-be/pkg/events"
	"hr-faq-be/pkg/rag/dialogue"
	"hr-faq-be/pkg/rag/language"
	"hr-faq-be/pkg/rag/retrieval"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resolverModule = "Resolver"

// DialogueEngine owns scripted sub-dialogues.
type DialogueEngine interface {
	Handle(ctx context.Context, turn dialogue.Turn) (dialogue.Reply, bool, error)
	Reset(ctx context.Context, sessionID string) error
}

// RetrievalEngine answers free-text questions.
type RetrievalEngine interface {
	Run(ctx context.Context, q retrieval.Query) (retrieval.Result, error)
}

type IFaqService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	SubmitFeedback(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	CommonQuestions(lang string) []dto.CommonQuestionResponse
}

type faqService struct {
	uowFactory unitofwork.RepositoryFactory
	dialogue   DialogueEngine
	retrieval  RetrievalEngine
	publisher  events.Publisher
	logger     logger.ILogger
	metrics    *metrics.Metrics
	timeout    time.Duration
}

func NewFaqService(
	uowFactory unitofwork.RepositoryFactory,
	dialogueEngine DialogueEngine,
	retrievalEngine RetrievalEngine,
	publisher events.Publisher,
	log logger.ILogger,
	m *metrics.Metrics,
	timeout time.Duration,
) IFaqService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &faqService{
		uowFactory: uowFactory,
		dialogue:   dialogueEngine,
		retrieval:  retrievalEngine,
		publisher:  publisher,
		logger:     log,
		metrics:    m,
		timeout:    timeout,
	}
}

// Ask gives the dialogue controller first claim on the turn and falls back to
// retrieval. A panic anywhere below is logged and reported as an internal error.
func (s *faqService) Ask(ctx context.Context, req *dto.AskRequest) (res *dto.AskResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(resolverModule, "panic while resolving question", map[string]interface{}{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			})
			res, err = nil, apperr.Internal("ask", fmt.Errorf("panic: %v", r))
		}
	}()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperr.Validation("ask", errors.New("question is required"))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	sessionID := strings.TrimSpace(req.SessionId)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	hint := language.Parse(req.Language)

	reply, handled, err := s.dialogue.Handle(ctx, dialogue.Turn{
		SessionID:     sessionID,
		Text:          question,
		Language:      hint,
		MenuSelection: req.IsMenuSelection(),
	})
	if err != nil {
		s.logger.Error(resolverModule, "dialogue turn failed", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return nil, err
	}
	if handled {
		return &dto.AskResponse{
			Answers:          []string{reply.Message},
			ConfidenceScores: []float64{1.0},
			Status:           string(reply.Status),
			SessionId:        sessionID,
		}, nil
	}

	result, err := s.retrieval.Run(ctx, retrieval.Query{
		Text:      question,
		Hint:      hint,
		TopK:      req.TopK,
		SessionID: sessionID,
	})
	if err != nil {
		s.logger.Error(resolverModule, "retrieval aborted", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return nil, apperr.Backend("ask", err)
	}

	res = &dto.AskResponse{
		Answers:          result.Answers,
		ConfidenceScores: result.Scores,
		QuestionId:       result.QuestionID,
		Status:           string(result.Status),
		SessionId:        sessionID,
	}
	for _, sim := range result.Similar {
		res.Similar = append(res.Similar, dto.SimilarQuestion{Id: sim.ID, Question: sim.Question, Similarity: sim.Similarity})
	}
	return res, nil
}

// SubmitFeedback appends one feedback row. Repeated submissions are kept.
func (s *faqService) SubmitFeedback(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	if req.QuestionId == nil || req.IsGood == nil {
		return nil, apperr.Validation("feedback", errors.New("question_id and is_good are required"))
	}
	questionID, isGood := *req.QuestionId, *req.IsGood

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Backend("feedback", err)
	}
	defer uow.Rollback()

	question, err := uow.QuestionRepository().FindOne(ctx, specification.ByQuestionID{ID: questionID})
	if err != nil {
		return nil, apperr.Backend("feedback", err)
	}
	if question == nil {
		return nil, apperr.NotFound("feedback", fmt.Errorf("question %d not found", questionID))
	}

	if err := uow.FeedbackRepository().Create(ctx, &entity.Feedback{QuestionId: questionID, IsGood: isGood}); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperr.Integrity("feedback", fmt.Errorf("question %d no longer exists", questionID))
		}
		return nil, apperr.Backend("feedback", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperr.Backend("feedback", err)
	}

	s.metrics.ObserveFeedback(isGood)
	ev := events.New(events.FeedbackSubmitted, map[string]interface{}{
		"question_id": questionID,
		"is_good":     isGood,
	})
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn(resolverModule, "failed to publish feedback event", map[string]interface{}{"question_id": questionID, "error": err.Error()})
	}

	return &dto.FeedbackResponse{QuestionId: questionID, IsGood: isGood}, nil
}

func (s *faqService) CommonQuestions(lang string) []dto.CommonQuestionResponse {
	items := dialogue.CommonQuestions(language.Parse(lang))
	out := make([]dto.CommonQuestionResponse, len(items))
	for i, item := range items {
		out[i] = dto.CommonQuestionResponse{Id: string(item.ID), Text: item.Text}
	}
	return out
}
