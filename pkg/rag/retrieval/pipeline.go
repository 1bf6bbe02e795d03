// Package retrieval answers free-text questions: similarity cache for
// English, passage re-ranking for Arabic, and a pending hand-off when
// neither is confident.
package retrieval

import (
	"context"
	"time"

	"hr-faq-be/internal/metrics"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/pkg/embedding"
	"hr-faq-be/pkg/events"
	"hr-faq-be/pkg/rag/language"
	"hr-faq-be/pkg/rag/rerank"
	"hr-faq-be/pkg/translate"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const module = "RetrievalPipeline"

type Status string

const (
	StatusAnswered Status = "answered"
	StatusPending  Status = "pending"
)

// NotAnswered is stored as the answer of every pending question.
const NotAnswered = "not answered"

// Match is an answered question found by similarity search.
type Match struct {
	ID           int64
	Question     string
	Answer       string
	DepartmentID *int64
	Similarity   float64
}

// Record is a question to persist.
type Record struct {
	Text      string
	Answer    string
	Status    Status
	Embedding []float32
}

// AnswerStore is the slice of persistence the pipeline needs.
type AnswerStore interface {
	SimilaritySearch(ctx context.Context, embedding []float32, k int) ([]Match, error)
	InsertQuestion(ctx context.Context, rec Record) (int64, error)
}

// Ranker scores the passage corpus against a question.
type Ranker interface {
	Rerank(ctx context.Context, query string, topK int) ([]rerank.Result, error)
}

// InteractionRecorder is told about every cache hit.
type InteractionRecorder interface {
	RecordCacheHit(ctx context.Context, sessionID string, match Match)
}

type Config struct {
	CacheTopK         int
	CacheHitThreshold float64
	RelatedThreshold  float64
	RelatedMax        int
	ConfidenceGate    float64
	DefaultTopK       int
}

func DefaultConfig() Config {
	return Config{
		CacheTopK:         3,
		CacheHitThreshold: 0.7,
		RelatedThreshold:  0.5,
		RelatedMax:        2,
		ConfidenceGate:    0.1,
		DefaultTopK:       5,
	}
}

type Query struct {
	Text      string
	Hint      language.Code
	TopK      int
	SessionID string
}

// Similar is a related suggestion attached to a cache hit.
type Similar struct {
	ID         int64   `json:"id"`
	Question   string  `json:"question"`
	Similarity float64 `json:"similarity"`
}

type Result struct {
	Answers    []string
	Scores     []float64
	QuestionID *int64
	Status     Status
	Similar    []Similar
}

type Pipeline struct {
	ranker     Ranker
	embedder   embedding.EmbeddingProvider
	store      AnswerStore
	translator translate.Translator
	recorder   InteractionRecorder
	publisher  events.Publisher
	logger     logger.ILogger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	cfg        Config
}

type Deps struct {
	Ranker     Ranker
	Embedder   embedding.EmbeddingProvider
	Store      AnswerStore
	Translator translate.Translator
	Recorder   InteractionRecorder
	Publisher  events.Publisher
	Logger     logger.ILogger
	Metrics    *metrics.Metrics
}

func NewPipeline(d Deps, cfg Config) *Pipeline {
	if d.Translator == nil {
		d.Translator = translate.NopTranslator{}
	}
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	return &Pipeline{
		ranker:     d.Ranker,
		embedder:   d.Embedder,
		store:      d.Store,
		translator: d.Translator,
		recorder:   d.Recorder,
		publisher:  d.Publisher,
		logger:     d.Logger,
		metrics:    d.Metrics,
		tracer:     otel.Tracer("hr-faq-be/retrieval"),
		cfg:        cfg,
	}
}

// Run resolves one question. Collaborator failures degrade to the pending
// path; Run only returns an error when ctx is done.
func (p *Pipeline) Run(ctx context.Context, q Query) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "retrieval.Run")
	defer span.End()

	detected := language.Detect(q.Text)
	span.SetAttributes(attribute.String("language.detected", string(detected)))

	var res Result
	if detected.IsPrimary() {
		res = p.rerankPath(ctx, q, detected)
	} else {
		res = p.cachePath(ctx, q, detected)
	}

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(attribute.String("retrieval.status", string(res.Status)))
	p.metrics.ObserveResolution(string(res.Status))
	return res, nil
}

func (p *Pipeline) cachePath(ctx context.Context, q Query, detected language.Code) Result {
	ctx, span := p.tracer.Start(ctx, "retrieval.cacheLookup")
	defer span.End()

	emb := p.embed(ctx, q.Text)
	if emb == nil {
		p.metrics.ObserveCacheLookup("error")
		return p.pending(ctx, q, detected, nil)
	}

	matches, err := p.store.SimilaritySearch(ctx, emb, p.cfg.CacheTopK)
	if err != nil {
		p.logger.Warn(module, "similarity search failed, treating as miss", map[string]interface{}{"error": err.Error()})
		p.metrics.ObserveCacheLookup("error")
		matches = nil
	}

	if len(matches) == 0 || matches[0].Similarity < p.cfg.CacheHitThreshold {
		p.metrics.ObserveCacheLookup("miss")
		return p.pending(ctx, q, detected, emb)
	}

	p.metrics.ObserveCacheLookup("hit")
	best := matches[0]
	span.SetAttributes(attribute.Float64("cache.similarity", best.Similarity))

	if p.recorder != nil {
		p.recorder.RecordCacheHit(ctx, q.SessionID, best)
	}

	related := make([]Similar, 0, p.cfg.RelatedMax)
	for _, m := range matches[1:] {
		if len(related) >= p.cfg.RelatedMax {
			break
		}
		if m.Similarity >= p.cfg.RelatedThreshold {
			related = append(related, Similar{ID: m.ID, Question: m.Question, Similarity: m.Similarity})
		}
	}

	answer := best.Answer
	if q.Hint == language.English && language.Detect(answer) == language.Arabic {
		answer = p.translator.Translate(ctx, answer, language.English)
	}

	id := best.ID
	return Result{
		Answers:    []string{answer},
		Scores:     []float64{best.Similarity},
		QuestionID: &id,
		Status:     StatusAnswered,
		Similar:    related,
	}
}

func (p *Pipeline) rerankPath(ctx context.Context, q Query, detected language.Code) Result {
	topK := q.TopK
	if topK <= 0 {
		topK = p.cfg.DefaultTopK
	}

	rctx, span := p.tracer.Start(ctx, "retrieval.rerank")
	start := time.Now()
	results, err := p.ranker.Rerank(rctx, q.Text, topK)
	p.metrics.ObserveRerank(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.End()
		p.logger.Error(module, "re-ranking failed, forwarding question", map[string]interface{}{"error": err.Error()})
		return p.pending(ctx, q, detected, nil)
	}
	span.End()

	if len(results) == 0 {
		return p.pending(ctx, q, detected, nil)
	}

	top := rerank.Normalize(results[0].Score)
	if top < p.cfg.ConfidenceGate {
		p.logger.Info(module, "top score below confidence gate", map[string]interface{}{"score": top, "gate": p.cfg.ConfidenceGate})
		return p.pending(ctx, q, detected, nil)
	}

	answers := make([]string, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		answers[i] = r.Text
		scores[i] = r.Score
	}
	if q.Hint == language.English {
		for i := range answers {
			answers[i] = p.translator.Translate(ctx, answers[i], language.English)
		}
	}

	res := Result{Answers: answers, Scores: scores, Status: StatusAnswered}
	// The stored answer is what the user saw, translated when the hint is English.
	id, err := p.store.InsertQuestion(ctx, Record{
		Text:      q.Text,
		Answer:    answers[0],
		Status:    StatusAnswered,
		Embedding: p.embed(ctx, q.Text),
	})
	if err != nil {
		p.logger.Error(module, "failed to store answered question", map[string]interface{}{"error": err.Error()})
		return res
	}
	res.QuestionID = &id
	return res
}

func (p *Pipeline) pending(ctx context.Context, q Query, detected language.Code, emb []float32) Result {
	if emb == nil {
		emb = p.embed(ctx, q.Text)
	}

	res := Result{
		Answers: []string{PendingMessage(q.Hint, detected)},
		Scores:  []float64{0},
		Status:  StatusPending,
	}

	id, err := p.store.InsertQuestion(ctx, Record{
		Text:      q.Text,
		Answer:    NotAnswered,
		Status:    StatusPending,
		Embedding: emb,
	})
	if err != nil {
		p.logger.Error(module, "failed to store pending question", map[string]interface{}{"error": err.Error()})
		return res
	}
	res.QuestionID = &id

	ev := events.New(events.QuestionPending, map[string]interface{}{
		"question_id": id,
		"question":    q.Text,
		"language":    string(detected),
		"session_id":  q.SessionID,
	})
	if err := p.publisher.Publish(ctx, ev); err != nil {
		p.logger.Warn(module, "failed to publish pending question", map[string]interface{}{"question_id": id, "error": err.Error()})
	}
	return res
}

// embed returns nil when the encoder is unavailable; callers store the
// question without a vector rather than failing.
func (p *Pipeline) embed(ctx context.Context, text string) []float32 {
	if p.embedder == nil {
		return nil
	}
	vec, err := p.embedder.Generate(ctx, text)
	if err != nil {
		p.logger.Warn(module, "embedding failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return vec
}

// PendingMessage is Arabic only when both the caller and the question are Arabic.
func PendingMessage(hint, detected language.Code) string {
	if hint == language.Arabic && detected == language.Arabic {
		return "عذرًا، لم أجد إجابة مناسبة لسؤالك، لقد أرسلنا سؤالك لفريقنا للإجابة عليه في أقرب وقت ممكن."
	}
	return "Sorry, I could not find a suitable answer to your question, we sent this question to our team to answer you as soon as possible."
}
