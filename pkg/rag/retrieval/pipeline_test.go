package retrieval

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/pkg/events"
	"hr-faq-be/pkg/rag/language"
	"hr-faq-be/pkg/rag/rerank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRanker struct {
	results []rerank.Result
	err     error
	topK    int
}

func (s *stubRanker) Rerank(_ context.Context, _ string, topK int) ([]rerank.Result, error) {
	s.topK = topK
	return s.results, s.err
}

type stubEmbedder struct{ err error }

func (s stubEmbedder) Generate(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0, 0}, nil
}

type memoryStore struct {
	mu        sync.Mutex
	matches   []Match
	searchErr error
	insertErr error
	inserted  []Record
}

func (m *memoryStore) SimilaritySearch(_ context.Context, _ []float32, k int) ([]Match, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.matches) > k {
		return m.matches[:k], nil
	}
	return m.matches, nil
}

func (m *memoryStore) InsertQuestion(_ context.Context, rec Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.inserted = append(m.inserted, rec)
	return int64(100 + len(m.inserted)), nil
}

type upperTranslator struct{ calls int }

func (u *upperTranslator) Translate(_ context.Context, text string, _ language.Code) string {
	u.calls++
	return "EN:" + text
}

type recordingRecorder struct{ hits []Match }

func (r *recordingRecorder) RecordCacheHit(_ context.Context, _ string, m Match) {
	r.hits = append(r.hits, m)
}

type capturePublisher struct{ events []events.Event }

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.events = append(c.events, e)
	return nil
}

type fixture struct {
	ranker     *stubRanker
	store      *memoryStore
	translator *upperTranslator
	recorder   *recordingRecorder
	publisher  *capturePublisher
	pipeline   *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		ranker:     &stubRanker{},
		store:      &memoryStore{},
		translator: &upperTranslator{},
		recorder:   &recordingRecorder{},
		publisher:  &capturePublisher{},
	}
	f.pipeline = NewPipeline(Deps{
		Ranker:     f.ranker,
		Embedder:   stubEmbedder{},
		Store:      f.store,
		Translator: f.translator,
		Recorder:   f.recorder,
		Publisher:  f.publisher,
		Logger:     logger.NewNopLogger(),
	}, DefaultConfig())
	return f
}

const arabicQuestion = "ما هي مدة الإجازة السنوية؟"

func TestArabicAnsweredAboveGate(t *testing.T) {
	f := newFixture()
	f.ranker.results = []rerank.Result{
		{DocID: "d1", Text: "الإجازة السنوية 21 يوما", Score: 0.82},
		{DocID: "d2", Text: "ساعات العمل ثمانية", Score: 0.40},
	}

	res, err := f.pipeline.Run(context.Background(), Query{Text: arabicQuestion, Hint: language.Arabic})
	require.NoError(t, err)

	assert.Equal(t, StatusAnswered, res.Status)
	assert.Equal(t, []string{"الإجازة السنوية 21 يوما", "ساعات العمل ثمانية"}, res.Answers)
	assert.Equal(t, []float64{0.82, 0.40}, res.Scores)
	require.NotNil(t, res.QuestionID)
	assert.Equal(t, int64(101), *res.QuestionID)
	assert.Equal(t, 5, f.ranker.topK, "default top_k")

	require.Len(t, f.store.inserted, 1)
	assert.Equal(t, StatusAnswered, f.store.inserted[0].Status)
	assert.Equal(t, "الإجازة السنوية 21 يوما", f.store.inserted[0].Answer)
	assert.Zero(t, f.translator.calls)
	assert.Empty(t, f.publisher.events)
}

func TestArabicBelowGateGoesPending(t *testing.T) {
	f := newFixture()
	f.ranker.results = []rerank.Result{{DocID: "d1", Text: "x", Score: 0.05}}

	res, err := f.pipeline.Run(context.Background(), Query{Text: arabicQuestion, Hint: language.Arabic})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, []float64{0}, res.Scores)
	assert.Equal(t, PendingMessage(language.Arabic, language.Arabic), res.Answers[0])
	require.Len(t, f.store.inserted, 1)
	assert.Equal(t, NotAnswered, f.store.inserted[0].Answer)
	assert.Equal(t, StatusPending, f.store.inserted[0].Status)
	assert.NotNil(t, f.store.inserted[0].Embedding)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.QuestionPending, f.publisher.events[0].EventType())
}

func TestArabicRerankFailureGoesPending(t *testing.T) {
	f := newFixture()
	f.ranker.err = errors.New("model down")

	res, err := f.pipeline.Run(context.Background(), Query{Text: arabicQuestion, Hint: language.English})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, PendingMessage(language.English, language.Arabic), res.Answers[0])
}

func TestArabicWithEnglishHintTranslatesAllAnswers(t *testing.T) {
	f := newFixture()
	f.ranker.results = []rerank.Result{
		{DocID: "d1", Text: "أ", Score: 0.9},
		{DocID: "d2", Text: "ب", Score: 0.5},
	}

	res, err := f.pipeline.Run(context.Background(), Query{Text: arabicQuestion, Hint: language.English, TopK: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"EN:أ", "EN:ب"}, res.Answers)
	assert.Equal(t, 2, f.ranker.topK)
	assert.Equal(t, "EN:أ", f.store.inserted[0].Answer)
}

func TestEnglishCacheHit(t *testing.T) {
	f := newFixture()
	f.store.matches = []Match{
		{ID: 7, Question: "How many vacation days?", Answer: "You get 21 days.", Similarity: 0.91},
		{ID: 8, Question: "Can I carry over vacation?", Answer: "Up to 5 days.", Similarity: 0.62},
		{ID: 9, Question: "Office hours?", Answer: "8 to 4.", Similarity: 0.31},
	}

	res, err := f.pipeline.Run(context.Background(), Query{Text: "how many vacation days do I get", Hint: language.English, SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, StatusAnswered, res.Status)
	assert.Equal(t, []string{"You get 21 days."}, res.Answers)
	assert.Equal(t, []float64{0.91}, res.Scores)
	require.NotNil(t, res.QuestionID)
	assert.Equal(t, int64(7), *res.QuestionID)
	assert.Equal(t, []Similar{{ID: 8, Question: "Can I carry over vacation?", Similarity: 0.62}}, res.Similar)

	assert.Empty(t, f.store.inserted, "cache hits are not stored again")
	require.Len(t, f.recorder.hits, 1)
	assert.Equal(t, int64(7), f.recorder.hits[0].ID)
	assert.Zero(t, f.translator.calls)
}

func TestEnglishCacheHitTranslatesArabicAnswer(t *testing.T) {
	f := newFixture()
	f.store.matches = []Match{{ID: 3, Question: "vacation", Answer: "الإجازة السنوية 21 يوما", Similarity: 0.8}}

	res, err := f.pipeline.Run(context.Background(), Query{Text: "annual leave length", Hint: language.English})
	require.NoError(t, err)

	assert.Equal(t, []string{"EN:الإجازة السنوية 21 يوما"}, res.Answers)
}

func TestEnglishCacheMiss(t *testing.T) {
	tests := []struct {
		name    string
		matches []Match
		err     error
	}{
		{name: "no rows"},
		{name: "below threshold", matches: []Match{{ID: 1, Answer: "a", Similarity: 0.69}}},
		{name: "lookup failure", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.store.matches = tt.matches
			f.store.searchErr = tt.err

			res, err := f.pipeline.Run(context.Background(), Query{Text: "what is the dress code", Hint: language.Arabic})
			require.NoError(t, err)

			assert.Equal(t, StatusPending, res.Status)
			assert.Equal(t, PendingMessage(language.Arabic, language.English), res.Answers[0])
			assert.Len(t, f.store.inserted, 1)
			assert.Empty(t, f.recorder.hits)
		})
	}
}

func TestPendingWithoutStoreStillAnswers(t *testing.T) {
	f := newFixture()
	f.store.insertErr = errors.New("insert failed")

	res, err := f.pipeline.Run(context.Background(), Query{Text: "unknown topic", Hint: language.English})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, res.Status)
	assert.Nil(t, res.QuestionID)
	assert.Empty(t, f.publisher.events)
}

func TestEmbeddingFailureStillStoresPending(t *testing.T) {
	f := newFixture()
	f.pipeline.embedder = stubEmbedder{err: errors.New("encoder down")}

	res, err := f.pipeline.Run(context.Background(), Query{Text: "unknown topic", Hint: language.English})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, res.Status)
	require.Len(t, f.store.inserted, 1)
	assert.Nil(t, f.store.inserted[0].Embedding)
}

func TestRunReturnsContextError(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline.Run(ctx, Query{Text: "anything", Hint: language.English})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPendingMessage(t *testing.T) {
	assert.Contains(t, PendingMessage(language.Arabic, language.Arabic), "عذرًا")
	assert.Contains(t, PendingMessage(language.Arabic, language.English), "Sorry")
	assert.Contains(t, PendingMessage(language.English, language.Arabic), "Sorry")
}
