// Package rerank scores FAQ passages against a question with a pairwise
// relevance model and orders them by probability.
package rerank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"hr-faq-be/pkg/rag/corpus"
	"hr-faq-be/pkg/rag/language"
)

type Config struct {
	BatchSize   int
	MaxPassages int
	TopK        int
}

func DefaultConfig() Config {
	return Config{BatchSize: 16, MaxPassages: 200, TopK: 5}
}

// Result is a scored passage.
type Result struct {
	DocID string  `json:"docid"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type Reranker struct {
	model  ScoreModel
	corpus *corpus.Corpus
	cfg    Config
}

func NewReranker(model ScoreModel, c *corpus.Corpus, cfg Config) *Reranker {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxPassages <= 0 {
		cfg.MaxPassages = def.MaxPassages
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	return &Reranker{model: model, corpus: c, cfg: cfg}
}

// Rerank scores the bounded corpus prefix against query and returns the topK
// passages by descending score. topK <= 0 uses the configured default.
func (r *Reranker) Rerank(ctx context.Context, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = r.cfg.TopK
	}
	passages := r.corpus.Prefix(r.cfg.MaxPassages)
	if len(passages) == 0 {
		return nil, nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	scores, err := r.ScorePairs(ctx, query, texts)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(passages))
	for i, p := range passages {
		results[i] = Result{DocID: p.DocID, Text: p.Text, Score: scores[i]}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// ScorePairs returns one relevance probability per passage, in input order.
// Diacritics are stripped from the query and every passage before scoring.
func (r *Reranker) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	q := language.StripDiacritics(query)
	scores := make([]float64, 0, len(passages))

	for start := 0; start < len(passages); start += r.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + r.cfg.BatchSize
		if end > len(passages) {
			end = len(passages)
		}

		batch := make([]Pair, 0, end-start)
		for _, p := range passages[start:end] {
			batch = append(batch, Pair{Query: q, Passage: language.StripDiacritics(p)})
		}

		logits, err := r.model.Logits(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("score batch %d-%d: %w", start, end, err)
		}
		if len(logits) != len(batch) {
			return nil, fmt.Errorf("score batch %d-%d: model returned %d rows for %d pairs", start, end, len(logits), len(batch))
		}
		for i, row := range logits {
			p, err := probability(row)
			if err != nil {
				return nil, fmt.Errorf("score pair %d: %w", start+i, err)
			}
			scores = append(scores, p)
		}
	}
	return scores, nil
}

// probability maps a logit row onto a relevance probability: logistic for a
// single logit, softmax positive class for two.
func probability(row []float64) (float64, error) {
	switch len(row) {
	case 1:
		return sigmoid(row[0]), nil
	case 2:
		m := math.Max(row[0], row[1])
		e0 := math.Exp(row[0] - m)
		e1 := math.Exp(row[1] - m)
		return e1 / (e0 + e1), nil
	default:
		return 0, fmt.Errorf("unsupported logit width %d", len(row))
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Normalize squashes unbounded scores above 1 through the logistic function.
// Scores already in [0,1] pass through unchanged.
func Normalize(score float64) float64 {
	if score > 1 {
		return sigmoid(score)
	}
	return score
}
