package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hr-faq-be/pkg/breaker"

	"github.com/sony/gobreaker"
)

// Pair is one (query, passage) input to the relevance model.
type Pair struct {
	Query   string
	Passage string
}

// ScoreModel is a text-pair classifier. For every pair it returns the raw
// logits: one value for a single-logit head, two for a binary head.
type ScoreModel interface {
	Logits(ctx context.Context, pairs []Pair) ([][]float64, error)
}

// HTTPScoreModel calls a model server exposing POST /predict.
type HTTPScoreModel struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
}

func NewHTTPScoreModel(baseURL string, timeout time.Duration) *HTTPScoreModel {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPScoreModel{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cb:      breaker.New(breaker.DefaultConfig("relevance-model")),
	}
}

type predictRequest struct {
	Pairs [][2]string `json:"pairs"`
}

type predictResponse struct {
	Logits [][]float64 `json:"logits"`
}

func (m *HTTPScoreModel) Logits(ctx context.Context, pairs []Pair) ([][]float64, error) {
	return breaker.Execute(m.cb, func() ([][]float64, error) {
		return m.predict(ctx, pairs)
	})
}

func (m *HTTPScoreModel) predict(ctx context.Context, pairs []Pair) ([][]float64, error) {
	payload := predictRequest{Pairs: make([][2]string, len(pairs))}
	for i, p := range pairs {
		payload.Pairs[i] = [2]string{p.Query, p.Passage}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/predict", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relevance model error (status %d): %s", resp.StatusCode, string(raw))
	}

	var parsed predictResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	return parsed.Logits, nil
}
