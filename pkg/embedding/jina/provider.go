package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"hr-faq-be/pkg/breaker"

	"github.com/sony/gobreaker"
)

// JinaProvider calls the hosted Jina embeddings API. The default model is
// multilingual so Arabic and English questions share one vector space.
type JinaProvider struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	client     *http.Client
	cb         *gobreaker.CircuitBreaker
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
	Task       string   `json:"task,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey, model string, dimensions int, timeout time.Duration) *JinaProvider {
	if model == "" {
		model = "jina-embeddings-v3"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &JinaProvider{
		apiKey:     apiKey,
		baseURL:    "https://api.jina.ai/v1/embeddings",
		model:      model,
		dimensions: dimensions,
		client:     &http.Client{Timeout: timeout},
		cb:         breaker.New(breaker.DefaultConfig("embedding-jina")),
	}
}

func (p *JinaProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	return breaker.Execute(p.cb, func() ([]float32, error) {
		return p.generate(ctx, text)
	})
}

func (p *JinaProvider) generate(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(embeddingRequest{
		Model:      p.model,
		Input:      []string{text},
		Dimensions: p.dimensions,
		Task:       "text-matching",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var jinaResp embeddingResponse
	if err := json.Unmarshal(bodyBytes, &jinaResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if jinaResp.Error != nil {
		return nil, fmt.Errorf("jina api returned error: %s", jinaResp.Error.Message)
	}
	if len(jinaResp.Data) == 0 || len(jinaResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embeddings from jina api")
	}

	return unit(jinaResp.Data[0].Embedding), nil
}

func unit(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
