// Package translate provides best-effort machine translation. A failed
// translation never fails the caller: the input text is returned unchanged.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"hr-faq-be/pkg/breaker"
	"hr-faq-be/pkg/rag/language"

	"github.com/sony/gobreaker"
)

type Translator interface {
	Translate(ctx context.Context, text string, target language.Code) string
}

// NopTranslator returns every input unchanged.
type NopTranslator struct{}

func (NopTranslator) Translate(_ context.Context, text string, _ language.Code) string {
	return text
}

// HTTPTranslator talks to a LibreTranslate compatible endpoint.
type HTTPTranslator struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
}

func NewHTTPTranslator(baseURL, apiKey string, timeout time.Duration) *HTTPTranslator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPTranslator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		cb:      breaker.New(breaker.DefaultConfig("translator")),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text string, target language.Code) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out, err := breaker.Execute(t.cb, func() (string, error) {
		return t.translate(ctx, text, target)
	})
	if err != nil {
		log.Printf("[WARN] translation to %s failed, returning original text: %v", target, err)
		return text
	}
	return out
}

func (t *HTTPTranslator) translate(ctx context.Context, text string, target language.Code) (string, error) {
	source := language.Arabic
	if target == language.Arabic {
		source = language.English
	}

	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: string(source),
		Target: string(target),
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translator error (status %d): %s", resp.StatusCode, string(raw))
	}

	var parsed translateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if parsed.TranslatedText == "" {
		return "", fmt.Errorf("translator returned empty text")
	}
	return parsed.TranslatedText, nil
}
