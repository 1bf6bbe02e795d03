package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *JinaProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewJinaProvider("secret-key", "", 768, time.Second)
	p.baseURL = srv.URL
	return p
}

func TestJinaProvider_Generate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jina-embeddings-v3", req.Model)
		assert.Equal(t, []string{"سؤال"}, req.Input)
		assert.Equal(t, 768, req.Dimensions)

		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0,2]}]}`))
	})

	vec, err := p.Generate(context.Background(), "سؤال")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, vec)
}

func TestJinaProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"non-200", http.StatusUnauthorized, `{"detail":"bad key"}`, "status 401"},
		{"api error", http.StatusOK, `{"data":[],"error":{"message":"quota"}}`, "quota"},
		{"empty data", http.StatusOK, `{"data":[]}`, "empty embeddings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Generate(context.Background(), "q")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
