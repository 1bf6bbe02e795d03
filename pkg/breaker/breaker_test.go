package breaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestExecuteReturnsTypedResult(t *testing.T) {
	cb := New(DefaultConfig("test"))

	got, err := Execute(cb, func() ([]float64, error) {
		return []float64{0.1, 0.9}, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.9}, got)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cfg := DefaultConfig("flaky")
	cfg.MinRequests = 2
	cfg.FailureThreshold = 0.5
	cb := New(cfg)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_, err := Execute(cb, func() (string, error) { return "", boom })
		assert.ErrorIs(t, err, boom)
	}

	_, err := Execute(cb, func() (string, error) { return "ok", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
