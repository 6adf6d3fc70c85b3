package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	failures int // fallas antes de responder bien
	err      error
	calls    int
}

func (p *countingProvider) Name() string { return "fake" }

func (p *countingProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls++
	if p.calls <= p.failures {
		return "", p.err
	}
	return "ok", nil
}

func TestGenerateWithRetryExitoDirecto(t *testing.T) {
	p := &countingProvider{}
	out, err := GenerateWithRetry(context.Background(), p, "prompt", 3)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, p.calls)
}

func TestGenerateWithRetryErrorPermanenteNoReintenta(t *testing.T) {
	p := &countingProvider{failures: 10, err: errors.New("400 bad request")}
	_, err := GenerateWithRetry(context.Background(), p, "prompt", 3)
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestGenerateWithRetryTransitorioAgotaIntentos(t *testing.T) {
	// maxRetries 0: un solo intento, sin espera
	p := &countingProvider{failures: 10, err: Transient(errors.New("overloaded"))}
	_, err := GenerateWithRetry(context.Background(), p, "prompt", 0)
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestGenerateWithRetryContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &countingProvider{failures: 10, err: Transient(errors.New("overloaded"))}
	_, err := GenerateWithRetry(ctx, p, "prompt", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(Transient(errors.New("cualquier cosa"))))
	assert.True(t, IsTransient(errors.New("503 Service Unavailable")))
	assert.True(t, IsTransient(errors.New("rate limit exceeded")))
	assert.True(t, IsTransient(errors.New("context deadline exceeded")))
	assert.False(t, IsTransient(errors.New("401 unauthorized")))
	assert.False(t, IsTransient(errors.New("invalid api key")))
}

func TestTransientNil(t *testing.T) {
	assert.NoError(t, Transient(nil))
}
