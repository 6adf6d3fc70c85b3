package ai

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// GenerateWithRetry calls the provider up to maxRetries+1 times, backing off
// exponentially (2^attempt seconds) on transient failures. Permanent errors
// return immediately so the caller can fall through to the next provider.
func GenerateWithRetry(ctx context.Context, p Provider, prompt string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<uint(attempt)) * time.Second
			logrus.WithFields(logrus.Fields{
				"provider": p.Name(),
				"attempt":  attempt,
				"delay":    delay.String(),
			}).Warn("reintentando llamada al proveedor")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		out, err := p.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if !IsTransient(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
