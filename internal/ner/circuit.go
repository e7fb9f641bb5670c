package ner

import (
	"context"
	"errors"
	"sync"
	"time"

	"docverify/internal/domain"
	"docverify/internal/logging"
	"docverify/internal/port"
)

// circuitState tracks rate-limit backoff for the recognizer.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// CircuitRecognizer stops calling the wrapped recognizer while it is rate limited.
// It implements port.EntityRecognizer.
type CircuitRecognizer struct {
	next    port.EntityRecognizer
	circuit *circuitState
	now     func() time.Time
}

// NewCircuitRecognizer wraps next. A nil clock uses time.Now.
func NewCircuitRecognizer(next port.EntityRecognizer, now func() time.Time) *CircuitRecognizer {
	if now == nil {
		now = time.Now
	}
	return &CircuitRecognizer{next: next, circuit: &circuitState{}, now: now}
}

// Recognize forwards to the wrapped recognizer unless the circuit is open.
func (r *CircuitRecognizer) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	now := r.now()
	if resetAt, open := r.circuit.isOpenWithReset(now); open {
		retryAfter := resetAt.Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError(ErrCircuitOpen, int(retryAfter.Seconds()))
	}

	entities, err := r.next.Recognize(ctx, text)
	if err == nil {
		return entities, nil
	}

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		resetAt := now.Add(rlErr.RetryAfter)
		r.circuit.open(resetAt)
		logging.For("ner.CircuitRecognizer").Warnf("recognizer rate limited, circuit open until %s", resetAt.Format(time.RFC3339))
	}
	return nil, err
}
