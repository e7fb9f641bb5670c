// Package ner talks to the external named-entity recognizer.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/logging"
)

// labelAliases maps recognizer-specific tags onto entity labels.
var labelAliases = map[string]domain.EntityLabel{
	"ORG":     domain.LabelOrganization,
	"ACCOUNT": domain.LabelAccountNumber,
	"AMOUNT":  domain.LabelMoney,
	"DUE":     domain.LabelDeadline,
}

// Client implements port.EntityRecognizer over the recognizer's JSON HTTP API.
//
// Request:  POST {"text": "..."}
// Response: {"entities": [{"text", "label", "start", "end", "confidence"}]}
// Offsets are rune offsets into the posted text.
type Client struct {
	endpoint   string
	apiKey     string
	maxRetries int
	client     *http.Client
}

// NewClient creates a recognizer client from configuration.
func NewClient(cfg *config.NERConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   cfg.URL,
		apiKey:     cfg.APIKey,
		maxRetries: max(cfg.MaxRetries, 0),
		client:     &http.Client{Timeout: timeout},
	}
}

type recognizeRequest struct {
	Text string `json:"text"`
}

type recognizedEntity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

type recognizeResponse struct {
	Entities []recognizedEntity `json:"entities"`
}

// Recognize returns the recognizer's entities for text. Server errors are retried up to
// the configured count; 429 responses are returned at once as *RateLimitError.
func (c *Client) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	bodyBytes, err := json.Marshal(recognizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logging.For("ner.Client").Warnf("retrying recognizer call (attempt %d): %v", attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
		entities, retry, err := c.call(ctx, bodyBytes, text)
		if err == nil {
			return entities, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, fmt.Errorf("recognizer failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) call(ctx context.Context, body []byte, text string) ([]domain.Entity, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("calling recognizer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("recognizer error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, false, NewRateLimitError(baseErr, ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
		}
		return nil, resp.StatusCode >= http.StatusInternalServerError, baseErr
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, false, fmt.Errorf("unmarshaling response: %w (raw: %s)", err, truncate(string(respBody), 500))
	}
	return toEntities(parsed.Entities, text), false, nil
}

// toEntities keeps entities with a known label and a span inside text. A missing
// surface text is filled from the span.
func toEntities(raw []recognizedEntity, text string) []domain.Entity {
	runes := []rune(text)
	out := make([]domain.Entity, 0, len(raw))
	for _, r := range raw {
		label := domain.EntityLabel(strings.ToUpper(strings.TrimSpace(r.Label)))
		if alias, ok := labelAliases[string(label)]; ok {
			label = alias
		}
		if !domain.ValidLabels[label] || r.Start < 0 || r.End <= r.Start || r.End > len(runes) {
			continue
		}
		surface := r.Text
		if surface == "" {
			surface = string(runes[r.Start:r.End])
		}
		out = append(out, domain.Entity{
			Text:       surface,
			Label:      label,
			Start:      r.Start,
			End:        r.End,
			Confidence: r.Confidence,
			Sources:    domain.NewSources(domain.SourceNER),
		})
	}
	return out
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
