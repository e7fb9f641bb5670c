package ner_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/ner"
)

func newTestClient(url string, retries int) *ner.Client {
	return ner.NewClient(&config.NERConfig{URL: url, APIKey: "ner-key", TimeoutSecs: 5, MaxRetries: retries})
}

func TestClient_Recognize_Success(t *testing.T) {
	text := "세무서에 2025년 5월 31일까지 신고"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer ner-key", r.Header.Get("Authorization"))

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, text, req.Text)

		_, _ = w.Write([]byte(`{"entities":[
			{"text":"세무서","label":"org","start":0,"end":3,"confidence":0.93},
			{"label":"DATE","start":5,"end":17,"confidence":0.88},
			{"text":"???","label":"PERSON","start":0,"end":1},
			{"text":"out","label":"MONEY","start":10,"end":999}
		]}`))
	}))
	defer server.Close()

	entities, err := newTestClient(server.URL, 0).Recognize(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, domain.LabelOrganization, entities[0].Label)
	assert.Equal(t, "세무서", entities[0].Text)
	assert.True(t, entities[0].FromNER())

	assert.Equal(t, domain.LabelDate, entities[1].Label)
	assert.Equal(t, "2025년 5월 31일", entities[1].Text)
	assert.InDelta(t, 0.88, entities[1].Confidence, 1e-9)
}

func TestClient_Recognize_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).Recognize(context.Background(), "text")

	var rlErr *ner.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 42*time.Second, rlErr.RetryAfter)
}

func TestClient_Recognize_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"entities":[]}`))
	}))
	defer server.Close()

	entities, err := newTestClient(server.URL, 1).Recognize(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Recognize_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 2).Recognize(context.Background(), "text")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Recognize_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 0).Recognize(context.Background(), "text")
	assert.ErrorContains(t, err, "unmarshaling response")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, ner.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ner.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 30, ner.ParseRetryAfterHeader("30"))
	assert.Equal(t, 60*time.Second, ner.NewRateLimitError(errors.New("x"), 0).RetryAfter)
}
