package modeladapter_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpenAIRateLimitHeaders_AllHeaders(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	h := http.Header{}
	h.Set("x-ratelimit-remaining-requests", "59")
	h.Set("x-ratelimit-remaining-tokens", "149000")
	h.Set("x-ratelimit-reset-requests", "1s")
	h.Set("x-ratelimit-reset-tokens", "6m0s")

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, now)
	require.NotNil(t, info)
	assert.Equal(t, 59, info.RemainingRequests)
	assert.Equal(t, 149000, info.RemainingTokens)
	assert.Equal(t, now.Add(time.Second), info.RequestsReset)
	assert.Equal(t, now.Add(6*time.Minute), info.TokensReset)
}

func TestParseOpenAIRateLimitHeaders_RFC3339Reset(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	reset := now.Add(30 * time.Second)

	h := http.Header{}
	h.Set("x-ratelimit-remaining-tokens", "10")
	h.Set("x-ratelimit-reset-tokens", reset.Format(time.RFC3339))

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, now)
	require.NotNil(t, info)
	assert.Equal(t, 0, info.RemainingRequests)
	assert.Equal(t, reset, info.TokensReset)
	assert.True(t, info.RequestsReset.IsZero())
}

func TestParseOpenAIRateLimitHeaders_NoHeaders(t *testing.T) {
	assert.Nil(t, modeladapter.ParseOpenAIRateLimitHeaders(http.Header{}, time.Now()))
}

func TestParseOpenAIRateLimitHeaders_GarbageReset(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-remaining-requests", "1")
	h.Set("x-ratelimit-reset-requests", "whenever")

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, time.Now())
	require.NotNil(t, info)
	assert.True(t, info.RequestsReset.IsZero())
}
