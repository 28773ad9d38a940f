package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/humanizer/pkg/chats/chat"
	"github.com/germanamz/humanizer/pkg/chats/message"
	"github.com/germanamz/humanizer/pkg/chats/role"
	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/germanamz/humanizer/pkg/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *openai.Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return openai.New(srv.URL, "sk-test", "gpt-test")
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func textReply(text string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 7},
	}
}

func TestComplete_SimpleText(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		req := readBody(t, r)
		assert.Equal(t, "gpt-test", req["model"])

		msgs, ok := req["messages"].([]any)
		assert.True(t, ok)
		if assert.Len(t, msgs, 2) {
			m0, _ := msgs[0].(map[string]any)
			m1, _ := msgs[1].(map[string]any)
			assert.Equal(t, "system", m0["role"])
			assert.Equal(t, "You are a human writer.", m0["content"])
			assert.Equal(t, "user", m1["role"])
			assert.Equal(t, "Hello", m1["content"])
		}

		writeJSON(t, w, textReply("Hey. What's up?"))
	})

	c := chat.New(
		message.NewText("", role.System, "You are a human writer."),
		message.NewText("user", role.User, "Hello"),
	)

	msg, err := adapter.Complete(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, role.Assistant, msg.Role)
	assert.Equal(t, "Hey. What's up?", msg.TextContent())

	last, ok := adapter.Usage.Last()
	require.True(t, ok)
	assert.Equal(t, 12, last.InputTokens)
	assert.Equal(t, 7, last.OutputTokens)
}

func TestComplete_MultiTurnOrder(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		msgs, _ := readBody(t, r)["messages"].([]any)

		var roles []string
		for _, m := range msgs {
			entry, _ := m.(map[string]any)
			r, _ := entry["role"].(string)
			roles = append(roles, r)
		}
		assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)

		writeJSON(t, w, textReply("sure"))
	})

	c := chat.New(
		message.NewText("", role.System, "sys"),
		message.NewText("user", role.User, "one"),
		message.NewText("gpt-test", role.Assistant, "two"),
		message.NewText("user", role.User, "three"),
	)

	_, err := adapter.Complete(context.Background(), c)
	require.NoError(t, err)
}

func TestComplete_SamplingParameters(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)

		assert.InDelta(t, 0.95, req["temperature"], 1e-9)
		assert.InDelta(t, 0.92, req["top_p"], 1e-9)
		assert.InDelta(t, 0.4, req["presence_penalty"], 1e-9)
		assert.InDelta(t, 0.3, req["frequency_penalty"], 1e-9)
		assert.InDelta(t, 2048, req["max_completion_tokens"], 1e-9)

		_, hasTopK := req["top_k"]
		assert.False(t, hasTopK, "top_k is not a Chat Completions parameter")
		_, hasEffort := req["reasoning_effort"]
		assert.False(t, hasEffort)

		writeJSON(t, w, textReply("ok"))
	})
	adapter.Sampling = modeladapter.Sampling{
		Temperature:      0.95,
		TopP:             0.92,
		TopK:             50,
		PresencePenalty:  0.4,
		FrequencyPenalty: 0.3,
		MaxTokens:        2048,
	}

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.NoError(t, err)
}

func TestComplete_ReasoningHints(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)

		assert.Equal(t, "minimal", req["reasoning_effort"])
		assert.Equal(t, "medium", req["verbosity"])
		_, hasTemp := req["temperature"]
		assert.False(t, hasTemp)

		writeJSON(t, w, textReply("ok"))
	})
	adapter.Sampling = modeladapter.Sampling{
		ReasoningEffort: "minimal",
		Verbosity:       "medium",
		MaxTokens:       4096,
	}

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.NoError(t, err)
}

func TestComplete_EmptyChoices(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"choices": []any{}})
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
	assert.ErrorIs(t, err, modeladapter.ErrEmptyResponse)
}

func TestComplete_NullContent(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": nil}, "finish_reason": "length"},
			},
		})
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"length"`)
	assert.ErrorIs(t, err, modeladapter.ErrEmptyResponse)
}

func TestComplete_Refusal(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": nil, "refusal": "I can't help with that."}, "finish_reason": "stop"},
			},
		})
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model refused")
}

func TestComplete_QuotaError(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("x-ratelimit-remaining-requests", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":"insufficient_quota"}}`))
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.True(t, modeladapter.IsQuota(err))

	info := adapter.LastRateLimitInfo()
	require.NotNil(t, info)
	assert.Equal(t, 0, info.RemainingRequests)
}
