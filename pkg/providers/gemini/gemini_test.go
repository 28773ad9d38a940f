package gemini_test

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
	"github.com/germanamz/humanizer/pkg/providers/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *gemini.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := gemini.New(srv.URL, "test-key", "gemini-test")

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
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

func textReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
		"usageMetadata": map[string]any{
			"promptTokenCount":     10,
			"candidatesTokenCount": 5,
			"totalTokenCount":      15,
		},
	}
}

func contentAt(t *testing.T, contents []any, i int) (string, string) {
	t.Helper()

	entry, _ := contents[i].(map[string]any)
	parts, _ := entry["parts"].([]any)
	if !assert.NotEmpty(t, parts) {
		return "", ""
	}
	first, _ := parts[0].(map[string]any)
	r, _ := entry["role"].(string)
	text, _ := first["text"].(string)

	return r, text
}

func TestComplete_SimpleText(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)

		// System prompt should be in systemInstruction, not in contents.
		si, ok := req["systemInstruction"].(map[string]any)
		assert.True(t, ok)
		siParts, _ := si["parts"].([]any)
		assert.Len(t, siParts, 1)
		firstPart, _ := siParts[0].(map[string]any)
		assert.Equal(t, "You are a human writer.", firstPart["text"])

		contents, ok := req["contents"].([]any)
		assert.True(t, ok)
		assert.Len(t, contents, 1)

		writeJSON(t, w, textReply("Honestly? Hi."))
	})

	c := chat.New(
		message.NewText("system", role.System, "You are a human writer."),
		message.NewText("user", role.User, "Hi"),
	)

	msg, err := adapter.Complete(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, role.Assistant, msg.Role)
	assert.Equal(t, "Honestly? Hi.", msg.TextContent())

	last, ok := adapter.Usage.Last()
	require.True(t, ok)
	assert.Equal(t, 10, last.InputTokens)
	assert.Equal(t, 5, last.OutputTokens)
}

func TestComplete_InstructionAsTurns(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)

		_, hasSI := req["systemInstruction"]
		assert.False(t, hasSI, "systemInstruction must be omitted")

		contents, ok := req["contents"].([]any)
		assert.True(t, ok)
		if !assert.Len(t, contents, 5) {
			return
		}

		r0, t0 := contentAt(t, contents, 0)
		assert.Equal(t, "user", r0)
		assert.Equal(t, "System: Write like a person.", t0)

		r1, t1 := contentAt(t, contents, 1)
		assert.Equal(t, "model", r1)
		assert.Equal(t, gemini.DefaultAcknowledgement, t1)

		r2, t2 := contentAt(t, contents, 2)
		assert.Equal(t, "user", r2)
		assert.Equal(t, "hello", t2)

		r3, _ := contentAt(t, contents, 3)
		assert.Equal(t, "model", r3)

		r4, t4 := contentAt(t, contents, 4)
		assert.Equal(t, "user", r4)
		assert.Equal(t, "how are you", t4)

		writeJSON(t, w, textReply("Eh. Fine."))
	})
	adapter.InstructionAsTurns = true

	c := chat.New(
		message.NewText("", role.System, "Write like a person."),
		message.NewText("user", role.User, "hello"),
		message.NewText("gemini-test", role.Assistant, "hey"),
		message.NewText("user", role.User, "how are you"),
	)

	msg, err := adapter.Complete(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "Eh. Fine.", msg.TextContent())
}

func TestComplete_CustomAcknowledgement(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		contents, _ := readBody(t, r)["contents"].([]any)
		if !assert.Len(t, contents, 3) {
			return
		}

		_, ack := contentAt(t, contents, 1)
		assert.Equal(t, "Got it.", ack)

		writeJSON(t, w, textReply("ok"))
	})
	adapter.InstructionAsTurns = true
	adapter.Acknowledgement = "Got it."

	c := chat.New(
		message.NewText("", role.System, "Be casual."),
		message.NewText("user", role.User, "yo"),
	)

	_, err := adapter.Complete(context.Background(), c)
	require.NoError(t, err)
}

func TestComplete_GenerationConfig(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := readBody(t, r)

		gc, ok := req["generationConfig"].(map[string]any)
		assert.True(t, ok)
		assert.InDelta(t, 0.95, gc["temperature"], 1e-9)
		assert.InDelta(t, 0.92, gc["topP"], 1e-9)
		assert.InDelta(t, 50, gc["topK"], 1e-9)
		assert.InDelta(t, 0.4, gc["presencePenalty"], 1e-9)
		assert.InDelta(t, 0.3, gc["frequencyPenalty"], 1e-9)
		assert.InDelta(t, 2048, gc["maxOutputTokens"], 1e-9)

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

func TestComplete_GenerationConfig_OmitsUnset(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gc, _ := readBody(t, r)["generationConfig"].(map[string]any)

		for _, key := range []string{"temperature", "topP", "topK", "presencePenalty", "frequencyPenalty"} {
			_, present := gc[key]
			assert.False(t, present, "%s should be omitted", key)
		}

		writeJSON(t, w, textReply("ok"))
	})
	adapter.Sampling = modeladapter.Sampling{}

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.NoError(t, err)
}

func TestComplete_SkipsThoughtParts(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"role": "model",
						"parts": []map[string]any{
							{"text": "planning...", "thought": true},
							{"text": "Short. "},
							{"text": "Then a much longer sentence."},
						},
					},
					"finishReason": "STOP",
				},
			},
		})
	})

	msg, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.NoError(t, err)
	assert.Equal(t, "Short. Then a much longer sentence.", msg.TextContent())
}

func TestComplete_EmptyCandidates(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"candidates":    []map[string]any{},
			"usageMetadata": map[string]any{"promptTokenCount": 5, "candidatesTokenCount": 0, "totalTokenCount": 5},
		})
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty candidates")
	assert.ErrorIs(t, err, modeladapter.ErrEmptyResponse)
}

func TestComplete_EmptyText(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"role": "model", "parts": []map[string]any{}}, "finishReason": "MAX_TOKENS"},
			},
		})
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
	assert.ErrorIs(t, err, modeladapter.ErrEmptyResponse)
}

func TestComplete_PromptBlocked(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt blocked: SAFETY")
}

func TestComplete_HTTPError(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	})

	_, err := adapter.Complete(context.Background(), chat.New(message.NewText("user", role.User, "Hi")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.True(t, modeladapter.IsAuth(err))
}
