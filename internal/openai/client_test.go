package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/davidhbaek/aidebate/internal/openai"
	"github.com/davidhbaek/aidebate/internal/wire"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

type seenRequest struct {
	path    string
	auth    string
	body    chatRequest
	decoded error
}

// recorded is what the fake completions endpoint was sent.
type recorded struct {
	mu  sync.Mutex
	req seenRequest
}

func (r *recorded) get() seenRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.req
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.req.path = r.URL.Path
		rec.req.auth = r.Header.Get("Authorization")
		rec.req.decoded = json.NewDecoder(r.Body).Decode(&rec.req.body)
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func requireRequest(t *testing.T, rec *recorded) chatRequest {
	t.Helper()

	got := rec.get()
	require.Equal(t, "/v1/chat/completions", got.path)
	require.Equal(t, "Bearer test-key", got.auth)
	require.NoError(t, got.decoded)
	return got.body
}

const okBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "gpt-4o",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "Pick ChatGPT."}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
}`

func TestNewService(t *testing.T) {
	_, err := openai.NewService(openai.Config{})
	require.ErrorIs(t, err, openai.ErrMissingAPIKey)

	svc, err := openai.NewService(openai.Config{APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "ChatGPT (OpenAI)", svc.Name())
	require.Equal(t, openai.DefaultModel, svc.Model())
}

func TestDebate(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, okBody)

	svc, err := openai.NewService(openai.Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	text, err := svc.Debate(context.Background(), "which membership", "likes anime")
	require.NoError(t, err)
	require.Equal(t, "Pick ChatGPT.", text)

	got := requireRequest(t, rec)

	require.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "user", got.Messages[1].Role)

	var system, user string
	require.NoError(t, json.Unmarshal(got.Messages[0].Content, &system))
	require.NoError(t, json.Unmarshal(got.Messages[1].Content, &user))
	require.Contains(t, system, "likes anime")
	require.Contains(t, user, "Topic: which membership")
}

func TestDebateWithImage(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, okBody)

	svc, err := openai.NewService(openai.Config{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Images:  []wire.Image{{MediaType: "image/png", Data: []byte("png")}},
	})
	require.NoError(t, err)

	_, err = svc.Debate(context.Background(), "topic", "background")
	require.NoError(t, err)

	got := requireRequest(t, rec)
	require.Len(t, got.Messages, 2)

	var parts []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(got.Messages[1].Content, &parts))
	require.Len(t, parts, 2)
	require.Equal(t, "text", parts[0].Type)
	require.Equal(t, "image_url", parts[1].Type)
	require.Equal(t, "data:image/png;base64,cG5n", parts[1].ImageURL.URL)
}

func TestDebateErrors(t *testing.T) {
	tests := []struct {
		Name   string
		Status int
		Body   string
		Check  func(t *testing.T, err error)
	}{
		{
			Name:   "Bad credential surfaces API error",
			Status: http.StatusUnauthorized,
			Body:   `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			Check: func(t *testing.T, err error) {
				var apiErr *goopenai.APIError
				require.True(t, errors.As(err, &apiErr))
				require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
			},
		},
		{
			Name:   "Empty choices",
			Status: http.StatusOK,
			Body:   `{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`,
			Check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, openai.ErrNoChoices)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			srv, rec := newServer(t, test.Status, test.Body)

			svc, err := openai.NewService(openai.Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
			require.NoError(t, err)

			_, err = svc.Debate(context.Background(), "topic", "background")
			require.Error(t, err)
			test.Check(t, err)
			requireRequest(t, rec)
		})
	}
}
