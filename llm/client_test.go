package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(server *httptest.Server) *Client {
	client := NewClient("test-key", "test-model", server.URL)
	client.httpClient = server.Client()
	return client
}

func TestComplete_SendsSystemAndUserMessages(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		io.WriteString(w, `{"content": [{"type": "text", "text": "a summary"}]}`)
	}))
	defer server.Close()

	result, err := newTestClient(server).Complete(context.Background(), "be helpful", "summarize this")

	assert.NoError(t, err)
	assert.Equal(t, "a summary", result)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, "be helpful", captured.System)
	assert.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "summarize this", captured.Messages[0].Content)
}

func TestComplete_SkipsNonTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content": [{"type": "thinking", "text": ""}, {"type": "text", "text": "the answer"}]}`)
	}))
	defer server.Close()

	result, err := newTestClient(server).Complete(context.Background(), "", "hi")

	assert.NoError(t, err)
	assert.Equal(t, "the answer", result)
}

func TestComplete_APIErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error": {"type": "rate_limit_error", "message": "slow down"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server).Complete(context.Background(), "", "hi")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
	assert.Contains(t, err.Error(), "slow down")
}

func TestComplete_EmptyContentIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content": []}`)
	}))
	defer server.Close()

	_, err := newTestClient(server).Complete(context.Background(), "", "hi")

	assert.Error(t, err)
}
