package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractResponseText(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "concatena en orden",
			body: `{"output":[{"type":"message","content":[{"type":"output_text","text":"<section>"},{"type":"output_text","text":"hola"}]},{"type":"message","content":[{"type":"output_text","text":"</section>"}]}]}`,
			want: "<section>hola</section>",
		},
		{
			name: "eco de tool como string",
			body: `{"output":[{"type":"web_search_call","input":"hotels near javits"},{"type":"message","content":[{"type":"output_text","text":" ok"}]}]}`,
			want: "hotels near javits ok",
		},
		{
			name: "fallback a output_text",
			body: `{"output":[],"output_text":"plain"}`,
			want: "plain",
		},
		{
			name: "sin texto usa placeholder",
			body: `{"output":[{"type":"message","content":[]}]}`,
			want: NoTextPlaceholder,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractResponseText([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResponsesClient_Generate(t *testing.T) {
	t.Run("envia modelo instrucciones y tools", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/responses", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			_, _ = w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"hi"}]}]}`))
		}))
		defer srv.Close()

		c := NewResponsesClient(srv.URL, NewCredentials("sk-test", "gpt-4o"), time.Second, nil)
		out, err := c.Generate(context.Background(), "ping", GenerateOptions{
			Instructions: "be brief",
			Reasoning:    ReasoningLow,
			Tools:        []Tool{WebSearchTool},
		})
		require.NoError(t, err)
		assert.Equal(t, "hi", out)
		assert.Equal(t, "gpt-4o", got["model"])
		assert.Equal(t, "ping", got["input"])
		assert.Equal(t, "be brief", got["instructions"])
		assert.Equal(t, map[string]any{"effort": "low"}, got["reasoning"])
		assert.Len(t, got["tools"], 1)
	})

	t.Run("sin api key", func(t *testing.T) {
		c := NewResponsesClient("http://127.0.0.1:1", NewCredentials("", ""), time.Second, nil)
		_, err := c.Generate(context.Background(), "ping", GenerateOptions{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("status de error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`rate limited`))
		}))
		defer srv.Close()

		c := NewResponsesClient(srv.URL, NewCredentials("k", ""), time.Second, nil)
		_, err := c.Generate(context.Background(), "ping", GenerateOptions{})
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
		assert.Equal(t, "rate limited", te.Body)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		c := NewResponsesClient(srv.URL, NewCredentials("k", ""), 50*time.Millisecond, nil)
		_, err := c.Generate(context.Background(), "ping", GenerateOptions{})
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestChatClient_Generate(t *testing.T) {
	t.Run("devuelve el primer choice", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			var req map[string]any
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &req)
			msgs, _ := req["messages"].([]any)
			assert.Len(t, msgs, 2)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hola"}}]}`))
		}))
		defer srv.Close()

		c := NewChatClient(srv.URL, NewCredentials("k", ""), time.Second, nil)
		out, err := c.Generate(context.Background(), "ping", GenerateOptions{Instructions: "sys"})
		require.NoError(t, err)
		assert.Equal(t, "hola", out)
	})

	t.Run("error de api mapeado", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		}))
		defer srv.Close()

		c := NewChatClient(srv.URL, NewCredentials("k", ""), time.Second, nil)
		_, err := c.Generate(context.Background(), "ping", GenerateOptions{})
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
	})
}

func TestMockClient_Secuencia(t *testing.T) {
	m := &MockClient{Responses: []string{"a", "b"}}
	ctx := context.Background()
	for _, want := range []string{"a", "b", "b"} {
		got, err := m.Generate(ctx, "p", GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, m.Calls())
	assert.Equal(t, "p", m.History()[0].Prompt)
}

func TestIsUsable(t *testing.T) {
	assert.False(t, IsUsable(""))
	assert.False(t, IsUsable("  "))
	assert.False(t, IsUsable(NoTextPlaceholder))
	assert.True(t, IsUsable("<section>x</section>"))
}
