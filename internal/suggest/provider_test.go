package suggest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider(t *testing.T) {
	var got map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
	}))
	defer srv.Close()

	p := suggest.NewOpenAIProvider("sk-test", srv.URL, "", nil)
	out, err := p.SendPrompt(context.Background(), suggest.Prompt{System: "sys", User: "usr", Temperature: 0.7, MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-3.5-turbo", got["model"])
	assert.EqualValues(t, 100, got["max_tokens"])
	assert.Len(t, got["messages"], 2)
}

func TestOpenAIProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided"}}`)
	}))
	defer srv.Close()

	_, err := suggest.NewOpenAIProvider("sk-bad", srv.URL, "", nil).SendPrompt(context.Background(), suggest.Prompt{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Incorrect API key"))

	_, err = suggest.NewOpenAIProvider("", srv.URL, "", nil).SendPrompt(context.Background(), suggest.Prompt{})
	assert.ErrorIs(t, err, suggest.ErrMissingCredential)
}

func TestOpenAIProviderEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	_, err := suggest.NewOpenAIProvider("sk", srv.URL, "", nil).SendPrompt(context.Background(), suggest.Prompt{})
	assert.ErrorIs(t, err, suggest.ErrEmptyResponse)
}

func TestGeminiProvider(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"summary\":\"ok\",\"mood\":5}"}]}}]}`)
	}))
	defer srv.Close()

	p, err := suggest.NewGeminiProvider(context.Background(), "g-key", "gemini-2.0-flash", srv.URL+"/")
	require.NoError(t, err)

	out := suggest.NewService(p).AnalyzeJournal(context.Background(), "Great day")
	assert.Equal(t, "ok", out.Summary)
	assert.Equal(t, 5, out.Mood)
	assert.Contains(t, path, "gemini-2.0-flash:generateContent")

	_, err = suggest.NewGeminiProvider(context.Background(), "", "", "")
	assert.ErrorIs(t, err, suggest.ErrMissingCredential)
}

func TestNewProviderWithoutKey(t *testing.T) {
	p := suggest.NewProvider(context.Background(), config.AIConfig{Provider: "openai"}, nil)
	_, err := p.SendPrompt(context.Background(), suggest.Prompt{})
	assert.ErrorIs(t, err, suggest.ErrMissingCredential)

	out := suggest.NewService(p).GenerateTasksFromGoal(context.Background(), "Sleep", "")
	assert.Equal(t, suggest.FallbackTaskGeneration("Sleep", ""), out)
}
