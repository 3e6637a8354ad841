package manager

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiengine/pkg/types"
)

type capturedChat struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeOpenAI(t *testing.T, status int, body string) (*httptest.Server, *capturedChat) {
	t.Helper()
	got := &capturedChat{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

const chatOK = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
"choices":[{"index":0,"message":{"role":"assistant","content":"  Sales average 20.  "},"finish_reason":"stop"}],
"usage":{"prompt_tokens":40,"completion_tokens":5,"total_tokens":45}}`

func TestOpenAIEngine_Query(t *testing.T) {
	srv, got := fakeOpenAI(t, http.StatusOK, chatOK)
	e := newOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", PreviewRows: 2})

	data := process(t, []any{1.0, 2.0, 3.0})
	res, err := e.Query(context.Background(), "what is the average?", data, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sales average 20.", res["answer"])
	assert.Equal(t, 2, res["rows_sent"])
	assert.Equal(t, map[string]any{"prompt_tokens": 40, "completion_tokens": 5, "total_tokens": 45}, res["usage"])

	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	user := got.Messages[1].Content
	assert.Contains(t, user, "Dataset (3 rows, first 2 shown as JSON)")
	assert.Contains(t, user, `[{"value":1},{"value":2}]`)
	assert.True(t, strings.HasSuffix(user, "Question: what is the average?"))
}

func TestOpenAIEngine_Errors(t *testing.T) {
	srv, _ := fakeOpenAI(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`)
	e := newOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	_, err := e.Query(context.Background(), "q", process(t, []any{1.0}), nil)
	assert.EqualError(t, err, "openai completion: empty response")

	bad, _ := fakeOpenAI(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
	e = newOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: bad.URL + "/v1"})
	_, err = e.Query(context.Background(), "q", process(t, []any{1.0}), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai completion")

	_, err = e.Query(context.Background(), "q", process(t, []any{1.0}), map[string]any{"temperature": "hot"})
	assert.EqualError(t, err, "param temperature must be a number")
}

func TestManager_OpenAIManifestUsesModelParam(t *testing.T) {
	srv, got := fakeOpenAI(t, http.StatusOK, chatOK)
	dir := t.TempDir()
	writeFile(t, dir, "n.yaml", "name: narrator\nkind: query\nengine: openai\nparams:\n  model: gpt-4.1\n")
	m := NewWithConfig(ManagerConfig{Logger: zerolog.Nop(), OpenAI: OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}})
	require.NoError(t, m.InitModels(context.Background(), dir))
	defer m.Close()

	res, err := m.ProcessQuery(context.Background(), "summarise", types.NewValue([]any{1.0}), "narrator")
	require.NoError(t, err)
	assert.Equal(t, "narrator", res["model_used"])
	assert.Equal(t, "gpt-4.1", got.Model)
}
