package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"aiengine/pkg/types"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"off":   LevelOff,
		"none":  LevelOff,
		"error": LevelError,
		"INFO":  LevelInfo,
		"":      LevelInfo,
		"debug": LevelDebug,
		"1":     LevelDebug,
		"bogus": LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	s := &server{logLevel: LevelError}
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	if got := s.requestLogLevel(r); got != LevelError {
		t.Fatalf("default=%v", got)
	}
	r.Header.Set("X-Log-Level", "debug")
	if got := s.requestLogLevel(r); got != LevelDebug {
		t.Fatalf("header override=%v", got)
	}
	r = httptest.NewRequest(http.MethodGet, "/health?log=off", nil)
	r.Header.Set("X-Log-Level", "debug")
	if got := s.requestLogLevel(r); got != LevelOff {
		t.Fatalf("query override=%v", got)
	}
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestRequestLogger_WritesRouteAndStatus(t *testing.T) {
	var buf bytes.Buffer
	h := NewMux(Services{Models: &mockManager{}, Processor: &mockProcessor{}, Insights: &mockInsights{}},
		Options{Logger: zerolog.New(&buf), Version: "x"})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	lines := logLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %s", len(lines), buf.String())
	}
	l := lines[0]
	if l["message"] != "request" || l["route"] != "/health" || l["status"] != 200.0 || l["request_id"] == nil {
		t.Fatalf("unexpected log line: %v", l)
	}
}

func TestRequestLogger_ErrorLevelSkipsSuccess(t *testing.T) {
	var buf bytes.Buffer
	mgr := &mockManager{}
	h := NewMux(Services{Models: mgr, Processor: &mockProcessor{}, Insights: &mockInsights{}},
		Options{Logger: zerolog.New(&buf), RequestLogLevel: "error"})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected no log for 200 at error level, got %s", buf.String())
	}
}

func TestCollaboratorErrorLoggedWithStack(t *testing.T) {
	var buf bytes.Buffer
	mgr := &mockManager{modelsErr: errTest("boom")}
	h := NewMux(Services{Models: mgr, Processor: &mockProcessor{}, Insights: &mockInsights{}},
		Options{Logger: zerolog.New(&buf), RequestLogLevel: "off"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	lines := logLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one error entry, got %s", buf.String())
	}
	l := lines[0]
	if l["level"] != "error" || l["error"] != "boom" || l["call"] != "list_available_models" {
		t.Fatalf("unexpected entry: %v", l)
	}
	if s, _ := l["stack"].(string); !strings.Contains(s, "goroutine") {
		t.Fatalf("missing stack trace: %v", l["stack"])
	}
}

func TestValidationErrorLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewMux(Services{Models: &mockManager{}, Processor: &mockProcessor{}, Insights: &mockInsights{}},
		Options{Logger: zerolog.New(&buf).Level(zerolog.InfoLevel), RequestLogLevel: "off"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`)))
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error != types.MsgNoDataset {
		t.Fatalf("body=%s err=%v", w.Body.String(), err)
	}
	if buf.Len() != 0 {
		t.Fatalf("validation failures must not log above debug: %s", buf.String())
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
