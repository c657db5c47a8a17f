package analyses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"wsid-backend/internal/analyses/ruleengine"
	"wsid-backend/internal/llm"
)

func newTestRouter(client llm.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	analyzer := ruleengine.NewAnalyzer(ruleengine.Standard(), ruleengine.RankSummarizer{})
	svc := NewService(analyzer, client, nil, NewMemoryRepo(), 12*time.Second)
	h := NewHandler(svc, llm.NewKeyTable(nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test")
		c.Next()
	})
	r.POST("/api/v1/analyze", h.Analyze)
	r.POST("/api/v1/analyze/batch", h.AnalyzeBatch)
	r.GET("/api/v1/analyses", h.List)
	r.GET("/api/v1/keys/status", h.KeysStatus)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerAnalyzeOK(t *testing.T) {
	r := newTestRouter(nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyze", `{"text":"Submit the form by Friday."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var record Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record.Engine != EngineLocal {
		t.Fatalf("engine = %s", record.Engine)
	}
	if record.Result.NextStep == "" {
		t.Fatal("expected a next step")
	}
}

func TestHandlerAnalyzeInputTooShort(t *testing.T) {
	r := newTestRouter(nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyze", `{"text":"hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "input_too_short") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestHandlerAnalyzeKeysExhausted(t *testing.T) {
	r := newTestRouter(exhaustedLLM{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyze", `{"text":"`+urgentLongText+`"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if !strings.Contains(w.Body.String(), "keys_exhausted") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestHandlerAnalyzeBatchTooMany(t *testing.T) {
	r := newTestRouter(nil)

	texts := make([]string, maxBatchItems+1)
	for i := range texts {
		texts[i] = `"Pay the fee today."`
	}
	body := `{"texts":[` + strings.Join(texts, ",") + `]}`

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyze/batch", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestHandlerListEmpty(t *testing.T) {
	r := newTestRouter(nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/analyses", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"analyses":[]`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestHandlerKeysStatus(t *testing.T) {
	r := newTestRouter(nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/keys/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"keys"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}
