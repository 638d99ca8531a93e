package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alkime/carepost/internal/audit"
	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/config"
	"github.com/alkime/carepost/internal/content"
	"github.com/alkime/carepost/internal/llm"
	"github.com/alkime/carepost/internal/metrics"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/rewrite"
	"github.com/alkime/carepost/internal/server"
	"github.com/alkime/carepost/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sourceURL = "https://blog.example.com/family-care"
	telephone = "02-123-4567"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Env:            "test",
		Port:           "8080",
		HSTSMaxAge:     31536000,
		CSPMode:        "relaxed",
		LogLevel:       "info",
		AllowedOrigins: []string{"http://localhost:3000"},
		StaticDir:      filepath.Join(t.TempDir(), "missing"),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors during tests
	}))
}

func fixtureStore() *sheets.MemoryStore {
	return sheets.NewMemoryStore(map[string]sheets.Table{
		"센터정보": {
			{catalog.HeaderCenterID, catalog.HeaderCenterName, catalog.HeaderCenterTel, catalog.HeaderCenterAddress},
			{"center_1", "행복요양센터", telephone, "서울특별시 강남구 테헤란로 1"},
		},
		"posts_full": {
			{"id", "title", "pcUrl", "mobileUrl", "date", "contentText"},
			{"1", "가족요양 제도 안내", sourceURL, "", "", "가족요양은 가족이 직접 돌보는 제도입니다."},
		},
		"주제": {
			{"topic_id", "service", "topic_tag", "display_name", "keywords"},
			{"t1", "가족요양", "family_cost", "가족요양 비용", "비용, 본인부담"},
		},
	})
}

func validDocument() string {
	return "<<SEO_TITLES>>\n" +
		"1. 가족요양 신청 방법 총정리\n" +
		"2. 강남 가족요양 센터 선택법\n" +
		"3. 가족요양 급여 한눈에 보기\n" +
		"<<BODY>>\n" +
		"행복요양센터에서 가족요양 제도를 안내드립니다.\n\n" +
		strings.Repeat("따뜻한 돌봄을 약속합니다. ", 60) + "\n\n" +
		"가족요양 상담은 " + telephone + "로 연락 주세요.\n" +
		"<<END>>"
}

type fakeModels struct{}

func (fakeModels) ListModels(context.Context) ([]llm.Model, error) {
	return []llm.Model{{Name: "gemini-2.0-flash"}}, nil
}

func newServer(t *testing.T, store *sheets.MemoryStore, backend llm.Backend) *server.Server {
	t.Helper()

	cat := catalog.New(store, "1522-6585")
	m := metrics.New()
	rw := rewrite.NewService(cat, backend, audit.NewSink(store, catalog.LogRange), rewrite.Options{
		Rules:          config.DefaultRules(),
		RecruitmentTag: "요양보호사",
		Observer:       m,
	})
	gen := reference.NewGenerator(cat, store, backend, 2200, "1522-6585", nil)

	return server.New(testConfig(t), testLogger(), server.Deps{
		Catalog:   cat,
		Rewriter:  rw,
		Generator: gen,
		Models:    fakeModels{},
		Metrics:   m.Handler(),
	})
}

func staticBackend(text string) llm.Backend {
	return llm.Func(func(context.Context, string) (string, error) { return text, nil })
}

func do(srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv := newServer(t, fixtureStore(), staticBackend(""))

	w := do(srv, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "carepost")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newServer(t, fixtureStore(), staticBackend(""))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t, fixtureStore(), staticBackend(""))
	req := httptest.NewRequest(http.MethodOptions, "/api/generate-from-sheet", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestListEndpoints(t *testing.T) {
	srv := newServer(t, fixtureStore(), staticBackend(""))

	w := do(srv, http.MethodGet, "/api/centers", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	centers := body["centers"].([]any)
	require.Len(t, centers, 1)
	assert.Equal(t, "center_1", centers[0].(map[string]any)["centerId"])

	w = do(srv, http.MethodGet, "/api/source-posts?limit=5&service=%EA%B0%80%EC%A1%B1%EC%9A%94%EC%96%91", "")
	require.Equal(t, http.StatusOK, w.Code)
	posts := decode(t, w)["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, sourceURL, posts[0].(map[string]any)["pcUrl"])

	w = do(srv, http.MethodGet, "/api/topics?service=%EA%B0%80%EC%A1%B1%EC%9A%94%EC%96%91", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"가족요양"}, decode(t, w)["services"])

	w = do(srv, http.MethodGet, "/api/models", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gemini-2.0-flash")
}

func TestGenerateFromSheet(t *testing.T) {
	store := fixtureStore()
	srv := newServer(t, store, staticBackend(validDocument()))

	w := do(srv, http.MethodPost, "/api/generate-from-sheet",
		`{"centerId":"center_1","keyword1":"가족요양","sourcePcUrl":"`+sourceURL+`","service":"가족요양"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])

	text := body["text"].(string)
	assert.True(t, content.HasMarkers(text))
	hits := content.CountOccurrences(content.ExtractBody(text), "가족요양")
	assert.GreaterOrEqual(t, hits, 2)
	assert.LessOrEqual(t, hits, 3)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, "행복요양센터", meta["centerName"])
	assert.Equal(t, "accepted", meta["state"])
	assert.Len(t, store.Appended("Log"), 1)

	w = do(srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateFromSheet_MissingField(t *testing.T) {
	store := fixtureStore()
	backend := llm.Func(func(context.Context, string) (string, error) {
		t.Fatal("backend must not be called")
		return "", nil
	})
	srv := newServer(t, store, backend)

	w := do(srv, http.MethodPost, "/api/generate-from-sheet",
		`{"centerId":"center_1","keyword1":"가족요양","service":"가족요양"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "sourcePcUrl")
	assert.Empty(t, store.Appended("Log"))
}

func TestGenerateFromSheet_Errors(t *testing.T) {
	srv := newServer(t, fixtureStore(), staticBackend(validDocument()))

	w := do(srv, http.MethodPost, "/api/generate-from-sheet", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_body", decode(t, w)["code"])

	w = do(srv, http.MethodPost, "/api/generate-from-sheet",
		`{"centerId":"nope","keyword1":"가족요양","sourcePcUrl":"`+sourceURL+`","service":"가족요양"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])
}

func TestGenerate_Legacy(t *testing.T) {
	srv := newServer(t, fixtureStore(), staticBackend(" 짧은 글 "))

	w := do(srv, http.MethodPost, "/api/generate", `{"prompt":"주간보호 소개"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "짧은 글", body["text"])
	assert.Equal(t, reference.ModeLegacy, body["mode"])
	assert.NotContains(t, body, "debug")

	w = do(srv, http.MethodPost, "/api/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaticAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>carepost</h1>"), 0o600))
	cfg := testConfig(t)
	cfg.StaticDir = dir
	srv := server.New(cfg, testLogger(), server.Deps{Catalog: catalog.New(fixtureStore(), "")})

	w := do(srv, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "carepost")

	w = do(srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
