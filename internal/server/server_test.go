package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/styleselector/internal/db"
	"github.com/abdulachik/styleselector/internal/style"
)

const testCatalog = `[
	{"name":"anime","namezh":"动漫","prompt":"anime style, {prompt}","negative_prompt":"photo","category":"illustration, anime"},
	{"name":"photo","prompt":"photograph of {prompt}","negative_prompt":"drawing","category":"photography"}
]`

type testEnv struct {
	srv     *Server
	session *style.Session
	dir     string
	path    string
	store   *db.Store
}

func newTestEnv(t *testing.T, withHistory bool) *testEnv {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "styles.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	logger := slog.New(slog.DiscardHandler)
	session := style.NewSession(style.SessionConfig{
		Path:   path,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Logger: logger,
	})

	env := &testEnv{session: session, dir: dir, path: path}
	cfg := Config{
		Session:          session,
		StylesDir:        dir,
		EnabledByDefault: true,
		Logger:           logger,
	}
	if withHistory {
		store, err := db.NewStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		require.NoError(t, store.Migrate(context.Background()))
		t.Cleanup(func() { store.Close() })
		env.store = store
		cfg.History = store
	}

	env.srv = New(cfg)
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestServer_NotFound(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decode[errorResponse](t, rec)
	assert.NotEmpty(t, body.Error)
	assert.NotEmpty(t, body.RequestID)
}

func TestServer_RequestID(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("generated", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/categories", nil)
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		env.srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestServer_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := newTestEnv(t, true)

		rec := env.do(t, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[healthResponse](t, rec)
		assert.Equal(t, "healthy", body.Status)
		assert.True(t, body.Components[ComponentCatalog].Healthy)
		assert.True(t, body.Components[ComponentDatabase].Healthy)
	})

	t.Run("broken catalog", func(t *testing.T) {
		env := newTestEnv(t, false)
		bad := filepath.Join(env.dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"name":"x"}`), 0o644))

		rec := env.do(t, http.MethodPut, "/catalog", map[string]string{"name": "bad.json"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = env.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decode[healthResponse](t, rec)
		assert.Equal(t, "unhealthy", body.Status)
		assert.False(t, body.Components[ComponentCatalog].Healthy)
	})
}

func TestServer_Styles(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("default language", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/styles", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[stylesResponse](t, rec)
		assert.Equal(t, style.LanguageDefault, body.Language)
		assert.Equal(t, []string{style.RandomLabel, "anime", "photo"}, body.Styles)
	})

	t.Run("chinese", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/styles?lang=zh", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[stylesResponse](t, rec)
		assert.Equal(t, []string{style.RandomLabel, "photo", "动漫"}, body.Styles)
	})

	t.Run("unknown language", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/styles?lang=klingon", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("categories", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/categories", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string][]string](t, rec)
		assert.Equal(t, []string{"ALL", "anime", "illustration", "photography"}, body["categories"])
	})
}

func TestServer_PickStyle(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("category", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/styles/random?category=photography", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]string](t, rec)
		assert.Equal(t, "photo", body["style"])
		assert.Equal(t, "photography", body["category"])
	})

	t.Run("session language", func(t *testing.T) {
		env.session.SetLanguage(style.LanguageChinese)
		t.Cleanup(func() { env.session.SetLanguage(style.LanguageDefault) })

		rec := env.do(t, http.MethodGet, "/styles/random?category=anime", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "动漫", decode[map[string]string](t, rec)["style"])
	})

	t.Run("default category", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/styles/random", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]string](t, rec)
		assert.Contains(t, []string{"anime", "photo"}, body["style"])
		assert.Equal(t, style.AllCategories, body["category"])
	})

	t.Run("no candidates", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/styles/random?category=sculpture", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_AddStyle(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("created", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/styles", style.Record{
			Name:   "ink",
			Prompt: "ink sketch of {prompt}",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = env.do(t, http.MethodPost, "/resolve", map[string]any{"style": "ink", "prompt": "a cat"})
		body := decode[resolveResponse](t, rec)
		assert.Equal(t, "a cat, ink sketch of a cat", body.Positive)
	})

	t.Run("duplicate", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/styles", style.Record{Name: "anime", Prompt: "x"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/styles", style.Record{Name: "empty"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/styles", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		env.srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Catalogs(t *testing.T) {
	env := newTestEnv(t, false)
	other := `[{"name":"pixel","prompt":"pixel art {prompt}"}]`
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "other.json"), []byte(other), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "notes.txt"), []byte("x"), 0o644))

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/catalogs", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[catalogsResponse](t, rec)
		assert.Equal(t, env.path, body.Active)
		assert.Equal(t, []string{"other.json", "styles.json"}, body.Catalogs)
	})

	t.Run("switch by name", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/catalog", map[string]string{"name": "other.json"})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[useCatalogResponse](t, rec)
		assert.Equal(t, 1, body.Styles)

		rec = env.do(t, http.MethodGet, "/styles", nil)
		styles := decode[stylesResponse](t, rec)
		assert.Equal(t, []string{style.RandomLabel, "pixel"}, styles.Styles)
	})

	t.Run("switch by path", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/catalog", map[string]string{"path": env.path})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, env.path, env.session.Path())
	})

	t.Run("rejects traversal", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/catalog", map[string]string{"name": "../styles.json"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires a target", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/catalog", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing directory", func(t *testing.T) {
		srv := New(Config{
			Session:   env.session,
			StylesDir: filepath.Join(env.dir, "missing"),
			Logger:    slog.New(slog.DiscardHandler),
		})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalogs", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[catalogsResponse](t, rec)
		assert.Empty(t, body.Catalogs)
	})
}

func TestServer_Resolve(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name string
		req  map[string]any
		want resolveResponse
	}{
		{
			name: "named style",
			req:  map[string]any{"style": "anime", "prompt": "a cat", "negative_prompt": "blurry"},
			want: resolveResponse{Style: "anime", Positive: "a cat, anime style, a cat", Negative: "photo, blurry"},
		},
		{
			name: "append mode",
			req:  map[string]any{"style": "photo", "prompt": "a cat", "append": true},
			want: resolveResponse{Style: "photo", Positive: "photograph of a cat, a cat", Negative: "drawing"},
		},
		{
			name: "base",
			req:  map[string]any{"style": "base", "prompt": "a cat", "negative_prompt": "blurry"},
			want: resolveResponse{Style: "base", Positive: "", Negative: ""},
		},
		{
			name: "unknown falls back",
			req:  map[string]any{"style": "missing", "prompt": "a cat", "negative_prompt": "blurry"},
			want: resolveResponse{Style: "missing", Positive: "a cat", Negative: "blurry"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/resolve", tt.req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode[resolveResponse](t, rec))
		})
	}
}

func TestServer_Inject(t *testing.T) {
	t.Run("fixed mode records history", func(t *testing.T) {
		env := newTestEnv(t, true)

		rec := env.do(t, http.MethodPost, "/inject", map[string]any{
			"prompts":          []string{"p0", "p1"},
			"negative_prompts": []string{"n0", "n1"},
			"options":          map[string]any{"styles": []string{"anime"}},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[injectResponse](t, rec)
		assert.Equal(t, []string{"p0, anime style", "p1, anime style"}, body.Prompts)
		assert.Equal(t, []string{"n0, photo", "n1, photo"}, body.NegativePrompts)
		assert.Equal(t, []string{"anime"}, body.StylesUsed)
		assert.Equal(t, "fixed", body.Extra["Style Selector Mode"])
		require.NotEmpty(t, body.RunID)

		run, err := env.store.GetRun(context.Background(), body.RunID)
		require.NoError(t, err)
		assert.Equal(t, []string{"anime"}, run.Styles())
		assert.Equal(t, int64(2), run.PromptCount)

		rec = env.do(t, http.MethodGet, "/history?limit=5", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		history := decode[map[string][]runResponse](t, rec)
		require.Len(t, history["runs"], 1)
		assert.Equal(t, body.RunID, history["runs"][0].ID)
	})

	t.Run("disabled leaves the batch alone", func(t *testing.T) {
		env := newTestEnv(t, true)

		rec := env.do(t, http.MethodPost, "/inject", map[string]any{
			"prompts": []string{"p0"},
			"options": map[string]any{"enabled": false, "styles": []string{"anime"}},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[injectResponse](t, rec)
		assert.Equal(t, []string{"p0"}, body.Prompts)
		assert.Empty(t, body.RunID)

		count, err := env.store.CountRuns(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("all in order without history", func(t *testing.T) {
		env := newTestEnv(t, false)

		rec := env.do(t, http.MethodPost, "/inject", map[string]any{
			"prompts": []string{"p0", "p1", "p2"},
			"options": map[string]any{"mode": "all-in-order", "at_beginning": true},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[injectResponse](t, rec)
		assert.Equal(t, []string{
			"anime style, p0",
			"photograph of, p1",
			"anime style, p2",
		}, body.Prompts)
		assert.Empty(t, body.RunID)
	})

	t.Run("request language leaves the session alone", func(t *testing.T) {
		env := newTestEnv(t, true)

		rec := env.do(t, http.MethodPost, "/inject", map[string]any{
			"prompts": []string{"p0"},
			"options": map[string]any{"styles": []string{"动漫"}, "language": "chinese"},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[injectResponse](t, rec)
		assert.Equal(t, []string{"p0, anime style"}, body.Prompts)
		assert.Equal(t, "chinese", body.Extra["Style Selector Language"])
		assert.Equal(t, style.LanguageDefault, env.session.Language())

		run, err := env.store.GetRun(context.Background(), body.RunID)
		require.NoError(t, err)
		assert.Equal(t, "chinese", run.Language)

		rec = env.do(t, http.MethodGet, "/styles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, style.LanguageDefault, decode[stylesResponse](t, rec).Language)

		rec = env.do(t, http.MethodPost, "/inject", map[string]any{
			"prompts": []string{"p0"},
			"options": map[string]any{"styles": []string{"动漫"}},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"p0"}, decode[injectResponse](t, rec).Prompts)
	})

	t.Run("bad mode", func(t *testing.T) {
		env := newTestEnv(t, false)
		rec := env.do(t, http.MethodPost, "/inject", map[string]any{
			"prompts": []string{"p0"},
			"options": map[string]any{"mode": "sideways"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_History(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, false)
		rec := env.do(t, http.MethodGet, "/history", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		env := newTestEnv(t, true)
		rec := env.do(t, http.MethodGet, "/history?limit=0", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
