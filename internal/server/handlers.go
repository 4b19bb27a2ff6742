package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/abdulachik/styleselector/internal/db"
	"github.com/abdulachik/styleselector/internal/inject"
	"github.com/abdulachik/styleselector/internal/style"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
	maxBodyBytes        = 1 << 20
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type componentResponse struct {
	Healthy     bool      `json:"healthy"`
	Message     string    `json:"message,omitempty"`
	LastCheck   time.Time `json:"last_check"`
	LastSuccess time.Time `json:"last_success,omitempty"`
}

type healthResponse struct {
	Status     string                       `json:"status"`
	Timestamp  string                       `json:"timestamp"`
	Components map[string]componentResponse `json:"components"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := s.history.(interface{ PingContext(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := pinger.PingContext(ctx); err != nil {
			s.health.SetUnhealthy(ComponentDatabase, err)
		} else {
			s.health.SetHealthy(ComponentDatabase, "ok")
		}
		cancel()
	}

	resp := healthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: make(map[string]componentResponse),
	}
	for name, st := range s.health.GetAllStatuses() {
		resp.Components[name] = componentResponse{
			Healthy:     st.Healthy,
			Message:     st.Message,
			LastCheck:   st.LastCheck,
			LastSuccess: st.LastSuccess,
		}
	}

	code := http.StatusOK
	if !s.health.IsOverallHealthy() {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

type stylesResponse struct {
	Language style.Language `json:"language"`
	Styles   []string       `json:"styles"`
}

func (s *Server) handleListStyles(w http.ResponseWriter, r *http.Request) {
	lang := s.session.Language()
	if q := r.URL.Query().Get("lang"); q != "" {
		parsed, err := style.ParseLanguage(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		lang = parsed
	}

	writeJSON(w, http.StatusOK, stylesResponse{
		Language: lang,
		Styles:   s.session.Catalog().StyleNames(lang),
	})
}

func (s *Server) handlePickStyle(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = s.session.Category()
	}

	name, ok := s.session.PickDisplay(category)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no styles in category %q", category))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"style":    name,
		"category": category,
	})
}

func (s *Server) handleAddStyle(w http.ResponseWriter, r *http.Request) {
	var rec style.Record
	if !decodeJSON(w, r, &rec) {
		return
	}

	err := s.session.Append(rec)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, rec)
	case errors.Is(err, style.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, style.ErrDuplicateStyle), errors.Is(err, style.ErrReadOnlyCatalog):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("failed to append style", "style", rec.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to append style")
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"categories": s.session.ListCategories(),
	})
}

type catalogsResponse struct {
	Active   string   `json:"active"`
	Catalogs []string `json:"catalogs"`
}

func (s *Server) handleListCatalogs(w http.ResponseWriter, r *http.Request) {
	names, err := style.ListCatalogFiles(s.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("failed to list catalogs", "dir", s.dir, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list catalogs")
		return
	}
	if names == nil {
		names = []string{}
	}

	active := s.session.Path()
	if active == "" {
		active = style.EmbeddedSource
	}
	writeJSON(w, http.StatusOK, catalogsResponse{Active: active, Catalogs: names})
}

type useCatalogRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type useCatalogResponse struct {
	Source  string `json:"source"`
	Styles  int    `json:"styles"`
	Skipped int    `json:"skipped"`
}

func (s *Server) handleUseCatalog(w http.ResponseWriter, r *http.Request) {
	var req useCatalogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	path := req.Path
	switch {
	case req.Path != "" && req.Name != "":
		writeError(w, http.StatusBadRequest, "set either path or name, not both")
		return
	case req.Name != "":
		resolved, err := style.ResolveCatalogFile(s.dir, req.Name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		path = resolved
	case req.Path == "":
		writeError(w, http.StatusBadRequest, "path or name is required")
		return
	}

	catalog, err := s.session.Use(path)
	if err != nil {
		s.health.SetUnhealthy(ComponentCatalog, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.health.SetHealthy(ComponentCatalog, path)

	writeJSON(w, http.StatusOK, useCatalogResponse{
		Source:  catalog.Source(),
		Styles:  catalog.Len(),
		Skipped: catalog.Skipped(),
	})
}

type resolveRequest struct {
	Style          string `json:"style"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Append         bool   `json:"append"`
}

type resolveResponse struct {
	Style    string `json:"style"`
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	key := style.ParseKey(req.Style)
	writeJSON(w, http.StatusOK, resolveResponse{
		Style:    key.String(),
		Positive: s.session.ResolvePositive(key, req.Prompt, req.Append),
		Negative: s.session.ResolveNegative(key, req.NegativePrompt),
	})
}

type injectOptions struct {
	Enabled          *bool    `json:"enabled"`
	Styles           []string `json:"styles"`
	Mode             string   `json:"mode"`
	AtBeginning      bool     `json:"at_beginning"`
	UseCurrentPrompt bool     `json:"use_current_prompt"`
	CurrentPrompt    string   `json:"current_prompt"`
	CurrentNegative  string   `json:"current_negative"`
	RandomCount      int      `json:"random_count"`
	Category         string   `json:"category"`
	Language         string   `json:"language"`
}

type injectRequest struct {
	Prompts         []string      `json:"prompts"`
	NegativePrompts []string      `json:"negative_prompts"`
	Options         injectOptions `json:"options"`
}

type injectResponse struct {
	RunID           string            `json:"run_id,omitempty"`
	Prompts         []string          `json:"prompts"`
	NegativePrompts []string          `json:"negative_prompts"`
	Extra           map[string]string `json:"extra,omitempty"`
	Mode            inject.Mode       `json:"mode"`
	StylesUsed      []string          `json:"styles_used"`
	PerIndex        [][]string        `json:"per_index,omitempty"`
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var req injectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	opts, err := s.injectOptions(req.Options)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch := &inject.Batch{
		Prompts:         nonNil(req.Prompts),
		NegativePrompts: nonNil(req.NegativePrompts),
	}
	report := s.injector.Apply(batch, opts)

	resp := injectResponse{
		Prompts:         batch.Prompts,
		NegativePrompts: batch.NegativePrompts,
		Extra:           batch.Extra,
		Mode:            report.Mode,
		StylesUsed:      nonNil(report.StylesUsed),
		PerIndex:        report.PerIndex,
	}

	if s.history != nil && opts.Enabled {
		run, err := s.history.RecordRun(r.Context(), db.RunRecord{
			Catalog:          s.session.Catalog().Source(),
			Mode:             string(report.Mode),
			Language:         string(report.Language),
			Category:         opts.Category,
			AtBeginning:      opts.AtBeginning,
			UseCurrentPrompt: opts.UseCurrentPrompt,
			StylesUsed:       report.StylesUsed,
			Prompts:          batch.Prompts,
			NegativePrompts:  batch.NegativePrompts,
		})
		if err != nil {
			s.logger.Warn("failed to record run", "error", err, "request_id", GetRequestID(r.Context()))
		} else {
			resp.RunID = run.ID
			s.logger.Debug("run recorded", "run_id", run.ID, "request_id", GetRequestID(r.Context()))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) injectOptions(in injectOptions) (inject.Options, error) {
	mode, err := inject.ParseMode(in.Mode)
	if err != nil {
		return inject.Options{}, err
	}
	var lang style.Language
	if in.Language != "" {
		if lang, err = style.ParseLanguage(in.Language); err != nil {
			return inject.Options{}, err
		}
	}
	if in.RandomCount < 0 || in.RandomCount > style.MaxSample {
		return inject.Options{}, fmt.Errorf("random_count must be between 1 and %d", style.MaxSample)
	}

	enabled := s.enabled
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	category := in.Category
	if category == "" {
		category = s.session.Category()
	}

	return inject.Options{
		Enabled:          enabled,
		Styles:           style.ParseKeys(in.Styles),
		Mode:             mode,
		AtBeginning:      in.AtBeginning,
		UseCurrentPrompt: in.UseCurrentPrompt,
		CurrentPrompt:    in.CurrentPrompt,
		CurrentNegative:  in.CurrentNegative,
		RandomCount:      in.RandomCount,
		Category:         category,
		Language:         lang,
	}, nil
}

type runResponse struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Catalog          string    `json:"catalog"`
	Mode             string    `json:"mode"`
	Language         string    `json:"language"`
	Category         string    `json:"category"`
	AtBeginning      bool      `json:"at_beginning"`
	UseCurrentPrompt bool      `json:"use_current_prompt"`
	StylesUsed       []string  `json:"styles_used"`
	PromptCount      int64     `json:"prompt_count"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not configured")
		return
	}

	limit := defaultHistoryLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := s.history.ListRuns(r.Context(), int64(limit))
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, runResponse{
			ID:               run.ID,
			CreatedAt:        run.CreatedAt,
			Catalog:          run.Catalog,
			Mode:             run.Mode,
			Language:         run.Language,
			Category:         run.Category,
			AtBeginning:      run.AtBeginning,
			UseCurrentPrompt: run.UseCurrentPrompt,
			StylesUsed:       nonNil(run.Styles()),
			PromptCount:      run.PromptCount,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]runResponse{"runs": out})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{
		Error:     message,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
