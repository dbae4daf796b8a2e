// Package server exposes the operator-facing HTTP surface: health, metrics,
// run statistics, brand group reload and ad-hoc debug search.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Stepan2222000/connect-article-avito/internal/engine"
	"github.com/Stepan2222000/connect-article-avito/internal/normalizer"
	"github.com/Stepan2222000/connect-article-avito/internal/search"
	"github.com/Stepan2222000/connect-article-avito/shared/domain"
	apperrors "github.com/Stepan2222000/connect-article-avito/shared/errors"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// Searcher is what the debug search endpoint needs from the cascade engine.
type Searcher interface {
	Search(text string) domain.SearchResult
	Totals() search.Totals
}

// BrandReloader triggers a full rebuild of the brand synonym table.
type BrandReloader interface {
	Reload() error
	Groups() int
}

// RunStatsProvider exposes the pipeline run counters.
type RunStatsProvider interface {
	Stats() engine.RunStats
}

type Handler struct {
	searcher Searcher
	mapper   BrandReloader
	stats    RunStatsProvider
	norm     *normalizer.Normalizer
}

func NewHandler(searcher Searcher, mapper BrandReloader, stats RunStatsProvider, norm *normalizer.Normalizer) *Handler {
	return &Handler{searcher, mapper, stats, norm}
}

// Router wires the monitoring routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(metricsMiddleware)

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/v1/stats", h.GetStats)
	r.Post("/v1/brand-groups/reload", h.ReloadBrandGroups)
	r.Post("/v1/search", h.DebugSearch)

	return r
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":    h.stats.Stats(),
		"search": h.searcher.Totals(),
	})
}

func (h *Handler) ReloadBrandGroups(w http.ResponseWriter, r *http.Request) {
	if err := h.mapper.Reload(); err != nil {
		logger.Log.Error("brand groups reload failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reloaded",
		"groups": h.mapper.Groups(),
	})
}

type debugSearchRequest struct {
	Text string `json:"text"`
}

type debugSearchResponse struct {
	TextClean             string             `json:"text_clean"`
	FirstArticle          string             `json:"first_article,omitempty"`
	BrandNearFirstArticle string             `json:"brand_near_first_article,omitempty"`
	AllArticles           []string           `json:"all_articles"`
	AllBrands             []string           `json:"all_brands"`
	Stats                 domain.SearchStats `json:"stats"`
}

// DebugSearch normalizes the posted text and runs one cascade search.
// Meant for operators checking why a listing did or didn't match.
func (h *Handler) DebugSearch(w http.ResponseWriter, r *http.Request) {
	var req debugSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &apperrors.ErrorWithStatusCode{
			Message: "invalid request body", StatusCode: http.StatusBadRequest,
		})
		return
	}
	if req.Text == "" {
		writeError(w, &apperrors.ErrorWithStatusCode{
			Message: "text is required", StatusCode: http.StatusBadRequest,
		})
		return
	}

	textClean := h.norm.ForSearch(req.Text)
	result := h.searcher.Search(textClean)

	writeJSON(w, http.StatusOK, debugSearchResponse{
		TextClean:             textClean,
		FirstArticle:          result.FirstArticle,
		BrandNearFirstArticle: result.BrandNearFirstArticle,
		AllArticles:           emptyIfNil(result.AllArticles),
		AllBrands:             emptyIfNil(result.AllBrands),
		Stats:                 result.Stats,
	})
}

// writeError maps application errors to HTTP status codes. Errors that carry
// their own code win; config sources are reported as 404/422.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var coded *apperrors.ErrorWithStatusCode
	switch {
	case errors.As(err, &coded):
		status = coded.StatusCode
	case errors.Is(err, apperrors.ErrConfigNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrConfigParse):
		status = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), status)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// Serve runs the monitoring server until ctx is canceled.
func Serve(ctx context.Context, addr string, handler *Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Log.Info("monitoring server started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
