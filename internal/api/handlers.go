package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/clusterscope/internal/apperr"
	"github.com/starford/clusterscope/internal/filter"
	"github.com/starford/clusterscope/internal/index"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(fmt.Errorf("%s must be an integer", name))
	}
	return n, nil
}

func figureQuery(r *http.Request) FigureQuery {
	q := r.URL.Query()
	return FigureQuery{
		Category:  q.Get("category"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
}

// filterParams validates q and resolves it into filter parameters.
func filterParams(q FigureQuery) (filter.Params, error) {
	if err := q.Validate(); err != nil {
		return filter.Params{}, invalid(err)
	}
	return filter.ParseParams(q.Category, q.StartDate, q.EndDate)
}

// Options handles GET /api/options.
//
//	@Summary		Filter control values
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	models.FilterOptionSet
//	@Router			/options [get]
func (h *Handler) Options(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Options())
}

// Stats handles GET /api/stats.
//
//	@Summary		Dataset counters
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// Figure handles GET /api/figure.
//
//	@Summary		Render the scatter figure for the given filters
//	@Tags			dashboard
//	@Produce		json
//	@Param			category	query		string	false	"Category, or All"
//	@Param			start_date	query		string	false	"Start of date range"
//	@Param			end_date	query		string	false	"End of date range (inclusive)"
//	@Success		200			{object}	chart.Figure
//	@Success		304			"Not modified"
//	@Failure		400			{object}	errResponse
//	@Router			/figure [get]
func (h *Handler) Figure(w http.ResponseWriter, r *http.Request) {
	p, err := filterParams(figureQuery(r))
	if err != nil {
		writeError(w, "figure", err)
		return
	}
	fig, tag := h.svc.Figure(p)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// ListRecords handles GET /api/records.
//
//	@Summary		Filtered records
//	@Tags			records
//	@Produce		json
//	@Param			category	query		string	false	"Category, or All"
//	@Param			start_date	query		string	false	"Start of date range"
//	@Param			end_date	query		string	false	"End of date range (inclusive)"
//	@Param			limit		query		int		false	"Max rows"
//	@Success		200			{object}	RecordsResponse
//	@Failure		400			{object}	errResponse
//	@Router			/records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, "list records", err)
		return
	}
	q := RecordsQuery{FigureQuery: figureQuery(r), Limit: limit}
	if err := q.Validate(); err != nil {
		writeError(w, "list records", invalid(err))
		return
	}
	p, err := filter.ParseParams(q.Category, q.StartDate, q.EndDate)
	if err != nil {
		writeError(w, "list records", err)
		return
	}
	rows := h.svc.Records(p, q.Limit)
	writeJSON(w, http.StatusOK, RecordsResponse{Records: rows, Total: len(rows)})
}

// GetRecord handles GET /api/records/{id}.
//
//	@Summary		One record by row id
//	@Tags			records
//	@Produce		json
//	@Param			id	path		int	true	"Row id"
//	@Success		200	{object}	models.Record
//	@Failure		404	{object}	errResponse
//	@Router			/records/{id} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}
	rec, err := h.svc.Record(id)
	if err != nil {
		writeError(w, "get record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Search handles GET /api/search.
//
//	@Summary		Text search over titles and excerpts
//	@Tags			records
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, "search", err)
		return
	}
	q := SearchQuery{Q: strings.TrimSpace(r.URL.Query().Get("q")), Limit: limit}
	if err := q.Validate(); err != nil {
		writeError(w, "search", invalid(err))
		return
	}
	results, err := h.svc.Search(q.Q, q.Limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Clusters handles GET /api/clusters.
//
//	@Summary		Per-cluster aggregates
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	ClustersResponse
//	@Router			/clusters [get]
func (h *Handler) Clusters(w http.ResponseWriter, _ *http.Request) {
	clusters, err := h.svc.Clusters()
	if err != nil {
		writeError(w, "clusters", err)
		return
	}
	writeJSON(w, http.StatusOK, ClustersResponse{Clusters: clusters})
}
