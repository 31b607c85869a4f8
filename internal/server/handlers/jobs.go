package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/jobboard/internal/api"
	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/search"
)

// StatsProvider отдает снимок статистики по вакансиям
type StatsProvider interface {
	Snapshot(ctx context.Context) (*api.StatsResponse, error)
}

// JobsHandler обрабатывает поиск и статистику вакансий
type JobsHandler struct {
	logger      *slog.Logger
	finder      search.JobFinder
	executor    *search.Executor
	stats       StatsProvider
	now         func() time.Time
	maxPageSize int
}

// NewJobsHandler создает новый handler для вакансий.
// maxPageSize ограничивает limit сверху; 0 отключает ограничение.
func NewJobsHandler(logger *slog.Logger, finder search.JobFinder, stats StatsProvider, maxPageSize int) *JobsHandler {
	return &JobsHandler{
		logger:      logger,
		finder:      finder,
		executor:    search.NewExecutor(finder),
		stats:       stats,
		now:         time.Now,
		maxPageSize: maxPageSize,
	}
}

// List обрабатывает GET /api/jobs
// Поиск вакансий с фильтрами, сортировкой и пагинацией
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := search.ParseParams(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid search parameters", slog.Any("error", err))
		WriteError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	if h.maxPageSize > 0 && params.Limit > h.maxPageSize {
		params.Limit = h.maxPageSize
	}

	result, err := h.executor.Run(ctx, search.NewQuery(params, h.now()))
	if err != nil {
		if errors.Is(err, search.ErrInvalidParam) {
			WriteError(w, h.logger, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to search jobs", slog.Any("error", err))
		WriteError(w, h.logger, "Error fetching jobs from database", http.StatusInternalServerError)
		return
	}

	jobs := result.Jobs
	if jobs == nil {
		jobs = []*models.Job{}
	}

	resp := api.JobsResponse{
		Jobs: jobs,
		Pagination: api.Pagination{
			CurrentPage: result.Page,
			PerPage:     result.Limit,
			TotalJobs:   result.Total,
			TotalPages:  result.TotalPages,
		},
		FiltersApplied: search.AppliedFilters(params),
	}

	WriteJSON(w, h.logger, resp, http.StatusOK)
}

// Count обрабатывает GET /api/jobs/count
// Общее число вакансий без фильтров
func (h *JobsHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.finder.CountJobs(ctx, search.And())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count jobs", slog.Any("error", err))
		WriteError(w, h.logger, "Error counting jobs", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, h.logger, api.CountResponse{Count: count}, http.StatusOK)
}

// Stats обрабатывает GET /api/jobs/stats
func (h *JobsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := h.stats.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute job statistics", slog.Any("error", err))
		WriteError(w, h.logger, "Error getting job statistics", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, h.logger, snapshot, http.StatusOK)
}
