package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/jobboard/internal/api"
	"github.com/iudanet/jobboard/internal/server/storage"
)

// UsersHandler обрабатывает закладки вакансий пользователя.
// Все методы ожидают user_id в контексте (см. middleware.AuthMiddleware).
type UsersHandler struct {
	logger *slog.Logger
	saved  storage.SavedJobStorage
}

// NewUsersHandler создает новый handler для закладок
func NewUsersHandler(logger *slog.Logger, saved storage.SavedJobStorage) *UsersHandler {
	return &UsersHandler{
		logger: logger,
		saved:  saved,
	}
}

// SavedJobs обрабатывает GET /api/users/saved-jobs
// Полные записи сохраненных вакансий в порядке добавления
func (h *UsersHandler) SavedJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(w, h.logger, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobs, err := h.saved.GetSavedJobs(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			WriteError(w, h.logger, "User doesn't exist", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get saved jobs", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, h.logger, api.SavedJobsResponse{SavedJobs: jobs}, http.StatusOK)
}

// SaveJob обрабатывает POST /api/users/save-job
// Повторное сохранение той же вакансии не создает дубликат
func (h *UsersHandler) SaveJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(w, h.logger, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.SaveJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode save job request", slog.Any("error", err))
		WriteError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		WriteError(w, h.logger, "jobID is required", http.StatusBadRequest)
		return
	}

	ids, err := h.saved.SaveJob(ctx, userID, jobID)
	if err != nil {
		h.handleSavedJobError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "job saved", slog.String("user_id", userID), slog.String("job_id", jobID))

	WriteJSON(w, h.logger, api.SavedJobIDsResponse{
		Message:   "Job saved successfully",
		SavedJobs: ids,
	}, http.StatusOK)
}

// RemoveSavedJob обрабатывает DELETE /api/users/saved-jobs/{jobID}
// Удаление отсутствующей закладки не ошибка
func (h *UsersHandler) RemoveSavedJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(w, h.logger, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Извлекаем jobID из path parameter (Go 1.22+)
	jobID := r.PathValue("jobID")
	if jobID == "" {
		WriteError(w, h.logger, "jobID is required", http.StatusBadRequest)
		return
	}

	ids, err := h.saved.RemoveSavedJob(ctx, userID, jobID)
	if err != nil {
		h.handleSavedJobError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "saved job removed", slog.String("user_id", userID), slog.String("job_id", jobID))

	WriteJSON(w, h.logger, api.SavedJobIDsResponse{
		Message:   "Job removed successfully",
		SavedJobs: ids,
	}, http.StatusOK)
}

func (h *UsersHandler) handleSavedJobError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		WriteError(w, h.logger, "User doesn't exist", http.StatusUnauthorized)
	case errors.Is(err, storage.ErrJobNotFound):
		WriteError(w, h.logger, "Job not found", http.StatusNotFound)
	default:
		h.logger.ErrorContext(r.Context(), "failed to update saved jobs", slog.Any("error", err))
		WriteError(w, h.logger, "Server error", http.StatusInternalServerError)
	}
}
