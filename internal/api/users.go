package api

import "github.com/iudanet/jobboard/internal/models"

// SaveJobRequest тело POST /api/users/save-job
type SaveJobRequest struct {
	JobID string `json:"jobID"`
}

// SavedJobsResponse ответ GET /api/users/saved-jobs
type SavedJobsResponse struct {
	SavedJobs []*models.Job `json:"savedJobs"`
}

// SavedJobIDsResponse ответ на добавление/удаление закладки
type SavedJobIDsResponse struct {
	Message   string   `json:"message"`
	SavedJobs []string `json:"savedJobs"`
}
