package storage

import (
	"context"

	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/search"
	"github.com/iudanet/jobboard/internal/stats"
)

// JobStorage defines interface for job listings persistence
type JobStorage interface {
	search.JobFinder
	stats.JobAggregator

	// GetJob retrieves a single job by ID
	// Returns ErrJobNotFound if job doesn't exist
	GetJob(ctx context.Context, jobID string) (*models.Job, error)

	// UpsertJob inserts a job or replaces the existing one with the same ID
	UpsertJob(ctx context.Context, job *models.Job) error
}

// SavedJobStorage defines interface for per-user job bookmarks.
// Saved jobs form an ordered set: saving twice keeps a single entry.
type SavedJobStorage interface {
	// SaveJob adds jobID to the user's saved jobs if it is not there yet
	// Returns the resulting list of saved job IDs in save order
	SaveJob(ctx context.Context, userID, jobID string) ([]string, error)

	// RemoveSavedJob removes jobID from the user's saved jobs
	// Removing an absent job is not an error
	RemoveSavedJob(ctx context.Context, userID, jobID string) ([]string, error)

	// GetSavedJobIDs returns saved job IDs in save order
	GetSavedJobIDs(ctx context.Context, userID string) ([]string, error)

	// GetSavedJobs returns saved job records in save order
	GetSavedJobs(ctx context.Context, userID string) ([]*models.Job, error)
}
