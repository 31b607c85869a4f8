package storage

import (
	"context"

	"github.com/iudanet/jobboard/internal/models"
)

// UserStorage defines interface for user accounts persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is already registered
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID together with saved job IDs
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// MarkVerified sets the verified flag
	// Returns ErrUserNotFound if user doesn't exist
	MarkVerified(ctx context.Context, userID string) error
}
