package handlers

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/jobboard/internal/api"
	"github.com/iudanet/jobboard/internal/mailer"
	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/search"
	"github.com/iudanet/jobboard/internal/server/auth"
	"github.com/iudanet/jobboard/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// setupTestTokens creates a token service with test secrets
func setupTestTokens(t *testing.T) *auth.Service {
	t.Helper()
	tokens, err := auth.NewService(auth.Config{
		Access:  auth.KeyConfig{Secret: []byte("access-secret"), TTL: 30 * time.Minute},
		Refresh: auth.KeyConfig{Secret: []byte("refresh-secret"), TTL: 30 * 24 * time.Hour},
		Email:   auth.KeyConfig{Secret: []byte("email-secret"), TTL: 10 * time.Minute},
	})
	require.NoError(t, err)
	return tokens
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // id -> User
	createError error
	getError    error
	verifyError error
}

func newMockUserStorage(users ...*models.User) *mockUserStorage {
	m := &mockUserStorage{users: make(map[string]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserStorage) MarkVerified(ctx context.Context, userID string) error {
	if m.verifyError != nil {
		return m.verifyError
	}
	u, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.Verified = true
	return nil
}

// mockSender records sent messages
type mockSender struct {
	err  error
	sent []mailer.Message
	mu   sync.Mutex
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// mockSavedJobs is a mock implementation of SavedJobStorage for testing
type mockSavedJobs struct {
	saved map[string][]string // user id -> job ids
	jobs  map[string]*models.Job
	err   error
}

func newMockSavedJobs(userIDs []string, jobs ...*models.Job) *mockSavedJobs {
	m := &mockSavedJobs{saved: make(map[string][]string), jobs: make(map[string]*models.Job)}
	for _, id := range userIDs {
		m.saved[id] = []string{}
	}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockSavedJobs) SaveJob(ctx context.Context, userID, jobID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids, ok := m.saved[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	if _, ok := m.jobs[jobID]; !ok {
		return nil, storage.ErrJobNotFound
	}
	for _, id := range ids {
		if id == jobID {
			return ids, nil
		}
	}
	m.saved[userID] = append(ids, jobID)
	return m.saved[userID], nil
}

func (m *mockSavedJobs) RemoveSavedJob(ctx context.Context, userID, jobID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids, ok := m.saved[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != jobID {
			kept = append(kept, id)
		}
	}
	m.saved[userID] = kept
	return kept, nil
}

func (m *mockSavedJobs) GetSavedJobIDs(ctx context.Context, userID string) ([]string, error) {
	ids, ok := m.saved[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return ids, nil
}

func (m *mockSavedJobs) GetSavedJobs(ctx context.Context, userID string) ([]*models.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids, ok := m.saved[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	jobs := make([]*models.Job, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, m.jobs[id])
	}
	return jobs, nil
}

// mockJobFinder returns a slice of jobs honoring offset and limit
type mockJobFinder struct {
	err        error
	lastFilter search.Predicate
	jobs       []*models.Job
	lastOffset int
	lastLimit  int
}

func (m *mockJobFinder) FindJobs(ctx context.Context, filter search.Predicate, order []search.SortField, offset, limit int) ([]*models.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastFilter = filter
	m.lastOffset = offset
	m.lastLimit = limit
	if offset >= len(m.jobs) {
		return nil, nil
	}
	end := min(offset+limit, len(m.jobs))
	return m.jobs[offset:end], nil
}

func (m *mockJobFinder) CountJobs(ctx context.Context, filter search.Predicate) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.jobs), nil
}

// mockStats returns a fixed snapshot
type mockStats struct {
	snapshot *api.StatsResponse
	err      error
}

func (m *mockStats) Snapshot(ctx context.Context) (*api.StatsResponse, error) {
	return m.snapshot, m.err
}

// tokenFromLink extracts the token query value from a verification email
func tokenFromLink(t *testing.T, html string) string {
	t.Helper()
	const marker = "token="
	start := strings.Index(html, marker)
	require.NotEqual(t, -1, start)
	rest := html[start+len(marker):]
	end := strings.IndexByte(rest, '"')
	require.NotEqual(t, -1, end)
	return rest[:end]
}
