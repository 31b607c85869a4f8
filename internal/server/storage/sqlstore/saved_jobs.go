package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/server/storage"
)

// querier общий интерфейс *sql.DB и *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveJob adds jobID to the user's saved jobs if it is not there yet
func (s *Storage) SaveJob(ctx context.Context, userID, jobID string) ([]string, error) {
	return s.withTx(ctx, userID, func(tx *sql.Tx) error {
		if err := s.ensureJob(ctx, tx, jobID); err != nil {
			return err
		}

		var position int
		err := tx.QueryRowContext(ctx,
			s.rebind(`SELECT COALESCE(MAX(position), 0) + 1 FROM saved_jobs WHERE user_id = ?`),
			userID,
		).Scan(&position)
		if err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}

		query := s.rebind(`
			INSERT INTO saved_jobs (user_id, job_id, position, saved_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, job_id) DO NOTHING
		`)
		if _, err := tx.ExecContext(ctx, query, userID, jobID, position, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to save job: %w", err)
		}
		return nil
	})
}

// RemoveSavedJob removes jobID from the user's saved jobs
func (s *Storage) RemoveSavedJob(ctx context.Context, userID, jobID string) ([]string, error) {
	return s.withTx(ctx, userID, func(tx *sql.Tx) error {
		query := s.rebind(`DELETE FROM saved_jobs WHERE user_id = ? AND job_id = ?`)
		if _, err := tx.ExecContext(ctx, query, userID, jobID); err != nil {
			return fmt.Errorf("failed to remove saved job: %w", err)
		}
		return nil
	})
}

// GetSavedJobIDs returns saved job IDs in save order
func (s *Storage) GetSavedJobIDs(ctx context.Context, userID string) ([]string, error) {
	if err := s.ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return s.savedJobIDs(ctx, s.db, userID)
}

// GetSavedJobs returns saved job records in save order
func (s *Storage) GetSavedJobs(ctx context.Context, userID string) ([]*models.Job, error) {
	if err := s.ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	query := s.rebind(`
		SELECT ` + prefixed("j.", jobSelectColumns) + `
		FROM saved_jobs sj
		JOIN jobs j ON j.job_id = sj.job_id
		WHERE sj.user_id = ?
		ORDER BY sj.position ASC, sj.saved_at ASC, sj.job_id ASC
	`)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved jobs: %w", err)
	}

	return jobs, nil
}

// withTx выполняет fn в транзакции после проверки пользователя
// и возвращает итоговый список сохраненных вакансий
func (s *Storage) withTx(ctx context.Context, userID string, fn func(tx *sql.Tx) error) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// блокировка пользователя сериализует конкурентные SaveJob при вычислении position
	if err := s.lockUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := fn(tx); err != nil {
		return nil, err
	}

	ids, err := s.savedJobIDs(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ids, nil
}

const userExistsQuery = `SELECT id FROM users WHERE id = ?`

func (s *Storage) ensureUser(ctx context.Context, q querier, userID string) error {
	return s.checkUser(ctx, q, userExistsQuery, userID)
}

func (s *Storage) lockUser(ctx context.Context, tx *sql.Tx, userID string) error {
	return s.checkUser(ctx, tx, s.dialect.forUpdate(userExistsQuery), userID)
}

func (s *Storage) checkUser(ctx context.Context, q querier, query, userID string) error {
	var id string
	err := q.QueryRowContext(ctx, s.rebind(query), userID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	return nil
}

func (s *Storage) ensureJob(ctx context.Context, q querier, jobID string) error {
	var id string
	err := q.QueryRowContext(ctx, s.rebind(`SELECT job_id FROM jobs WHERE job_id = ?`), jobID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrJobNotFound
		}
		return fmt.Errorf("failed to get job: %w", err)
	}
	return nil
}

func (s *Storage) savedJobIDs(ctx context.Context, q querier, userID string) ([]string, error) {
	query := s.rebind(`
		SELECT job_id FROM saved_jobs
		WHERE user_id = ?
		ORDER BY position ASC, saved_at ASC, job_id ASC
	`)

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved job ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved job id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved job ids: %w", err)
	}

	return ids, nil
}

func prefixed(prefix string, cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += prefix + c
	}
	return out
}
