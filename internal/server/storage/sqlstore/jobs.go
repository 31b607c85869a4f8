package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/search"
	"github.com/iudanet/jobboard/internal/server/storage"
	"github.com/iudanet/jobboard/internal/stats"
)

// jobSelectColumns порядок колонок должен совпадать со scanJob
var jobSelectColumns = []string{
	"job_id",
	"employer_name",
	"employer_logo",
	"employer_website",
	"employer_company_type",
	"job_title",
	"job_employment_type",
	"job_description",
	"job_apply_link",
	"job_is_remote",
	"job_city",
	"job_state",
	"job_country",
	"job_latitude",
	"job_longitude",
	"job_location",
	"job_min_salary",
	"job_max_salary",
	"job_salary_currency",
	"job_salary_period",
	"job_posted_at_datetime_utc",
	"job_posted_human_readable",
	"job_expiration_date",
	"job_offer_expiration_datetime_utc",
	"job_highlights",
	"job_benefits",
	"job_required_experience",
	"job_required_education",
	"job_required_skills",
	"job_industry",
	"job_category",
	"job_publisher",
	"job_source",
	"created_at",
	"updated_at",
}

var jobSelectList = strings.Join(jobSelectColumns, ", ")

// FindJobs returns a page of jobs matching filter in the requested order
func (s *Storage) FindJobs(
	ctx context.Context,
	filter search.Predicate,
	order []search.SortField,
	offset, limit int,
) ([]*models.Job, error) {
	b := newQueryBuilder(s.dialect)

	where, err := b.where(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	orderClause, err := orderBy(order)
	if err != nil {
		return nil, fmt.Errorf("failed to build sort: %w", err)
	}

	query := "SELECT " + jobSelectList + " FROM jobs" + where + orderClause +
		" LIMIT " + b.arg(limit) + " OFFSET " + b.arg(offset)

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.Job, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// CountJobs returns the number of jobs matching filter
func (s *Storage) CountJobs(ctx context.Context, filter search.Predicate) (int, error) {
	b := newQueryBuilder(s.dialect)

	where, err := b.where(filter)
	if err != nil {
		return 0, fmt.Errorf("failed to build filter: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs"+where, b.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return count, nil
}

// TopValues groups non-empty values of field by frequency
func (s *Storage) TopValues(ctx context.Context, field search.Field, limit int) ([]stats.ValueCount, error) {
	col, err := column(field)
	if err != nil {
		return nil, err
	}

	b := newQueryBuilder(s.dialect)
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS cnt
		FROM jobs
		WHERE %[1]s IS NOT NULL AND %[1]s <> ''
		GROUP BY %[1]s
		ORDER BY cnt DESC, %[1]s ASC`, col)
	if limit > 0 {
		query += " LIMIT " + b.arg(limit)
	}

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group jobs by %s: %w", col, err)
	}
	defer rows.Close()

	var result []stats.ValueCount
	for rows.Next() {
		var vc stats.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		result = append(result, vc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return result, nil
}

// GetJob retrieves a single job by ID
func (s *Storage) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	query := s.rebind("SELECT " + jobSelectList + " FROM jobs WHERE job_id = ?")

	job, err := scanJob(s.db.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrJobNotFound
		}
		return nil, err
	}

	return job, nil
}

// UpsertJob inserts a job or replaces the existing one with the same ID.
// created_at of an existing row is preserved.
func (s *Storage) UpsertJob(ctx context.Context, job *models.Job) error {
	highlights, err := json.Marshal(job.Highlights)
	if err != nil {
		return fmt.Errorf("failed to marshal highlights: %w", err)
	}
	benefits, err := marshalList(job.Benefits)
	if err != nil {
		return fmt.Errorf("failed to marshal benefits: %w", err)
	}
	skills, err := marshalList(job.RequiredSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal required skills: %w", err)
	}

	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(jobSelectColumns)), ", ")
	updates := make([]string, 0, len(jobSelectColumns))
	for _, col := range jobSelectColumns {
		if col == "job_id" || col == "created_at" {
			continue
		}
		updates = append(updates, col+" = excluded."+col)
	}

	query := s.rebind("INSERT INTO jobs (" + jobSelectList + ") VALUES (" + placeholders + ")" +
		" ON CONFLICT (job_id) DO UPDATE SET " + strings.Join(updates, ", "))

	_, err = s.db.ExecContext(ctx, query,
		job.ID,
		job.EmployerName,
		job.EmployerLogo,
		job.EmployerWebsite,
		job.EmployerCompanyType,
		job.Title,
		job.EmploymentType,
		job.Description,
		job.ApplyLink,
		nullBool(job.IsRemote),
		job.City,
		job.State,
		job.Country,
		nullFloat(job.Latitude),
		nullFloat(job.Longitude),
		job.Location,
		nullFloat(job.MinSalary),
		nullFloat(job.MaxSalary),
		job.SalaryCurrency,
		job.SalaryPeriod,
		job.PostedAt,
		job.PostedHumanReadable,
		job.ExpirationDate,
		job.OfferExpiresAtUTC,
		string(highlights),
		benefits,
		job.RequiredExperience,
		job.RequiredEducation,
		skills,
		job.Industry,
		job.Category,
		job.Publisher,
		job.Source,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	job := &models.Job{}

	var (
		isRemote             sql.NullBool
		lat, lng             sql.NullFloat64
		minSal, maxSal       sql.NullFloat64
		highlights, benefits string
		skills               string
	)

	err := row.Scan(
		&job.ID,
		&job.EmployerName,
		&job.EmployerLogo,
		&job.EmployerWebsite,
		&job.EmployerCompanyType,
		&job.Title,
		&job.EmploymentType,
		&job.Description,
		&job.ApplyLink,
		&isRemote,
		&job.City,
		&job.State,
		&job.Country,
		&lat,
		&lng,
		&job.Location,
		&minSal,
		&maxSal,
		&job.SalaryCurrency,
		&job.SalaryPeriod,
		&job.PostedAt,
		&job.PostedHumanReadable,
		&job.ExpirationDate,
		&job.OfferExpiresAtUTC,
		&highlights,
		&benefits,
		&job.RequiredExperience,
		&job.RequiredEducation,
		&skills,
		&job.Industry,
		&job.Category,
		&job.Publisher,
		&job.Source,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	if isRemote.Valid {
		job.IsRemote = &isRemote.Bool
	}
	job.Latitude = floatPtr(lat)
	job.Longitude = floatPtr(lng)
	job.MinSalary = floatPtr(minSal)
	job.MaxSalary = floatPtr(maxSal)

	if err := json.Unmarshal([]byte(highlights), &job.Highlights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal highlights: %w", err)
	}
	if err := json.Unmarshal([]byte(benefits), &job.Benefits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal benefits: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &job.RequiredSkills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal required skills: %w", err)
	}

	return job, nil
}

// marshalList кодирует nil как пустой массив
func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
