package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jobboard/internal/models"
	"github.com/iudanet/jobboard/internal/search"
	"github.com/iudanet/jobboard/internal/server/storage"
	"github.com/iudanet/jobboard/internal/stats"
)

func jobIDs(jobs []*models.Job) []string {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}

// find runs the query string through the same path as the HTTP API
func find(t *testing.T, s *Storage, query string, now time.Time) *search.Result {
	t.Helper()
	values, err := url.ParseQuery(query)
	require.NoError(t, err)
	params, err := search.ParseParams(values)
	require.NoError(t, err)

	result, err := search.NewExecutor(s).Run(context.Background(), search.NewQuery(params, now))
	require.NoError(t, err)
	return result
}

func TestJobStorage_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	job := newJob("j1")
	job.IsRemote = boolPtr(true)
	job.MinSalary = floatPtrOf(90000)
	job.Latitude = floatPtrOf(52.52)
	job.Highlights = models.Highlights{Qualifications: []string{"Go"}}
	job.RequiredSkills = []string{"go", "sql"}
	require.NoError(t, s.UpsertJob(ctx, job))

	got, err := s.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, job.Title, got.Title)
	require.NotNil(t, got.IsRemote)
	assert.True(t, *got.IsRemote)
	require.NotNil(t, got.MinSalary)
	assert.Equal(t, 90000.0, *got.MinSalary)
	assert.Nil(t, got.MaxSalary)
	assert.Nil(t, got.Longitude)
	assert.Equal(t, []string{"Go"}, got.Highlights.Qualifications)
	assert.Equal(t, []string{"go", "sql"}, got.RequiredSkills)
	assert.Equal(t, []string{}, got.Benefits)
	assert.False(t, got.CreatedAt.IsZero())

	// Повторный upsert обновляет запись и сохраняет created_at
	createdAt := got.CreatedAt
	job.Title = "Senior Engineer"
	job.IsRemote = nil
	require.NoError(t, s.UpsertJob(ctx, job))

	got, err = s.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", got.Title)
	assert.Nil(t, got.IsRemote)
	assert.True(t, createdAt.Equal(got.CreatedAt))

	total, err := s.CountJobs(ctx, search.And())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestJobStorage_GetJob_NotFound(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrJobNotFound)
}

func TestJobStorage_SalaryFilters(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	onlyMax := newJob("only-max")
	onlyMax.MaxSalary = floatPtrOf(120000)

	noSalary := newJob("no-salary")

	low := newJob("low")
	low.MinSalary = floatPtrOf(60000)
	low.MaxSalary = floatPtrOf(80000)

	high := newJob("high")
	high.MinSalary = floatPtrOf(150000)
	high.MaxSalary = floatPtrOf(200000)

	insertJobs(t, s, onlyMax, noSalary, low, high)
	now := time.Now()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "min salary matches either bound",
			query: "min_salary=100000",
			want:  []string{"high", "only-max"},
		},
		{
			name:  "max salary keeps jobs with missing bounds",
			query: "max_salary=50000",
			want:  []string{"no-salary", "only-max"},
		},
		{
			name:  "max salary matches lower bound",
			query: "max_salary=70000",
			want:  []string{"low", "no-salary", "only-max"},
		},
		{
			name:  "both bounds",
			query: "min_salary=100000&max_salary=160000",
			want:  []string{"high", "only-max"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := find(t, s, tt.query+"&sort_by=company", now)
			assert.ElementsMatch(t, tt.want, jobIDs(result.Jobs))
			assert.Equal(t, len(tt.want), result.Total)
		})
	}
}

func TestJobStorage_TextAndFlags(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	goRemote := newJob("go-remote")
	goRemote.Title = "Senior Go Developer"
	goRemote.IsRemote = boolPtr(true)
	goRemote.City = "Austin"
	goRemote.State = "TX"

	hybrid := newJob("hybrid")
	hybrid.Title = "Data Analyst"
	hybrid.Description = "Hybrid role, 3 days in office"
	hybrid.IsRemote = boolPtr(false)
	hybrid.EmploymentType = "PARTTIME"

	percent := newJob("percent")
	percent.Title = "Growth 100% owner"
	percent.Description = "x"

	munich := newJob("munich")
	munich.Title = "Ärztin ÉCOLE"
	munich.City = "MÜNCHEN"

	insertJobs(t, s, goRemote, hybrid, percent, munich)
	now := time.Now()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "keyword case-insensitive", query: "query=go+developer", want: []string{"go-remote"}},
		{name: "keyword matches employer", query: "query=ACME+HYBRID", want: []string{"hybrid"}},
		{name: "remote flag", query: "remote=remote", want: []string{"go-remote"}},
		{name: "onsite flag", query: "remote=onsite", want: []string{"hybrid"}},
		{name: "hybrid by text", query: "remote=hybrid", want: []string{"hybrid"}},
		{name: "employment synonym", query: "employment_type=part-time", want: []string{"hybrid"}},
		{name: "location terms", query: "location=tx,+nowhere", want: []string{"go-remote"}},
		{name: "like wildcards are literal", query: "query=100%25", want: []string{"percent"}},
		{name: "underscore is literal", query: "query=a_b", want: []string{}},
		{name: "non-ascii location lower", query: "location=münchen", want: []string{"munich"}},
		{name: "non-ascii location upper", query: "location=MÜNCHEN", want: []string{"munich"}},
		{name: "non-ascii location mixed", query: "location=München", want: []string{"munich"}},
		{name: "non-ascii keyword lower", query: "query=ärztin+école", want: []string{"munich"}},
		{name: "non-ascii keyword upper", query: "query=ÄRZTIN", want: []string{"munich"}},
		{
			name:  "empty location term matches any location",
			query: "location=nowhere,",
			want:  []string{"go-remote", "hybrid", "percent", "munich"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := find(t, s, tt.query, now)
			assert.ElementsMatch(t, tt.want, jobIDs(result.Jobs))
		})
	}
}

func TestJobStorage_Recency(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	fresh := newJob("fresh")
	fresh.PostedAt = now.Add(-2 * time.Hour).Format(search.PostedAtLayout)

	old := newJob("old")
	old.PostedAt = now.Add(-10 * 24 * time.Hour).Format(search.PostedAtLayout)

	insertJobs(t, s, fresh, old)

	result := find(t, s, "date_posted=today", now)
	assert.Equal(t, []string{"fresh"}, jobIDs(result.Jobs))

	result = find(t, s, "date_posted=14d", now)
	assert.Equal(t, []string{"fresh", "old"}, jobIDs(result.Jobs))

	result = find(t, s, "date_posted=someday", now)
	assert.Equal(t, 2, result.Total)
}

func TestJobStorage_Pagination(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		job := newJob(fmt.Sprintf("job-%02d", i))
		// job-01 самая новая
		job.PostedAt = base.Add(time.Duration(25-i) * time.Hour).Format(search.PostedAtLayout)
		insertJobs(t, s, job)
	}

	result := find(t, s, "page=2&limit=10", time.Now())
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Jobs, 10)
	assert.Equal(t, "job-11", result.Jobs[0].ID)
	assert.Equal(t, "job-20", result.Jobs[9].ID)

	result = find(t, s, "page=3&limit=10", time.Now())
	assert.Len(t, result.Jobs, 5)

	result = find(t, s, "page=4&limit=10", time.Now())
	assert.Empty(t, result.Jobs)
	assert.Equal(t, 25, result.Total)
}

func TestJobStorage_SortNulls(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	a := newJob("a")
	a.MinSalary = floatPtrOf(50000)
	a.MaxSalary = floatPtrOf(70000)

	b := newJob("b")

	c := newJob("c")
	c.MinSalary = floatPtrOf(90000)
	c.MaxSalary = floatPtrOf(130000)

	insertJobs(t, s, a, b, c)
	now := time.Now()

	result := find(t, s, "sort_by=salary_high", now)
	assert.Equal(t, []string{"c", "a", "b"}, jobIDs(result.Jobs))

	result = find(t, s, "sort_by=salary_low", now)
	assert.Equal(t, []string{"b", "a", "c"}, jobIDs(result.Jobs))
}

func TestJobStorage_TopValues(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	cities := []string{"Berlin", "Austin", "Berlin", "", "Austin", "Berlin", "Paris"}
	for i, city := range cities {
		job := newJob(fmt.Sprintf("j%d", i))
		job.City = city
		insertJobs(t, s, job)
	}

	top, err := s.TopValues(ctx, search.FieldCity, 2)
	require.NoError(t, err)
	assert.Equal(t, []stats.ValueCount{
		{Value: "Berlin", Count: 3},
		{Value: "Austin", Count: 2},
	}, top)

	all, err := s.TopValues(ctx, search.FieldCity, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.TopValues(ctx, search.Field("nope"), 5)
	assert.Error(t, err)
}

func TestJobStorage_Stats(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now().UTC()

	remote := newJob("remote")
	remote.IsRemote = boolPtr(true)
	remote.MinSalary = floatPtrOf(1000)
	remote.PostedAt = now.Add(-time.Hour).Format(search.PostedAtLayout)

	plain := newJob("plain")
	plain.EmploymentType = "CONTRACTOR"

	insertJobs(t, s, remote, plain)

	snapshot, err := stats.NewAggregator(s).Compute(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.TotalJobs)
	assert.Equal(t, 1, snapshot.RemoteJobs)
	assert.Equal(t, 1, snapshot.JobsWithSalary)
	assert.Equal(t, 1, snapshot.RecentJobs)
	assert.Equal(t, 50, snapshot.Percentages.Remote)
	assert.Len(t, snapshot.EmploymentTypes, 2)
}
