// Package stats считает сводную статистику по каталогу вакансий.
package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/iudanet/jobboard/internal/api"
	"github.com/iudanet/jobboard/internal/search"
)

const (
	// RecentWindow окно, в котором вакансия считается свежей
	RecentWindow = 168 * time.Hour
	// TopN размер топов по городам и работодателям
	TopN = 5
)

// ValueCount значение поля и число вакансий с ним
type ValueCount struct {
	Value string
	Count int
}

// JobAggregator агрегатные запросы к коллекции вакансий
type JobAggregator interface {
	// CountJobs возвращает число вакансий, удовлетворяющих filter
	CountJobs(ctx context.Context, filter search.Predicate) (int, error)

	// TopValues группирует непустые значения поля по частоте (по убыванию,
	// при равенстве по значению). limit <= 0 означает без ограничения.
	TopValues(ctx context.Context, field search.Field, limit int) ([]ValueCount, error)
}

// Aggregator считает статистику по всей коллекции без фильтров
type Aggregator struct {
	store JobAggregator
}

// NewAggregator создает Aggregator
func NewAggregator(store JobAggregator) *Aggregator {
	return &Aggregator{store: store}
}

// Compute возвращает снимок статистики на момент now
func (a *Aggregator) Compute(ctx context.Context, now time.Time) (*api.StatsResponse, error) {
	total, err := a.store.CountJobs(ctx, search.And())
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	remote, err := a.store.CountJobs(ctx, search.And(search.BoolEq(search.FieldRemote, true)))
	if err != nil {
		return nil, fmt.Errorf("failed to count remote jobs: %w", err)
	}

	withSalary, err := a.store.CountJobs(ctx, search.And(search.Or(
		search.NotNull(search.FieldMinSalary),
		search.NotNull(search.FieldMaxSalary),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs with salary: %w", err)
	}

	threshold := now.Add(-RecentWindow).UTC().Format(search.PostedAtLayout)
	recent, err := a.store.CountJobs(ctx, search.And(search.GTE(search.FieldPostedAt, threshold)))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent jobs: %w", err)
	}

	cities, err := a.store.TopValues(ctx, search.FieldCity, TopN)
	if err != nil {
		return nil, fmt.Errorf("failed to group by city: %w", err)
	}

	companies, err := a.store.TopValues(ctx, search.FieldEmployer, TopN)
	if err != nil {
		return nil, fmt.Errorf("failed to group by employer: %w", err)
	}

	types, err := a.store.TopValues(ctx, search.FieldEmploymentType, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to group by employment type: %w", err)
	}

	resp := &api.StatsResponse{
		TotalJobs:       total,
		RemoteJobs:      remote,
		JobsWithSalary:  withSalary,
		RecentJobs:      recent,
		TopLocations:    make([]api.LocationCount, 0, len(cities)),
		TopCompanies:    make([]api.CompanyCount, 0, len(companies)),
		EmploymentTypes: make([]api.EmploymentTypeCount, 0, len(types)),
		Percentages: api.Percentages{
			Remote: Percent(remote, total),
			Salary: Percent(withSalary, total),
			Recent: Percent(recent, total),
		},
	}
	for _, c := range cities {
		resp.TopLocations = append(resp.TopLocations, api.LocationCount{City: c.Value, Count: c.Count})
	}
	for _, c := range companies {
		resp.TopCompanies = append(resp.TopCompanies, api.CompanyCount{Company: c.Value, Count: c.Count})
	}
	for _, c := range types {
		resp.EmploymentTypes = append(resp.EmploymentTypes, api.EmploymentTypeCount{Type: c.Value, Count: c.Count})
	}

	return resp, nil
}

// Percent возвращает round(part/total*100), 0 при total == 0
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
