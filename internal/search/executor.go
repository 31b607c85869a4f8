package search

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/jobboard/internal/models"
)

// JobFinder выполняет предикат против коллекции вакансий
type JobFinder interface {
	// FindJobs возвращает не более limit вакансий, начиная с offset, в порядке order
	FindJobs(ctx context.Context, filter Predicate, order []SortField, offset, limit int) ([]*models.Job, error)

	// CountJobs возвращает число вакансий, удовлетворяющих filter, без учета пагинации
	CountJobs(ctx context.Context, filter Predicate) (int, error)
}

// Query готовый к выполнению поисковый запрос
type Query struct {
	Filter Predicate
	Sort   []SortField
	Page   int
	Limit  int
}

// Result страница результатов поиска
type Result struct {
	Jobs       []*models.Job
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// NewQuery собирает запрос из параметров: фильтр, сортировка и пагинация
func NewQuery(p Params, now time.Time) Query {
	return Query{
		Filter: BuildFilter(p, now),
		Sort:   ResolveSort(p.SortBy),
		Page:   p.Page,
		Limit:  p.Limit,
	}
}

// Executor выполняет поисковые запросы
type Executor struct {
	finder JobFinder
}

// NewExecutor создает Executor поверх хранилища вакансий
func NewExecutor(finder JobFinder) *Executor {
	return &Executor{finder: finder}
}

// Run возвращает страницу вакансий и общее число совпадений.
// Верхние границы page и limit не проверяются: это задача вызывающей стороны.
func (e *Executor) Run(ctx context.Context, q Query) (*Result, error) {
	if q.Page < 1 || q.Limit < 1 {
		return nil, fmt.Errorf("%w: page and limit must be positive", ErrInvalidParam)
	}

	offset := (q.Page - 1) * q.Limit

	jobs, err := e.finder.FindJobs(ctx, q.Filter, q.Sort, offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}

	total, err := e.finder.CountJobs(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	return &Result{
		Jobs:       jobs,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
	}, nil
}

// TotalPages возвращает ceil(total/limit)
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
