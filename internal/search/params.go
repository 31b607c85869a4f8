package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/iudanet/jobboard/internal/api"
)

// Значения по умолчанию для поиска
const (
	DefaultSort  = "relevance"
	DefaultPage  = 1
	DefaultLimit = 25
)

// ErrInvalidParam возвращается при некорректном значении параметра запроса
var ErrInvalidParam = errors.New("invalid search parameter")

// Params набор необязательных параметров поиска вакансий.
// Пустая строка или nil означает отсутствие параметра.
type Params struct {
	MinSalary      *float64
	MaxSalary      *float64
	MinSalaryRaw   string // исходная строка для эха в filters_applied
	MaxSalaryRaw   string
	Query          string
	Location       string
	EmploymentType string
	Type           string // устаревший синоним EmploymentType
	Remote         string
	DatePosted     string
	Deadline       string // устаревший синоним DatePosted
	Experience     string
	Field          string
	SortBy         string
	Page           int
	Limit          int
}

// ParseParams извлекает параметры поиска из query string.
// Нечисловые min_salary/max_salary/page/limit и page/limit < 1 дают ErrInvalidParam.
func ParseParams(values url.Values) (Params, error) {
	p := Params{
		Query:          values.Get("query"),
		Location:       values.Get("location"),
		EmploymentType: values.Get("employment_type"),
		Type:           values.Get("type"),
		Remote:         values.Get("remote"),
		DatePosted:     values.Get("date_posted"),
		Deadline:       values.Get("deadline"),
		Experience:     values.Get("experience"),
		Field:          values.Get("field"),
		SortBy:         values.Get("sort_by"),
		MinSalaryRaw:   values.Get("min_salary"),
		MaxSalaryRaw:   values.Get("max_salary"),
		Page:           DefaultPage,
		Limit:          DefaultLimit,
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSort
	}

	var err error
	if p.MinSalary, err = parseSalary(p.MinSalaryRaw); err != nil {
		return Params{}, fmt.Errorf("%w: min_salary: %v", ErrInvalidParam, err)
	}
	if p.MaxSalary, err = parseSalary(p.MaxSalaryRaw); err != nil {
		return Params{}, fmt.Errorf("%w: max_salary: %v", ErrInvalidParam, err)
	}
	if p.Page, err = parsePositive(values.Get("page"), DefaultPage); err != nil {
		return Params{}, fmt.Errorf("%w: page: %v", ErrInvalidParam, err)
	}
	if p.Limit, err = parsePositive(values.Get("limit"), DefaultLimit); err != nil {
		return Params{}, fmt.Errorf("%w: limit: %v", ErrInvalidParam, err)
	}

	return p, nil
}

func parseSalary(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number")
	}
	return &v, nil
}

func parsePositive(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if v < 1 {
		return 0, fmt.Errorf("must be at least 1")
	}
	return v, nil
}

// employmentTypeParam возвращает employment_type, а при его отсутствии устаревший type
func (p Params) employmentTypeParam() string {
	if p.EmploymentType != "" {
		return p.EmploymentType
	}
	return p.Type
}

// datePostedParam возвращает date_posted, а при его отсутствии устаревший deadline
func (p Params) datePostedParam() string {
	if p.DatePosted != "" {
		return p.DatePosted
	}
	return p.Deadline
}

// AppliedFilters возвращает эхо переданных параметров.
// Учитывается только непустота сырого значения, а не то, сузил ли фильтр выборку.
func AppliedFilters(p Params) api.FiltersApplied {
	applied := api.FiltersApplied{
		Query:          nullable(p.Query),
		Location:       nullable(p.Location),
		EmploymentType: nullable(p.employmentTypeParam()),
		Remote:         nullable(p.Remote),
		DatePosted:     nullable(p.datePostedParam()),
		SortBy:         p.SortBy,
	}
	if p.MinSalaryRaw != "" || p.MaxSalaryRaw != "" {
		applied.SalaryRange = &api.SalaryRange{
			Min: nullable(p.MinSalaryRaw),
			Max: nullable(p.MaxSalaryRaw),
		}
	}
	return applied
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
