package api

import "github.com/iudanet/jobboard/internal/models"

// SalaryRange эхо переданных границ зарплаты в том виде, как они пришли в запросе.
// Непереданная граница в JSON не попадает.
type SalaryRange struct {
	Min *string `json:"min,omitempty"`
	Max *string `json:"max,omitempty"`
}

// FiltersApplied эхо распознанных параметров поиска.
// Отсутствующие параметры сериализуются как null.
type FiltersApplied struct {
	Query          *string      `json:"query"`
	Location       *string      `json:"location"`
	EmploymentType *string      `json:"employment_type"`
	Remote         *string      `json:"remote"`
	SalaryRange    *SalaryRange `json:"salary_range"`
	DatePosted     *string      `json:"date_posted"`
	SortBy         string       `json:"sort_by"`
}

// Pagination метаданные страницы
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalJobs   int `json:"total_jobs"`
	TotalPages  int `json:"total_pages"`
}

// JobsResponse ответ GET /api/jobs
type JobsResponse struct {
	Jobs           []*models.Job  `json:"jobs"`
	Pagination     Pagination     `json:"pagination"`
	FiltersApplied FiltersApplied `json:"filters_applied"`
}

// CountResponse ответ GET /api/jobs/count
type CountResponse struct {
	Count int `json:"count"`
}

// LocationCount число вакансий в городе
type LocationCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// CompanyCount число вакансий работодателя
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// EmploymentTypeCount число вакансий с данным типом занятости
type EmploymentTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Percentages доли от общего числа вакансий, округленные до целого
type Percentages struct {
	Remote int `json:"remote_percentage"`
	Salary int `json:"salary_percentage"`
	Recent int `json:"recent_percentage"`
}

// StatsResponse ответ GET /api/jobs/stats
type StatsResponse struct {
	TotalJobs       int                   `json:"total_jobs"`
	RemoteJobs      int                   `json:"remote_jobs"`
	JobsWithSalary  int                   `json:"jobs_with_salary"`
	RecentJobs      int                   `json:"recent_jobs"`
	TopLocations    []LocationCount       `json:"top_locations"`
	TopCompanies    []CompanyCount        `json:"top_companies"`
	EmploymentTypes []EmploymentTypeCount `json:"employment_types"`
	Percentages     Percentages           `json:"percentages"`
}
