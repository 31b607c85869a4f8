package models

import "time"

// Highlights группирует списки из карточки вакансии.
type Highlights struct {
	Qualifications   []string `json:"Qualifications,omitempty"`
	Responsibilities []string `json:"Responsibilities,omitempty"`
	Benefits         []string `json:"Benefits,omitempty"`
}

// Job представляет вакансию.
// Записи создаются внешним процессом импорта, API только читает их.
// Необязательные числовые поля (зарплата, координаты, remote) хранятся как указатели:
// nil означает, что значение не было передано источником.
type Job struct {
	ID                  string `json:"job_id"`
	EmployerName        string `json:"employer_name"`
	EmployerLogo        string `json:"employer_logo,omitempty"`
	EmployerWebsite     string `json:"employer_website,omitempty"`
	EmployerCompanyType string `json:"employer_company_type,omitempty"`

	Title          string `json:"job_title"`
	EmploymentType string `json:"job_employment_type"`
	Description    string `json:"job_description"`
	ApplyLink      string `json:"job_apply_link,omitempty"`
	IsRemote       *bool  `json:"job_is_remote"`

	City      string   `json:"job_city"`
	State     string   `json:"job_state"`
	Country   string   `json:"job_country"`
	Latitude  *float64 `json:"job_latitude"`
	Longitude *float64 `json:"job_longitude"`
	Location  string   `json:"job_location"`

	MinSalary      *float64 `json:"job_min_salary"`
	MaxSalary      *float64 `json:"job_max_salary"`
	SalaryCurrency string   `json:"job_salary_currency,omitempty"`
	SalaryPeriod   string   `json:"job_salary_period,omitempty"`

	// PostedAt ISO-8601 строка в UTC, например 2024-05-01T12:00:00.000Z.
	// Сравнение с порогом давности выполняется лексикографически.
	PostedAt            string `json:"job_posted_at_datetime_utc"`
	PostedHumanReadable string `json:"job_posted_human_readable,omitempty"`
	ExpirationDate      string `json:"job_expiration_date,omitempty"`
	OfferExpiresAtUTC   string `json:"job_offer_expiration_datetime_utc,omitempty"`

	Highlights         Highlights `json:"job_highlights"`
	Benefits           []string   `json:"job_benefits"`
	RequiredExperience string     `json:"job_required_experience"`
	RequiredEducation  string     `json:"job_required_education"`
	RequiredSkills     []string   `json:"job_required_skills"`
	Industry           string     `json:"job_industry"`
	Category           string     `json:"job_category"`
	Publisher          string     `json:"job_publisher,omitempty"`
	Source             string     `json:"job_source,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
