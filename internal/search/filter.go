package search

import (
	"strings"
	"time"
)

// PostedAtLayout формат posted-timestamp в хранилище (как у Date.toISOString)
const PostedAtLayout = "2006-01-02T15:04:05.000Z"

// employmentTypes сопоставляет пользовательские синонимы кодам типа занятости
var employmentTypes = map[string]string{
	"full-time":  "FULLTIME",
	"part-time":  "PARTTIME",
	"contract":   "CONTRACTOR",
	"contractor": "CONTRACTOR",
	"temporary":  "TEMPORARY",
	"internship": "INTERN",
	"freelance":  "FREELANCE",
	"consultant": "CONSULTANT",
}

// recencyWindows окна давности публикации
var recencyWindows = map[string]time.Duration{
	"1d":         24 * time.Hour,
	"today":      24 * time.Hour,
	"3d":         72 * time.Hour,
	"3-days":     72 * time.Hour,
	"7d":         168 * time.Hour,
	"week":       168 * time.Hour,
	"this-week":  168 * time.Hour,
	"14d":        336 * time.Hour,
	"30d":        720 * time.Hour,
	"month":      720 * time.Hour,
	"this-month": 720 * time.Hour,
}

// BuildFilter переводит параметры поиска в дерево предикатов.
// Результат всегда AND; каждый переданный параметр добавляет свои условия,
// отсутствующий не добавляет ничего.
//
// Термы location попадают в ту же OR-группу, что и keyword,
// поэтому вместе они расширяют выборку, а не сужают ее.
func BuildFilter(p Params, now time.Time) Predicate {
	var clauses []Predicate

	var textMatch []Predicate
	if q := strings.TrimSpace(p.Query); q != "" {
		textMatch = append(textMatch,
			Contains(FieldTitle, q),
			Contains(FieldDescription, q),
			Contains(FieldEmployer, q),
			Contains(FieldCategory, q),
		)
	}
	if strings.TrimSpace(p.Location) != "" {
		// пустой терм ("Berlin,") остаётся и совпадает с любой непустой локацией
		for _, term := range strings.Split(p.Location, ",") {
			term = strings.TrimSpace(term)
			textMatch = append(textMatch,
				Contains(FieldCity, term),
				Contains(FieldState, term),
				Contains(FieldCountry, term),
				Contains(FieldLocation, term),
			)
		}
	}
	if len(textMatch) > 0 {
		clauses = append(clauses, Or(textMatch...))
	}

	if et := strings.TrimSpace(p.employmentTypeParam()); et != "" {
		clauses = append(clauses, Contains(FieldEmploymentType, NormalizeEmploymentType(et)))
	}

	if remote, ok := remoteClause(p.Remote); ok {
		clauses = append(clauses, remote)
	}

	if p.MinSalary != nil {
		floor := *p.MinSalary
		clauses = append(clauses, Or(
			GTE(FieldMaxSalary, floor),
			GTE(FieldMinSalary, floor),
		))
	}
	if p.MaxSalary != nil {
		ceiling := *p.MaxSalary
		clauses = append(clauses, Or(
			LTE(FieldMinSalary, ceiling),
			LTE(FieldMaxSalary, ceiling),
			IsNull(FieldMinSalary),
			IsNull(FieldMaxSalary),
		))
	}

	if window, ok := RecencyWindow(p.datePostedParam()); ok {
		threshold := now.Add(-window).UTC().Format(PostedAtLayout)
		clauses = append(clauses, GTE(FieldPostedAt, threshold))
	}

	if exp := strings.TrimSpace(p.Experience); exp != "" {
		clauses = append(clauses, Or(
			Contains(FieldTitle, exp),
			Contains(FieldRequiredExperience, exp),
		))
	}

	if field := strings.TrimSpace(p.Field); field != "" {
		clauses = append(clauses, Or(
			Contains(FieldIndustry, field),
			Contains(FieldCategory, field),
		))
	}

	return And(clauses...)
}

// NormalizeEmploymentType переводит синоним (full-time, contractor, ...) в код типа занятости.
// Неизвестные значения возвращаются в верхнем регистре.
func NormalizeEmploymentType(value string) string {
	value = strings.TrimSpace(value)
	if mapped, ok := employmentTypes[strings.ToLower(value)]; ok {
		return mapped
	}
	return strings.ToUpper(value)
}

// RecencyWindow возвращает окно давности для значения date_posted.
// Для неизвестных значений ok == false и фильтр не применяется.
func RecencyWindow(value string) (time.Duration, bool) {
	window, ok := recencyWindows[strings.ToLower(strings.TrimSpace(value))]
	return window, ok
}

func remoteClause(value string) (Predicate, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "remote":
		return BoolEq(FieldRemote, true), true
	case "onsite":
		return BoolEq(FieldRemote, false), true
	case "hybrid":
		// hybrid не смотрит на флаг remote
		return Or(
			Contains(FieldTitle, "hybrid"),
			Contains(FieldDescription, "hybrid"),
		), true
	default:
		return Predicate{}, false
	}
}
