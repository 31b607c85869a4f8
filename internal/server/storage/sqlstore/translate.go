package sqlstore

import (
	"fmt"
	"strings"

	"github.com/iudanet/jobboard/internal/search"
)

// jobColumns соответствие полей поиска колонкам таблицы jobs
var jobColumns = map[search.Field]string{
	search.FieldID:                 "job_id",
	search.FieldTitle:              "job_title",
	search.FieldDescription:        "job_description",
	search.FieldEmployer:           "employer_name",
	search.FieldCategory:           "job_category",
	search.FieldIndustry:           "job_industry",
	search.FieldCity:               "job_city",
	search.FieldState:              "job_state",
	search.FieldCountry:            "job_country",
	search.FieldLocation:           "job_location",
	search.FieldEmploymentType:     "job_employment_type",
	search.FieldRemote:             "job_is_remote",
	search.FieldMinSalary:          "job_min_salary",
	search.FieldMaxSalary:          "job_max_salary",
	search.FieldPostedAt:           "job_posted_at_datetime_utc",
	search.FieldRequiredExperience: "job_required_experience",
}

func column(field search.Field) (string, error) {
	col, ok := jobColumns[field]
	if !ok {
		return "", fmt.Errorf("unknown job field %q", field)
	}
	return col, nil
}

// queryBuilder переводит дерево предикатов в SQL, накапливая аргументы
type queryBuilder struct {
	dialect Dialect
	args    []any
}

func newQueryBuilder(dialect Dialect) *queryBuilder {
	return &queryBuilder{dialect: dialect}
}

// arg добавляет аргумент и возвращает его плейсхолдер
func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// where возвращает " WHERE ..." или пустую строку для пустого фильтра
func (b *queryBuilder) where(p search.Predicate) (string, error) {
	if p.IsEmpty() {
		return "", nil
	}
	cond, err := b.predicate(p)
	if err != nil {
		return "", err
	}
	return " WHERE " + cond, nil
}

func (b *queryBuilder) predicate(p search.Predicate) (string, error) {
	switch p.Kind {
	case search.KindAnd, search.KindOr:
		return b.group(p)
	case search.KindContains:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		pattern := "%" + escapeLike(strings.ToLower(p.Text)) + "%"
		return fmt.Sprintf(`%s LIKE %s ESCAPE '\'`, b.dialect.Lower(col), b.arg(pattern)), nil
	case search.KindBoolEq:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", col, b.arg(p.Bool)), nil
	case search.KindCompare:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		if p.Op != search.OpGTE && p.Op != search.OpLTE {
			return "", fmt.Errorf("unsupported operator %q", p.Op)
		}
		return fmt.Sprintf("%s %s %s", col, p.Op, b.arg(p.Value)), nil
	case search.KindIsNull:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		if p.Negate {
			return col + " IS NOT NULL", nil
		}
		return col + " IS NULL", nil
	default:
		return "", fmt.Errorf("unknown predicate kind %d", p.Kind)
	}
}

func (b *queryBuilder) group(p search.Predicate) (string, error) {
	if len(p.Children) == 0 {
		// пустой AND ничего не ограничивает, пустой OR ничему не удовлетворяет
		if p.Kind == search.KindAnd {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	}

	sep := " AND "
	if p.Kind == search.KindOr {
		sep = " OR "
	}

	parts := make([]string, 0, len(p.Children))
	for _, child := range p.Children {
		cond, err := b.predicate(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, cond)
	}

	return "(" + strings.Join(parts, sep) + ")", nil
}

// orderBy возвращает " ORDER BY ...". NULL считается наименьшим значением,
// job_id в конце делает порядок детерминированным между страницами.
func orderBy(order []search.SortField) (string, error) {
	parts := make([]string, 0, len(order)+1)
	for _, f := range order {
		col, err := column(f.Field)
		if err != nil {
			return "", err
		}
		if f.Desc {
			parts = append(parts, col+" DESC NULLS LAST")
		} else {
			parts = append(parts, col+" ASC NULLS FIRST")
		}
	}
	parts = append(parts, "job_id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE, чтобы поиск был по подстроке
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
