// Package search строит запросы к каталогу вакансий из параметров поиска.
//
// Фильтры собираются в дерево предикатов, не зависящее от хранилища.
// Перевод дерева в язык конкретной БД выполняет адаптер хранилища.
package search

// Field идентифицирует поле вакансии, по которому можно фильтровать и сортировать
type Field string

// Поля вакансии
const (
	FieldID                 Field = "id"
	FieldTitle              Field = "title"
	FieldDescription        Field = "description"
	FieldEmployer           Field = "employer"
	FieldCategory           Field = "category"
	FieldIndustry           Field = "industry"
	FieldCity               Field = "city"
	FieldState              Field = "state"
	FieldCountry            Field = "country"
	FieldLocation           Field = "location"
	FieldEmploymentType     Field = "employment_type"
	FieldRemote             Field = "remote"
	FieldMinSalary          Field = "min_salary"
	FieldMaxSalary          Field = "max_salary"
	FieldPostedAt           Field = "posted_at"
	FieldRequiredExperience Field = "required_experience"
)

// Kind тип узла дерева предикатов
type Kind int

// Типы узлов
const (
	// KindAnd истинен, когда истинны все дочерние узлы (пустой AND истинен)
	KindAnd Kind = iota
	// KindOr истинен, когда истинен хотя бы один дочерний узел
	KindOr
	// KindContains регистронезависимое вхождение подстроки
	KindContains
	// KindBoolEq точное сравнение с булевым значением
	KindBoolEq
	// KindCompare сравнение с числом или строкой (Op)
	KindCompare
	// KindIsNull поле отсутствует (или присутствует, если Negate)
	KindIsNull
)

// Op оператор сравнения для KindCompare
type Op string

// Операторы сравнения
const (
	OpGTE Op = ">="
	OpLTE Op = "<="
)

// Predicate узел дерева фильтров.
// Набор заполненных полей зависит от Kind.
type Predicate struct {
	Value    any
	Text     string
	Field    Field
	Op       Op
	Children []Predicate
	Kind     Kind
	Bool     bool
	Negate   bool
}

// And объединяет предикаты логическим И
func And(children ...Predicate) Predicate {
	return Predicate{Kind: KindAnd, Children: children}
}

// Or объединяет предикаты логическим ИЛИ
func Or(children ...Predicate) Predicate {
	return Predicate{Kind: KindOr, Children: children}
}

// Contains проверяет регистронезависимое вхождение text в поле
func Contains(field Field, text string) Predicate {
	return Predicate{Kind: KindContains, Field: field, Text: text}
}

// BoolEq проверяет точное равенство булевого поля
func BoolEq(field Field, value bool) Predicate {
	return Predicate{Kind: KindBoolEq, Field: field, Bool: value}
}

// GTE проверяет field >= value
func GTE(field Field, value any) Predicate {
	return Predicate{Kind: KindCompare, Field: field, Op: OpGTE, Value: value}
}

// LTE проверяет field <= value
func LTE(field Field, value any) Predicate {
	return Predicate{Kind: KindCompare, Field: field, Op: OpLTE, Value: value}
}

// IsNull проверяет отсутствие значения
func IsNull(field Field) Predicate {
	return Predicate{Kind: KindIsNull, Field: field}
}

// NotNull проверяет наличие значения
func NotNull(field Field) Predicate {
	return Predicate{Kind: KindIsNull, Field: field, Negate: true}
}

// IsEmpty сообщает, что предикат не накладывает ограничений
func (p Predicate) IsEmpty() bool {
	return p.Kind == KindAnd && len(p.Children) == 0
}
