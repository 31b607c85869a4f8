package search

// SortField элемент порядка сортировки
type SortField struct {
	Field Field
	Desc  bool
}

// ResolveSort переводит ключ sort_by в порядок сортировки.
// relevance и неизвестные ключи сортируют по дате публикации (новые первыми):
// отдельной модели ранжирования нет.
func ResolveSort(key string) []SortField {
	switch key {
	case "date":
		return []SortField{{Field: FieldPostedAt, Desc: true}}
	case "salary_high":
		return []SortField{{Field: FieldMaxSalary, Desc: true}, {Field: FieldMinSalary, Desc: true}}
	case "salary_low":
		return []SortField{{Field: FieldMinSalary}, {Field: FieldMaxSalary}}
	case "company":
		return []SortField{{Field: FieldEmployer}}
	default:
		return []SortField{{Field: FieldPostedAt, Desc: true}}
	}
}
