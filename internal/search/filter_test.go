package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 {
	return &v
}

func TestBuildFilter_NoParams(t *testing.T) {
	filter := BuildFilter(Params{SortBy: DefaultSort, Page: 1, Limit: 25}, testNow)

	assert.True(t, filter.IsEmpty())
}

func TestBuildFilter_EachParamAddsOneClause(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "query", params: Params{Query: "golang"}},
		{name: "location", params: Params{Location: "Berlin"}},
		{name: "employment_type", params: Params{EmploymentType: "full-time"}},
		{name: "legacy type", params: Params{Type: "contract"}},
		{name: "remote", params: Params{Remote: "remote"}},
		{name: "onsite", params: Params{Remote: "onsite"}},
		{name: "hybrid", params: Params{Remote: "hybrid"}},
		{name: "min_salary", params: Params{MinSalary: floatPtr(100000)}},
		{name: "max_salary", params: Params{MaxSalary: floatPtr(50000)}},
		{name: "date_posted", params: Params{DatePosted: "7d"}},
		{name: "legacy deadline", params: Params{Deadline: "month"}},
		{name: "experience", params: Params{Experience: "senior"}},
		{name: "field", params: Params{Field: "finance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildFilter(tt.params, testNow)
			require.Equal(t, KindAnd, filter.Kind)
			assert.Len(t, filter.Children, 1)
		})
	}
}

func TestBuildFilter_IsAdditive(t *testing.T) {
	params := Params{
		Query:          "engineer",
		EmploymentType: "full-time",
		Remote:         "remote",
		MinSalary:      floatPtr(1000),
		MaxSalary:      floatPtr(9000),
		DatePosted:     "today",
		Experience:     "senior",
		Field:          "tech",
	}

	full := BuildFilter(params, testNow)
	assert.Len(t, full.Children, 8)

	// удаление любого параметра убирает ровно одно условие
	withoutRemote := params
	withoutRemote.Remote = ""
	assert.Len(t, BuildFilter(withoutRemote, testNow).Children, 7)

	withoutSalary := params
	withoutSalary.MinSalary = nil
	withoutSalary.MaxSalary = nil
	assert.Len(t, BuildFilter(withoutSalary, testNow).Children, 6)
}

func TestBuildFilter_BlankValuesIgnored(t *testing.T) {
	params := Params{
		Query:          "   ",
		Location:       " ",
		EmploymentType: "  ",
		Remote:         "sometimes",
		DatePosted:     "yesterday",
		Experience:     "\t",
		Field:          " ",
	}

	assert.True(t, BuildFilter(params, testNow).IsEmpty())
}

func TestBuildFilter_Keyword(t *testing.T) {
	filter := BuildFilter(Params{Query: "  Go Developer "}, testNow)

	expected := And(Or(
		Contains(FieldTitle, "Go Developer"),
		Contains(FieldDescription, "Go Developer"),
		Contains(FieldEmployer, "Go Developer"),
		Contains(FieldCategory, "Go Developer"),
	))
	assert.Equal(t, expected, filter)
}

func TestBuildFilter_LocationTerms(t *testing.T) {
	filter := BuildFilter(Params{Location: "Austin, TX"}, testNow)

	expected := And(Or(
		Contains(FieldCity, "Austin"),
		Contains(FieldState, "Austin"),
		Contains(FieldCountry, "Austin"),
		Contains(FieldLocation, "Austin"),
		Contains(FieldCity, "TX"),
		Contains(FieldState, "TX"),
		Contains(FieldCountry, "TX"),
		Contains(FieldLocation, "TX"),
	))
	assert.Equal(t, expected, filter)
}

func TestBuildFilter_EmptyLocationTermKept(t *testing.T) {
	filter := BuildFilter(Params{Location: "Berlin,"}, testNow)

	expected := And(Or(
		Contains(FieldCity, "Berlin"),
		Contains(FieldState, "Berlin"),
		Contains(FieldCountry, "Berlin"),
		Contains(FieldLocation, "Berlin"),
		Contains(FieldCity, ""),
		Contains(FieldState, ""),
		Contains(FieldCountry, ""),
		Contains(FieldLocation, ""),
	))
	assert.Equal(t, expected, filter)
}

func TestBuildFilter_NonASCIITextKeptVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		field    Field
		expected string
	}{
		{name: "keyword", params: Params{Query: " Ärztin ÉCOLE "}, field: FieldTitle, expected: "Ärztin ÉCOLE"},
		{name: "location", params: Params{Location: "MÜNCHEN"}, field: FieldCity, expected: "MÜNCHEN"},
		{name: "location lower", params: Params{Location: "zürich , São Paulo"}, field: FieldCity, expected: "zürich"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildFilter(tt.params, testNow)
			require.Len(t, filter.Children, 1)
			group := filter.Children[0]
			require.NotEmpty(t, group.Children)
			// регистр не меняется: нормализация делается при трансляции в SQL
			assert.Equal(t, Contains(tt.field, tt.expected), group.Children[0])
		})
	}
}

func TestBuildFilter_LocationWidensKeyword(t *testing.T) {
	filter := BuildFilter(Params{Query: "nurse", Location: "Ohio"}, testNow)

	// keyword и location объединены в одну OR-группу
	require.Len(t, filter.Children, 1)
	group := filter.Children[0]
	assert.Equal(t, KindOr, group.Kind)
	assert.Len(t, group.Children, 8)
	assert.Equal(t, Contains(FieldTitle, "nurse"), group.Children[0])
	assert.Equal(t, Contains(FieldCity, "Ohio"), group.Children[4])
}

func TestBuildFilter_EmploymentType(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected string
	}{
		{name: "synonym", params: Params{EmploymentType: "full-time"}, expected: "FULLTIME"},
		{name: "synonym mixed case", params: Params{EmploymentType: "Full-Time"}, expected: "FULLTIME"},
		{name: "contractor", params: Params{EmploymentType: "CONTRACTOR"}, expected: "CONTRACTOR"},
		{name: "contract", params: Params{EmploymentType: "contract"}, expected: "CONTRACTOR"},
		{name: "internship", params: Params{EmploymentType: "internship"}, expected: "INTERN"},
		{name: "unmapped uppercased", params: Params{EmploymentType: "seasonal"}, expected: "SEASONAL"},
		{name: "legacy type", params: Params{Type: "part-time"}, expected: "PARTTIME"},
		{name: "employment_type wins", params: Params{EmploymentType: "temporary", Type: "freelance"}, expected: "TEMPORARY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildFilter(tt.params, testNow)
			assert.Equal(t, And(Contains(FieldEmploymentType, tt.expected)), filter)
		})
	}
}

func TestBuildFilter_EmploymentTypeCaseInsensitive(t *testing.T) {
	upper := BuildFilter(Params{EmploymentType: "Full-Time"}, testNow)
	lower := BuildFilter(Params{EmploymentType: "full-time"}, testNow)

	assert.Equal(t, lower, upper)
}

func TestBuildFilter_Remote(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected Predicate
	}{
		{name: "remote", value: "remote", expected: BoolEq(FieldRemote, true)},
		{name: "remote upper", value: "REMOTE", expected: BoolEq(FieldRemote, true)},
		{name: "onsite", value: "onsite", expected: BoolEq(FieldRemote, false)},
		{
			name:  "hybrid",
			value: "Hybrid",
			expected: Or(
				Contains(FieldTitle, "hybrid"),
				Contains(FieldDescription, "hybrid"),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildFilter(Params{Remote: tt.value}, testNow)
			assert.Equal(t, And(tt.expected), filter)
		})
	}
}

func TestBuildFilter_Salary(t *testing.T) {
	floor := Or(GTE(FieldMaxSalary, 100000.0), GTE(FieldMinSalary, 100000.0))
	ceiling := Or(
		LTE(FieldMinSalary, 50000.0),
		LTE(FieldMaxSalary, 50000.0),
		IsNull(FieldMinSalary),
		IsNull(FieldMaxSalary),
	)

	assert.Equal(t, And(floor), BuildFilter(Params{MinSalary: floatPtr(100000)}, testNow))
	assert.Equal(t, And(ceiling), BuildFilter(Params{MaxSalary: floatPtr(50000)}, testNow))

	ceiling = Or(
		LTE(FieldMinSalary, 200000.0),
		LTE(FieldMaxSalary, 200000.0),
		IsNull(FieldMinSalary),
		IsNull(FieldMaxSalary),
	)
	both := BuildFilter(Params{MinSalary: floatPtr(100000), MaxSalary: floatPtr(200000)}, testNow)
	assert.Equal(t, And(floor, ceiling), both)
}

func TestBuildFilter_Recency(t *testing.T) {
	tests := []struct {
		value  string
		window time.Duration
	}{
		{value: "1d", window: 24 * time.Hour},
		{value: "today", window: 24 * time.Hour},
		{value: "3d", window: 72 * time.Hour},
		{value: "3-days", window: 72 * time.Hour},
		{value: "7d", window: 168 * time.Hour},
		{value: "week", window: 168 * time.Hour},
		{value: "this-week", window: 168 * time.Hour},
		{value: "14d", window: 336 * time.Hour},
		{value: "30d", window: 720 * time.Hour},
		{value: "month", window: 720 * time.Hour},
		{value: "This-Month", window: 720 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			filter := BuildFilter(Params{DatePosted: tt.value}, testNow)
			threshold := testNow.Add(-tt.window).Format(PostedAtLayout)
			assert.Equal(t, And(GTE(FieldPostedAt, threshold)), filter)
		})
	}
}

func TestBuildFilter_RecencyThresholdFormat(t *testing.T) {
	filter := BuildFilter(Params{DatePosted: "today"}, testNow)

	require.Len(t, filter.Children, 1)
	assert.Equal(t, "2024-05-09T12:00:00.000Z", filter.Children[0].Value)
}

func TestBuildFilter_RecencyPrecedence(t *testing.T) {
	filter := BuildFilter(Params{DatePosted: "today", Deadline: "month"}, testNow)
	threshold := testNow.Add(-24 * time.Hour).Format(PostedAtLayout)

	assert.Equal(t, And(GTE(FieldPostedAt, threshold)), filter)
}

func TestBuildFilter_ExperienceAndField(t *testing.T) {
	filter := BuildFilter(Params{Experience: "senior", Field: "Healthcare"}, testNow)

	expected := And(
		Or(Contains(FieldTitle, "senior"), Contains(FieldRequiredExperience, "senior")),
		Or(Contains(FieldIndustry, "Healthcare"), Contains(FieldCategory, "Healthcare")),
	)
	assert.Equal(t, expected, filter)
}

func TestRecencyWindow_Unknown(t *testing.T) {
	_, ok := RecencyWindow("2d")
	assert.False(t, ok)
}
