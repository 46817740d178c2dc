package entity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestLeadFilterMatches(t *testing.T) {
	created := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	l := NewLead("Grace", "Hopper", "grace@navy.mil", SourceEvents, created)
	l.Company = "US Navy"
	l.Score = 60
	l.LeadValue = 5000

	tests := []struct {
		name   string
		filter LeadFilter
		want   bool
	}{
		{"empty", LeadFilter{}, true},
		{"search company any case", LeadFilter{Search: "NAVY"}, true},
		{"search misses", LeadFilter{Search: "cobol"}, false},
		{"status", LeadFilter{Status: ptr(StatusNew)}, true},
		{"status mismatch", LeadFilter{Status: ptr(StatusWon)}, false},
		{"source", LeadFilter{Source: ptr(SourceEvents)}, true},
		{"qualified mismatch", LeadFilter{IsQualified: ptr(true)}, false},
		{"score inclusive", LeadFilter{Score: IntRange{Min: ptr(60), Max: ptr(60)}}, true},
		{"score above max", LeadFilter{Score: IntRange{Max: ptr(59)}}, false},
		{"value min only", LeadFilter{Value: FloatRange{Min: ptr(5000.0)}}, true},
		{"value below min", LeadFilter{Value: FloatRange{Min: ptr(5000.01)}}, false},
		{"created inclusive", LeadFilter{CreatedAt: TimeRange{From: &created, To: &created}}, true},
		{"created before from", LeadFilter{CreatedAt: TimeRange{From: ptr(created.Add(time.Second))}}, false},
		{"conjunction", LeadFilter{Search: "grace", Status: ptr(StatusNew), Score: IntRange{Min: ptr(61)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(l))
		})
	}
}

func TestLeadSortCompare(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &Lead{ID: "a", Score: 10, LastActivityAt: &at}
	b := &Lead{ID: "b", Score: 10}
	c := &Lead{ID: "c", Score: 20}

	asc := LeadSort{Field: SortByScore, Order: SortAsc}
	desc := LeadSort{Field: SortByScore, Order: SortDesc}

	assert.Negative(t, asc.Compare(a, c))
	assert.Positive(t, desc.Compare(a, c))
	assert.Negative(t, asc.Compare(a, b), "ties break on id")
	assert.Positive(t, desc.Compare(a, b))

	for _, order := range []SortOrder{SortAsc, SortDesc} {
		s := LeadSort{Field: SortByLastActivityAt, Order: order}
		assert.Negative(t, s.Compare(a, b), "null last in %s", order)
		assert.Positive(t, s.Compare(b, a))
	}
}

func TestParseSort(t *testing.T) {
	f, err := ParseSortField("lead_value")
	assert.NoError(t, err)
	assert.Equal(t, SortByLeadValue, f)

	_, err = ParseSortField("password; DROP TABLE leads")
	assert.Error(t, err)

	o, err := ParseSortOrder("asc")
	assert.NoError(t, err)
	assert.Equal(t, SortAsc, o)
	_, err = ParseSortOrder("ASC")
	assert.Error(t, err)
}

func TestPaging(t *testing.T) {
	assert.Equal(t, 20, LeadQuery{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 0, LeadQuery{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, math.MaxInt, LeadQuery{Page: math.MaxInt, Limit: 4}.Offset())
	assert.Equal(t, math.MaxInt, LeadQuery{Page: math.MaxInt/2 + 2, Limit: 4}.Offset())
	assert.Equal(t, math.MaxInt, LeadQuery{Page: math.MaxInt/MaxLimit + 2, Limit: MaxLimit}.Offset())
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 1, TotalPages(20, 20))
}
