package entity

import (
	"cmp"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// IntRange is an inclusive range; a nil bound is unbounded.
type IntRange struct {
	Min *int
	Max *int
}

func (r IntRange) IsZero() bool { return r.Min == nil && r.Max == nil }

func (r IntRange) Contains(v int) bool {
	return (r.Min == nil || v >= *r.Min) && (r.Max == nil || v <= *r.Max)
}

type FloatRange struct {
	Min *float64
	Max *float64
}

func (r FloatRange) IsZero() bool { return r.Min == nil && r.Max == nil }

func (r FloatRange) Contains(v float64) bool {
	return (r.Min == nil || v >= *r.Min) && (r.Max == nil || v <= *r.Max)
}

type TimeRange struct {
	From *time.Time
	To   *time.Time
}

func (r TimeRange) IsZero() bool { return r.From == nil && r.To == nil }

func (r TimeRange) Contains(t time.Time) bool {
	return (r.From == nil || !t.Before(*r.From)) && (r.To == nil || !t.After(*r.To))
}

// LeadFilter is the typed conjunction of every supported predicate. Zero
// fields impose no constraint.
type LeadFilter struct {
	Search      string
	Status      *Status
	Source      *Source
	IsQualified *bool
	Score       IntRange
	Value       FloatRange
	CreatedAt   TimeRange
}

// SearchColumns are the fields a free-text search is matched against.
var SearchColumns = []string{"first_name", "last_name", "email", "company", "city", "state"}

func (f LeadFilter) Matches(l *Lead) bool {
	if f.Search != "" && !matchesSearch(l, f.Search) {
		return false
	}
	if f.Status != nil && l.Status != *f.Status {
		return false
	}
	if f.Source != nil && l.Source != *f.Source {
		return false
	}
	if f.IsQualified != nil && l.IsQualified != *f.IsQualified {
		return false
	}
	return f.Score.Contains(l.Score) && f.Value.Contains(l.LeadValue) && f.CreatedAt.Contains(l.CreatedAt)
}

func matchesSearch(l *Lead, term string) bool {
	term = strings.ToLower(term)
	for _, v := range []string{l.FirstName, l.LastName, l.Email, l.Company, l.City, l.State} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

type SortField string

const (
	SortByCreatedAt      SortField = "created_at"
	SortByUpdatedAt      SortField = "updated_at"
	SortByFirstName      SortField = "first_name"
	SortByLastName       SortField = "last_name"
	SortByEmail          SortField = "email"
	SortByCompany        SortField = "company"
	SortByCity           SortField = "city"
	SortByState          SortField = "state"
	SortBySource         SortField = "source"
	SortByStatus         SortField = "status"
	SortByScore          SortField = "score"
	SortByLeadValue      SortField = "lead_value"
	SortByLastActivityAt SortField = "last_activity_at"
	SortByIsQualified    SortField = "is_qualified"
)

var sortFields = map[SortField]struct{}{
	SortByCreatedAt: {}, SortByUpdatedAt: {}, SortByFirstName: {}, SortByLastName: {},
	SortByEmail: {}, SortByCompany: {}, SortByCity: {}, SortByState: {}, SortBySource: {},
	SortByStatus: {}, SortByScore: {}, SortByLeadValue: {}, SortByLastActivityAt: {},
	SortByIsQualified: {},
}

func ParseSortField(v string) (SortField, error) {
	if _, ok := sortFields[SortField(v)]; !ok {
		return "", fmt.Errorf("invalid sort field %q", v)
	}
	return SortField(v), nil
}

// SortOrder defaults to descending.
type SortOrder uint8

const (
	SortDesc SortOrder = iota
	SortAsc
)

func ParseSortOrder(v string) (SortOrder, error) {
	switch v {
	case "desc":
		return SortDesc, nil
	case "asc":
		return SortAsc, nil
	}
	return 0, fmt.Errorf("invalid sort order %q", v)
}

func (o SortOrder) String() string {
	if o == SortAsc {
		return "asc"
	}
	return "desc"
}

type LeadSort struct {
	Field SortField
	Order SortOrder
}

func DefaultLeadSort() LeadSort {
	return LeadSort{Field: SortByCreatedAt, Order: SortDesc}
}

// Compare orders two leads by the sort field, then by id in the same
// direction, so the ordering is total. Null last_activity_at values sort
// last in both directions. Strings compare bytewise.
func (s LeadSort) Compare(a, b *Lead) int {
	if s.Field == SortByLastActivityAt {
		switch {
		case a.LastActivityAt == nil && b.LastActivityAt != nil:
			return 1
		case a.LastActivityAt != nil && b.LastActivityAt == nil:
			return -1
		}
	}
	c := compareField(s.Field, a, b)
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}
	if s.Order == SortDesc {
		return -c
	}
	return c
}

func compareField(f SortField, a, b *Lead) int {
	switch f {
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByFirstName:
		return cmp.Compare(a.FirstName, b.FirstName)
	case SortByLastName:
		return cmp.Compare(a.LastName, b.LastName)
	case SortByEmail:
		return cmp.Compare(a.Email, b.Email)
	case SortByCompany:
		return cmp.Compare(a.Company, b.Company)
	case SortByCity:
		return cmp.Compare(a.City, b.City)
	case SortByState:
		return cmp.Compare(a.State, b.State)
	case SortBySource:
		return cmp.Compare(a.Source.String(), b.Source.String())
	case SortByStatus:
		return cmp.Compare(a.Status.String(), b.Status.String())
	case SortByScore:
		return cmp.Compare(a.Score, b.Score)
	case SortByLeadValue:
		return cmp.Compare(a.LeadValue, b.LeadValue)
	case SortByLastActivityAt:
		if a.LastActivityAt == nil || b.LastActivityAt == nil {
			return 0
		}
		return a.LastActivityAt.Compare(*b.LastActivityAt)
	case SortByIsQualified:
		return cmp.Compare(boolRank(a.IsQualified), boolRank(b.IsQualified))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LeadQuery is a validated list request: filter, ordering and page window.
type LeadQuery struct {
	Filter LeadFilter
	Sort   LeadSort
	Page   int
	Limit  int
}

// Offset is the number of rows before the page. It saturates at
// math.MaxInt, so an absurdly large page is simply past the end.
func (q LeadQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
