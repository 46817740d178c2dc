package usecase

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
)

// ParseListLeadsQuery re-types raw query parameters into a validated
// entity.LeadQuery. Every offending parameter is reported.
func ParseListLeadsQuery(values url.Values) (entity.LeadQuery, error) {
	var errs ValidationErrors

	q := entity.LeadQuery{Page: entity.DefaultPage, Limit: entity.DefaultLimit}

	if raw, ok := param(values, "page"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs = append(errs, ValidationError{"page", "must be a positive integer"})
		} else {
			q.Page = n
		}
	}
	if raw, ok := param(values, "limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > entity.MaxLimit {
			errs = append(errs, ValidationError{"limit", "must be between 1 and 100"})
		} else {
			q.Limit = n
		}
	}

	filter, ferrs := parseFilter(values)
	errs = append(errs, ferrs...)
	sort, serrs := parseSort(values)
	errs = append(errs, serrs...)

	if len(errs) > 0 {
		return entity.LeadQuery{}, errs
	}
	q.Filter = filter
	q.Sort = sort
	return q, nil
}

// ParseLeadFilter parses the filter and sort parameters only; paging
// parameters are ignored.
func ParseLeadFilter(values url.Values) (entity.LeadFilter, entity.LeadSort, error) {
	filter, errs := parseFilter(values)
	sort, serrs := parseSort(values)
	errs = append(errs, serrs...)
	if len(errs) > 0 {
		return entity.LeadFilter{}, entity.LeadSort{}, errs
	}
	return filter, sort, nil
}

func parseFilter(values url.Values) (entity.LeadFilter, ValidationErrors) {
	var (
		f    entity.LeadFilter
		errs ValidationErrors
	)

	if raw, ok := param(values, "search"); ok {
		f.Search = raw
	}
	if raw, ok := param(values, "status"); ok {
		if s, err := entity.ParseStatus(raw); err != nil {
			errs = append(errs, ValidationError{"status", statusMessage})
		} else {
			f.Status = &s
		}
	}
	if raw, ok := param(values, "source"); ok {
		if s, err := entity.ParseSource(raw); err != nil {
			errs = append(errs, ValidationError{"source", sourceMessage})
		} else {
			f.Source = &s
		}
	}
	if raw, ok := param(values, "is_qualified"); ok {
		switch raw {
		case "true", "false":
			b := raw == "true"
			f.IsQualified = &b
		default:
			errs = append(errs, ValidationError{"is_qualified", "must be true or false"})
		}
	}

	f.Score.Min, errs = parseScore(values, "score_min", errs)
	f.Score.Max, errs = parseScore(values, "score_max", errs)
	if f.Score.Min != nil && f.Score.Max != nil && *f.Score.Min > *f.Score.Max {
		errs = append(errs, ValidationError{"score_max", "must be greater than or equal to score_min"})
	}

	f.Value.Min, errs = parseValue(values, "value_min", errs)
	f.Value.Max, errs = parseValue(values, "value_max", errs)
	if f.Value.Min != nil && f.Value.Max != nil && *f.Value.Min > *f.Value.Max {
		errs = append(errs, ValidationError{"value_max", "must be greater than or equal to value_min"})
	}

	f.CreatedAt.From, errs = parseDate(values, "date_from", false, errs)
	f.CreatedAt.To, errs = parseDate(values, "date_to", true, errs)
	if f.CreatedAt.From != nil && f.CreatedAt.To != nil && f.CreatedAt.From.After(*f.CreatedAt.To) {
		errs = append(errs, ValidationError{"date_to", "must not be before date_from"})
	}

	return f, errs
}

func parseSort(values url.Values) (entity.LeadSort, ValidationErrors) {
	var errs ValidationErrors
	s := entity.DefaultLeadSort()
	if raw, ok := param(values, "sort_by"); ok {
		if field, err := entity.ParseSortField(raw); err != nil {
			errs = append(errs, ValidationError{"sort_by", "is not a sortable field"})
		} else {
			s.Field = field
		}
	}
	if raw, ok := param(values, "sort_order"); ok {
		if order, err := entity.ParseSortOrder(raw); err != nil {
			errs = append(errs, ValidationError{"sort_order", "must be asc or desc"})
		} else {
			s.Order = order
		}
	}
	return s, errs
}

// param returns the trimmed value of key; blank values count as absent.
func param(values url.Values, key string) (string, bool) {
	v := strings.TrimSpace(values.Get(key))
	return v, v != ""
}

func parseScore(values url.Values, key string, errs ValidationErrors) (*int, ValidationErrors) {
	raw, ok := param(values, key)
	if !ok {
		return nil, errs
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < entity.MinScore || n > entity.MaxScore {
		return nil, append(errs, ValidationError{key, "must be an integer between 0 and 100"})
	}
	return &n, errs
}

func parseValue(values url.Values, key string, errs ValidationErrors) (*float64, ValidationErrors) {
	raw, ok := param(values, key)
	if !ok {
		return nil, errs
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, append(errs, ValidationError{key, "must be a non-negative number"})
	}
	return &v, errs
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

const dateOnlyLayout = "2006-01-02"

func parseDate(values url.Values, key string, endOfDay bool, errs ValidationErrors) (*time.Time, ValidationErrors) {
	raw, ok := param(values, key)
	if !ok {
		return nil, errs
	}
	t, dateOnly, err := ParseISODate(raw)
	if err != nil {
		return nil, append(errs, ValidationError{key, "must be a valid ISO 8601 date"})
	}
	if dateOnly && endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t, errs
}

// ParseISODate accepts a calendar date or a date-time. Values without a
// zone are read as UTC.
func ParseISODate(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(dateOnlyLayout, raw); err == nil {
		return t, true, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, err
}
