package usecase

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
)

const day = 24 * time.Hour

// Window is a trailing analytics range in days. WindowAll disables the
// time restriction.
type Window int

const (
	WindowAll     Window = 0
	Window7Days   Window = 7
	Window30Days  Window = 30
	Window90Days  Window = 90
	Window365Days Window = 365

	DefaultWindow = Window30Days
)

// ParseWindow accepts "7", "30", "90", "365" or "all", ignoring
// surrounding whitespace. Blank means the default window.
func ParseWindow(raw string) (Window, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return DefaultWindow, nil
	case "all":
		return WindowAll, nil
	}
	n, err := strconv.Atoi(raw)
	if err == nil {
		switch w := Window(n); w {
		case Window7Days, Window30Days, Window90Days, Window365Days:
			return w, nil
		}
	}
	return 0, ValidationErrors{{Field: "range", Message: "Range must be one of: 7, 30, 90, 365, all"}}
}

func (w Window) String() string {
	if w == WindowAll {
		return "all"
	}
	return strconv.Itoa(int(w))
}

// Range is the created_at restriction for the window ending at now.
func (w Window) Range(now time.Time) entity.TimeRange {
	if w == WindowAll {
		return entity.TimeRange{}
	}
	from := now.Add(-time.Duration(w) * day)
	return entity.TimeRange{From: &from, To: &now}
}

func (w Window) Contains(t, now time.Time) bool {
	return w.Range(now).Contains(t)
}

type scoreBucket struct {
	Label    string
	Min, Max int
}

// ScoreBuckets are inclusive and do not overlap.
var ScoreBuckets = []scoreBucket{
	{"0-20", 0, 20},
	{"21-40", 21, 40},
	{"41-60", 41, 60},
	{"61-80", 61, 80},
	{"81-100", 81, 100},
}

type valueBucket struct {
	Label    string
	Min, Max float64
}

// ValueBuckets are half-open [Min, Max); the last one has no upper bound.
var ValueBuckets = []valueBucket{
	{"$0-1K", 0, 1000},
	{"$1K-5K", 1000, 5000},
	{"$5K-10K", 5000, 10000},
	{"$10K-25K", 10000, 25000},
	{"$25K+", 25000, math.Inf(1)},
}

type Summary struct {
	TotalLeads     int     `json:"total_leads"`
	TotalValue     float64 `json:"total_value"`
	AvgScore       float64 `json:"avg_score"`
	ConversionRate float64 `json:"conversion_rate"`
	TodayLeads     int     `json:"today_leads"`
	ThisWeekLeads  int     `json:"this_week_leads"`
}

type StatusCount struct {
	Status entity.Status `json:"status"`
	Count  int           `json:"count"`
}

type SourceCount struct {
	Source entity.Source `json:"source"`
	Count  int           `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type BucketCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type AnalyticsReport struct {
	Range              string        `json:"range"`
	GeneratedAt        time.Time     `json:"generated_at"`
	Summary            Summary       `json:"summary"`
	StatusDistribution []StatusCount `json:"status_distribution"`
	SourceDistribution []SourceCount `json:"source_distribution"`
	Monthly            []MonthCount  `json:"monthly"`
	ScoreDistribution  []BucketCount `json:"score_distribution"`
	ValueDistribution  []BucketCount `json:"value_distribution"`
}

// Aggregator folds leads into an AnalyticsReport one at a time. It keeps
// only counters plus one entry per distinct status, source and month.
// Calendar days and month labels use now's location.
type Aggregator struct {
	window  Window
	now     time.Time
	weekAgo time.Time
	y       int
	m       time.Month
	d       int

	total     int
	value     float64
	scoreSum  int
	qualified int
	today     int
	week      int

	statusIdx map[entity.Status]int
	statuses  []StatusCount
	sourceIdx map[entity.Source]int
	sources   []SourceCount
	monthIdx  map[string]int
	months    []MonthCount
	scores    []int
	values    []int
}

func NewAggregator(w Window, now time.Time) *Aggregator {
	y, m, d := now.Date()
	return &Aggregator{
		window:    w,
		now:       now,
		weekAgo:   now.Add(-7 * day),
		y:         y,
		m:         m,
		d:         d,
		statusIdx: make(map[entity.Status]int),
		sourceIdx: make(map[entity.Source]int),
		monthIdx:  make(map[string]int),
		scores:    make([]int, len(ScoreBuckets)),
		values:    make([]int, len(ValueBuckets)),
	}
}

// Add folds l into the report and reports whether it fell inside the
// window.
func (a *Aggregator) Add(l *entity.Lead) bool {
	if !a.window.Contains(l.CreatedAt, a.now) {
		return false
	}

	a.total++
	a.value += l.LeadValue
	a.scoreSum += l.Score
	if l.IsQualified {
		a.qualified++
	}

	created := l.CreatedAt.In(a.now.Location())
	if y, m, d := created.Date(); y == a.y && m == a.m && d == a.d {
		a.today++
	}
	if !created.Before(a.weekAgo) {
		a.week++
	}

	if i, ok := a.statusIdx[l.Status]; ok {
		a.statuses[i].Count++
	} else {
		a.statusIdx[l.Status] = len(a.statuses)
		a.statuses = append(a.statuses, StatusCount{Status: l.Status, Count: 1})
	}
	if i, ok := a.sourceIdx[l.Source]; ok {
		a.sources[i].Count++
	} else {
		a.sourceIdx[l.Source] = len(a.sources)
		a.sources = append(a.sources, SourceCount{Source: l.Source, Count: 1})
	}
	month := created.Format("Jan 2006")
	if i, ok := a.monthIdx[month]; ok {
		a.months[i].Count++
	} else {
		a.monthIdx[month] = len(a.months)
		a.months = append(a.months, MonthCount{Month: month, Count: 1})
	}

	for i, b := range ScoreBuckets {
		if l.Score >= b.Min && l.Score <= b.Max {
			a.scores[i]++
			break
		}
	}
	for i, b := range ValueBuckets {
		if l.LeadValue >= b.Min && l.LeadValue < b.Max {
			a.values[i]++
			break
		}
	}
	return true
}

func (a *Aggregator) Report() *AnalyticsReport {
	r := &AnalyticsReport{
		Range:              a.window.String(),
		GeneratedAt:        a.now,
		StatusDistribution: append([]StatusCount{}, a.statuses...),
		SourceDistribution: append([]SourceCount{}, a.sources...),
		Monthly:            append([]MonthCount{}, a.months...),
		ScoreDistribution:  make([]BucketCount, len(ScoreBuckets)),
		ValueDistribution:  make([]BucketCount, len(ValueBuckets)),
		Summary: Summary{
			TotalLeads:    a.total,
			TotalValue:    a.value,
			TodayLeads:    a.today,
			ThisWeekLeads: a.week,
		},
	}
	if a.total > 0 {
		r.Summary.AvgScore = round1(float64(a.scoreSum) / float64(a.total))
		r.Summary.ConversionRate = round1(100 * float64(a.qualified) / float64(a.total))
	}
	for i, b := range ScoreBuckets {
		r.ScoreDistribution[i] = BucketCount{Range: b.Label, Count: a.scores[i]}
	}
	for i, b := range ValueBuckets {
		r.ValueDistribution[i] = BucketCount{Range: b.Label, Count: a.values[i]}
	}
	return r
}

// Aggregate runs a whole snapshot through a fresh Aggregator.
func Aggregate(leads []entity.Lead, w Window, now time.Time) *AnalyticsReport {
	agg := NewAggregator(w, now)
	for i := range leads {
		agg.Add(&leads[i])
	}
	return agg.Report()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
