package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
)

type GetAnalyticsUseCase struct {
	Repo     LeadReader
	Now      Clock
	Location *time.Location
}

func NewGetAnalyticsUseCase(repo LeadReader, now Clock, loc *time.Location) *GetAnalyticsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &GetAnalyticsUseCase{Repo: repo, Now: now, Location: loc}
}

// Execute streams the windowed leads from the store, oldest first, so
// the monthly series comes out in calendar order.
func (uc *GetAnalyticsUseCase) Execute(ctx context.Context, w Window) (*AnalyticsReport, error) {
	now := uc.Now().In(uc.Location)
	agg := NewAggregator(w, now)

	filter := entity.LeadFilter{CreatedAt: w.Range(now)}
	order := entity.LeadSort{Field: entity.SortByCreatedAt, Order: entity.SortAsc}

	err := uc.Repo.Each(ctx, filter, order, func(l *entity.Lead) error {
		agg.Add(l)
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "aggregate leads")
	}
	return agg.Report(), nil
}
