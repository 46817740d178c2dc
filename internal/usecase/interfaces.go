package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface

// LeadReader is the read side used by listing, analytics and export.
type LeadReader interface {
	Find(ctx context.Context, q entity.LeadQuery) ([]entity.Lead, error)
	Count(ctx context.Context, f entity.LeadFilter) (int, error)
	Each(ctx context.Context, f entity.LeadFilter, s entity.LeadSort, fn func(*entity.Lead) error) error
}

type LeadEventPublisher interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

type Clock func() time.Time
