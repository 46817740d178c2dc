package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

type DeleteLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Publisher LeadEventPublisher
	Logger    *zap.Logger
	Now       Clock
}

func NewDeleteLeadUseCase(
	repo entity.LeadRepositoryInterface,
	publisher LeadEventPublisher,
	logger *zap.Logger,
	now Clock,
) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{Repo: repo, Publisher: publisher, Logger: logger, Now: now}
}

func (uc *DeleteLeadUseCase) Execute(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "find lead")
	}
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "delete lead")
	}

	publishEvent(ctx, uc.Publisher, uc.Logger, queue.EventLeadDeleted, lead, stamp(uc.Now))
	return nil
}
