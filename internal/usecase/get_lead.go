package usecase

import (
	"context"

	"github.com/xavierca1/lead-manager/internal/entity"
)

type GetLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewGetLeadUseCase(repo entity.LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, rawID string) (*entity.Lead, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "find lead")
	}
	return lead, nil
}
