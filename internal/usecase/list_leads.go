package usecase

import (
	"context"

	"github.com/xavierca1/lead-manager/internal/entity"
)

type ListLeadsUseCase struct {
	Repo LeadReader
}

func NewListLeadsUseCase(repo LeadReader) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute returns one page of the filtered, sorted set plus the
// pre-pagination total. Pages past the end come back empty.
func (uc *ListLeadsUseCase) Execute(ctx context.Context, q entity.LeadQuery) (*ListLeadsOutput, error) {
	leads, err := uc.Repo.Find(ctx, q)
	if err != nil {
		return nil, mapRepoError(err, "find leads")
	}
	total, err := uc.Repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, mapRepoError(err, "count leads")
	}
	if leads == nil {
		leads = []entity.Lead{}
	}

	return &ListLeadsOutput{
		Data:       leads,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: entity.TotalPages(total, q.Limit),
	}, nil
}
