package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Publisher LeadEventPublisher
	Logger    *zap.Logger
	Now       Clock
}

func NewCreateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	publisher LeadEventPublisher,
	logger *zap.Logger,
	now Clock,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Logger:    logger,
		Now:       now,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	input.normalize()
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, errs
	}

	exists, err := uc.Repo.ExistsByEmail(ctx, input.Email, "")
	if err != nil {
		return nil, mapRepoError(err, "email lookup")
	}
	if exists {
		return nil, conflictError()
	}

	now := stamp(uc.Now)
	source, _ := entity.ParseSource(input.Source)
	lead := entity.NewLead(input.FirstName, input.LastName, input.Email, source, now)
	lead.Phone = input.Phone
	lead.Company = input.Company
	lead.City = input.City
	lead.State = input.State
	lead.Notes = input.Notes

	if input.Status != "" {
		lead.Status, _ = entity.ParseStatus(input.Status)
	}
	if input.Score != nil {
		lead.Score = *input.Score
	}
	if input.LeadValue != nil {
		lead.LeadValue = *input.LeadValue
	}
	if input.IsQualified != nil {
		lead.IsQualified = *input.IsQualified
	}
	if input.LastActivityAt != nil {
		t := input.LastActivityAt.UTC().Truncate(time.Microsecond)
		lead.LastActivityAt = &t
	}
	if input.AssignedTo != "" {
		id := canonicalUUID(input.AssignedTo)
		lead.AssignedTo = &id
	}

	// The store's unique constraint settles races the lookup above missed.
	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, mapRepoError(err, "create lead")
	}

	publishEvent(ctx, uc.Publisher, uc.Logger, queue.EventLeadCreated, lead, now)
	return lead, nil
}
