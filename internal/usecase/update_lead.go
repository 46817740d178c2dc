package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

type UpdateLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Publisher LeadEventPublisher
	Logger    *zap.Logger
	Now       Clock
}

func NewUpdateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	publisher LeadEventPublisher,
	logger *zap.Logger,
	now Clock,
) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Repo: repo, Publisher: publisher, Logger: logger, Now: now}
}

func (uc *UpdateLeadUseCase) Execute(ctx context.Context, rawID string, input UpdateLeadInput) (*entity.Lead, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	input.normalize()
	if errs := ValidateUpdateLeadInput(input); len(errs) > 0 {
		return nil, errs
	}

	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "find lead")
	}

	if input.Email != nil && *input.Email != lead.Email {
		exists, err := uc.Repo.ExistsByEmail(ctx, *input.Email, lead.ID)
		if err != nil {
			return nil, mapRepoError(err, "email lookup")
		}
		if exists {
			return nil, conflictError()
		}
	}

	applyUpdate(lead, input)
	now := stamp(uc.Now)
	lead.UpdatedAt = now

	if err := uc.Repo.Update(ctx, lead); err != nil {
		return nil, mapRepoError(err, "update lead")
	}

	publishEvent(ctx, uc.Publisher, uc.Logger, queue.EventLeadUpdated, lead, now)
	return lead, nil
}

// applyUpdate copies every supplied field onto lead. Input is already
// validated, so the enum parses cannot fail.
func applyUpdate(lead *entity.Lead, in UpdateLeadInput) {
	setString(&lead.FirstName, in.FirstName)
	setString(&lead.LastName, in.LastName)
	setString(&lead.Email, in.Email)
	setString(&lead.Phone, in.Phone)
	setString(&lead.Company, in.Company)
	setString(&lead.City, in.City)
	setString(&lead.State, in.State)
	setString(&lead.Notes, in.Notes)

	if in.Source != nil {
		lead.Source, _ = entity.ParseSource(*in.Source)
	}
	if in.Status != nil {
		lead.Status, _ = entity.ParseStatus(*in.Status)
	}
	if in.Score != nil {
		lead.Score = *in.Score
	}
	if in.LeadValue != nil {
		lead.LeadValue = *in.LeadValue
	}
	if in.IsQualified != nil {
		lead.IsQualified = *in.IsQualified
	}
	if in.LastActivityAt.Set {
		if v := in.LastActivityAt.Value; v != nil {
			t := v.UTC().Truncate(time.Microsecond)
			lead.LastActivityAt = &t
		} else {
			lead.LastActivityAt = nil
		}
	}
	if in.AssignedTo.Set {
		if v := in.AssignedTo.Value; v != nil && *v != "" {
			id := canonicalUUID(*v)
			lead.AssignedTo = &id
		} else {
			lead.AssignedTo = nil
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
