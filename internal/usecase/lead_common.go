package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
)

// stamp returns the persisted form of "now": UTC at microsecond precision,
// which is what Postgres keeps.
func stamp(now Clock) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}

// canonicalUUID lower-cases a user id that has already passed validation.
func canonicalUUID(s string) string {
	return uuid.MustParse(s).String()
}

func parseID(id string) (string, error) {
	parsed, err := entity.ParseLeadID(id)
	if err != nil {
		return "", &DomainError{Code: CodeInvalidID, Message: "Invalid lead ID", Err: entity.ErrInvalidLeadID}
	}
	return parsed, nil
}

// mapRepoError converts store sentinels into domain errors and everything
// else into a technical error.
func mapRepoError(err error, op string) error {
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		return &DomainError{Code: CodeNotFound, Message: "Lead not found", Err: entity.ErrLeadNotFound}
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return conflictError()
	default:
		return &TechnicalError{Code: CodeDatabase, Message: op + " failed", Err: err}
	}
}

func conflictError() error {
	return &DomainError{Code: CodeEmailConflict, Message: "Lead with this email already exists", Err: entity.ErrEmailAlreadyExists}
}

// publishEvent never fails the caller: the mutation is already committed.
func publishEvent(ctx context.Context, pub LeadEventPublisher, logger *zap.Logger, t queue.EventType, lead *entity.Lead, at time.Time) {
	if pub == nil {
		return
	}
	if err := pub.PublishLeadEvent(ctx, queue.NewLeadEvent(t, lead, at)); err != nil {
		logger.Warn("lead persisted but event publish failed",
			zap.String("event", string(t)),
			zap.String("lead_id", lead.ID),
			zap.Error(err))
	}
}
