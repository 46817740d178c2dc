package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

func validCreateInput() usecase.CreateLeadInput {
	score := 80
	return usecase.CreateLeadInput{
		FirstName: "  Grace ",
		LastName:  "Hopper",
		Email:     " Grace.Hopper@Navy.MIL ",
		Source:    "referral",
		Score:     &score,
	}
}

func TestCreateLead_Success(t *testing.T) {
	repo := new(MockLeadRepository)
	pub := new(MockPublisher)
	uc := usecase.NewCreateLeadUseCase(repo, pub, zap.NewNop(), clock)

	repo.On("ExistsByEmail", mock.Anything, "grace.hopper@navy.mil", "").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)
	pub.On("PublishLeadEvent", mock.Anything, mock.MatchedBy(func(e queue.LeadEvent) bool {
		return e.Type == queue.EventLeadCreated && e.Email == "grace.hopper@navy.mil" && e.FullName == "Grace Hopper"
	})).Return(nil)

	lead, err := uc.Execute(context.Background(), validCreateInput())

	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "Grace", lead.FirstName)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, entity.SourceReferral, lead.Source)
	assert.Equal(t, 80, lead.Score)
	assert.Equal(t, fixedNow, lead.CreatedAt)
	assert.Equal(t, lead.CreatedAt, lead.UpdatedAt)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateLead_DuplicateEmail(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewCreateLeadUseCase(repo, nil, zap.NewNop(), clock)

	repo.On("ExistsByEmail", mock.Anything, "grace.hopper@navy.mil", "").Return(true, nil)

	_, err := uc.Execute(context.Background(), validCreateInput())

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, usecase.CodeEmailConflict, de.Code)
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLead_LostRaceMapsToConflict(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewCreateLeadUseCase(repo, nil, zap.NewNop(), clock)

	repo.On("ExistsByEmail", mock.Anything, mock.Anything, "").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(entity.ErrEmailAlreadyExists)

	_, err := uc.Execute(context.Background(), validCreateInput())
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeEmailConflict, de.Code)
}

func TestCreateLead_ReportsEveryInvalidField(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewCreateLeadUseCase(repo, nil, zap.NewNop(), clock)
	score := 101
	value := -1.0

	_, err := uc.Execute(context.Background(), usecase.CreateLeadInput{
		FirstName:  "A",
		Email:      "not-an-email",
		Source:     "tv",
		Status:     "archived",
		Score:      &score,
		LeadValue:  &value,
		AssignedTo: "nobody",
	})

	var verrs usecase.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	for _, field := range []string{"first_name", "last_name", "email", "source", "status", "score", "lead_value", "assigned_to"} {
		assert.True(t, verrs.Has(field), field)
	}
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateLead_PublishFailureDoesNotFailRequest(t *testing.T) {
	repo := new(MockLeadRepository)
	pub := new(MockPublisher)
	uc := usecase.NewCreateLeadUseCase(repo, pub, zap.NewNop(), clock)

	repo.On("ExistsByEmail", mock.Anything, mock.Anything, "").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishLeadEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	lead, err := uc.Execute(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.NotNil(t, lead)
}

func TestCreateLead_StoreFailureIsTechnical(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewCreateLeadUseCase(repo, nil, zap.NewNop(), clock)

	repo.On("ExistsByEmail", mock.Anything, mock.Anything, "").Return(false, errors.New("timeout"))

	_, err := uc.Execute(context.Background(), validCreateInput())
	_, ok := usecase.AsTechnicalError(err)
	assert.True(t, ok)
	_, ok = usecase.AsDomainError(err)
	assert.False(t, ok)
}
