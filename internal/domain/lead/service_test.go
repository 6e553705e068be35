package lead_test

import (
	"context"
	"testing"

	"github.com/aceweb/agencyops/internal/domain/actor"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/validation"
	"github.com/aceweb/agencyops/internal/repository"
	"github.com/aceweb/agencyops/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeadService_CreateDefaultsToNew(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.LeadRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(l *lead.Lead) bool {
		return l.Status == lead.StatusNew && l.Source == "Instagram"
	})).Return(nil)

	svc := lead.NewService(repo, nil, nil)
	created, err := svc.Create(ctx, lead.CreateRequest{Name: "Bia", Source: "Instagram"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	repo.AssertExpectations(t)
}

func TestLeadService_CreateRejectsBlankName(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.LeadRepository{}

	svc := lead.NewService(repo, nil, nil)
	_, err := svc.Create(ctx, lead.CreateRequest{Name: "  "})
	require.ErrorIs(t, err, validation.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadService_ChangeStatus(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.LeadRepository{}
	repo.On("Get", ctx, "l1").Return(&lead.Lead{ID: "l1", Name: "Bia", Status: lead.StatusNew}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(l *lead.Lead) bool {
		return l.Status == lead.StatusQualified
	})).Return(nil)

	svc := lead.NewService(repo, nil, nil)
	got, err := svc.ChangeStatus(ctx, "l1", "qualified")
	require.NoError(t, err)
	require.Equal(t, lead.StatusQualified, got.Status)
	repo.AssertExpectations(t)
}

func TestLeadService_ChangeStatusUnknownValue(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.LeadRepository{}

	svc := lead.NewService(repo, nil, nil)
	_, err := svc.ChangeStatus(ctx, "l1", "closed")
	require.ErrorIs(t, err, validation.ErrValidation)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestLeadService_DeleteNotFound(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.LeadRepository{}
	repo.On("Delete", ctx, "missing").Return(repository.ErrNotFound)

	svc := lead.NewService(repo, nil, nil)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), lead.ErrLeadNotFound)
}

func TestLeadService_ListAppliesFilter(t *testing.T) {
	repo := &mocks.LeadRepository{}
	repo.On("List", mock.Anything, lead.ListOptions{}).Return([]lead.Lead{
		{ID: "1", Name: "Ana"},
		{ID: "2", Name: "Bruno"},
	}, nil)

	svc := lead.NewService(repo, nil, nil)
	got, err := svc.List(context.Background(), lead.Filter{Query: "bru"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "2", got[0].ID)
}
