package finance_test

import (
	"context"
	"testing"

	"github.com/aceweb/agencyops/internal/domain/actor"
	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/validation"
	"github.com/aceweb/agencyops/internal/repository"
	"github.com/aceweb/agencyops/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFinanceService_CreateValidation(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.TransactionRepository{}
	svc := finance.NewService(repo, nil, nil)

	_, err := svc.Create(ctx, finance.CreateRequest{Description: "Site", Amount: decimal.Zero, Type: finance.TypeIncome})
	require.ErrorIs(t, err, validation.ErrValidation)

	_, err = svc.Create(ctx, finance.CreateRequest{Description: "Site", Amount: decimal.NewFromInt(-5), Type: finance.TypeIncome})
	require.ErrorIs(t, err, validation.ErrValidation)

	_, err = svc.Create(ctx, finance.CreateRequest{Description: "", Amount: decimal.NewFromInt(5), Type: finance.TypeIncome})
	require.ErrorIs(t, err, validation.ErrValidation)

	_, err = svc.Create(ctx, finance.CreateRequest{Description: "Site", Amount: decimal.NewFromInt(5), Type: "refund"})
	require.ErrorIs(t, err, validation.ErrValidation)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFinanceService_CreateLinksProject(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.TransactionRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(tx *finance.Transaction) bool {
		return tx.ProjectID != nil && *tx.ProjectID == "p1" && !tx.Date.IsZero() && tx.Status == ""
	})).Return(nil)

	svc := finance.NewService(repo, nil, nil)
	tx, err := svc.Create(ctx, finance.CreateRequest{
		Description: "Entrada",
		Amount:      decimal.NewFromInt(1000),
		Type:        finance.TypeIncome,
		ProjectID:   "p1",
	})
	require.NoError(t, err)
	require.True(t, finance.IsPaid(*tx))
	repo.AssertExpectations(t)
}

func TestFinanceService_CreateUnknownProject(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.TransactionRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrForeignKeyViolation)

	svc := finance.NewService(repo, nil, nil)
	_, err := svc.Create(ctx, finance.CreateRequest{
		Description: "Entrada",
		Amount:      decimal.NewFromInt(1000),
		Type:        finance.TypeIncome,
		ProjectID:   "ghost",
	})
	require.ErrorIs(t, err, finance.ErrProjectNotFound)
}

func TestFinanceService_MarkPaid(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.TransactionRepository{}
	repo.On("Get", ctx, "t1").Return(&finance.Transaction{ID: "t1", Status: finance.StatusPending}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(tx *finance.Transaction) bool {
		return tx.Status == finance.StatusPaid
	})).Return(nil)

	svc := finance.NewService(repo, nil, nil)
	tx, err := svc.MarkPaid(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, finance.StatusPaid, tx.Status)
	repo.AssertExpectations(t)
}

func TestFinanceService_MarkPaidAlreadyPaid(t *testing.T) {
	ctx := actor.WithActor(context.Background(), "ana")
	repo := &mocks.TransactionRepository{}
	repo.On("Get", ctx, "t1").Return(&finance.Transaction{ID: "t1", Status: finance.StatusPaid}, nil)

	svc := finance.NewService(repo, nil, nil)
	_, err := svc.MarkPaid(ctx, "t1")
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
