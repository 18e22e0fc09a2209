//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/repository"
)

type AssignmentRepositorySuite struct {
	suite.Suite
	pool    *pgxpool.Pool
	repo    *repository.AssignmentRepo
	courier int64
	order   int64
}

func (s *AssignmentRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewAssignmentRepo(tcPool)
}

func (s *AssignmentRepositorySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(truncateAll(ctx, s.pool))

	var err error
	s.courier, err = seedCourier(ctx, s.pool, "Artem", "560001", true, true)
	s.Require().NoError(err)
	s.order, err = seedOrder(ctx, s.pool, "560001", "ASSIGNED", 600, time.Now())
	s.Require().NoError(err)
}

func (s *AssignmentRepositorySuite) TestCreateSaveAndLatest() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := &domain.Assignment{OrderID: s.order, CourierID: s.courier, Status: domain.AssignmentAssigned, AssignedAt: now}
	s.Require().NoError(s.repo.Create(ctx, first))
	s.NotZero(first.ID)

	first.Status = domain.AssignmentRejected
	first.RejectedAt = &now
	first.RejectionReason = "too far"
	s.Require().NoError(s.repo.Save(ctx, first))

	second := &domain.Assignment{OrderID: s.order, CourierID: s.courier, Status: domain.AssignmentAssigned, AssignedAt: now}
	s.Require().NoError(s.repo.Create(ctx, second))

	latest, err := s.repo.LatestForOrder(ctx, s.order)
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Equal(second.ID, latest.ID)

	history, err := s.repo.ListForOrder(ctx, s.order)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(domain.AssignmentRejected, history[0].Status)
	s.Equal("too far", history[0].RejectionReason)
	s.Require().NotNil(history[0].RejectedAt)
	s.True(now.Equal(*history[0].RejectedAt))

	rejected := domain.AssignmentRejected
	byStatus, err := s.repo.ListForCourier(ctx, s.courier, &rejected)
	s.Require().NoError(err)
	s.Len(byStatus, 1)

	all, err := s.repo.ListForCourier(ctx, s.courier, nil)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *AssignmentRepositorySuite) TestLatestForOrder_None() {
	got, err := s.repo.LatestForOrder(context.Background(), s.order)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *AssignmentRepositorySuite) TestCreate_UnknownOrder() {
	err := s.repo.Create(context.Background(), &domain.Assignment{
		OrderID: 999, CourierID: s.courier, Status: domain.AssignmentAssigned, AssignedAt: time.Now(),
	})
	s.ErrorIs(err, apperr.ErrNotFound)
}

func (s *AssignmentRepositorySuite) TestSave_Unknown() {
	err := s.repo.Save(context.Background(), &domain.Assignment{ID: 999, Status: domain.AssignmentAccepted})
	s.ErrorIs(err, apperr.ErrNotFound)
}

func TestAssignmentRepositorySuite(t *testing.T) {
	suite.Run(t, new(AssignmentRepositorySuite))
}
