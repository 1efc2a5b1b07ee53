package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/balance/domain"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	"github.com/leavesync/leavesync/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	principals principaldomain.Repository
	genID      *snowflake.Node
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	principals principaldomain.Repository,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:         conn,
		log:        log.Named("balance.service"),
		repo:       repo,
		principals: principals,
		genID:      genID,
	}
}

func (s *service) Initialize(ctx context.Context, principalID, tenantID snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Tenant policies win over leave type defaults.
		allocations := map[snowflake.ID]int{}
		policies, err := repo.ListPolicies(ctx, tenantID)
		if err != nil {
			return err
		}
		for _, p := range policies {
			allocations[p.LeaveTypeID] = p.Days
		}
		if len(allocations) == 0 {
			types, err := repo.ListTypes(ctx)
			if err != nil {
				return err
			}
			for _, t := range types {
				allocations[t.ID] = t.DefaultDays
			}
		}

		now := time.Now().UTC()
		for typeID, days := range allocations {
			if _, err := repo.GetBalance(ctx, principalID, typeID); err == nil {
				continue
			} else if !errors.Is(err, domain.ErrBalanceNotFound) {
				return err
			}
			b := domain.LeaveBalance{
				ID:          s.genID.Generate(),
				PrincipalID: principalID,
				LeaveTypeID: typeID,
				Allocated:   days,
				Used:        0,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := repo.CreateBalance(ctx, b); err != nil {
				if db.IsDuplicateKeyErr(err) {
					continue
				}
				return err
			}
		}
		return nil
	})
}

func (s *service) Debit(ctx context.Context, principalID snowflake.ID, leaveType string, days int) error {
	t, err := s.repo.GetTypeByName(ctx, leaveType)
	if err != nil {
		return err
	}
	ok, err := s.repo.Debit(ctx, principalID, t.ID, days)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.repo.GetBalance(ctx, principalID, t.ID); err != nil {
			// A type the principal holds no balance for is unknown to them.
			if errors.Is(err, domain.ErrBalanceNotFound) {
				return domain.ErrUnknownLeaveType
			}
			return err
		}
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (s *service) Credit(ctx context.Context, principalID snowflake.ID, leaveType string, days int) error {
	t, err := s.repo.GetTypeByName(ctx, leaveType)
	if err != nil {
		return err
	}
	return s.repo.Credit(ctx, principalID, t.ID, days)
}

func (s *service) ListForPrincipal(ctx context.Context, principalID snowflake.ID) ([]domain.BalanceView, error) {
	return s.repo.ListBalances(ctx, principalID)
}

func (s *service) ListTypes(ctx context.Context) ([]domain.LeaveType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *service) SetPolicy(ctx context.Context, actorID snowflake.ID, leaveType string, days int) (*domain.TenantLeavePolicy, error) {
	actor, err := s.principals.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAdministerRoles() {
		return nil, principaldomain.ErrForbidden
	}

	t, err := s.repo.GetTypeByName(ctx, leaveType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.UpsertPolicy(ctx, domain.TenantLeavePolicy{
		ID:          s.genID.Generate(),
		TenantID:    actor.TenantID,
		LeaveTypeID: t.ID,
		Days:        days,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
