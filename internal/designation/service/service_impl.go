package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	"github.com/leavesync/leavesync/internal/designation/domain"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
	tenantservice "github.com/leavesync/leavesync/internal/tenant/service"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	principals principaldomain.Repository
	tenants    tenantdomain.Repository
	audit      auditdomain.Service
	genID      *snowflake.Node
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	principals principaldomain.Repository,
	tenants tenantdomain.Repository,
	audit auditdomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:         conn,
		log:        log.Named("designation.service"),
		repo:       repo,
		principals: principals,
		tenants:    tenants,
		audit:      audit,
		genID:      genID,
	}
}

func (s *service) Add(ctx context.Context, actorID snowflake.ID, email string, role principaldomain.Role) (*domain.RoleDesignation, error) {
	if !role.Valid() {
		return nil, principaldomain.ErrInvalidRole
	}
	email = strings.TrimSpace(strings.ToLower(email))

	var (
		created    *domain.RoleDesignation
		superseded *domain.RoleDesignation
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		actor, err := s.principals.WithTx(tx).GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.Role.CanAdministerRoles() {
			return principaldomain.ErrForbidden
		}

		tenant, err := s.tenants.WithTx(tx).GetByID(ctx, actor.TenantID)
		if err != nil {
			return err
		}
		dom, err := tenantservice.DomainOf(email)
		if err != nil || dom != tenant.Domain {
			return principaldomain.ErrDomainMismatch
		}

		if email == actor.Email {
			return domain.ErrSelfDesignation
		}

		if _, err := s.principals.WithTx(tx).GetByEmail(ctx, email); err == nil {
			return principaldomain.ErrAlreadyRegistered
		} else if !errors.Is(err, principaldomain.ErrPrincipalNotFound) {
			return err
		}

		// At most one active designation per email: deactivate any existing
		// one before inserting the replacement.
		existing, err := repo.GetActive(ctx, tenant.ID, email)
		if err == nil {
			if _, err := repo.Deactivate(ctx, existing.ID); err != nil {
				return err
			}
			superseded = existing
		} else if !errors.Is(err, domain.ErrDesignationNotFound) {
			return err
		}

		now := time.Now().UTC()
		d := domain.RoleDesignation{
			ID:           s.genID.Generate(),
			TenantID:     tenant.ID,
			Email:        email,
			Role:         role,
			DesignatedBy: actor.ID,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.Create(ctx, d); err != nil {
			return err
		}
		created = &d
		return nil
	})
	if err != nil {
		return nil, err
	}

	meta := datatypes.JSONMap{
		"email": created.Email,
		"role":  created.Role.String(),
	}
	if superseded != nil {
		meta["superseded_id"] = superseded.ID.String()
	}
	s.audit.Record(ctx, auditdomain.Entry{
		TenantID:   created.TenantID,
		ActorID:    actorID,
		Action:     auditdomain.ActionDesignationAdded,
		Resource:   "designation",
		ResourceID: created.ID.String(),
		Metadata:   meta,
	})

	s.log.Info("designation added",
		zap.String("tenant_id", created.TenantID.String()),
		zap.String("email", created.Email),
		zap.String("role", created.Role.String()),
	)
	return created, nil
}

func (s *service) Consume(ctx context.Context, tenantID snowflake.ID, email string) (*domain.RoleDesignation, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var consumed *domain.RoleDesignation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		d, err := repo.GetActive(ctx, tenantID, email)
		if err != nil {
			return err
		}
		ok, err := repo.Deactivate(ctx, d.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrDesignationNotFound
		}
		d.IsActive = false
		consumed = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumed, nil
}

func (s *service) List(ctx context.Context, tenantID snowflake.ID) ([]domain.RoleDesignation, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}
