package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	designationdomain "github.com/leavesync/leavesync/internal/designation/domain"
	"github.com/leavesync/leavesync/internal/notification"
	"github.com/leavesync/leavesync/internal/observability/metrics"
	"github.com/leavesync/leavesync/internal/principal/domain"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
	tenantservice "github.com/leavesync/leavesync/internal/tenant/service"
	"github.com/leavesync/leavesync/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         domain.Repository
	tenants      tenantdomain.Repository
	designations designationdomain.Repository
	audit        auditdomain.Service
	notifier     notification.Notifier
	metrics      *metrics.Metrics
	genID        *snowflake.Node
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	tenants tenantdomain.Repository,
	designations designationdomain.Repository,
	audit auditdomain.Service,
	notifier notification.Notifier,
	m *metrics.Metrics,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:           conn,
		log:          log.Named("principal.service"),
		repo:         repo,
		tenants:      tenants,
		designations: designations,
		audit:        audit,
		notifier:     notifier,
		metrics:      m,
		genID:        genID,
	}
}

func (s *service) Register(ctx context.Context, tenant *tenantdomain.Tenant, email, name string) (*domain.Principal, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	dom, err := tenantservice.DomainOf(email)
	if err != nil {
		return nil, err
	}
	if dom != tenant.Domain {
		return nil, domain.ErrDomainMismatch
	}
	if name == "" {
		name = email[:strings.LastIndex(email, "@")]
	}

	var created *domain.Principal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return domain.ErrAlreadyRegistered
		} else if !errors.Is(err, domain.ErrPrincipalNotFound) {
			return err
		}

		role, err := s.initialRole(ctx, tx, tenant, email)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		p := domain.Principal{
			ID:        s.genID.Generate(),
			TenantID:  tenant.ID,
			Email:     email,
			Name:      name,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, p); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyRegistered
			}
			return err
		}
		created = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("principal registered",
		zap.String("principal_id", created.ID.String()),
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("role", created.Role.String()),
	)
	return created, nil
}

// initialRole decides the role for a new principal inside the registration
// transaction. The bootstrap claim and the designation consumption are both
// conditional updates, so concurrent registrations settle deterministically.
func (s *service) initialRole(ctx context.Context, tx *gorm.DB, tenant *tenantdomain.Tenant, email string) (domain.Role, error) {
	claimed, err := s.tenants.WithTx(tx).ClaimBootstrap(ctx, tenant.ID)
	if err != nil {
		return "", err
	}
	if claimed {
		return domain.RoleHR, nil
	}

	designations := s.designations.WithTx(tx)
	d, err := designations.GetActive(ctx, tenant.ID, email)
	if err != nil {
		if errors.Is(err, designationdomain.ErrDesignationNotFound) {
			return domain.RoleEmployee, nil
		}
		return "", err
	}
	consumed, err := designations.Deactivate(ctx, d.ID)
	if err != nil {
		return "", err
	}
	if !consumed {
		// Another registration consumed it between the read and the update.
		return domain.RoleEmployee, nil
	}
	return d.Role, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Principal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func (s *service) ListByTenant(ctx context.Context, tenantID snowflake.ID) ([]domain.Principal, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

func (s *service) ChangeRole(ctx context.Context, actorID, targetID snowflake.ID, newRole domain.Role) (*domain.Principal, error) {
	if !newRole.Valid() {
		return nil, domain.ErrInvalidRole
	}

	var (
		target  *domain.Principal
		oldRole domain.Role
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		actor, err := repo.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		t, err := repo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}

		if !actor.Role.CanAdministerRoles() {
			return domain.ErrForbidden
		}
		if actor.TenantID != t.TenantID {
			return domain.ErrCrossTenant
		}
		// Stepping down to employee is the only permitted self-change.
		if actor.ID == t.ID && newRole != domain.RoleEmployee {
			return domain.ErrSelfEscalation
		}

		oldRole = t.Role
		if err := repo.UpdateRole(ctx, t.ID, newRole); err != nil {
			return err
		}
		t.Role = newRole
		target = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		TenantID:   target.TenantID,
		ActorID:    actorID,
		Action:     auditdomain.ActionRoleChanged,
		Resource:   "principal",
		ResourceID: target.ID.String(),
		Metadata: datatypes.JSONMap{
			"old_role": oldRole.String(),
			"new_role": newRole.String(),
		},
	})
	s.notifier.Notify(ctx, notification.Message{
		Event:         notification.EventRoleChanged,
		Recipient:     target.Email,
		RecipientName: target.Name,
		OldRole:       oldRole.String(),
		NewRole:       newRole.String(),
	})
	s.metrics.RecordRoleChange(ctx, newRole.String())

	return target, nil
}
