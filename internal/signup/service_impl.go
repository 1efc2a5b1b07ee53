package signup

import (
	"context"
	"strings"

	auditdomain "github.com/leavesync/leavesync/internal/audit/domain"
	"github.com/leavesync/leavesync/internal/notification"
	"github.com/leavesync/leavesync/internal/observability/metrics"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	"github.com/leavesync/leavesync/internal/signup/domain"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	log         *zap.Logger
	tenants     tenantdomain.Service
	principals  principaldomain.Service
	provisioner domain.Provisioner
	audit       auditdomain.Service
	notifier    notification.Notifier
	metrics     *metrics.Metrics
}

func NewService(
	log *zap.Logger,
	tenants tenantdomain.Service,
	principals principaldomain.Service,
	provisioner domain.Provisioner,
	audit auditdomain.Service,
	notifier notification.Notifier,
	m *metrics.Metrics,
) domain.Service {
	return &service{
		log:         log.Named("signup.service"),
		tenants:     tenants,
		principals:  principals,
		provisioner: provisioner,
		audit:       audit,
		notifier:    notifier,
		metrics:     m,
	}
}

func (s *service) Signup(ctx context.Context, req domain.Request) (*domain.Result, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, domain.ErrInvalidRequest
	}

	tenant, err := s.tenants.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	principal, err := s.principals.Register(ctx, tenant, email, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}

	// Delegate balance provisioning to a dedicated service.
	if err := s.provisioner.Provision(ctx, principal); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		TenantID:   tenant.ID,
		ActorID:    principal.ID,
		Action:     auditdomain.ActionSignup,
		Resource:   "principal",
		ResourceID: principal.ID.String(),
		Metadata: datatypes.JSONMap{
			"role": principal.Role.String(),
		},
	})
	s.notifier.Notify(ctx, notification.Message{
		Event:         notification.EventWelcome,
		Recipient:     principal.Email,
		RecipientName: principal.Name,
	})
	s.metrics.RecordSignup(ctx, principal.Role.String())

	s.log.Info("signup completed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("principal_id", principal.ID.String()),
		zap.String("role", principal.Role.String()),
	)
	return &domain.Result{Tenant: tenant, Principal: principal}, nil
}
