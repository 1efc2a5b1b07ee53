package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/audit/domain"
	"github.com/leavesync/leavesync/internal/auditcontext"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
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
		log:        log.Named("audit.service"),
		repo:       repo,
		principals: principals,
		genID:      genID,
	}
}

func (s *service) Record(ctx context.Context, entry domain.Entry) {
	entry.ID = s.genID.Generate()
	entry.CreatedAt = time.Now().UTC()
	entry.RequestID = auditcontext.RequestIDFromContext(ctx)
	entry.IPAddress = auditcontext.IPAddressFromContext(ctx)
	entry.UserAgent = auditcontext.UserAgentFromContext(ctx)

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Error("audit entry dropped",
			zap.String("action", entry.Action),
			zap.String("tenant_id", entry.TenantID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) List(ctx context.Context, actorID snowflake.ID, q domain.ListQuery) ([]domain.Entry, error) {
	actor, err := s.principals.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAdministerRoles() {
		return nil, principaldomain.ErrForbidden
	}
	return s.repo.ListByTenant(ctx, actor.TenantID, q)
}
