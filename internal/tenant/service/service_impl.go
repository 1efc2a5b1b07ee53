package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/leavesync/leavesync/internal/tenant/domain"
	"github.com/leavesync/leavesync/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(conn *gorm.DB, log *zap.Logger, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		db:    conn,
		log:   log.Named("tenant.service"),
		repo:  repo,
		genID: genID,
	}
}

func (s *service) Resolve(ctx context.Context, email string) (*domain.Tenant, error) {
	dom, err := DomainOf(email)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByDomain(ctx, dom)
	if err == nil {
		return existing, nil
	}
	if err != domain.ErrTenantNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        s.genID.Generate(),
		Name:      nameFromDomain(dom),
		Domain:    dom,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, tenant); err != nil {
		// Lost the insert race: another registration created the tenant
		// first. The unique constraint on domain serializes creation.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.GetByDomain(ctx, dom)
		}
		return nil, err
	}

	s.log.Info("tenant created", zap.String("domain", dom), zap.String("tenant_id", tenant.ID.String()))
	return &tenant, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByDomain(ctx context.Context, dom string) (*domain.Tenant, error) {
	normalized, err := normalizeDomain(dom)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByDomain(ctx, normalized)
}

func (s *service) IsVerified(ctx context.Context, id snowflake.ID) (bool, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return tenant.IsVerified, nil
}

func (s *service) MarkVerified(ctx context.Context, id snowflake.ID) error {
	return s.repo.SetVerified(ctx, id)
}

func (s *service) ClaimBootstrap(ctx context.Context, id snowflake.ID) (bool, error) {
	return s.repo.ClaimBootstrap(ctx, id)
}

// DomainOf extracts and normalizes the domain part of an email address.
func DomainOf(email string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	at := strings.LastIndex(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return "", domain.ErrInvalidDomain
	}
	return normalizeDomain(trimmed[at+1:])
}

func normalizeDomain(dom string) (string, error) {
	normalized := strings.TrimSpace(strings.ToLower(dom))
	if normalized == "" || strings.Contains(normalized, "@") || !strings.Contains(normalized, ".") {
		return "", domain.ErrInvalidDomain
	}
	return normalized, nil
}

func nameFromDomain(dom string) string {
	label := dom
	if idx := strings.Index(dom, "."); idx > 0 {
		label = dom[:idx]
	}
	return slug.Make(label)
}
