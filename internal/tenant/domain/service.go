package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Resolve finds or creates the tenant for the given email's domain.
	// Concurrent calls for the same unseen domain yield a single tenant.
	Resolve(ctx context.Context, email string) (*Tenant, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*Tenant, error)
	IsVerified(ctx context.Context, id snowflake.ID) (bool, error)
	MarkVerified(ctx context.Context, id snowflake.ID) error

	// ClaimBootstrap flips the one-time first-principal flag. Exactly one
	// concurrent caller observes true.
	ClaimBootstrap(ctx context.Context, id snowflake.ID) (bool, error)
}

var (
	ErrInvalidDomain  = errors.New("invalid_domain")
	ErrTenantNotFound = errors.New("tenant_not_found")
)
