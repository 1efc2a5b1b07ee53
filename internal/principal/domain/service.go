package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
)

type Service interface {
	// Register creates a principal inside tenant, deciding the initial role:
	// the tenant's bootstrap winner becomes HR, an active designation is
	// consumed, everyone else starts as Employee.
	Register(ctx context.Context, tenant *tenantdomain.Tenant, email, name string) (*Principal, error)

	GetByID(ctx context.Context, id snowflake.ID) (*Principal, error)
	GetByEmail(ctx context.Context, email string) (*Principal, error)
	ListByTenant(ctx context.Context, tenantID snowflake.ID) ([]Principal, error)

	// ChangeRole moves target to newRole on behalf of actor. Guards are
	// evaluated in order: Forbidden, CrossTenant, SelfEscalation.
	ChangeRole(ctx context.Context, actorID, targetID snowflake.ID, newRole Role) (*Principal, error)
}

var (
	ErrPrincipalNotFound = errors.New("principal_not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrCrossTenant       = errors.New("cross_tenant")
	ErrSelfEscalation    = errors.New("self_escalation")
	ErrDomainMismatch    = errors.New("domain_mismatch")
	ErrAlreadyRegistered = errors.New("already_registered")
)
