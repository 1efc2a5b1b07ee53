package domain

import (
	"context"
	"errors"

	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	tenantdomain "github.com/leavesync/leavesync/internal/tenant/domain"
)

type Service interface {
	Signup(ctx context.Context, req Request) (*Result, error)
}

type Request struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Result struct {
	Tenant    *tenantdomain.Tenant
	Principal *principaldomain.Principal
}

// Provisioner prepares a freshly registered principal for use. The default
// implementation allocates leave balances.
type Provisioner interface {
	Provision(ctx context.Context, principal *principaldomain.Principal) error
}

var ErrInvalidRequest = errors.New("invalid_signup_request")
