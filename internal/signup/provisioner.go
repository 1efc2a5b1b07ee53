package signup

import (
	"context"

	balancedomain "github.com/leavesync/leavesync/internal/balance/domain"
	principaldomain "github.com/leavesync/leavesync/internal/principal/domain"
	"github.com/leavesync/leavesync/internal/signup/domain"
)

type noopProvisioner struct{}

func NewNoopProvisioner() domain.Provisioner {
	return &noopProvisioner{}
}

func (p *noopProvisioner) Provision(ctx context.Context, principal *principaldomain.Principal) error {
	_ = ctx
	_ = principal
	return nil
}

// BalanceProvisioner allocates leave balances from tenant policy or leave
// type defaults.
type BalanceProvisioner struct {
	balances balancedomain.Service
}

func NewBalanceProvisioner(balances balancedomain.Service) domain.Provisioner {
	return &BalanceProvisioner{balances: balances}
}

func (p *BalanceProvisioner) Provision(ctx context.Context, principal *principaldomain.Principal) error {
	return p.balances.Initialize(ctx, principal.ID, principal.TenantID)
}
