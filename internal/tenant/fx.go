package tenant

import (
	"github.com/leavesync/leavesync/internal/tenant/repository"
	"github.com/leavesync/leavesync/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
