package balance

import (
	"github.com/leavesync/leavesync/internal/balance/repository"
	"github.com/leavesync/leavesync/internal/balance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("balance.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
