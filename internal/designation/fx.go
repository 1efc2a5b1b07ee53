package designation

import (
	"github.com/leavesync/leavesync/internal/designation/repository"
	"github.com/leavesync/leavesync/internal/designation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("designation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
