package principal

import (
	"github.com/leavesync/leavesync/internal/principal/repository"
	"github.com/leavesync/leavesync/internal/principal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("principal.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
