package audit

import (
	"github.com/leavesync/leavesync/internal/audit/repository"
	"github.com/leavesync/leavesync/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
