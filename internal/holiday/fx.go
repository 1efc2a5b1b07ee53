package holiday

import (
	"github.com/leavesync/leavesync/internal/holiday/repository"
	"github.com/leavesync/leavesync/internal/holiday/service"
	"go.uber.org/fx"
)

var Module = fx.Module("holiday.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
