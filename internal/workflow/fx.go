package workflow

import (
	"github.com/leavesync/leavesync/internal/workflow/repository"
	"github.com/leavesync/leavesync/internal/workflow/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workflow.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
