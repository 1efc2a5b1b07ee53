package draft

import "go.uber.org/fx"

var Module = fx.Module("draft",
	fx.Provide(New),
)
