package draft

import (
	"context"
	"strings"
	"time"

	"github.com/leavesync/leavesync/internal/config"
	"go.uber.org/zap"
)

type drafter struct {
	log    *zap.Logger
	remote *remoteDrafter
}

// New builds the drafting pipeline: remote endpoint when configured, the
// deterministic fallback otherwise or on any remote failure.
func New(cfg config.Config, log *zap.Logger) Drafter {
	d := &drafter{log: log.Named("draft")}
	if cfg.Draft.Endpoint != "" {
		timeout := time.Duration(cfg.Draft.TimeoutS) * time.Second
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		d.remote = newRemoteDrafter(cfg.Draft.Endpoint, cfg.Draft.APIKey, cfg.Draft.Model, timeout)
	}
	return d
}

func (d *drafter) Draft(ctx context.Context, in Input) (string, error) {
	if d.remote != nil {
		out, err := d.remote.Draft(ctx, in)
		if err == nil && strings.TrimSpace(out) != "" {
			return out, nil
		}
		d.log.Warn("remote draft failed, using fallback", zap.Error(err))
	}
	return Fallback(in), nil
}
