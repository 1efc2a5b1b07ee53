package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	signups          metric.Int64Counter
	leaveTransitions metric.Int64Counter
	roleChanges      metric.Int64Counter
	notifications    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "leavesync"
	}
	meter := provider.Meter(name)

	signups, err := meter.Int64Counter("leavesync_signups_total")
	if err != nil {
		return nil, err
	}
	leaveTransitions, err := meter.Int64Counter("leavesync_leave_transitions_total")
	if err != nil {
		return nil, err
	}
	roleChanges, err := meter.Int64Counter("leavesync_role_changes_total")
	if err != nil {
		return nil, err
	}
	notifications, err := meter.Int64Counter("leavesync_notifications_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		signups:          signups,
		leaveTransitions: leaveTransitions,
		roleChanges:      roleChanges,
		notifications:    notifications,
	}, nil
}

// RecordSignup counts a completed signup for a tenant domain.
func (m *Metrics) RecordSignup(ctx context.Context, role string) {
	if m == nil || m.signups == nil {
		return
	}
	m.signups.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
}

// RecordLeaveTransition counts one workflow transition by outcome status.
func (m *Metrics) RecordLeaveTransition(ctx context.Context, status string) {
	if m == nil || m.leaveTransitions == nil {
		return
	}
	m.leaveTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordRoleChange counts a role mutation.
func (m *Metrics) RecordRoleChange(ctx context.Context, role string) {
	if m == nil || m.roleChanges == nil {
		return
	}
	m.roleChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
}

// RecordNotification counts an outbound notification attempt by result.
func (m *Metrics) RecordNotification(ctx context.Context, event string, ok bool) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.Bool("ok", ok),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
