package observability

import (
	"context"
	stderrors "errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/errkit/component"
)

// Component owns the tracer and meter providers. When telemetry is disabled
// it only creates instruments on the global (no-op) meter.
type Component struct {
	cfg            Config
	serviceName    string
	serviceVersion string
	environment    string

	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

var _ component.Component = (*Component)(nil)

// NewComponent creates the telemetry component for a service.
func NewComponent(cfg Config, serviceName, serviceVersion, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:            cfg,
		serviceName:    serviceName,
		serviceVersion: serviceVersion,
		environment:    environment,
	}
}

// Name implements component.Component.
func (c *Component) Name() string { return "telemetry" }

// Start initializes the providers and the metric instruments.
func (c *Component) Start(ctx context.Context) error {
	if c.cfg.Enabled {
		tp, err := InitTracer(ctx, TracerConfig{
			ServiceName:    c.serviceName,
			ServiceVersion: c.serviceVersion,
			Environment:    c.environment,
			Endpoint:       c.cfg.Endpoint,
			Insecure:       c.cfg.Insecure,
			SampleRate:     c.cfg.SampleRate,
		})
		if err != nil {
			return err
		}
		c.tp = tp

		mp, err := InitMeter(ctx, MeterConfig{
			ServiceName:    c.serviceName,
			ServiceVersion: c.serviceVersion,
			Environment:    c.environment,
			Endpoint:       c.cfg.Endpoint,
			Insecure:       c.cfg.Insecure,
			Interval:       c.cfg.Interval,
		})
		if err != nil {
			return stderrors.Join(err, tp.Shutdown(ctx))
		}
		c.mp = mp
	}

	metrics, err := NewMetrics(Meter(c.serviceName))
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	c.metrics = metrics
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
		c.mp = nil
	}
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
		c.tp = nil
	}
	return stderrors.Join(errs...)
}

// Health implements component.Component.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.metrics == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !c.cfg.Enabled:
		h.Message = "export disabled"
	}
	return h
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	details := "export disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp %s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}

// Metrics returns the instruments created by Start, nil before it.
func (c *Component) Metrics() *Metrics { return c.metrics }
