package di

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dirge/component"
	"github.com/kbukum/dirge/errors"
	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/observability"
)

// RegistryComponent manages a Registry's lifecycle: Start resolves the
// warm names, Stop closes the registry.
type RegistryComponent struct {
	registry *Registry
	warm     []string
}

var (
	_ component.Component   = (*RegistryComponent)(nil)
	_ component.Describable = (*RegistryComponent)(nil)
)

// NewRegistryComponent wraps r. warm lists names resolved and awaited on Start.
func NewRegistryComponent(r *Registry, warm []string) *RegistryComponent {
	return &RegistryComponent{registry: r, warm: warm}
}

// Name implements component.Component.
func (c *RegistryComponent) Name() string { return "di" }

// Registry returns the managed registry.
func (c *RegistryComponent) Registry() *Registry { return c.registry }

// Start resolves every warm name and waits for it.
func (c *RegistryComponent) Start(ctx context.Context) error {
	for _, name := range c.warm {
		if err := c.warmOne(ctx, name); err != nil {
			return fmt.Errorf("warm %s: %w", name, err)
		}
	}
	if len(c.warm) > 0 {
		c.registry.log.Info("Dependencies warmed", logger.Fields("count", len(c.warm)))
	}
	return nil
}

func (c *RegistryComponent) warmOne(ctx context.Context, name string) error {
	if c.registry.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanWarm, trace.WithAttributes(
			attribute.String(observability.AttrRegistryID, c.registry.id),
			attribute.String(observability.AttrDependency, name),
		))
		defer span.End()
	}
	p, err := c.registry.Resolve(name)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}
	if _, err := p.Await(ctx); err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}
	return nil
}

// Stop closes the registry, giving up when ctx is done.
func (c *RegistryComponent) Stop(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- c.registry.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.Timeout("registry close").WithCause(ctx.Err())
	}
}

// Health reports degraded when any cached instance has failed.
func (c *RegistryComponent) Health(ctx context.Context) component.Health {
	if c.registry.Closed() {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "registry closed"}
	}
	var failed []string
	for _, info := range c.registry.Registrations() {
		if info.State == StateFailed {
			failed = append(failed, info.Key)
		}
	}
	if len(failed) > 0 {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: "failed: " + strings.Join(failed, ", "),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe implements component.Describable.
func (c *RegistryComponent) Describe() component.Description {
	return component.Description{
		Name:    "Dependency Registry",
		Type:    "di",
		Details: fmt.Sprintf("%d dependencies, %d warm", c.registry.Len(), len(c.warm)),
	}
}
