package di

import (
	"context"

	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/observability"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry events.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithContext sets the parent of the registry's lifetime context.
// Factories receive a context derived from it; Close cancels it.
func WithContext(ctx context.Context) Option {
	return func(r *Registry) {
		if ctx != nil {
			r.parent = ctx
		}
	}
}

// WithMetrics reports resolutions and factory runs to m.
func WithMetrics(m *observability.RegistryMetrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithTracing wraps every factory invocation and wrap in a span.
func WithTracing(enabled bool) Option {
	return func(r *Registry) {
		r.tracing = enabled
	}
}
