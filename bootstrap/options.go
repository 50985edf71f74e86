package bootstrap

import (
	"time"

	"github.com/kbukum/dirge/di"
	"github.com/kbukum/dirge/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	registry        *di.Registry
	registryOpts    []di.Option
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithRegistry uses an existing dependency registry instead of creating one.
// Registry options from the config are ignored in that case.
func WithRegistry(r *di.Registry) Option {
	return func(o *appOptions) {
		o.registry = r
	}
}

// WithRegistryOptions appends options used when the app creates its registry.
func WithRegistryOptions(opts ...di.Option) Option {
	return func(o *appOptions) {
		o.registryOpts = append(o.registryOpts, opts...)
	}
}
