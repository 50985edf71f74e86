package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/dirge/component"
	"github.com/kbukum/dirge/di"
	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/observability"
)

// App represents an application with uniform lifecycle management built
// around a dependency registry. The type parameter C is the config type.
//
// Example:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.Registry.Register("clock", newClock)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*DemoConfig]) error {
//	    return di.BindFields(a.Registry, handlers)
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Registry   *di.Registry
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	telemetry       observability.ShutdownFunc
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger and
// creates the dependency registry. The config, logger and component
// registry are assigned into the dependency registry under di.Names, and
// the registry itself is registered as the first component so it is
// stopped last.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if o.registry != nil {
		app.Registry = o.registry
	} else {
		reg, err := newRegistry(base.Registry.TraceResolutions, base.Registry.Metrics, app.Logger, o.registryOpts)
		if err != nil {
			return nil, err
		}
		app.Registry = reg
	}

	app.Registry.Assign(di.Names.Config, cfg)
	app.Registry.Assign(di.Names.Logger, app.Logger)
	app.Registry.Assign(di.Names.Components, app.Components)

	app.Components.SetStopTimeout(base.Registry.CloseTimeout)
	if err := app.Components.Register(di.NewRegistryComponent(app.Registry, base.Registry.Warm)); err != nil {
		return nil, err
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

func newRegistry(tracing, metrics bool, log *logger.Logger, extra []di.Option) (*di.Registry, error) {
	opts := []di.Option{
		di.WithLogger(log.WithComponent("di")),
		di.WithTracing(tracing),
	}
	if metrics {
		m, err := observability.NewRegistryMetrics(observability.Meter("dirge/di"))
		if err != nil {
			return nil, fmt.Errorf("registry metrics: %w", err)
		}
		opts = append(opts, di.WithMetrics(m))
	}
	return di.New(append(opts, extra...)...), nil
}

// Provide registers a factory under name. name is anything di.NameOf accepts.
func (a *App[C]) Provide(name any, f di.Factory) error {
	_, err := a.Registry.RegisterAs(name, f)
	return err
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback to run during the configure phase,
// after components have started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run executes the full lifecycle for long-running services:
// Telemetry → Start components → OnStart → Configure → ReadyCheck →
// OnReady → wait for signal → OnStop → Stop components.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		a.stopQuietly()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle.
// It does not block on shutdown signals: it runs task and shuts down when
// the task returns or the context is canceled (for example by SIGINT).
//
// Example:
//
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    greeting, err := di.Await[string](ctx, app.Registry, "greeting")
//	    ...
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		a.stopQuietly()
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	base := a.Cfg.GetServiceConfig()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		logger.FieldRegistry, a.Registry.ID(),
	))

	shutdown, err := observability.Setup(ctx, base.Telemetry, a.Name, a.Version, base.Environment)
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	a.telemetry = shutdown

	if err := a.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()
	return nil
}

// initialize starts all registered components (Phase 1).
func (a *App[C]) initialize(ctx context.Context) error {
	a.Logger.Info("Phase 1: Starting components")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	a.Logger.Info("Phase 1: All components started")
	return nil
}

// configure runs registered configuration callbacks (Phase 2).
func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("Phase 2: Running configuration callbacks", logger.Fields("count", len(a.onConfigure)))
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	a.Logger.Info("Phase 2: Configuration complete")
	return nil
}

// DisplaySummary prints the startup summary collected from the component
// and dependency registries.
func (a *App[C]) DisplaySummary() {
	a.Summary.DisplaySummary(a.Components, a.Registry)
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

func (a *App[C]) stopQuietly() {
	if err := a.stop(); err != nil {
		a.Logger.Debug("Shutdown after failed startup reported errors", logger.Fields(logger.FieldError, err.Error()))
	}
}

// stop runs OnStop hooks, stops components in reverse order, closes the
// dependency registry and flushes telemetry, all within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	// no-op when the registry component already stopped
	if err := a.Registry.Close(); err != nil {
		a.Logger.Error("Registry close error", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	if a.telemetry != nil {
		if err := a.telemetry(ctx); err != nil {
			a.Logger.Warn("Telemetry shutdown error", logger.Fields(logger.FieldError, err.Error()))
		}
		a.telemetry = nil
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
