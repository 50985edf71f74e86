package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kbukum/dirge/di"
	"github.com/kbukum/dirge/logger"
)

// Clock reports wall time and process uptime.
type Clock struct {
	started time.Time
}

// Now returns the current UTC time.
func (c *Clock) Now() time.Time { return time.Now().UTC() }

// Uptime returns the time since the clock was built.
func (c *Clock) Uptime() time.Duration { return time.Since(c.started) }

// clock is registered by function, so its name is inferred as "clock".
func clock(ctx context.Context) (any, error) {
	return &Clock{started: time.Now()}, nil
}

// Greeting is the message served by /greeting.
type Greeting struct {
	Text string
}

// greeting builds the message from configuration. It awaits another
// dependency, so it completes asynchronously.
func greeting(r *di.Registry) di.Factory {
	return func(ctx context.Context) (any, error) {
		cfg, err := di.Await[*DemoConfig](ctx, r, di.Names.Config)
		if err != nil {
			return nil, err
		}
		return Greeting{Text: cfg.Greeting.Text}, nil
	}
}

// signed appends the service name to the greeting. It is wrapped onto the
// greeting after registration.
func signed(service string) di.Wrapper {
	return func(ctx context.Context, v any) (any, error) {
		g, ok := v.(Greeting)
		if !ok {
			return nil, fmt.Errorf("signed: unexpected %T", v)
		}
		g.Text = fmt.Sprintf("%s (%s)", g.Text, service)
		return g, nil
	}
}

// CounterArgs configures a Counter.
type CounterArgs struct {
	Start int64
	Log   *logger.Logger
}

// Counter counts greeting visits. It finishes initializing asynchronously.
type Counter struct {
	value atomic.Int64
	ready atomic.Bool
}

// NewCounter is the synchronous half of Counter construction.
func NewCounter(args CounterArgs) (*Counter, error) {
	if args.Start < 0 {
		return nil, fmt.Errorf("counter start must be non-negative, got %d", args.Start)
	}
	return &Counter{}, nil
}

// InitAsync seeds the counter. The short delay stands in for loading
// persisted state.
func (c *Counter) InitAsync(ctx context.Context, args CounterArgs) error {
	select {
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	c.value.Store(args.Start)
	c.ready.Store(true)
	if args.Log != nil {
		args.Log.Debug("Counter initialized", logger.Fields("start", args.Start))
	}
	return nil
}

// Next increments and returns the count.
func (c *Counter) Next() int64 { return c.value.Add(1) }

// Ready reports whether InitAsync has completed.
func (c *Counter) Ready() bool { return c.ready.Load() }

// registerDependencies registers the demo factories.
func registerDependencies(r *di.Registry, cfg *DemoConfig, log *logger.Logger) error {
	if _, err := r.RegisterFunc(clock); err != nil {
		return err
	}
	r.Register("greeting", greeting(r))
	r.Register("counter", di.Constructor(NewCounter, CounterArgs{
		Start: int64(cfg.Greeting.CounterStart),
		Log:   log,
	}))
	return nil
}
