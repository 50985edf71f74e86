package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/dirge/errors"
	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/observability"
)

// Sentinels for errors.Is.
var (
	ErrKeyNotFound       = &errors.AppError{Code: errors.ErrCodeKeyNotFound}
	ErrAttributeNotFound = &errors.AppError{Code: errors.ErrCodeAttributeNotFound}
	ErrClosed            = &errors.AppError{Code: errors.ErrCodeClosed}
)

// Factory produces a dependency. It may return an Awaitable, in which case
// the dependency is whatever the awaitable eventually yields. ctx is the
// registry's lifetime context.
type Factory func(ctx context.Context) (any, error)

// Wrapper decorates a resolved dependency. It may return an Awaitable.
type Wrapper func(ctx context.Context, v any) (any, error)

// RegistrationInfo describes a known name for introspection.
type RegistrationInfo struct {
	Key        string `json:"key"`
	HasFactory bool   `json:"has_factory"`
	State      State  `json:"-"`
	StateName  string `json:"state"`
}

// Registry holds factories and the memoized handles they produced.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]*Pending
	closed    bool

	id      string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	log     *logger.Logger
	metrics *observability.RegistryMetrics
	tracing bool
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]*Pending),
		id:        uuid.NewString(),
		parent:    context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("di")
	}
	r.log = r.log.WithFields(logger.Fields(logger.FieldRegistry, r.id))
	r.ctx, r.cancel = context.WithCancel(r.parent)
	return r
}

// ID identifies the registry in logs and spans.
func (r *Registry) ID() string { return r.id }

// Register stores f under name, replacing any earlier factory. A cached
// instance is left untouched. f is returned unchanged.
func (r *Registry) Register(name string, f Factory) Factory {
	r.mu.Lock()
	_, replaced := r.factories[name]
	r.factories[name] = f
	r.mu.Unlock()

	r.log.Debug("Factory registered", logger.Fields(
		logger.FieldDependency, name,
		"replaced", replaced,
	))
	return f
}

// RegisterFunc registers f under its own function name.
func (r *Registry) RegisterFunc(f Factory) (Factory, error) {
	name, err := NameOf(f)
	if err != nil {
		return nil, err
	}
	return r.Register(name, f), nil
}

// RegisterAs registers f under the name derived from name by NameOf.
func (r *Registry) RegisterAs(name any, f Factory) (Factory, error) {
	key, err := NameOf(name)
	if err != nil {
		return nil, err
	}
	return r.Register(key, f), nil
}

// Registrar returns a function registering factories under name.
func (r *Registry) Registrar(name string) func(Factory) Factory {
	return func(f Factory) Factory {
		return r.Register(name, f)
	}
}

// Unregister removes the factory for name. A cached instance survives.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; !ok {
		return errors.KeyNotFound(name)
	}
	delete(r.factories, name)
	return nil
}

// Resolve returns the handle cached for name, invoking its factory on the
// first call. The handle is cached before the factory runs, so concurrent
// and reentrant resolutions observe it instead of invoking the factory
// again. Failed handles stay cached until Delete.
func (r *Registry) Resolve(name string) (*Pending, error) {
	r.mu.Lock()
	if p, ok := r.instances[name]; ok {
		r.mu.Unlock()
		r.recordResolve(name, true)
		return p, nil
	}
	f, ok := r.factories[name]
	if !ok {
		r.mu.Unlock()
		return nil, errors.KeyNotFound(name)
	}
	if r.closed {
		r.mu.Unlock()
		return nil, errors.Closed()
	}
	p := NewPending()
	r.instances[name] = p
	ctx := r.ctx
	r.mu.Unlock()

	r.recordResolve(name, false)
	r.invoke(ctx, name, f, p)
	return p, nil
}

// Assign sets the cached instance for name. A *Pending is stored as is,
// other Awaitables are attached and plain values complete immediately.
// The factory is not touched.
func (r *Registry) Assign(name string, value any) {
	var p *Pending
	switch v := value.(type) {
	case *Pending:
		p = v
	case Awaitable:
		p = NewPending()
		attach(r.ctx, name, p, v)
	default:
		p = Resolved(value)
	}

	r.mu.Lock()
	r.instances[name] = p
	r.mu.Unlock()

	r.log.Debug("Instance assigned", logger.Fields(logger.FieldDependency, name))
}

// Delete drops the cached instance for name; the next Resolve runs the
// factory again.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.instances[name]; !ok {
		return errors.KeyNotFound(name)
	}
	delete(r.instances, name)
	r.log.Debug("Instance deleted", logger.Fields(logger.FieldDependency, name))
	return nil
}

// Wrap decorates the factory registered under name with w. Future
// resolutions yield w(f()). If an instance is already cached, it is
// replaced by w applied to the current value; the factory is not run again.
func (r *Registry) Wrap(name any, w Wrapper) error {
	key, err := NameOf(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	f, ok := r.factories[key]
	if !ok {
		r.mu.Unlock()
		return errors.KeyNotFound(key)
	}
	r.factories[key] = wrapFactory(key, f, w)

	current, cached := r.instances[key]
	var next *Pending
	if cached {
		next = NewPending()
		r.instances[key] = next
	}
	ctx := r.ctx
	r.mu.Unlock()

	r.log.Debug("Factory wrapped", logger.Fields(
		logger.FieldDependency, key,
		"rewrapped_instance", cached,
	))

	if cached {
		r.rewrap(ctx, key, current, next, w)
	}
	return nil
}

// rewrap completes next with w applied to the value of current.
func (r *Registry) rewrap(ctx context.Context, name string, current, next *Pending, w Wrapper) {
	var span trace.Span
	if r.tracing {
		ctx, span = observability.StartSpan(ctx, observability.SpanWrap, trace.WithAttributes(
			attribute.String(observability.AttrRegistryID, r.id),
			attribute.String(observability.AttrDependency, name),
		))
		r.whenDone(next, func() { endSpan(span, next) })
	}

	apply := func(v any, err error) {
		if err != nil {
			next.Complete(nil, err)
			return
		}
		out, err := callWrapper(ctx, name, w, v)
		settle(ctx, name, next, out, err)
	}

	if v, err, done := current.peek(); done {
		apply(v, err)
		return
	}
	go func() {
		apply(current.Await(ctx))
	}()
}

// wrapFactory composes f and w, awaiting intermediate awaitables.
func wrapFactory(name string, f Factory, w Wrapper) Factory {
	return func(ctx context.Context) (any, error) {
		v, err := f(ctx)
		if err != nil {
			return nil, err
		}
		a, ok := v.(Awaitable)
		if !ok {
			return w(ctx, v)
		}
		return Go(ctx, func(ctx context.Context) (any, error) {
			v, err := a.Await(ctx)
			if err != nil {
				return nil, err
			}
			out, err := callWrapper(ctx, name, w, v)
			if err != nil {
				return nil, err
			}
			if next, ok := out.(Awaitable); ok {
				return next.Await(ctx)
			}
			return out, nil
		}), nil
	}
}

// Len reports the number of known names.
func (r *Registry) Len() int {
	return len(r.Keys())
}

// Keys returns the sorted union of factory and instance names.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keysLocked()
}

func (r *Registry) keysLocked() []string {
	seen := make(map[string]struct{}, len(r.factories)+len(r.instances))
	for k := range r.factories {
		seen[k] = struct{}{}
	}
	for k := range r.instances {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether name is known to either table.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, f := r.factories[name]
	_, i := r.instances[name]
	return f || i
}

// Registered reports whether a factory exists for name.
func (r *Registry) Registered(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.factories[name]
	return ok
}

// Cached reports whether an instance exists for name.
func (r *Registry) Cached(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.instances[name]
	return ok
}

// Registrations returns one entry per known name, sorted by key.
func (r *Registry) Registrations() []RegistrationInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := r.keysLocked()
	result := make([]RegistrationInfo, 0, len(keys))
	for _, k := range keys {
		_, hasFactory := r.factories[k]
		state := StateAbsent
		if p, ok := r.instances[k]; ok {
			state = p.State()
		}
		result = append(result, RegistrationInfo{
			Key:        k,
			HasFactory: hasFactory,
			State:      state,
			StateName:  state.String(),
		})
	}
	return result
}

// Close cancels the lifetime context and closes every resolved instance
// implementing io.Closer. Uncached names can no longer be resolved.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	names := make([]string, 0, len(r.instances))
	for k := range r.instances {
		names = append(names, k)
	}
	instances := make(map[string]*Pending, len(r.instances))
	for k, p := range r.instances {
		instances[k] = p
	}
	r.mu.Unlock()

	r.cancel()
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		v, err, done := instances[name].peek()
		if !done || err != nil {
			continue
		}
		c, ok := v.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}

	r.log.Info("Registry closed", logger.Fields("instances", len(names), "close_errors", len(errs)))
	return stderrors.Join(errs...)
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// invoke runs f for name and completes p with its outcome.
func (r *Registry) invoke(ctx context.Context, name string, f Factory, p *Pending) {
	start := time.Now()
	if r.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanFactory, trace.WithAttributes(
			attribute.String(observability.AttrRegistryID, r.id),
			attribute.String(observability.AttrDependency, name),
		))
		r.whenDone(p, func() { endSpan(span, p) })
	}
	if r.metrics != nil {
		r.metrics.RecordFactoryStart(ctx, name)
	}
	r.whenDone(p, func() { r.factoryDone(ctx, name, p, time.Since(start)) })

	v, err := callFactory(ctx, name, f)
	settle(ctx, name, p, v, err)
}

// whenDone runs fn once p completes.
func (r *Registry) whenDone(p *Pending, fn func()) {
	go func() {
		<-p.Done()
		fn()
	}()
}

func (r *Registry) factoryDone(ctx context.Context, name string, p *Pending, elapsed time.Duration) {
	status := observability.StatusOK
	if _, err, _ := p.peek(); err != nil {
		status = observability.StatusError
		r.log.Warn("Factory failed", logger.Fields(
			logger.FieldDependency, name,
			logger.FieldError, err.Error(),
		))
	} else {
		r.log.Debug("Dependency resolved", logger.Fields(
			logger.FieldDependency, name,
			logger.FieldDuration, elapsed.Milliseconds(),
		))
	}
	if r.metrics != nil {
		r.metrics.RecordFactoryEnd(context.WithoutCancel(ctx), name, status, elapsed)
	}
}

func (r *Registry) recordResolve(name string, hit bool) {
	if r.metrics != nil {
		r.metrics.RecordResolve(context.Background(), name, hit)
	}
}

func endSpan(span trace.Span, p *Pending) {
	if _, err, _ := p.peek(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(observability.AttrStatus, observability.StatusError))
	} else {
		span.SetAttributes(attribute.String(observability.AttrStatus, observability.StatusOK))
	}
	span.End()
}

func callFactory(ctx context.Context, name string, f Factory) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, err = nil, errors.FactoryPanic(name, rec)
		}
	}()
	return f(ctx)
}

func callWrapper(ctx context.Context, name string, w Wrapper, in any) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, err = nil, errors.FactoryPanic(name, rec)
		}
	}()
	return w(ctx, in)
}
