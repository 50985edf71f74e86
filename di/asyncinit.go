package di

import (
	"context"

	"github.com/kbukum/dirge/errors"
)

// AsyncInit is implemented by types that finish construction
// asynchronously. InitAsync receives the arguments the value was built with.
type AsyncInit[A any] interface {
	InitAsync(ctx context.Context, args A) error
}

// Construct builds a value with build(args) and returns its handle. When
// the value implements AsyncInit[A], the handle resolves only after
// InitAsync(ctx, args) returns; otherwise it resolves right away.
func Construct[T any, A any](ctx context.Context, build func(A) (T, error), args A) (p *Pending) {
	defer func() {
		if rec := recover(); rec != nil {
			p = Failed(errors.FactoryPanic("construct", rec))
		}
	}()

	inst, err := build(args)
	if err != nil {
		return Failed(err)
	}
	finisher, ok := any(inst).(AsyncInit[A])
	if !ok {
		return Resolved(inst)
	}
	return Go(ctx, func(ctx context.Context) (any, error) {
		if err := finisher.InitAsync(ctx, args); err != nil {
			return nil, err
		}
		return inst, nil
	})
}

// Constructor packages Construct as a registry factory.
//
// Example:
//
//	reg.Register("counter", di.Constructor(NewCounter, CounterOptions{Start: 10}))
func Constructor[T any, A any](build func(A) (T, error), args A) Factory {
	return func(ctx context.Context) (any, error) {
		return Construct(ctx, build, args), nil
	}
}
