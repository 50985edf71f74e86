package di

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/dirge/errors"
)

// Await resolves name and waits for a value of type T.
//
// Example:
//
//	clk, err := di.Await[*Clock](ctx, reg, "clock")
//	if err != nil {
//	    return fmt.Errorf("clock unavailable: %w", err)
//	}
func Await[T any](ctx context.Context, r *Registry, name any) (T, error) {
	var zero T
	key, err := NameOf(name)
	if err != nil {
		return zero, err
	}
	p, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	v, err := p.Await(ctx)
	if err != nil {
		return zero, err
	}
	return cast[T](key, v)
}

// MustAwait is Await that panics on error. Use it in startup code where a
// missing dependency is a programming error.
func MustAwait[T any](ctx context.Context, r *Registry, name any) T {
	v, err := Await[T](ctx, r, name)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %v: %v", name, err))
	}
	return v
}

// TryAwait returns false when the dependency is missing, failed or of
// another type.
//
// Example:
//
//	if counter, ok := di.TryAwait[*Counter](ctx, reg, "counter"); ok {
//	    counter.Inc()
//	}
func TryAwait[T any](ctx context.Context, r *Registry, name any) (T, bool) {
	v, err := Await[T](ctx, r, name)
	return v, err == nil
}

// cast asserts v to T. A nil value yields the zero T.
func cast[T any](name string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		want := reflect.TypeOf((*T)(nil)).Elem().String()
		return zero, errors.TypeMismatch(name, want, fmt.Sprintf("%T", v))
	}
	return t, nil
}
