package di

import (
	"context"
	"sync"

	"github.com/kbukum/dirge/errors"
)

// State describes an instance slot in the registry.
type State int

const (
	StateAbsent State = iota
	StatePending
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "absent"
	}
}

// Awaitable is a value that completes later.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Pending is a single-assignment future. The first call to Complete wins;
// later completions are ignored.
type Pending struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

// NewPending returns an incomplete handle.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolved returns a handle already completed with v.
func Resolved(v any) *Pending {
	p := NewPending()
	p.Complete(v, nil)
	return p
}

// Failed returns a handle already completed with err.
func Failed(err error) *Pending {
	p := NewPending()
	p.Complete(nil, err)
	return p
}

// Complete sets the result. It reports whether this call completed the handle.
func (p *Pending) Complete(v any, err error) bool {
	won := false
	p.once.Do(func() {
		p.value, p.err = v, err
		close(p.done)
		won = true
	})
	return won
}

// Done is closed once the handle completes.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the handle completes or ctx is done. Giving up on the
// wait does not affect the computation behind the handle.
func (p *Pending) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	default:
	}
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, errors.Canceled(ctx.Err())
	}
}

// State reports pending, resolved or failed.
func (p *Pending) State() State {
	select {
	case <-p.done:
		if p.err != nil {
			return StateFailed
		}
		return StateResolved
	default:
		return StatePending
	}
}

// peek returns the result without blocking; ok is false while pending.
func (p *Pending) peek() (v any, err error, ok bool) {
	select {
	case <-p.done:
		return p.value, p.err, true
	default:
		return nil, nil, false
	}
}

// attach completes p with the eventual result of a. An already completed
// *Pending is copied synchronously.
func attach(ctx context.Context, name string, p *Pending, a Awaitable) {
	if src, ok := a.(*Pending); ok {
		if v, err, done := src.peek(); done {
			p.Complete(v, err)
			return
		}
	}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				p.Complete(nil, errors.FactoryPanic(name, rec))
			}
		}()
		p.Complete(a.Await(ctx))
	}()
}

// settle completes p from a factory or wrapper result.
func settle(ctx context.Context, name string, p *Pending, v any, err error) {
	if err != nil {
		p.Complete(nil, err)
		return
	}
	if a, ok := v.(Awaitable); ok {
		attach(ctx, name, p, a)
		return
	}
	p.Complete(v, nil)
}

// Go runs fn on its own goroutine and returns its handle. A panic in fn
// fails the handle.
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) *Pending {
	p := NewPending()
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				p.Complete(nil, errors.FactoryPanic("async", rec))
			}
		}()
		p.Complete(fn(ctx))
	}()
	return p
}
