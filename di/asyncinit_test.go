package di

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"

	"github.com/kbukum/dirge/errors"
)

type counterArgs struct {
	Start int
}

type asyncCounter struct {
	value int32
	ready int32
	seen  counterArgs
}

func newAsyncCounter(args counterArgs) (*asyncCounter, error) {
	return &asyncCounter{value: int32(args.Start)}, nil
}

func (c *asyncCounter) InitAsync(ctx context.Context, args counterArgs) error {
	c.seen = args
	atomic.StoreInt32(&c.ready, 1)
	return nil
}

type syncOnly struct{ n int }

func TestConstructRunsAsyncInit(t *testing.T) {
	p := Construct(context.Background(), newAsyncCounter, counterArgs{Start: 10})

	v, err := awaitValue(t, p)
	if err != nil {
		t.Fatalf("await failed: %v", err)
	}
	c, ok := v.(*asyncCounter)
	if !ok {
		t.Fatalf("expected *asyncCounter, got %T", v)
	}
	if atomic.LoadInt32(&c.ready) != 1 {
		t.Error("expected InitAsync to have completed before the handle resolved")
	}
	if c.seen.Start != 10 {
		t.Errorf("expected InitAsync to receive constructor args, got %+v", c.seen)
	}
}

func TestConstructWithoutAsyncInit(t *testing.T) {
	p := Construct(context.Background(), func(n int) (syncOnly, error) {
		return syncOnly{n: n}, nil
	}, 3)

	if p.State() != StateResolved {
		t.Errorf("expected immediate resolution, got %s", p.State())
	}
	v, _ := awaitValue(t, p)
	if v.(syncOnly).n != 3 {
		t.Errorf("expected n=3, got %v", v)
	}
}

type failingInit struct{}

func (failingInit) InitAsync(ctx context.Context, args string) error {
	return stderrors.New("init failed: " + args)
}

func TestConstructInitError(t *testing.T) {
	p := Construct(context.Background(), func(s string) (failingInit, error) {
		return failingInit{}, nil
	}, "db")

	_, err := awaitValue(t, p)
	if err == nil || err.Error() != "init failed: db" {
		t.Errorf("expected init error, got %v", err)
	}
}

func TestConstructBuildErrorAndPanic(t *testing.T) {
	boom := stderrors.New("boom")
	p := Construct(context.Background(), func(int) (int, error) { return 0, boom }, 1)
	if _, err := awaitValue(t, p); err != boom {
		t.Errorf("expected build error, got %v", err)
	}

	p = Construct(context.Background(), func(int) (int, error) { panic("bad") }, 1)
	if _, err := awaitValue(t, p); !errors.HasCode(err, errors.ErrCodeFactoryPanic) {
		t.Errorf("expected FACTORY_PANIC, got %v", err)
	}
}

func TestConstructorAsFactory(t *testing.T) {
	r := newTestRegistry()
	r.Register("counter", Constructor(newAsyncCounter, counterArgs{Start: 5}))

	c, err := Await[*asyncCounter](context.Background(), r, "counter")
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if atomic.LoadInt32(&c.ready) != 1 || atomic.LoadInt32(&c.value) != 5 {
		t.Errorf("expected initialized counter starting at 5, got %+v", c)
	}

	again, _ := Await[*asyncCounter](context.Background(), r, "counter")
	if again != c {
		t.Error("expected the same instance on second await")
	}
}
