package di

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/dirge/errors"
)

func TestPendingCompleteOnce(t *testing.T) {
	p := NewPending()
	if p.State() != StatePending {
		t.Errorf("expected pending, got %s", p.State())
	}
	if !p.Complete(1, nil) {
		t.Error("expected first Complete to win")
	}
	if p.Complete(2, stderrors.New("late")) {
		t.Error("expected second Complete to be ignored")
	}
	v, err := awaitValue(t, p)
	if v != 1 || err != nil {
		t.Errorf("expected 1, got %v (%v)", v, err)
	}
	select {
	case <-p.Done():
	default:
		t.Error("expected Done to be closed")
	}
}

func TestPendingAwaitCanceled(t *testing.T) {
	p := NewPending()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Await(ctx)
	if !errors.HasCode(err, errors.ErrCodeCanceled) {
		t.Errorf("expected CANCELED, got %v", err)
	}
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected cause DeadlineExceeded, got %v", err)
	}

	// the handle itself is unaffected
	p.Complete("late", nil)
	v, err := awaitValue(t, p)
	if v != "late" || err != nil {
		t.Errorf("expected late, got %v (%v)", v, err)
	}
}

func TestResolvedAndFailed(t *testing.T) {
	if Resolved(3).State() != StateResolved {
		t.Error("expected resolved state")
	}
	boom := stderrors.New("boom")
	f := Failed(boom)
	if f.State() != StateFailed {
		t.Error("expected failed state")
	}
	if _, err := awaitValue(t, f); err != boom {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestGoRecoversPanic(t *testing.T) {
	p := Go(context.Background(), func(ctx context.Context) (any, error) {
		panic("nope")
	})
	if _, err := awaitValue(t, p); !errors.HasCode(err, errors.ErrCodeFactoryPanic) {
		t.Errorf("expected FACTORY_PANIC, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateAbsent:   "absent",
		StatePending:  "pending",
		StateResolved: "resolved",
		StateFailed:   "failed",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("expected %q, got %q", want, s.String())
		}
	}
}
