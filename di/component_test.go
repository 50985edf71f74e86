package di

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/dirge/component"
	"github.com/kbukum/dirge/observability"
)

func TestRegistryComponentStartWarms(t *testing.T) {
	r := newTestRegistry()
	r.Register("clock", func(ctx context.Context) (any, error) { return 1, nil })
	r.Register("greeting", func(ctx context.Context) (any, error) { return "hi", nil })

	c := NewRegistryComponent(r, []string{"clock"})
	if c.Name() != "di" {
		t.Errorf("expected name 'di', got %q", c.Name())
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !r.Cached("clock") {
		t.Error("expected clock to be warmed")
	}
	if r.Cached("greeting") {
		t.Error("expected greeting to stay lazy")
	}
}

func TestRegistryComponentStartFailure(t *testing.T) {
	r := newTestRegistry()
	boom := stderrors.New("boom")
	r.Register("bad", func(ctx context.Context) (any, error) { return nil, boom })

	err := NewRegistryComponent(r, []string{"bad"}).Start(context.Background())
	if !stderrors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}

	err = NewRegistryComponent(r, []string{"missing"}).Start(context.Background())
	if !stderrors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected KEY_NOT_FOUND, got %v", err)
	}
}

func TestRegistryComponentHealth(t *testing.T) {
	r := newTestRegistry()
	r.Register("ok", func(ctx context.Context) (any, error) { return 1, nil })
	c := NewRegistryComponent(r, nil)
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}

	r.Register("bad", func(ctx context.Context) (any, error) { return nil, stderrors.New("x") })
	p, _ := r.Resolve("bad")
	awaitValue(t, p)
	h := c.Health(ctx)
	if h.Status != component.StatusDegraded {
		t.Errorf("expected degraded, got %s", h.Status)
	}
	if !strings.Contains(h.Message, "bad") {
		t.Errorf("expected failed name in message, got %q", h.Message)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after Stop, got %s", h.Status)
	}
}

func TestRegistryComponentInLifecycle(t *testing.T) {
	r := newTestRegistry()
	closer := &mockCloser{}
	r.Register("conn", func(ctx context.Context) (any, error) { return closer, nil })

	components := component.NewRegistry()
	if err := components.Register(NewRegistryComponent(r, []string{"conn"})); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	ctx := context.Background()
	if err := components.StartAll(ctx); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := components.StopAll(ctx); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if closer.closed != 1 {
		t.Errorf("expected warmed instance closed once, got %d", closer.closed)
	}
}

func TestRegistryComponentDescribe(t *testing.T) {
	r := newTestRegistry()
	r.Register("a", func(ctx context.Context) (any, error) { return 1, nil })
	d := NewRegistryComponent(r, []string{"a"}).Describe()
	if d.Type != "di" || !strings.Contains(d.Details, "1 dependencies") {
		t.Errorf("unexpected description %+v", d)
	}
}

func TestRegistryMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewRegistryMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewRegistryMetrics failed: %v", err)
	}

	r := newTestRegistry(WithMetrics(metrics))
	r.Register("clock", func(ctx context.Context) (any, error) { return 1, nil })
	p, _ := r.Resolve("clock")
	awaitValue(t, p)
	r.Resolve("clock")

	deadline := time.Now().Add(2 * time.Second)
	for {
		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if counterTotal(rm, "di.factory.total") == 1 {
			if got := counterTotal(rm, "di.resolve.total"); got != 2 {
				t.Errorf("expected 2 resolutions, got %d", got)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("factory completion was never recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func counterTotal(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestRegistryTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)

	r := newTestRegistry(WithTracing(true))
	r.Register("clock", func(ctx context.Context) (any, error) { return 1, nil })
	p, _ := r.Resolve("clock")
	awaitValue(t, p)

	deadline := time.Now().Add(2 * time.Second)
	for len(sr.Ended()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("factory span was never ended")
		}
		time.Sleep(5 * time.Millisecond)
	}
	span := sr.Ended()[0]
	if span.Name() != observability.SpanFactory {
		t.Errorf("expected %s span, got %s", observability.SpanFactory, span.Name())
	}
	found := false
	for _, kv := range span.Attributes() {
		if string(kv.Key) == observability.AttrDependency && kv.Value.AsString() == "clock" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dependency attribute, got %v", span.Attributes())
	}
}
