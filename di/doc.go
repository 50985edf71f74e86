// Package di provides an asynchronous dependency registry.
//
// A Registry maps names to factories and memoizes the first resolution of
// each name as a *Pending handle. Every consumer receives the same handle,
// so a factory runs at most once per name until its instance is deleted.
// Factories may return plain values or an Awaitable, in which case the
// handle completes when the awaitable does.
//
// # Registration
//
//	reg := di.New()
//	reg.Register("clock", func(ctx context.Context) (any, error) {
//	    return clock.New(), nil
//	})
//
// # Resolution
//
//	c, err := di.Await[*clock.Clock](ctx, reg, "clock")
//
// # Injection
//
//	type handlers struct {
//	    Clock di.Inject[*clock.Clock] `di:"clock"`
//	}
//	h := &handlers{}
//	if err := di.BindFields(reg, h); err != nil { ... }
//	c, err := h.Clock.Await(ctx)
package di
