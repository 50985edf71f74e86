package main

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/dirge/di"
	"github.com/kbukum/dirge/errors"
	"github.com/kbukum/dirge/logger"
	"github.com/kbukum/dirge/server"
	"github.com/kbukum/dirge/validation"
)

// handlers serves the demo routes. Its Inject fields are bound by name
// with di.BindFields and resolved per request.
type handlers struct {
	Clock    di.Inject[*Clock]
	Greeting di.Inject[Greeting]
	Counter  di.Inject[*Counter]
	Log      di.Inject[*logger.Logger] `di:"logger"`

	registry *di.Registry
}

func newHandlers(r *di.Registry) (*handlers, error) {
	h := &handlers{registry: r}
	if err := di.BindFields(r, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *handlers) register(e *gin.Engine) {
	e.GET("/clock", h.clock)
	e.GET("/greeting", h.greeting)
	e.POST("/dependencies/:name/refresh", h.refresh)
}

func (h *handlers) clock(c *gin.Context) {
	clk, err := h.Clock.Await(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{
		"now":    clk.Now(),
		"uptime": clk.Uptime().String(),
	})
}

func (h *handlers) greeting(c *gin.Context) {
	ctx := c.Request.Context()
	g, err := h.Greeting.Await(ctx)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	counter, err := h.Counter.Await(ctx)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{
		"message": g.Text,
		"visits":  counter.Next(),
	})
}

// refresh drops the cached instance of a dependency and resolves it again.
func (h *handlers) refresh(c *gin.Context) {
	name := c.Param("name")
	if appErr := validation.New().DependencyName("name", name).Validate(); appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	if !h.registry.Registered(name) {
		server.RespondWithError(c, errors.KeyNotFound(name))
		return
	}

	if err := h.registry.Delete(name); err != nil && !errors.HasCode(err, errors.ErrCodeKeyNotFound) {
		server.RespondWithError(c, err)
		return
	}
	p, err := h.registry.Resolve(name)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if _, err := p.Await(c.Request.Context()); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if log, err := h.Log.Await(c.Request.Context()); err == nil {
		log.WithContext(c.Request.Context()).Info("Dependency refreshed", logger.Fields(logger.FieldDependency, name))
	}
	server.RespondOKWithMeta(c, gin.H{"refreshed": true}, &server.Meta{
		Dependency: name,
		State:      p.State().String(),
		RequestID:  logger.RequestIDFromContext(c.Request.Context()),
	})
}
