package server

import (
	"context"
	"fmt"

	"github.com/kbukum/dirge/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component adapts a Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent returns a component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name implements component.Component.
func (sc *Component) Name() string { return componentName }

// Server returns the wrapped server.
func (sc *Component) Server() *Server { return sc.server }

// Start implements component.Component.
func (sc *Component) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop implements component.Component.
func (sc *Component) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports healthy while the listener is bound.
func (sc *Component) Health(ctx context.Context) component.Health {
	if sc.server.Serving() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "not serving",
	}
}

// Describe implements component.Describable.
func (sc *Component) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s h2c", sc.server.Addr()),
		Port:    cfg.Port,
	}
}

// Routes implements component.RouteProvider.
func (sc *Component) Routes() []component.Route {
	return sc.server.Routes()
}
