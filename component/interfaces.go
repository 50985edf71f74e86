package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of an application, such as the
// dependency registry or the HTTP server. Names must be unique within a
// Registry. Stop is called in reverse start order.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a component reports about itself in the startup
// summary. An empty Name falls back to the component's Name().
type Description struct {
	Name    string
	Type    string // "di", "server", ...
	Details string // e.g. "localhost:9753 h2c"
	Port    int    // 0 when not listening
}

// Describable components appear in the infrastructure block of the
// startup summary.
type Describable interface {
	Describe() Description
}

// Route is one HTTP route listed in the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by components that serve HTTP routes.
type RouteProvider interface {
	Routes() []Route
}
