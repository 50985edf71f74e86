package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/dirge/component"
	"github.com/kbukum/dirge/di"
)

// InfrastructureInfo holds what a Describable component reported about itself.
type InfrastructureInfo struct {
	Name    string
	Type    string // "di", "server"
	Details string
	Port    int
}

// RouteInfo represents a registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo
	out             io.Writer
}

// NewSummary creates a new bootstrap summary tracker writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         os.Stdout,
	}
}

// SetOutput redirects the summary display.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure adds an infrastructure entry by hand.
func (s *Summary) TrackInfrastructure(name, componentType, details string, port int) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{
		Name:    name,
		Type:    componentType,
		Details: details,
		Port:    port,
	})
}

// TrackRoute records an HTTP route by hand.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// collect picks up descriptions and routes from registered components.
func (s *Summary) collect(components *component.Registry) ([]InfrastructureInfo, []RouteInfo) {
	infra := append([]InfrastructureInfo(nil), s.infrastructure...)
	routes := append([]RouteInfo(nil), s.routes...)
	if components == nil {
		return infra, routes
	}
	for _, c := range components.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			name := desc.Name
			if name == "" {
				name = c.Name()
			}
			infra = append(infra, InfrastructureInfo{Name: name, Type: desc.Type, Details: desc.Details, Port: desc.Port})
		}
		if rp, ok := c.(component.RouteProvider); ok {
			for _, r := range rp.Routes() {
				routes = append(routes, RouteInfo{Method: r.Method, Path: r.Path, Handler: r.Handler})
			}
		}
	}
	return infra, routes
}

// DisplaySummary prints the bootstrap summary, the dependency table and
// live health from the component registry. Either registry may be nil.
func (s *Summary) DisplaySummary(components *component.Registry, registry *di.Registry) {
	w := s.out
	infra, routes := s.collect(components)

	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(infra) > 0 {
		fmt.Fprintf(w, "📊 Infrastructure\n")
		for i, inf := range infra {
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(infra)), inf.Name, inf.Type, details)
		}
		fmt.Fprintf(w, "\n")
	}

	if registry != nil {
		regs := registry.Registrations()
		fmt.Fprintf(w, "🔗 Dependencies (%d)\n", len(regs))
		if len(regs) == 0 {
			fmt.Fprintf(w, "   └── none registered\n")
		}
		for i, reg := range regs {
			kind := "factory"
			if !reg.HasFactory {
				kind = "assigned"
			}
			fmt.Fprintf(w, "   %s %s %s (%s, %s)\n", treePrefix(i, len(regs)), stateIcon(reg.State), reg.Key, kind, reg.State)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
		fmt.Fprintf(w, "\n")
	}

	if components != nil {
		results := components.HealthAll(context.Background())
		if len(results) > 0 {
			fmt.Fprintf(w, "🏥 Health Check\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(results)), healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
			}
			fmt.Fprintf(w, "\n")
		}
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func stateIcon(s di.State) string {
	switch s {
	case di.StateResolved:
		return "✅"
	case di.StatePending:
		return "⏳"
	case di.StateFailed:
		return "❌"
	default:
		return "⚡"
	}
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
