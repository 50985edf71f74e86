package server

import (
	"sort"
	"strings"

	"github.com/kbukum/dirge/component"
)

// Paths registered by RegisterDefaultEndpoints.
var systemPaths = map[string]bool{
	"/health":       true,
	"/ready":        true,
	"/info":         true,
	"/dependencies": true,
}

// Routes lists the gin routes with application routes first, sorted by
// path then method. System routes are marked with ⚙️.
func (s *Server) Routes() []component.Route {
	ginRoutes := s.engine.Routes()

	sort.Slice(ginRoutes, func(i, j int) bool {
		iSys := systemPaths[ginRoutes[i].Path]
		jSys := systemPaths[ginRoutes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return methodOrder(ginRoutes[i].Method) < methodOrder(ginRoutes[j].Method)
	})

	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		handler := formatHandlerName(r.Handler)
		if systemPaths[r.Path] {
			handler += " ⚙️"
		}
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: handler,
		})
	}
	return routes
}

// formatHandlerName shortens gin's handler names:
//
//	github.com/kbukum/dirge/cmd/dirge-demo.(*handlers).clock-fm → handlers.clock
//	github.com/kbukum/dirge/server/endpoint.Health.func1       → health
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")

	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	// drop the package qualifier
	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		name = rest
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
