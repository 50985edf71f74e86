// Package component defines lifecycle-managed parts of a dirge
// application.
//
// Components are started in registration order and stopped in reverse by
// a Registry. The bootstrap package registers the dependency registry and
// the HTTP server as components.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: startup summary descriptions
//   - RouteProvider: HTTP routes for the startup summary
package component
