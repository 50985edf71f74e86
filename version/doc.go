// Package version reports build information for dirge binaries.
//
// Version, commit, branch and build time are set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/dirge/version.Version=1.0.0" ./cmd/dirge-demo
//
// Anything not set falls back to the VCS stamps embedded by the Go toolchain.
package version
