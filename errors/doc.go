// Package errors provides the structured error type shared by the registry,
// the injection handles and the demo HTTP surface. Every error carries a
// machine-readable code, an HTTP status mapping and a retryable flag.
package errors
