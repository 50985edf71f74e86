package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registry lookup errors
const (
	// ErrCodeKeyNotFound indicates no factory or instance exists for a name.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"
	// ErrCodeAttributeNotFound indicates an injection handle found nothing to resolve.
	ErrCodeAttributeNotFound ErrorCode = "ATTRIBUTE_NOT_FOUND"
	// ErrCodeInvalidName indicates a dependency name could not be derived.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"
	// ErrCodeTypeMismatch indicates a resolved value has an unexpected type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Construction errors
const (
	// ErrCodeFactoryPanic indicates a factory or wrapper panicked.
	ErrCodeFactoryPanic ErrorCode = "FACTORY_PANIC"
	// ErrCodeCanceled indicates the caller stopped waiting for a pending value.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeClosed indicates the registry was closed.
	ErrCodeClosed ErrorCode = "REGISTRY_CLOSED"
)

// Generic errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeCanceled:           true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
