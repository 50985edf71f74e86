package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError carrying the same code, so package-level
// sentinels work with errors.Is regardless of message or details.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Registry errors ---

// KeyNotFound reports a name with no entry in the table being addressed.
func KeyNotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeKeyNotFound, Message: fmt.Sprintf("No dependency is registered under %q.", name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"name": name},
	}
}

// AttributeNotFound is the injection-handle form of KeyNotFound.
func AttributeNotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeAttributeNotFound, Message: fmt.Sprintf("Dependency attribute %q is not available.", name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"name": name},
	}
}

// InvalidName reports a value that cannot be turned into a dependency name.
func InvalidName(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidName, Message: fmt.Sprintf("Invalid dependency name: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// TypeMismatch reports a resolved dependency whose type differs from the requested one.
func TypeMismatch(name, want, got string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("Dependency %q is %s, expected %s.", name, got, want),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"name": name, "expected": want, "actual": got},
	}
}

// FactoryPanic converts a recovered panic into an error.
func FactoryPanic(name string, recovered any) *AppError {
	return &AppError{
		Code: ErrCodeFactoryPanic, Message: fmt.Sprintf("Factory for %q panicked: %v", name, recovered),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"name": name},
	}
}

// Canceled reports that the caller gave up waiting.
func Canceled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "Waiting for the dependency was canceled.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
	}
}

// Closed reports an operation on a registry that has been closed.
func Closed() *AppError {
	return &AppError{
		Code: ErrCodeClosed, Message: "The dependency registry has been closed.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false,
	}
}

// --- Common Error Constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
