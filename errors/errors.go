package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorClass partitions queue failures by how the caller should react.
type ErrorClass int

const (
	// ErrorTransient: the queue is still consistent, the operation may be
	// retried or simply logged (failed delete after delivery, busy storage).
	ErrorTransient ErrorClass = iota
	// ErrorInvalid: the input or configuration is wrong; retrying the same
	// call cannot succeed.
	ErrorInvalid
	// ErrorFatal: the operation must not be treated as done (failed
	// finalize rename, shutdown, exhausted disk).
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Queue lifecycle errors
	ErrShuttingDown = errors.New("queue is shutting down")

	// Durability errors
	ErrRenameFailed = errors.New("finalize rename failed")

	// Storage and filesystem errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageFull        = errors.New("storage full")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileExists         = errors.New("file already exists")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")
)

// sentinelClasses fixes the class of every sentinel above. Unlisted errors
// fall through to the unknown-error default in Classify.
var sentinelClasses = []struct {
	err   error
	class ErrorClass
}{
	{ErrStorageUnavailable, ErrorTransient},
	{context.DeadlineExceeded, ErrorTransient},
	{context.Canceled, ErrorTransient},

	{ErrFileNotFound, ErrorInvalid},
	{ErrFileExists, ErrorInvalid},
	{ErrInvalidConfig, ErrorInvalid},
	{ErrMissingConfig, ErrorInvalid},

	{ErrShuttingDown, ErrorFatal},
	{ErrRenameFailed, ErrorFatal},
	{ErrStorageFull, ErrorFatal},
}

// ClassifiedError is an error tagged with its class and the queue component
// and operation that produced it. It is created by the Wrap* helpers; the
// class survives any amount of further fmt.Errorf wrapping.
type ClassifiedError struct {
	Class     ErrorClass
	Component string
	Operation string
	action    string
	Err       error
}

// Error implements the error interface in the form
// "component.operation: action failed: cause".
func (ce *ClassifiedError) Error() string {
	return fmt.Sprintf("%s.%s: %s failed: %v", ce.Component, ce.Operation, ce.action, ce.Err)
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// Classify returns the error class for err. A wrapped ClassifiedError wins;
// otherwise the sentinel table decides. Anything unrecognized counts as
// transient so callers keep the option of retrying, and nil is transient
// for the same reason.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	for _, sc := range sentinelClasses {
		if errors.Is(err, sc.err) {
			return sc.class
		}
	}
	return ErrorTransient
}

// IsTransient reports whether err leaves the queue consistent and
// retryable.
func IsTransient(err error) bool {
	return err != nil && Classify(err) == ErrorTransient
}

// IsInvalid reports whether err is a bad-input or bad-configuration error.
func IsInvalid(err error) bool {
	return err != nil && Classify(err) == ErrorInvalid
}

// IsFatal reports whether err means the operation must not be considered
// done.
func IsFatal(err error) bool {
	return err != nil && Classify(err) == ErrorFatal
}

// Wrap annotates err with its origin, following the pattern
// "component.method: action failed: %w". The class of err, if it has one,
// is preserved through the wrap.
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// classify wraps err as a ClassifiedError with the given class and origin.
func classify(class ErrorClass, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Class:     class,
		Component: component,
		Operation: method,
		action:    action,
		Err:       err,
	}
}

// WrapTransient wraps err as transient with origin context.
func WrapTransient(err error, component, method, action string) error {
	return classify(ErrorTransient, err, component, method, action)
}

// WrapInvalid wraps err as invalid with origin context.
func WrapInvalid(err error, component, method, action string) error {
	return classify(ErrorInvalid, err, component, method, action)
}

// WrapFatal wraps err as fatal with origin context.
func WrapFatal(err error, component, method, action string) error {
	return classify(ErrorFatal, err, component, method, action)
}
