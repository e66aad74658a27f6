// Package errors provides structured error types for chronos.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a human-readable detail and the underlying cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
//		Detail("expected %d params, got %d", 0, 2).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ClockUnavailable(unix.EINVAL)
//	err := errors.NotFound(errors.PhaseRuntime, "export", "now")
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on Phase and Kind, so ErrClockUnavailable matches every
// clock failure regardless of its cause.
package errors
