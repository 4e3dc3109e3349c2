package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrProvider indicates a transport or provider-side failure
	ErrProvider = errors.New("provider error")

	// ErrSchemaViolation indicates a tool invocation that does not match the action schema
	ErrSchemaViolation = errors.New("schema violation")

	// ErrStreamIncomplete indicates the provider stream ended without a final message
	ErrStreamIncomplete = errors.New("stream ended without final response")

	// ErrUnknownTarget indicates an action addressed an element that does not exist yet
	ErrUnknownTarget = errors.New("unknown target")

	// ErrNotApplicable indicates an action is not applicable to the target element
	ErrNotApplicable = errors.New("action not applicable to target")

	// ErrInvalidArgument indicates an action argument has an unusable value
	ErrInvalidArgument = errors.New("invalid argument")
)
