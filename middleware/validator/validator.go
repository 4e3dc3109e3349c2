package validator

import (
	"fmt"
	"strings"

	"github.com/sweetpotato0/uidraft/message"
	"github.com/sweetpotato0/uidraft/middleware"
	"github.com/sweetpotato0/uidraft/tokenizer"
)

// ValidatorFunc validates input
type ValidatorFunc func(string) error

// FilterFunc inspects the final response
type FilterFunc func(*message.Message) error

// NonEmpty rejects blank briefs
func NonEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("%w: brief is empty", middleware.ErrInvalidInput)
	}
	return nil
}

// MaxTokens rejects briefs longer than limit tokens as counted by counter.
// A non-positive limit disables the check.
func MaxTokens(counter tokenizer.Counter, limit int) ValidatorFunc {
	return func(input string) error {
		if limit <= 0 || counter == nil {
			return nil
		}
		if n := counter.CountTokens(input); n > limit {
			return fmt.Errorf("%w: brief has %d tokens, limit is %d", middleware.ErrInvalidInput, n, limit)
		}
		return nil
	}
}

// All combines validators, returning the first failure
func All(validators ...ValidatorFunc) ValidatorFunc {
	return func(input string) error {
		for _, v := range validators {
			if err := v(input); err != nil {
				return err
			}
		}
		return nil
	}
}

// InputValidator validates the brief before any provider call
type InputValidator struct {
	validator ValidatorFunc
}

// NewInputValidator creates an input validation middleware
func NewInputValidator(validator ValidatorFunc) *InputValidator {
	return &InputValidator{validator: validator}
}

// Name returns the middleware name
func (m *InputValidator) Name() string {
	return "InputValidator"
}

// Execute validates the input
func (m *InputValidator) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.validator != nil {
		if err := m.validator(ctx.Input); err != nil {
			return err
		}
	}
	return next(ctx)
}

// ResponseFilter checks the final response once the stream is drained
type ResponseFilter struct {
	filter FilterFunc
}

// NewResponseFilter creates a response filtering middleware
func NewResponseFilter(filter FilterFunc) *ResponseFilter {
	return &ResponseFilter{filter: filter}
}

// Name returns the middleware name
func (m *ResponseFilter) Name() string {
	return "ResponseFilter"
}

// Execute filters the response
func (m *ResponseFilter) Execute(ctx *middleware.Context, next middleware.Handler) error {
	err := next(ctx)
	if err != nil {
		return err
	}
	if ctx.Response != nil && m.filter != nil {
		return m.filter(ctx.Response)
	}
	return nil
}
