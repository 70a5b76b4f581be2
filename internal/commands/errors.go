package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by Handler.Execute.
const (
	CodeValidationFailed = "MDX_COMMAND_VALIDATION_FAILED"
	CodeCanceled         = "MDX_COMMAND_CANCELED"
	CodeTimeout          = "MDX_COMMAND_TIMEOUT"
	CodeContextError     = "MDX_COMMAND_CONTEXT_ERROR"
	CodeExecutionFailed  = "MDX_COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, CodeValidationFailed, "command validation failed")
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, CodeCanceled, "command cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, CodeTimeout, "command deadline exceeded")
	default:
		return wrap(err, goerrors.CategoryCommand, CodeContextError, "command context error")
	}
}

func wrapExecuteError(err error) error {
	if isContextError(err) {
		return wrapContextError(err)
	}
	return wrap(err, goerrors.CategoryCommand, CodeExecutionFailed, "command execution failed")
}

// wrap tags err unless an inner layer already categorised it.
func wrap(err error, category goerrors.Category, code, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
