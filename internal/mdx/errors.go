package mdx

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	compileFailedCode  = "MDX_COMPILE_FAILED"
	compileTimeoutCode = "MDX_COMPILE_TIMEOUT"
	renderFailedCode   = "MDX_RENDER_FAILED"
)

var (
	// ErrUnknownComponent is reported when a component tag has no binding in
	// the request's component map.
	ErrUnknownComponent = errors.New("mdx: unknown component")
	// ErrComponentPanic wraps a panic recovered from a component.
	ErrComponentPanic = errors.New("mdx: component panicked")
)

// RenderError describes a component that failed while rendering compiled
// output.
type RenderError struct {
	Component string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Component, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func wrapCompileError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "mdx compilation deadline exceeded").
			WithTextCode(compileTimeoutCode)
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "mdx compilation failed").
		WithTextCode(compileFailedCode)
}

func wrapRenderError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "mdx render failed").
		WithTextCode(renderFailedCode)
}
