package components

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateDefinition indicates an attempt to register a component name twice.
	ErrDuplicateDefinition = errors.New("components: duplicate definition")
	// ErrInvalidDefinition occurs when a definition fails validation.
	ErrInvalidDefinition = errors.New("components: invalid definition")
	// ErrPropsValidation indicates props rejected by the component schema.
	ErrPropsValidation = errors.New("components: props validation failed")
)

// PropsIssue is a single schema violation.
type PropsIssue struct {
	Location string
	Message  string
}

// PropsError lists the schema violations of one component invocation.
type PropsError struct {
	Component string
	Issues    []PropsIssue
}

func (e *PropsError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s", e.Component, ErrPropsValidation.Error())
	}
	return fmt.Sprintf("%s props invalid: %s", e.Component, strings.Join(parts, "; "))
}

func (e *PropsError) Unwrap() error {
	return ErrPropsValidation
}
