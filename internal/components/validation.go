package components

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// Validator checks definitions and compiles their props schemas.
type Validator struct{}

// NewValidator returns a Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition ensures the definition has a JSX tag name, an
// implementation and a compilable props schema.
func (v *Validator) ValidateDefinition(def interfaces.ComponentDefinition) error {
	_, err := v.compile(def)
	return err
}

func (v *Validator) compile(def interfaces.ComponentDefinition) (*jsonschema.Schema, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if first, _ := utf8.DecodeRuneInString(name); !unicode.IsUpper(first) {
		return nil, fmt.Errorf("%w: component %q must start with an uppercase letter", ErrInvalidDefinition, name)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return nil, fmt.Errorf("%w: component %q has invalid character %q", ErrInvalidDefinition, name, r)
		}
	}
	if def.Component == nil && strings.TrimSpace(def.Template) == "" {
		return nil, fmt.Errorf("%w: component %q needs an implementation or template", ErrInvalidDefinition, name)
	}
	if len(def.PropsSchema) == 0 {
		return nil, nil
	}
	schema, err := compileSchema(name, def.PropsSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: component %q schema: %v", ErrInvalidDefinition, name, err)
	}
	return schema, nil
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	resource := name + ".schema.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

// validateProps checks props against schema. Props are normalised through JSON
// first so Go numeric types validate like decoded attribute values.
func validateProps(component string, schema *jsonschema.Schema, props interfaces.Props) error {
	if schema == nil {
		return nil
	}
	if props == nil {
		props = interfaces.Props{}
	}
	encoded, err := json.Marshal(props)
	if err != nil {
		return &PropsError{Component: component, Issues: []PropsIssue{{Message: err.Error()}}}
	}
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return &PropsError{Component: component, Issues: []PropsIssue{{Message: err.Error()}}}
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return &PropsError{Component: component, Issues: collectIssues(validationErr)}
	}
	return &PropsError{Component: component, Issues: []PropsIssue{{Message: err.Error()}}}
}

func collectIssues(err *jsonschema.ValidationError) []PropsIssue {
	var issues []PropsIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, PropsIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
