package components

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// childrenKey is the template field carrying the rendered inner content.
const childrenKey = "Children"

// NewTemplateComponent parses source as an html/template and returns a
// Component executing it with the props plus .Children.
func NewTemplateComponent(name, source string) (interfaces.Component, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: component %q template: %v", ErrInvalidDefinition, name, err)
	}
	return &templateComponent{tmpl: tmpl}, nil
}

type templateComponent struct {
	tmpl *template.Template
}

func (c *templateComponent) Render(ctx context.Context, props interfaces.Props, children template.HTML) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data := make(map[string]any, len(props)+1)
	maps.Copy(data, props)
	data[childrenKey] = children

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", c.tmpl.Name(), err)
	}
	return template.HTML(buf.String()), nil
}

// validatingComponent enforces the props schema before delegating.
type validatingComponent struct {
	name   string
	inner  interfaces.Component
	schema *jsonschema.Schema
}

func (c *validatingComponent) Render(ctx context.Context, props interfaces.Props, children template.HTML) (template.HTML, error) {
	if err := validateProps(c.name, c.schema, props); err != nil {
		return "", err
	}
	return c.inner.Render(ctx, props, children)
}
