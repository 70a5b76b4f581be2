package mdx

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/goliatone/go-mdxcraft/internal/compiler"
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/pkg/hast"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

const placeholderClass = "mdx-render-error"

// componentRenderer binds component tags of a cached artifact to the live
// component map of one request. The artifact tree is only read.
type componentRenderer struct {
	ctx        context.Context
	components map[string]interfaces.Component
	folded     map[string]interfaces.Component
	strict     bool
	logger     interfaces.Logger
	metrics    interfaces.CompileMetrics
}

func (s *Service) render(ctx context.Context, logger interfaces.Logger, artifact *compiler.Artifact, components map[string]interfaces.Component) (*interfaces.Rendered, error) {
	r := &componentRenderer{
		ctx:        ctx,
		components: components,
		folded:     make(map[string]interfaces.Component, len(components)),
		strict:     s.strict,
		logger:     logger,
		metrics:    s.metrics,
	}
	for name, component := range components {
		r.folded[strings.ToLower(name)] = component
	}

	var buf strings.Builder
	if err := hast.RenderWithHook(&buf, artifact.Tree, r.element); err != nil {
		return nil, err
	}
	return &interfaces.Rendered{HTML: template.HTML(buf.String())}, nil
}

func (r *componentRenderer) lookup(name string) (interfaces.Component, bool) {
	if component, ok := r.components[name]; ok && component != nil {
		return component, true
	}
	component, ok := r.folded[strings.ToLower(name)]
	return component, ok && component != nil
}

func (r *componentRenderer) element(w io.Writer, n *hast.Node) (bool, error) {
	if !n.IsComponent() {
		return false, nil
	}

	component, ok := r.lookup(n.Tag)
	if !ok {
		return true, r.fail(w, n.Tag, ErrUnknownComponent)
	}

	var inner strings.Builder
	children := &hast.Node{Type: hast.RootNode, Children: n.Children}
	if err := hast.RenderWithHook(&inner, children, r.element); err != nil {
		return true, err
	}

	out, err := invoke(r.ctx, component, decodeProps(n.Attrs), template.HTML(inner.String()))
	if err != nil {
		return true, r.fail(w, n.Tag, err)
	}
	_, err = io.WriteString(w, string(out))
	return true, err
}

// fail records a component failure. In strict mode the failure aborts the
// render, otherwise a placeholder takes the component's place.
func (r *componentRenderer) fail(w io.Writer, name string, cause error) error {
	renderErr := &RenderError{Component: name, Err: cause}
	r.metrics.IncrementRenderError(name)
	logging.WithFields(logging.WithComponent(r.logger, name), map[string]any{
		"error":  cause,
		"strict": r.strict,
	}).Warn("mdx.render.component_failed")

	if r.strict {
		return renderErr
	}
	_, err := io.WriteString(w, Placeholder(renderErr))
	return err
}

// Placeholder renders the diagnostic node substituted for a failed component.
func Placeholder(err *RenderError) string {
	return fmt.Sprintf(`<div class="%s" role="alert" data-component="%s"><strong>%s</strong>: %s</div>`,
		placeholderClass,
		html.EscapeString(err.Component),
		html.EscapeString(err.Component),
		html.EscapeString(err.Err.Error()),
	)
}

func invoke(ctx context.Context, component interfaces.Component, props interfaces.Props, children template.HTML) (out template.HTML, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			out = ""
			err = fmt.Errorf("%w: %v", ErrComponentPanic, recovered)
		}
	}()
	return component.Render(ctx, props, children)
}

// decodeProps turns element attributes into props. Expression values such as
// {3} or {["a","b"]} are decoded as JSON, falling back to the bare expression
// text. Attributes without a value become true.
func decodeProps(attrs []hast.Attribute) interfaces.Props {
	props := make(interfaces.Props, len(attrs))
	for _, attr := range attrs {
		props[attr.Key] = decodeProp(attr.Val)
	}
	return props
}

func decodeProp(raw string) any {
	if raw == "" {
		return true
	}
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return raw
	}
	expr := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	var value any
	if err := json.Unmarshal([]byte(expr), &value); err == nil {
		return value
	}
	return expr
}
