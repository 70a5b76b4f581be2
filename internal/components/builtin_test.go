package components

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

func TestBuiltInDefinitions(t *testing.T) {
	reg := NewRegistry(NewValidator())
	if err := RegisterBuiltIns(reg); err != nil {
		t.Fatalf("RegisterBuiltIns: %v", err)
	}
	for _, name := range []string{"Callout", "Card", "Figure", "YouTube"} {
		if _, ok := reg.Get(name); !ok {
			t.Fatalf("%s definition not registered", name)
		}
	}

	// a second pass keeps existing registrations
	if err := RegisterBuiltIns(reg); err != nil {
		t.Fatalf("RegisterBuiltIns twice: %v", err)
	}
}

func TestRegisterBuiltInsKeepsOverrides(t *testing.T) {
	reg := NewRegistry(NewValidator())
	custom := interfaces.ComponentDefinition{Name: "Callout", Component: staticComponent("<div>custom</div>")}
	if err := reg.Register(custom); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := RegisterBuiltIns(reg); err != nil {
		t.Fatalf("RegisterBuiltIns: %v", err)
	}
	component, _ := reg.Component("Callout")
	out, err := component.Render(context.Background(), nil, "")
	if err != nil || out != "<div>custom</div>" {
		t.Fatalf("expected override to win, got %q (%v)", out, err)
	}
}

func renderBuiltIn(t *testing.T, name string, props interfaces.Props, children template.HTML) (string, error) {
	t.Helper()
	reg := NewRegistry(NewValidator())
	if err := RegisterBuiltIns(reg); err != nil {
		t.Fatalf("RegisterBuiltIns: %v", err)
	}
	component, ok := reg.Component(name)
	if !ok {
		t.Fatalf("missing built-in %s", name)
	}
	out, err := component.Render(context.Background(), props, children)
	return string(out), err
}

func TestCalloutTemplate(t *testing.T) {
	out, err := renderBuiltIn(t, "Callout", interfaces.Props{"type": "warning", "title": "Careful <now>"}, "<p>body</p>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`callout-warning`, `Careful &lt;now&gt;`, `<p>body</p>`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}

	out, err = renderBuiltIn(t, "Callout", nil, "x")
	if err != nil || !strings.Contains(out, "callout-info") || strings.Contains(out, "callout-title") {
		t.Fatalf("expected default callout, got %s (%v)", out, err)
	}

	if _, err := renderBuiltIn(t, "Callout", interfaces.Props{"type": "loud"}, ""); !errors.Is(err, ErrPropsValidation) {
		t.Fatalf("expected enum violation, got %v", err)
	}
}

func TestCardEscapesUnsafeHref(t *testing.T) {
	out, err := renderBuiltIn(t, "Card", interfaces.Props{"title": "Docs", "href": "javascript:alert(1)"}, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "javascript:") {
		t.Fatalf("unsafe href survived: %s", out)
	}
}

func TestYouTubeTemplate(t *testing.T) {
	out, err := renderBuiltIn(t, "YouTube", interfaces.Props{"id": "dQw4w9WgXcQ", "start": float64(42)}, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "embed/dQw4w9WgXcQ?start=42") {
		t.Fatalf("unexpected embed: %s", out)
	}
	if _, err := renderBuiltIn(t, "YouTube", interfaces.Props{"id": "bad id!"}, ""); !errors.Is(err, ErrPropsValidation) {
		t.Fatalf("expected pattern violation, got %v", err)
	}
}

func TestFigureRequiresSource(t *testing.T) {
	if _, err := renderBuiltIn(t, "Figure", interfaces.Props{"alt": "x"}, ""); !errors.Is(err, ErrPropsValidation) {
		t.Fatalf("expected missing src to fail, got %v", err)
	}
	out, err := renderBuiltIn(t, "Figure", interfaces.Props{"src": "/a.png", "caption": "A"}, "")
	if err != nil || !strings.Contains(out, `<figcaption>A</figcaption>`) {
		t.Fatalf("unexpected figure: %s (%v)", out, err)
	}
}
