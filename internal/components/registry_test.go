package components

import (
	"context"
	"errors"
	"html/template"
	"testing"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

type noopValidator struct{}

func (noopValidator) ValidateDefinition(interfaces.ComponentDefinition) error { return nil }

func staticComponent(out string) interfaces.Component {
	return interfaces.ComponentFunc(func(context.Context, interfaces.Props, template.HTML) (template.HTML, error) {
		return template.HTML(out), nil
	})
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry(NewValidator())

	def := interfaces.ComponentDefinition{Name: "Demo", Component: staticComponent("<b>demo</b>")}
	if err := registry.Register(def); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	got, ok := registry.Get("Demo")
	if !ok || got.Name != "Demo" {
		t.Fatalf("Get() expected Demo, got %+v (%v)", got, ok)
	}
	if _, ok := registry.Get("demo"); !ok {
		t.Fatal("Get() expected case-insensitive fallback")
	}
	if _, ok := registry.Get("Missing"); ok {
		t.Fatal("Get() expected miss for unknown component")
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	registry := NewRegistry(noopValidator{})

	def := interfaces.ComponentDefinition{Name: "Demo", Component: staticComponent("")}
	if err := registry.Register(def); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	def.Name = "DEMO"
	if err := registry.Register(def); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("Register() expected ErrDuplicateDefinition, got %v", err)
	}
}

func TestRegistry_InvalidDefinitions(t *testing.T) {
	cases := map[string]interfaces.ComponentDefinition{
		"empty name":     {Component: staticComponent("")},
		"lowercase name": {Name: "card", Component: staticComponent("")},
		"bad character":  {Name: "Card-Deck", Component: staticComponent("")},
		"no impl":        {Name: "Card"},
		"bad schema":     {Name: "Card", Component: staticComponent(""), PropsSchema: map[string]any{"type": 12}},
		"bad template":   {Name: "Card", Template: "{{ .title "},
	}
	for name, def := range cases {
		t.Run(name, func(t *testing.T) {
			registry := NewRegistry(NewValidator())
			if err := registry.Register(def); !errors.Is(err, ErrInvalidDefinition) {
				t.Fatalf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}

func TestRegistry_ListSortedAndRemove(t *testing.T) {
	registry := NewRegistry(noopValidator{})
	for _, name := range []string{"Beta", "Alpha", "Gamma"} {
		if err := registry.Register(interfaces.ComponentDefinition{Name: name, Component: staticComponent(name)}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	names := registry.Names()
	want := []string{"Alpha", "Beta", "Gamma"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() order mismatch at %d: got %s, want %s", i, names[i], want[i])
		}
	}

	registry.Remove("beta")
	registry.Remove("Unknown")
	if got := registry.Components(); len(got) != 2 || got["Beta"] != nil {
		t.Fatalf("expected Beta removed, got %v", got)
	}
	if err := registry.Register(interfaces.ComponentDefinition{Name: "Beta", Component: staticComponent("")}); err != nil {
		t.Fatalf("re-register after remove: %v", err)
	}
}

func TestRegistry_SchemaEnforcedAtRender(t *testing.T) {
	registry := NewRegistry(NewValidator())
	err := registry.Register(interfaces.ComponentDefinition{
		Name:      "Counter",
		Component: staticComponent("<span>ok</span>"),
		PropsSchema: map[string]any{
			"type":     "object",
			"required": []any{"count"},
			"properties": map[string]any{
				"count": map[string]any{"type": "integer", "minimum": 1},
			},
		},
	})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	component, ok := registry.Component("Counter")
	if !ok {
		t.Fatal("expected Counter component")
	}

	out, err := component.Render(context.Background(), interfaces.Props{"count": 3}, "")
	if err != nil || out != "<span>ok</span>" {
		t.Fatalf("expected valid render, got %q (%v)", out, err)
	}

	_, err = component.Render(context.Background(), interfaces.Props{"count": 0}, "")
	var propsErr *PropsError
	if !errors.As(err, &propsErr) || !errors.Is(err, ErrPropsValidation) {
		t.Fatalf("expected PropsError, got %v", err)
	}
	if len(propsErr.Issues) == 0 || propsErr.Issues[0].Location != "/count" {
		t.Fatalf("expected issue at /count, got %+v", propsErr.Issues)
	}

	if _, err := component.Render(context.Background(), nil, ""); !errors.Is(err, ErrPropsValidation) {
		t.Fatalf("expected missing prop to fail, got %v", err)
	}
}
