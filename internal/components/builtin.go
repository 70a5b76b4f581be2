package components

import (
	"errors"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// BuiltInDefinitions returns the template components shipped with mdxcraft.
func BuiltInDefinitions() []interfaces.ComponentDefinition {
	return []interfaces.ComponentDefinition{
		calloutDefinition(),
		cardDefinition(),
		figureDefinition(),
		youTubeDefinition(),
	}
}

// RegisterBuiltIns adds the built-in catalogue to registry. Names already
// taken are left alone so callers can override a built-in by registering
// first.
func RegisterBuiltIns(registry interfaces.ComponentRegistry) error {
	for _, def := range BuiltInDefinitions() {
		if err := registry.Register(def); err != nil && !errors.Is(err, ErrDuplicateDefinition) {
			return err
		}
	}
	return nil
}

func calloutDefinition() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Name:        "Callout",
		Description: "Highlighted aside for notes and warnings",
		Category:    "content",
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":  map[string]any{"enum": []any{"info", "note", "tip", "warning", "danger"}},
				"title": map[string]any{"type": "string"},
			},
		},
		Template: `<aside class="callout callout-{{ or .type "info" }}" role="note">
{{- with .title }}<p class="callout-title">{{ . }}</p>{{ end -}}
<div class="callout-body">{{ .Children }}</div></aside>`,
	}
}

func cardDefinition() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Name:        "Card",
		Description: "Bordered card with optional link",
		Category:    "layout",
		PropsSchema: map[string]any{
			"type":     "object",
			"required": []any{"title"},
			"properties": map[string]any{
				"title": map[string]any{"type": "string", "minLength": 1},
				"href":  map[string]any{"type": "string"},
			},
		},
		Template: `<div class="card">
{{- if .href }}<a class="card-title" href="{{ .href }}">{{ .title }}</a>{{ else }}<p class="card-title">{{ .title }}</p>{{ end -}}
<div class="card-body">{{ .Children }}</div></div>`,
	}
}

func figureDefinition() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Name:        "Figure",
		Description: "Image figure with caption support",
		Category:    "media",
		PropsSchema: map[string]any{
			"type":     "object",
			"required": []any{"src"},
			"properties": map[string]any{
				"src":     map[string]any{"type": "string", "minLength": 1},
				"alt":     map[string]any{"type": "string"},
				"caption": map[string]any{"type": "string"},
			},
		},
		Template: `<figure class="figure"><img src="{{ .src }}" alt="{{ or .alt "" }}" loading="lazy">
{{- with .caption }}<figcaption>{{ . }}</figcaption>{{ end }}</figure>`,
	}
}

func youTubeDefinition() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Name:        "YouTube",
		Description: "Embeds a responsive YouTube iframe player",
		Category:    "media",
		PropsSchema: map[string]any{
			"type":     "object",
			"required": []any{"id"},
			"properties": map[string]any{
				"id":    map[string]any{"type": "string", "pattern": "^[A-Za-z0-9_-]{6,20}$"},
				"start": map[string]any{"type": "integer", "minimum": 0},
			},
		},
		Template: `<div class="youtube"><iframe src="https://www.youtube.com/embed/{{ .id }}{{ with .start }}?start={{ . }}{{ end }}" title="YouTube video" loading="lazy" allowfullscreen></iframe></div>`,
	}
}
