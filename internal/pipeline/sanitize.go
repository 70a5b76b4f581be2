package pipeline

import (
	"context"
	"net/url"
	"strings"

	"github.com/goliatone/go-mdxcraft/pkg/hast"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

var blockedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"iframe":   {},
	"object":   {},
	"embed":    {},
	"frame":    {},
	"frameset": {},
	"base":     {},
	"meta":     {},
	"link":     {},
}

var urlAttributes = map[string]struct{}{
	"href":       {},
	"src":        {},
	"action":     {},
	"formaction": {},
	"poster":     {},
	"xlink:href": {},
}

// Sanitizer is a conservative tree sanitizer: it drops executable elements
// and comments, inline event handlers and URLs with schemes outside the
// allow list. Component tags are left for the renderer.
type Sanitizer struct {
	allowedSchemes map[string]struct{}
}

// NewSanitizer returns a sanitizer allowing http, https, mailto, tel and
// relative URLs.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		allowedSchemes: map[string]struct{}{
			"http":   {},
			"https":  {},
			"mailto": {},
			"tel":    {},
			"":       {},
		},
	}
}

// NewSanitize returns the sanitization transform. It must run last.
func NewSanitize() interfaces.PostParseTransform {
	return NewSanitizer()
}

func (s *Sanitizer) Name() string { return NameSanitize }

func (s *Sanitizer) TransformTree(_ context.Context, root *hast.Node, _ *interfaces.DocumentData) error {
	hast.Filter(root, func(n *hast.Node) bool {
		switch n.Type {
		case hast.CommentNode:
			return true
		case hast.ElementNode:
			if n.IsComponent() {
				s.cleanAttributes(n)
				return false
			}
			if _, blocked := blockedElements[strings.ToLower(n.Tag)]; blocked {
				return true
			}
			s.cleanAttributes(n)
		}
		return false
	})
	return nil
}

func (s *Sanitizer) cleanAttributes(n *hast.Node) {
	kept := n.Attrs[:0]
	for _, attr := range n.Attrs {
		key := strings.ToLower(attr.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if _, isURL := urlAttributes[key]; isURL && !s.AllowedURL(attr.Val) {
			continue
		}
		kept = append(kept, attr)
	}
	n.Attrs = kept
}

// AllowedURL reports whether raw parses and uses an allowed scheme.
func (s *Sanitizer) AllowedURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	_, ok := s.allowedSchemes[strings.ToLower(parsed.Scheme)]
	return ok
}
