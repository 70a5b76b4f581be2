package pipeline

import (
	"bytes"
	"fmt"
	"maps"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

var frontmatterFormats = map[string][]*frontmatter.Format{
	"yaml": {
		frontmatter.NewFormat("---", "---", yaml.Unmarshal),
		frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
	},
	"toml": {
		frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
		frontmatter.NewFormat("---toml", "---", toml.Unmarshal),
	},
}

type frontmatterTransform struct {
	formats []*frontmatter.Format
}

// NewFrontmatter strips a leading metadata block and stores its fields on the
// document. With no formats, YAML and TOML are accepted.
func NewFrontmatter(formats ...string) interfaces.PreParseTransform {
	if len(formats) == 0 {
		formats = []string{"yaml", "toml"}
	}
	t := &frontmatterTransform{}
	for _, name := range formats {
		t.formats = append(t.formats, frontmatterFormats[strings.ToLower(strings.TrimSpace(name))]...)
	}
	return t
}

func (t *frontmatterTransform) Name() string { return NameFrontmatter }

func (t *frontmatterTransform) Extend(goldmark.Markdown) {}

func (t *frontmatterTransform) TransformSource(source []byte, doc *interfaces.DocumentData) ([]byte, error) {
	if len(t.formats) == 0 {
		return source, nil
	}

	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, t.formats...)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if doc != nil && len(meta) > 0 {
		if doc.Frontmatter == nil {
			doc.Frontmatter = map[string]any{}
		}
		maps.Copy(doc.Frontmatter, meta)
	}
	return body, nil
}
