package pipeline

import (
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// NewEmoji replaces :shortcode: emoji with their unicode characters.
func NewEmoji() interfaces.PreParseTransform {
	return &extenderTransform{name: NameEmoji, extenders: []goldmark.Extender{emoji.Emoji}}
}
