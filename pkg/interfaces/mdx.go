package interfaces

import (
	"context"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"

	"github.com/goliatone/go-mdxcraft/pkg/hast"
)

// Props carries the attributes of a component tag. Expression attributes such
// as count={3} are decoded as JSON when possible and passed through as strings
// otherwise.
type Props map[string]any

// Component renders a custom MDX tag. Children holds the already rendered
// inner content of the tag.
type Component interface {
	Render(ctx context.Context, props Props, children template.HTML) (template.HTML, error)
}

// ComponentFunc adapts a function into a Component.
type ComponentFunc func(ctx context.Context, props Props, children template.HTML) (template.HTML, error)

// Render satisfies Component.
func (fn ComponentFunc) Render(ctx context.Context, props Props, children template.HTML) (template.HTML, error) {
	return fn(ctx, props, children)
}

// PreParseTransform extends the markdown engine before the parse step. It
// covers source-tree plugins: syntax extensions, AST transformers and renderer
// tweaks all hook in through goldmark.Extender.
type PreParseTransform interface {
	goldmark.Extender
	Name() string
}

// SourceTransform is an optional capability of a PreParseTransform that
// rewrites the raw source before it reaches the parser.
type SourceTransform interface {
	TransformSource(source []byte, doc *DocumentData) ([]byte, error)
}

// PostParseTransform rewrites the render tree produced by the parse step.
type PostParseTransform interface {
	Name() string
	TransformTree(ctx context.Context, root *hast.Node, doc *DocumentData) error
}

// AsyncTransform marks transforms that may block on external work (for example
// a remote highlighter). Synchronous compilation skips them.
type AsyncTransform interface {
	Async() bool
}

// IsAsync reports whether the transform declares asynchronous execution.
func IsAsync(transform any) bool {
	if async, ok := transform.(AsyncTransform); ok {
		return async.Async()
	}
	return false
}

// DocumentDataKey is the goldmark parser context key holding the *DocumentData
// of the document being parsed.
var DocumentDataKey = parser.NewContextKey()

// DocumentFromContext returns the DocumentData stored in a goldmark parser
// context, or nil.
func DocumentFromContext(pc parser.Context) *DocumentData {
	if pc == nil {
		return nil
	}
	doc, _ := pc.Get(DocumentDataKey).(*DocumentData)
	return doc
}

// DocumentData is the per-compilation side channel shared by transforms.
type DocumentData struct {
	Frontmatter map[string]any
	Headings    []Heading
	ReadingTime ReadingTime
	Development bool
}

// NewDocumentData returns an initialised DocumentData.
func NewDocumentData(development bool) *DocumentData {
	return &DocumentData{
		Frontmatter: map[string]any{},
		Development: development,
	}
}

// Heading describes a document heading collected for tables of contents.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// HeadingCollector receives headings in document order.
type HeadingCollector interface {
	CollectHeading(heading Heading)
}

// HeadingCollectorFunc adapts a function into a HeadingCollector.
type HeadingCollectorFunc func(Heading)

// CollectHeading satisfies HeadingCollector.
func (fn HeadingCollectorFunc) CollectHeading(heading Heading) {
	fn(heading)
}

// ReadingTime estimates how long a document takes to read.
type ReadingTime struct {
	Words   int `json:"words"`
	Minutes int `json:"minutes"`
}

// CompileRequest is the immutable input of a single compilation.
type CompileRequest struct {
	Source          string
	Components      map[string]Component
	PreParse        []PreParseTransform
	PostParse       []PostParseTransform
	DevelopmentMode bool
}

// ComponentNames returns the component tag names of the request.
func (r CompileRequest) ComponentNames() []string {
	names := make([]string, 0, len(r.Components))
	for name := range r.Components {
		names = append(names, name)
	}
	return names
}

// Rendered is the output of a successful compilation.
type Rendered struct {
	HTML template.HTML
}

// String returns the rendered markup.
func (r *Rendered) String() string {
	if r == nil {
		return ""
	}
	return string(r.HTML)
}

// CompileMetadata accompanies every CompilationResult.
type CompileMetadata struct {
	Duration       time.Duration  `json:"duration"`
	CacheHit       bool           `json:"cache_hit"`
	ComponentCount int            `json:"component_count"`
	Headings       []Heading      `json:"headings"`
	Frontmatter    map[string]any `json:"frontmatter,omitempty"`
	ReadingTime    ReadingTime    `json:"reading_time"`
	CacheKey       string         `json:"cache_key"`
}

// DurationMillis reports the compile duration in milliseconds.
func (m CompileMetadata) DurationMillis() int64 {
	return m.Duration.Milliseconds()
}

// CompilationResult is returned by every compile call. Output is nil whenever
// Error is set.
type CompilationResult struct {
	Output   *Rendered
	Metadata CompileMetadata
	Error    error
}

// OK reports whether the compilation succeeded.
func (r *CompilationResult) OK() bool {
	return r != nil && r.Error == nil && r.Output != nil
}

// CacheStats summarises a compilation cache.
type CacheStats struct {
	SizeBytes    int64   `json:"size_bytes"`
	EntryCount   int     `json:"entry_count"`
	MaxSizeBytes int64   `json:"max_size_bytes"`
	HitRate      float64 `json:"hit_rate"`
	Evictions    int64   `json:"evictions"`
}

// Compiler is the produced interface of the compilation service.
type Compiler interface {
	Compile(ctx context.Context, req CompileRequest) (*CompilationResult, error)
	CompileSync(req CompileRequest) (*CompilationResult, error)
	ClearCache()
	CacheStats() CacheStats
}

// CompileMetrics captures compilation telemetry.
type CompileMetrics interface {
	ObserveCompileDuration(duration time.Duration, cacheHit bool)
	IncrementCacheHit()
	IncrementCacheMiss()
	IncrementCompileError()
	IncrementRenderError(component string)
}
