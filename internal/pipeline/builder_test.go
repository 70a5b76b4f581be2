package pipeline

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/goliatone/go-mdxcraft/pkg/hast"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

func allOn() Options {
	return Options{
		StructuralExtensions: true,
		MathNotation:         true,
		Frontmatter:          FrontmatterOptions{Enabled: true},
		WikiLinks:            WikiLinkOptions{Enabled: true},
		CustomDirectives:     true,
		InlineMarkers:        true,
		EmojiShortcodes:      true,
		ReadingTime:          true,
		HeadingIDSlugs:       true,
		AutolinkHeadings:     AutolinkOptions{Enabled: true},
		SyntaxHighlighting: HighlightOptions{Enabled: true, Highlighter: HighlighterFunc(
			func(context.Context, string, string, string) (string, error) { return "", nil },
		)},
		HTMLSanitization:  true,
		HeadingExtraction: HeadingExtractionOptions{Enabled: true},
	}
}

func indexOf(t *testing.T, names []string, name string) int {
	t.Helper()
	i := slices.Index(names, name)
	if i < 0 {
		t.Fatalf("expected %q in %v", name, names)
	}
	return i
}

func TestBuildOrderingRules(t *testing.T) {
	p := Build(allOn())
	names := p.Names()

	if indexOf(t, names, NameFrontmatter) > indexOf(t, names, NameStructural) {
		t.Fatalf("frontmatter must run before structural extensions: %v", names)
	}
	if indexOf(t, names, NameHeadingIDs) > indexOf(t, names, NameAutolinkHeadings) {
		t.Fatalf("heading ids must run before autolink: %v", names)
	}
	if indexOf(t, names, NameHighlight) < indexOf(t, names, NameAutolinkHeadings) {
		t.Fatalf("highlight must run after autolink: %v", names)
	}
	if names[len(names)-1] != NameSanitize {
		t.Fatalf("sanitize must be last: %v", names)
	}
	if p.PreParse[0].Name() != NameFrontmatter {
		t.Fatalf("frontmatter must be the first pre-parse transform: %v", names)
	}
}

func TestBuildHeadingExtractionWithCollectorOnly(t *testing.T) {
	p := Build(Options{
		LineBreaksOnDoubleNewlineOnly: true,
		HeadingExtraction: HeadingExtractionOptions{
			Collector: interfaces.HeadingCollectorFunc(func(interfaces.Heading) {}),
		},
	})
	if names := p.Names(); len(names) != 1 || names[0] != NameHeadingExtraction {
		t.Fatalf("expected only heading extraction, got %v", names)
	}
}

func TestBuildSyncOmitsHighlighting(t *testing.T) {
	full := Build(allOn())
	sync := BuildSync(allOn())

	if !slices.Contains(full.Names(), NameHighlight) {
		t.Fatalf("expected full pipeline to highlight")
	}
	if slices.Contains(sync.Names(), NameHighlight) {
		t.Fatalf("sync pipeline must not highlight: %v", sync.Names())
	}
	if len(sync.PreParse) != len(full.PreParse) {
		t.Fatalf("sync pipeline must keep pre-parse transforms")
	}
	if sync.Names()[len(sync.Names())-1] != NameSanitize {
		t.Fatalf("sanitize must stay last in sync pipeline")
	}
}

type namedPost string

func (n namedPost) Name() string { return string(n) }

func (namedPost) TransformTree(context.Context, *hast.Node, *interfaces.DocumentData) error {
	return nil
}

func TestMergeKeepsSanitizeLast(t *testing.T) {
	base := Build(Options{LineBreaksOnDoubleNewlineOnly: true, HeadingIDSlugs: true, HTMLSanitization: true})
	merged := Merge(base, []interfaces.PreParseTransform{NewMath()}, []interfaces.PostParseTransform{namedPost("custom")})

	want := []string{NameMath, NameHeadingIDs, "custom", NameSanitize}
	if got := merged.Names(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(base.PostParse) != 2 {
		t.Fatalf("Merge must not mutate the base pipeline")
	}
}

func TestMergeWithoutSanitizeAppends(t *testing.T) {
	base := Build(Options{LineBreaksOnDoubleNewlineOnly: true, HeadingIDSlugs: true})
	merged := Merge(base, nil, []interfaces.PostParseTransform{namedPost("custom")})
	if got := merged.Names(); !slices.Equal(got, []string{NameHeadingIDs, "custom"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestPresetsDifferOnlyInFlags(t *testing.T) {
	for _, name := range []string{PresetMinimal, PresetDefault, PresetBlog, PresetDocs} {
		opts, ok := Preset(name)
		if !ok {
			t.Fatalf("expected preset %q", name)
		}
		names := Build(opts).Names()
		if names[len(names)-1] != NameSanitize {
			t.Fatalf("preset %q must sanitize last: %v", name, names)
		}
	}
	if _, ok := Preset("unknown"); ok {
		t.Fatal("expected unknown preset to be rejected")
	}

	docs := Build(DocsOptimized()).Names()
	for _, name := range []string{NameMath, NameWikiLinks, NameDirectives} {
		indexOf(t, docs, name)
	}
	blog := Build(BlogOptimized()).Names()
	for _, name := range []string{NameEmoji, NameReadingTime, NameHardBreaks} {
		indexOf(t, blog, name)
	}
}

func TestFingerprint(t *testing.T) {
	if got := Fingerprint("default", 1, 0); got != "default:1:0" {
		t.Fatalf("unexpected fingerprint: %q", got)
	}
	if Fingerprint("default", 1, 0) == Fingerprint("default", 0, 1) {
		t.Fatal("pre and post counts must be distinguished")
	}
}

func TestSluggerDeduplicates(t *testing.T) {
	s := NewSlugger()
	got := []string{s.Slug("Intro"), s.Slug("Intro"), s.Slug("Intro 1"), s.Slug("Intro")}
	want := []string{"intro", "intro-1", "intro-1-1", "intro-2"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEstimateReadingTime(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 200: 1, 201: 2, 450: 3}
	for words, minutes := range cases {
		if got := EstimateReadingTime(words); got.Minutes != minutes || got.Words != words {
			t.Fatalf("EstimateReadingTime(%d) = %+v, want %d minutes", words, got, minutes)
		}
	}
}

func TestSlugResolver(t *testing.T) {
	resolve := SlugResolver("/docs")
	if got := resolve("Getting Started#Install Steps"); got != "/docs/getting-started#install-steps" {
		t.Fatalf("unexpected href: %q", got)
	}
	if got := resolve("#Local"); got != "#local" {
		t.Fatalf("unexpected fragment-only href: %q", got)
	}
}

func TestDirectivesSkipCodeFences(t *testing.T) {
	src := "```\n:::note\n```\n:::note\nbody"
	out, err := directivesTransform{}.TransformSource([]byte(src), nil)
	if err != nil {
		t.Fatalf("TransformSource returned error: %v", err)
	}
	got := string(out)
	if strings.Count(got, "<aside") != 1 {
		t.Fatalf("expected one directive outside the fence, got %q", got)
	}
	if !strings.HasSuffix(got, "</aside>") {
		t.Fatalf("expected unclosed directive to be closed, got %q", got)
	}
}
