package preprocess

import "testing"

func TestPreprocess(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "# Hello\n\nWorld",
			want: "# Hello\n\nWorld",
		},
		{
			name: "braces escaped outside code, inline code verbatim",
			in:   "Use {variable} and <tag> here `inline <code>`",
			want: "Use &#123;variable&#125; and <tag> here `inline <code>`",
		},
		{
			name: "comparison operators escaped",
			in:   "a < b and c > d",
			want: "a &lt; b and c &gt; d",
		},
		{
			name: "unterminated inline code escapes the rest",
			in:   "tick ` {x}",
			want: "tick ` &#123;x&#125;",
		},
		{
			name: "unicode passes through",
			in:   "héllo {ü} 日本",
			want: "héllo &#123;ü&#125; 日本",
		},
		{
			name: "component open tag bypasses escaping",
			in:   `<Callout type="info" data={1}>`,
			want: `<Callout type="info" data={1}>`,
		},
		{
			name: "multi-line tag tail bypasses escaping",
			in:   "  count={3} />",
			want: "  count={3} />",
		},
		{
			name: "unclosed expression escaped",
			in:   "{unclosed jsx",
			want: "&#123;unclosed jsx",
		},
		{
			name: "blockquote markers kept",
			in:   "> > quoted {b}",
			want: "> > quoted &#123;b&#125;",
		},
		{
			name: "frontmatter passes verbatim",
			in:   "---\ntitle: <x> {y}\n---\n{z}",
			want: "---\ntitle: <x> {y}\n---\n&#123;z&#125;",
		},
		{
			name: "toml frontmatter passes verbatim",
			in:   "+++\ntitle = \"{y}\"\n+++\n",
			want: "+++\ntitle = \"{y}\"\n+++\n",
		},
		{
			name: "longer tilde fence needs same or longer close",
			in:   "~~~~\n{x}\n~~~\nstill\n~~~~~\n{y}",
			want: "~~~~\n{x}\n~~~\nstill\n~~~~~\n&#123;y&#125;",
		},
		{
			name: "backtick fence not closed by tildes",
			in:   "```\n{a}\n~~~\n<b>\n```\n{c}",
			want: "```\n{a}\n~~~\n<b>\n```\n&#123;c&#125;",
		},
		{
			name: "indented fence",
			in:   "  ```go\n  if x < 1 {}\n  ```",
			want: "  ```go\n  if x < 1 {}\n  ```",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Preprocess(tc.in); got != tc.want {
				t.Fatalf("Preprocess(%q)\n got: %q\nwant: %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreprocessFencedBlockIsByteIdentical(t *testing.T) {
	blocks := []string{
		"```\n<div>{x}</div>\n> quoted\n```",
		"~~~js\nconst a = {b: '<x>'};\n~~~",
		"````md\n```\n{inner}\n```\n````",
	}
	for _, block := range blocks {
		if got := Preprocess(block); got != block {
			t.Fatalf("expected fenced block to be untouched\n got: %q\nwant: %q", got, block)
		}
	}
}

func TestPreprocessUnterminatedFenceKeepsRest(t *testing.T) {
	in := "```\n{a}\n<b>"
	if got := Preprocess(in); got != in {
		t.Fatalf("expected unterminated fence to pass through, got %q", got)
	}
}

func TestPreprocessIsDeterministic(t *testing.T) {
	in := "Some {x} and `y` <z\n```\n{}\n```"
	if Preprocess(in) != Preprocess(in) {
		t.Fatal("expected identical output for identical input")
	}
}

// Leading ">" markers keep their markdown blockquote meaning even though no
// tag character precedes them; only the text after the markers is escaped.
func TestPreprocessBlockquoteMarkersAreNotEscaped(t *testing.T) {
	cases := map[string]string{
		"> a > b":                "> a &gt; b",
		" > indented quote {z}":  " > indented quote &#123;z&#125;",
		">>nested < 3":           ">>nested &lt; 3",
		"not a quote > marker":   "not a quote &gt; marker",
		"> `inline > code` {ok}": "> `inline > code` &#123;ok&#125;",
	}
	for in, want := range cases {
		if got := Preprocess(in); got != want {
			t.Fatalf("Preprocess(%q)\n got: %q\nwant: %q", in, got, want)
		}
	}
}
