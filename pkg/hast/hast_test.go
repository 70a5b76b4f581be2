package hast

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseKeepsComponentCase(t *testing.T) {
	root, err := Parse(`<p>Intro</p><Callout type="info"><p>Body</p></Callout>`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(root.Children))
	}
	callout := root.Children[1]
	if callout.Tag != "Callout" || !callout.IsComponent() {
		t.Fatalf("expected Callout component, got %q", callout.Tag)
	}
	if v, _ := callout.Attr("type"); v != "info" {
		t.Fatalf("expected type=info, got %q", v)
	}
	if got := callout.TextContent(); got != "Body" {
		t.Fatalf("expected child text Body, got %q", got)
	}
}

func TestParseSelfClosingComponentIsLeaf(t *testing.T) {
	root := MustParse(`<YouTube id="abc" /><p>after</p>`)
	if len(root.Children) != 2 {
		t.Fatalf("expected self-closing tag to stay a leaf, got %d children", len(root.Children))
	}
	yt := root.Children[0]
	if !yt.SelfClosing || len(yt.Children) != 0 {
		t.Fatalf("expected self-closing leaf, got %+v", yt)
	}
	if got := String(root); got != `<YouTube id="abc" /><p>after</p>` {
		t.Fatalf("unexpected round trip: %s", got)
	}
}

func TestParseVoidElementsAndStrayEndTags(t *testing.T) {
	root := MustParse(`<p>a<br>b</div></p>`)
	if got := String(root); got != `<p>a<br>b</p>` {
		t.Fatalf("unexpected output: %s", got)
	}
}

func TestParseUnescapesTextAndAttributes(t *testing.T) {
	root := MustParse(`<p title="a &amp; b">&#123;x&#125; &lt;y&gt;</p>`)
	p := root.Children[0]
	if v, _ := p.Attr("title"); v != "a & b" {
		t.Fatalf("expected unescaped attribute, got %q", v)
	}
	if got := p.TextContent(); got != "{x} <y>" {
		t.Fatalf("expected unescaped text, got %q", got)
	}
	if got := String(root); got != `<p title="a &amp; b">{x} &lt;y&gt;</p>` {
		t.Fatalf("unexpected render: %s", got)
	}
}

func TestRenderKeepsScriptRaw(t *testing.T) {
	root := MustParse(`<script>if (a < b) {}</script>`)
	if got := String(root); got != `<script>if (a < b) {}</script>` {
		t.Fatalf("unexpected render: %s", got)
	}
}

func TestAttributeHelpers(t *testing.T) {
	n := NewElement("h2", nil, NewText("Title"))
	n.SetAttr("class", "anchor heading")
	n.SetAttr("id", "title")
	n.SetAttr("class", "heading")

	if !n.HasClass("heading") || n.HasClass("anchor") {
		t.Fatalf("unexpected classes: %+v", n.Attrs)
	}
	if !n.RemoveAttr("id") || n.RemoveAttr("id") {
		t.Fatal("expected RemoveAttr to report removal once")
	}
	if n.HeadingLevel() != 2 {
		t.Fatalf("expected heading level 2, got %d", n.HeadingLevel())
	}
}

func TestCloneIsDeep(t *testing.T) {
	root := MustParse(`<div class="a"><span>x</span></div>`)
	clone := root.Clone()
	clone.Children[0].SetAttr("class", "b")
	clone.Children[0].Children[0].Children[0].Data = "y"

	if got := String(root); got != `<div class="a"><span>x</span></div>` {
		t.Fatalf("original mutated: %s", got)
	}
}

func TestWalkAndFilter(t *testing.T) {
	root := MustParse(`<div><script>x</script><p>keep</p><style>y</style></div>`)
	Filter(root, func(n *Node) bool {
		return n.IsElement("script") || n.IsElement("style")
	})
	if got := String(root); got != `<div><p>keep</p></div>` {
		t.Fatalf("unexpected filtered output: %s", got)
	}

	var tags []string
	Walk(root, func(n *Node) WalkStatus {
		if n.Type == ElementNode {
			tags = append(tags, n.Tag)
			if n.Tag == "p" {
				return WalkStop
			}
		}
		return WalkContinue
	})
	if strings.Join(tags, ",") != "div,p" {
		t.Fatalf("unexpected walk order: %v", tags)
	}
}

func TestRenderWithHookReplacesComponents(t *testing.T) {
	root := MustParse(`<p>a <Badge label="x" /> b</p><Note><em>n</em></Note>`)

	var buf strings.Builder
	err := RenderWithHook(&buf, root, func(w io.Writer, n *Node) (bool, error) {
		if !n.IsComponent() {
			return false, nil
		}
		_, err := io.WriteString(w, "["+n.Tag+":"+n.TextContent()+"]")
		return true, err
	})
	if err != nil {
		t.Fatalf("RenderWithHook returned error: %v", err)
	}
	if got := buf.String(); got != `<p>a [Badge:] b</p>[Note:n]` {
		t.Fatalf("unexpected output: %s", got)
	}
}

func TestRenderWithHookPropagatesErrors(t *testing.T) {
	root := MustParse(`<div><Broken /></div>`)
	boom := errors.New("boom")
	err := RenderWithHook(io.Discard, root, func(io.Writer, *Node) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
}
