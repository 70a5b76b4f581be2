package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mdxcraft/cmd/mdxcraft/internal/bootstrap"
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

func quietBuilder(opts bootstrap.Options) (*bootstrap.Module, error) {
	opts.LoggerProvider = logging.NoOpProvider()
	return bootstrap.BuildModule(opts)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(quietBuilder)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCompilePrintsHTML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guide.mdx", "# Hello\n\n<Callout>hi</Callout>\n")

	out, err := run(t, "compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Hello</h1>")
	assert.Contains(t, out, "callout-info")
}

func TestCompileJSONIncludesMetadata(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guide.mdx", "---\ntitle: Guide\n---\n# Hello\n\n## World\n")

	out, err := run(t, "compile", "--json", path)
	require.NoError(t, err)

	var payload struct {
		HTML     string `json:"html"`
		Metadata struct {
			CacheKey    string               `json:"cache_key"`
			Headings    []interfaces.Heading `json:"headings"`
			Frontmatter map[string]any       `json:"frontmatter"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.NotEmpty(t, payload.Metadata.CacheKey)
	assert.Len(t, payload.Metadata.Headings, 2)
	assert.Equal(t, "Guide", payload.Metadata.Frontmatter["title"])
	assert.Contains(t, payload.HTML, "World")
}

func TestCompileTableOfContents(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guide.mdx", "# Hello\n\n## World\n")

	out, err := run(t, "compile", "--toc", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "- Hello (#hello)\n  - World (#world)\n"), "unexpected output:\n%s", out)
}

func TestCompileReportsSyntaxErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.mdx", "<Card title=\"x\">\nno close\n")

	_, err := run(t, "compile", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.mdx")
}

func TestCompileRejectsUnknownPreset(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guide.mdx", "# Hello\n")

	_, err := run(t, "--preset", "novel", "compile", path)
	require.Error(t, err)
}

func TestStatsPrecompilesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mdx", "# A\n")
	writeFile(t, dir, "b.mdx", "# B\n")

	out, err := run(t, "stats", "--json", filepath.Join(dir, "*.mdx"))
	require.NoError(t, err)

	var payload struct {
		Documents int                   `json:"documents"`
		Cache     interfaces.CacheStats `json:"cache"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 2, payload.Documents)
	assert.Equal(t, 2, payload.Cache.EntryCount)
}

func TestStatsFailOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.mdx", "# OK\n")
	writeFile(t, dir, "bad.mdx", "<Broken\n")

	_, err := run(t, "stats", filepath.Join(dir, "*.mdx"))
	require.NoError(t, err)

	_, err = run(t, "stats", "--fail-on-error", filepath.Join(dir, "*.mdx"))
	require.Error(t, err)
}

func TestWatchFileTriggersOnWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "live.mdx", "# One\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, nil, func() { calls.Add(1) })
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("# Two\n"), 0o600)
		return calls.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestTableOfContentsIndentsRelativeToShallowest(t *testing.T) {
	toc := tableOfContents([]interfaces.Heading{
		{ID: "a", Text: "A", Level: 2},
		{ID: "b", Text: "B", Level: 3},
		{ID: "c", Text: "C", Level: 2},
	})
	assert.Equal(t, "- A (#a)\n  - B (#b)\n- C (#c)\n\n", toc)
}
