package gologger

import (
	"context"
	"maps"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mdxcraft/internal/logging"
)

func TestNewProviderFormats(t *testing.T) {
	cases := []struct {
		format  string
		wantErr bool
	}{
		{format: ""},
		{format: "json"},
		{format: " Console "},
		{format: "pretty"},
		{format: "xml", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			provider, err := NewProvider(Config{Level: "debug", Format: tc.format})
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "xml")
				return
			}
			require.NoError(t, err)
			logger := logging.CacheLogger(provider)
			require.NotNil(t, logger)
			logger.Debug("mdx.cache.ready")
		})
	}
}

func TestNilProviderHandsOutNoOp(t *testing.T) {
	var provider *Provider
	logger := provider.GetLogger("mdx.compiler")
	require.NotNil(t, logger)
	logger.Info("mdx.compile.start")
}

func TestAdapterForwardsLevelsInOrder(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("t")
	adapted.Debug("d")
	adapted.Info("i")
	adapted.Warn("w")
	adapted.Error("e")
	adapted.Fatal("f")

	assert.Equal(t, []string{"trace", "debug", "info", "warn", "error", "fatal"}, stub.calls)
}

func TestAdapterCopiesCompileFields(t *testing.T) {
	stub := &stubLogger{}
	fields := map[string]any{"request_id": "req-7", "component": "Card"}

	child := logging.WithFields(wrap(stub), fields)
	require.NotNil(t, child)
	fields["component"] = "Tabs"

	require.Len(t, stub.fields, 1)
	assert.Equal(t, "Card", stub.fields[0]["component"])
	assert.Equal(t, "req-7", stub.fields[0]["request_id"])
}

func TestAdapterPropagatesContext(t *testing.T) {
	stub := &stubLogger{}
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "req-9"})

	wrap(stub).WithContext(ctx)

	require.Len(t, stub.contexts, 1)
	assert.Equal(t, "req-9", logging.ContextFields(stub.contexts[0])["request_id"])
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var (
	_ glog.Logger       = (*stubLogger)(nil)
	_ glog.FieldsLogger = (*stubLogger)(nil)
)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, maps.Clone(fields))
	return s
}
