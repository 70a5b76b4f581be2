// Package mdx orchestrates MDX compilation: preprocessing, fingerprinted
// artifact caching, pipeline assembly, evaluation and rendering against the
// caller's component map.
package mdx

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdxcraft/internal/compiler"
	"github.com/goliatone/go-mdxcraft/internal/fpcache"
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/internal/pipeline"
	"github.com/goliatone/go-mdxcraft/internal/preprocess"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// syncFingerprintSuffix keeps artifacts built without async transforms apart
// from full ones.
const syncFingerprintSuffix = "+sync"

// Service compiles MDX requests. It is safe for concurrent use; identical
// concurrent requests are not coalesced and the last writer wins in the cache.
type Service struct {
	evaluator   compiler.Evaluator
	cache       Cache
	preset      string
	pipeline    pipeline.Options
	development bool
	strict      bool
	timeout     time.Duration
	workers     int
	logger      interfaces.Logger
	metrics     interfaces.CompileMetrics
	now         func() time.Time
	newID       func() string
}

var _ interfaces.Compiler = (*Service)(nil)

// NewService constructs a service with the default preset, a 10MB/5m cache
// and the goldmark evaluator.
func NewService(opts ...Option) *Service {
	service := &Service{
		evaluator: compiler.New(),
		cache:     fpcache.New[*compiler.Artifact](fpcache.Options{}),
		preset:    pipeline.PresetDefault,
		pipeline:  pipeline.Default(),
		workers:   defaultPrecompileWorkers,
		logger:    logging.NoOp(),
		metrics:   NoOpMetrics(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service
}

// Compile runs the full pipeline, async transforms included. Compilation
// failures are reported through the result; the returned error is only set
// when a component fails to render and strict render errors are enabled.
func (s *Service) Compile(ctx context.Context, req interfaces.CompileRequest) (*interfaces.CompilationResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.compile(ctx, req, false)
}

// CompileSync compiles without the transforms that declare asynchronous
// execution and without a deadline.
func (s *Service) CompileSync(req interfaces.CompileRequest) (*interfaces.CompilationResult, error) {
	return s.compile(context.Background(), req, true)
}

// CompileAsync executes Compile in a separate goroutine.
func (s *Service) CompileAsync(ctx context.Context, req interfaces.CompileRequest) (<-chan *interfaces.CompilationResult, <-chan error) {
	resultCh := make(chan *interfaces.CompilationResult, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(resultCh)
		defer close(errCh)

		result, err := s.Compile(ctx, req)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- result
	}()

	return resultCh, errCh
}

// ClearCache drops every cached artifact and resets the hit counters.
func (s *Service) ClearCache() {
	if s.cache == nil {
		return
	}
	s.cache.Clear()
	s.logger.Debug("mdx.cache.cleared")
}

// CacheStats reports the artifact cache usage. A disabled cache reports zeros.
func (s *Service) CacheStats() interfaces.CacheStats {
	if s.cache == nil {
		return interfaces.CacheStats{}
	}
	stats := s.cache.Stats()
	return interfaces.CacheStats{
		SizeBytes:    stats.SizeBytes,
		EntryCount:   stats.EntryCount,
		MaxSizeBytes: stats.MaxSizeBytes,
		HitRate:      stats.HitRate,
		Evictions:    stats.Evictions,
	}
}

// CacheKey returns the key a request would be cached under.
func (s *Service) CacheKey(req interfaces.CompileRequest) string {
	return s.cacheKey(preprocess.Preprocess(req.Source), req, false)
}

func (s *Service) cacheKey(source string, req interfaces.CompileRequest, sync bool) string {
	preset := s.preset
	if sync {
		preset += syncFingerprintSuffix
	}
	fingerprint := pipeline.Fingerprint(preset, len(req.PreParse), len(req.PostParse))
	return fpcache.GenerateKey(source, req.ComponentNames(), fingerprint)
}

func (s *Service) compile(ctx context.Context, req interfaces.CompileRequest, sync bool) (*interfaces.CompilationResult, error) {
	start := s.now()
	source := preprocess.Preprocess(req.Source)
	key := s.cacheKey(source, req, sync)
	requestID := s.newID()
	ctx = logging.ContextWithFields(ctx, map[string]any{"request_id": requestID})
	logger := logging.WithCompileContext(s.logger.WithContext(ctx), requestID, key)

	meta := interfaces.CompileMetadata{
		CacheKey:       key,
		ComponentCount: len(req.Components),
	}
	development := req.DevelopmentMode || s.development

	// Distinct sources can preprocess to the same text (a literal "{" and
	// "&#123;"), so the authored source is checked before any cache lookup.
	if err := compiler.CheckSyntax(req.Source, development); err != nil {
		return s.failed(logger, meta, start, err), nil
	}

	if s.cache != nil {
		if entry, ok := s.cache.Get(key); ok && entry.Value != nil {
			s.cache.RecordHit()
			s.metrics.IncrementCacheHit()
			meta.CacheHit = true
			logger.Debug("mdx.compile.cache_hit")
			return s.finish(ctx, logger, entry.Value, req, meta, start)
		}
		s.cache.RecordMiss()
		s.metrics.IncrementCacheMiss()
		logger.Debug("mdx.compile.cache_miss")
	}

	var p pipeline.Pipeline
	if sync {
		p = pipeline.Merge(pipeline.BuildSync(s.pipeline), req.PreParse, pipeline.SyncOnly(req.PostParse))
	} else {
		p = pipeline.Merge(pipeline.Build(s.pipeline), req.PreParse, req.PostParse)
	}

	in := compiler.Input{
		Source:      source,
		Raw:         req.Source,
		PreParse:    p.PreParse,
		PostParse:   p.PostParse,
		Development: development,
	}

	var (
		artifact *compiler.Artifact
		err      error
	)
	if sync {
		artifact, err = s.evaluator.EvaluateSync(in)
	} else {
		artifact, err = s.evaluate(ctx, in)
	}
	if err != nil {
		return s.failed(logger, meta, start, err), nil
	}

	if s.cache != nil {
		s.cache.Set(key, fpcache.Entry[*compiler.Artifact]{Value: artifact, CreatedAt: s.now()})
	}
	return s.finish(ctx, logger, artifact, req, meta, start)
}

func (s *Service) failed(logger interfaces.Logger, meta interfaces.CompileMetadata, start time.Time, err error) *interfaces.CompilationResult {
	s.metrics.IncrementCompileError()
	meta.Duration = s.now().Sub(start)
	meta.Headings = []interfaces.Heading{}
	s.metrics.ObserveCompileDuration(meta.Duration, false)
	logging.WithFields(logger, map[string]any{
		"error":       err,
		"duration_ms": meta.DurationMillis(),
	}).Warn("mdx.compile.failed")
	return &interfaces.CompilationResult{Metadata: meta, Error: wrapCompileError(err)}
}

// evaluate applies the compile timeout. The evaluator runs in its own
// goroutine so a blocked transform cannot outlive the deadline for the caller.
func (s *Service) evaluate(ctx context.Context, in compiler.Input) (*compiler.Artifact, error) {
	if s.timeout <= 0 {
		return s.evaluator.Evaluate(ctx, in)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		artifact *compiler.Artifact
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		artifact, err := s.evaluator.Evaluate(ctx, in)
		done <- outcome{artifact: artifact, err: err}
	}()

	select {
	case out := <-done:
		return out.artifact, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) finish(ctx context.Context, logger interfaces.Logger, artifact *compiler.Artifact, req interfaces.CompileRequest, meta interfaces.CompileMetadata, start time.Time) (*interfaces.CompilationResult, error) {
	meta.Headings = slices.Clone(artifact.Headings)
	if meta.Headings == nil {
		meta.Headings = []interfaces.Heading{}
	}
	meta.Frontmatter = maps.Clone(artifact.Frontmatter)
	meta.ReadingTime = artifact.ReadingTime

	rendered, err := s.render(ctx, logger, artifact, req.Components)
	meta.Duration = s.now().Sub(start)
	s.metrics.ObserveCompileDuration(meta.Duration, meta.CacheHit)
	if err != nil {
		logging.WithFields(logger, map[string]any{
			"error": err,
		}).Error("mdx.render.failed")
		return nil, wrapRenderError(err)
	}

	logging.WithFields(logger, map[string]any{
		"cache_hit":   meta.CacheHit,
		"duration_ms": meta.DurationMillis(),
		"headings":    len(meta.Headings),
	}).Debug("mdx.compile.completed")

	return &interfaces.CompilationResult{Output: rendered, Metadata: meta}, nil
}
