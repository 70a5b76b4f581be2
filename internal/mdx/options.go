package mdx

import (
	"time"

	"github.com/goliatone/go-mdxcraft/internal/compiler"
	"github.com/goliatone/go-mdxcraft/internal/fpcache"
	"github.com/goliatone/go-mdxcraft/internal/pipeline"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

const defaultPrecompileWorkers = 4

// Cache is the artifact store used by the service. *fpcache.Cache satisfies it.
type Cache interface {
	Get(key string) (fpcache.Entry[*compiler.Artifact], bool)
	Set(key string, entry fpcache.Entry[*compiler.Artifact])
	Clear()
	RecordHit()
	RecordMiss()
	Stats() fpcache.Stats
}

var _ Cache = (*fpcache.Cache[*compiler.Artifact])(nil)

// Option customises service behaviour.
type Option func(*Service)

// WithEvaluator overrides the compiler invoked on cache misses.
func WithEvaluator(evaluator compiler.Evaluator) Option {
	return func(s *Service) {
		if evaluator != nil {
			s.evaluator = evaluator
		}
	}
}

// WithCache sets the artifact cache. Passing nil disables caching.
func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithPipeline selects the pipeline options and the preset name used in cache
// fingerprints.
func WithPipeline(preset string, opts pipeline.Options) Option {
	return func(s *Service) {
		if preset == "" {
			preset = pipeline.PresetDefault
		}
		s.preset = preset
		s.pipeline = opts
	}
}

// WithDevelopment enables development diagnostics (code frames) for every
// request.
func WithDevelopment(enabled bool) Option {
	return func(s *Service) {
		s.development = enabled
	}
}

// WithStrictRenderErrors makes component failures fail the compile call
// instead of rendering a diagnostic placeholder.
func WithStrictRenderErrors(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithCompileTimeout bounds the evaluation of Compile calls. Zero disables the
// deadline.
func WithCompileTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout < 0 {
			timeout = 0
		}
		s.timeout = timeout
	}
}

// WithPrecompileWorkers bounds Precompile concurrency.
func WithPrecompileWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.CompileMetrics) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithClock overrides the time source used for durations and cache entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newID = next
		}
	}
}
