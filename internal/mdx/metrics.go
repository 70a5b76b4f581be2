package mdx

import (
	"time"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.CompileMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveCompileDuration(time.Duration, bool) {}

func (noopMetrics) IncrementCacheHit() {}

func (noopMetrics) IncrementCacheMiss() {}

func (noopMetrics) IncrementCompileError() {}

func (noopMetrics) IncrementRenderError(string) {}
