package mdx

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// PrecompileItem pairs a caller-chosen key with the request to warm.
type PrecompileItem struct {
	Key     string
	Request interfaces.CompileRequest
}

// PrecompileSummary reports the outcome of a batch. Errors is keyed by item
// key and holds both compile and render failures.
type PrecompileSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Errors    map[string]error
}

// Precompile compiles items concurrently to populate the cache. Individual
// failures never abort the batch.
func (s *Service) Precompile(ctx context.Context, items []PrecompileItem) PrecompileSummary {
	summary := PrecompileSummary{Total: len(items), Errors: map[string]error{}}
	if len(items) == 0 {
		return summary
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(s.workers)
	for _, item := range items {
		p.Go(func() {
			result, err := s.Compile(ctx, item.Request)
			if err == nil && result != nil {
				err = result.Error
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.Errors[item.Key] = err
				return
			}
			summary.Succeeded++
		})
	}
	p.Wait()

	logging.WithFields(s.logger, map[string]any{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}).Info("mdx.precompile.completed")
	return summary
}
