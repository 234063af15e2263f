package optimize

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"weld/internal/hir"
)

// RunAll runs the pipeline over independent trees concurrently. Results are
// in input order. The first error cancels the remaining work and is
// returned; jobs <= 0 means one worker per CPU.
func (p *Pipeline) RunAll(ctx context.Context, trees []hir.UnifiedNode, jobs int) ([]hir.UnifiedNode, error) {
	if len(trees) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine writes only its own index
	results := make([]hir.UnifiedNode, len(trees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(trees)))

	for i, tree := range trees {
		i, tree := i, tree
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			out, err := p.Run(tree)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debugf("optimized %d trees with %d workers", len(trees), min(jobs, len(trees)))
	return results, nil
}
