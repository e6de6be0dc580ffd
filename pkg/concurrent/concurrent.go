package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for every element in its own goroutine, with at most
// limit running at once (limit <= 0 means unbounded). The first error cancels
// the context handed to the remaining actions and is returned.
func Concurrent[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return action(ctx, item)
		})
	}
	return g.Wait()
}

// ParallelMap applies mapFn to every element concurrently and keeps the input
// order in the result. On error the partial result is discarded.
func ParallelMap[T any, R any](ctx context.Context, items []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for idx, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := mapFn(ctx, item)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
