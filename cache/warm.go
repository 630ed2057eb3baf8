package cache

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/jitcache/tensor"
)

// Request bundles the inputs of one Compile call, for batch use.
type Request struct {
	Function        Function
	NumConstantArgs int
	VariableArgs    []tensor.Optional
	Args            ArgumentSource
}

// Warm precompiles a batch of requests concurrently, bounded by the
// configured warm concurrency. Duplicate signatures still compile once.
// Executables are not built.
//
// A failed request does not stop the rest of the batch; every request
// runs to a cached outcome. Warm returns the first error encountered,
// if any.
func (c *Cache) Warm(ctx context.Context, reqs []Request) error {
	var g errgroup.Group
	g.SetLimit(c.warmConcurrency)
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			_, err := c.Compile(ctx, req.Function, req.NumConstantArgs, req.VariableArgs, req.Args)
			return err
		})
	}
	return g.Wait()
}
