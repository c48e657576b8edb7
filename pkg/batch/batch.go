// Package batch applies an expression operation to many inputs
// concurrently while keeping results in input order.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Func transforms one input line.
type Func func(input string) (string, error)

// Result is the outcome for one input. Err is per input; a failing input
// does not stop the others.
type Result struct {
	Input  string
	Output string
	Err    error
}

// Run applies fn to every input with at most limit calls in flight
// (runtime.GOMAXPROCS(0) when limit <= 0). results[i] belongs to inputs[i].
// Run returns early only when ctx is cancelled.
func Run(ctx context.Context, inputs []string, fn Func, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(in)
			results[i] = Result{Input: in, Output: out, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
