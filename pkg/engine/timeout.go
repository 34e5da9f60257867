package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/heft/pkg/graph"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation exceeds the engine timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started before this
	// one finished.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult carries one evaluation out of its goroutine.
type evalResult struct {
	graph  *graph.DesignGraph
	errors []EvalError
	err    error
}

// wait blocks until ch delivers, the engine timeout elapses or ctx is done.
// A result whose generation is no longer current is discarded.
//
// On timeout the evaluating goroutine may still be running; its result lands
// in the buffered channel and is dropped.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*graph.DesignGraph, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if gen != e.current() {
			return nil, nil, ErrSuperseded
		}
		return res.graph, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return nil, nil, fmt.Errorf("evaluation: %w", ctx.Err())
	}
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}
