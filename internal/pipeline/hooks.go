package pipeline

import (
	"context"
)

// Hook observes or vetoes a pipeline stage. Returning an error aborts
// the run.
type Hook func(ctx context.Context, summary Summary) error

// Hooks provides extension points in the pipeline execution.
type Hooks struct {
	// BeforeResolve runs after the configuration is loaded, before
	// type expressions are bound.
	BeforeResolve Hook

	// AfterResolve runs once every statement has been rendered; the
	// summary carries the tables, statements, and full script.
	AfterResolve Hook

	// BeforeDeliver runs before the schema is written, piped, or
	// applied. Dry runs stop before this hook.
	BeforeDeliver Hook

	// AfterRun runs last, with the final summary.
	AfterRun Hook
}

// Chain combines two Hooks, calling h's hooks first, then other's.
// If a hook in h returns an error, other's hook is not called.
func (h Hooks) Chain(other Hooks) Hooks {
	return Hooks{
		BeforeResolve: chainHook(h.BeforeResolve, other.BeforeResolve),
		AfterResolve:  chainHook(h.AfterResolve, other.AfterResolve),
		BeforeDeliver: chainHook(h.BeforeDeliver, other.BeforeDeliver),
		AfterRun:      chainHook(h.AfterRun, other.AfterRun),
	}
}

func chainHook(first, second Hook) Hook {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, summary Summary) error {
		if err := first(ctx, summary); err != nil {
			return err
		}
		return second(ctx, summary)
	}
}

func runHook(ctx context.Context, h Hook, summary Summary) error {
	if h == nil {
		return nil
	}
	return h(ctx, summary)
}
