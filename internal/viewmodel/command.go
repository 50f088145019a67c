package viewmodel

import (
	"context"

	"naulify_agent/internal/observable"
)

// execute runs one view-model command: it publishes loading, runs fn and
// publishes fn's state when fn asks for it. Nothing is published once the
// view-model has been closed. The returned state is what this command produced,
// or the current state when it did not run.
func execute[S any](s *scope, ctx context.Context, state *observable.Value[S], loading S, fn func(ctx context.Context) (S, bool)) S {
	result := state.Get()
	s.run(ctx, func(ctx context.Context) {
		state.Set(loading)
		next, publish := fn(ctx)
		if s.ctx.Err() != nil {
			return
		}
		if publish {
			state.Set(next)
		}
		result = next
	})
	return result
}
