package backend

import "context"

// Translator is the capability the pipeline depends on. Implementations
// perform exactly one backend invocation per Translate call, bounded by a
// fixed timeout, and classify failures as *Error.
type Translator interface {
	Translate(ctx context.Context, text, model string, opts Options) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}
