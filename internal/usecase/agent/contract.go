package agent

import "context"

// Model generates text for a single prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
