package ports

import "context"

// CompletionClient turns a prompt into generated text
type CompletionClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
