// Package insight turns the ledger summary into a natural-language
// financial report through a generative-AI collaborator.
package insight

import "context"

// Generator produces a free-text report for a rendered prompt. The gemini
// adapter is the production implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
