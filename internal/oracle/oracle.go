// Package oracle defines the extraction oracle contract and its adapters. The
// oracle turns a finalized transcript fragment, in the context of the current
// accumulated criteria, into a sparse partial update with per-field source
// attribution.
package oracle

import (
	"context"
	"fmt"

	"github.com/danmarauda/hausvoice/internal/filter"
)

// Extractor is the oracle contract. Implementations must return only the
// fields the fragment justifies: absence means "no new information", never a
// cleared field. Errors are non-fatal to the session; the caller logs them and
// applies nothing.
type Extractor interface {
	Extract(ctx context.Context, fragment string, current filter.Criteria) (filter.Update, error)
}

// Config holds extraction oracle configuration.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// New creates an extractor for the configured provider.
func New(cfg Config) (Extractor, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAIExtractor(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", cfg.Provider)
	}
}
