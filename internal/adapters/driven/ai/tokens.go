package ai

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

// Ensure TokenCounter implements the interface.
var _ driven.TokenCounter = (*TokenCounter)(nil)

// fallbackEncoding covers models tiktoken has no mapping for.
const fallbackEncoding = "cl100k_base"

// TokenCounter counts tokens with the BPE encoding of a model. The
// zero value estimates at four bytes per token, which keeps context
// budgeting working when no encoding could be loaded.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter creates a counter for the given model, falling back
// to the cl100k_base encoding for unknown models. Loading an encoding
// may download its rank file on first use.
func NewTokenCounter(model string) (*TokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("load %s encoding: %w", fallbackEncoding, err)
		}
	}
	return &TokenCounter{enc: enc}, nil
}

// Count returns the token count for the given text.
func (c *TokenCounter) Count(text string) int {
	if c.enc == nil {
		return len(text) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}
