// ABOUTME: Token counting for prompt statistics
// ABOUTME: Uses tiktoken encodings per model with a cl100k_base fallback
package llm

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

var (
	encodersMu sync.Mutex
	encoders   = map[string]*tiktoken.Tiktoken{}
)

func encoderFor(model string) (*tiktoken.Tiktoken, error) {
	encodersMu.Lock()
	defer encodersMu.Unlock()

	if tkm, ok := encoders[model]; ok {
		return tkm, nil
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("loading %s encoding: %w", fallbackEncoding, err)
		}
	}
	encoders[model] = tkm
	return tkm, nil
}

// CountTokens returns the number of tokens text encodes to for model.
// Unknown models are counted with cl100k_base.
func CountTokens(model, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	tkm, err := encoderFor(model)
	if err != nil {
		return 0, err
	}
	return len(tkm.Encode(text, nil, nil)), nil
}

// Per-message overhead used by the chat completion format.
const (
	TokensPerMessage = 4
	TokensPerRequest = 3
)

// CountMessageTokens estimates the prompt size of a chat request.
func CountMessageTokens(model string, contents ...string) (int, error) {
	total := TokensPerRequest
	for _, c := range contents {
		n, err := CountTokens(model, c)
		if err != nil {
			return 0, err
		}
		total += TokensPerMessage + n
	}
	return total, nil
}
