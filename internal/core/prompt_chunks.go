// ABOUTME: Splits prompt text into bounded chunks for size-limited message channels
// ABOUTME: Chunk sizes count UTF-16 code units; surrogate pairs are never split
package core

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// PromptChunks is the result of splitting a prompt for transport.
type PromptChunks struct {
	Total  int      `json:"total"`
	Chunks []string `json:"chunks"`
}

// BuildPromptChunks splits text into chunks of at most chunkSize code units.
// Empty text yields a single empty chunk so the receiver still sees a
// complete transfer. A chunk boundary that would fall inside a surrogate pair
// moves one unit left, or one unit right when the chunk would otherwise be empty,
// because a Go string cannot hold half a pair. Total therefore equals
// ceil(units/chunkSize) only for text without astral characters; with them it
// may be larger, and a chunk may reach two units when chunkSize is 1.
func BuildPromptChunks(text string, chunkSize int) (PromptChunks, error) {
	if chunkSize <= 0 {
		return PromptChunks{}, fmt.Errorf("%w: chunkSize must be a positive number, got %d", ErrInvalidConfiguration, chunkSize)
	}
	if text == "" {
		return PromptChunks{Total: 1, Chunks: []string{""}}, nil
	}

	units := Units(text)
	chunks := make([]string, 0, (len(units)+chunkSize-1)/chunkSize)
	for start := 0; start < len(units); {
		end := min(start+chunkSize, len(units))
		if end < len(units) && isHighSurrogate(units[end-1]) && isLowSurrogate(units[end]) {
			if end-1 > start {
				end--
			} else {
				end++
			}
		}
		chunks = append(chunks, string(utf16.Decode(units[start:end])))
		start = end
	}

	return PromptChunks{Total: len(chunks), Chunks: chunks}, nil
}

// JoinPromptChunks reassembles chunks produced by BuildPromptChunks.
func JoinPromptChunks(chunks []string) string {
	return strings.Join(chunks, "")
}
