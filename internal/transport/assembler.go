// ABOUTME: Consumer-side reassembly of chunked prompt transfers
// ABOUTME: Chunks are buffered by index, so arrival order does not matter
package transport

import (
	"errors"
	"fmt"

	"github.com/harper/docright/internal/core"
)

var (
	// ErrIncompleteTransfer means an end message arrived before every chunk.
	// The consumer should answer with RequestPrompt.
	ErrIncompleteTransfer = errors.New("incomplete prompt transfer")
	// ErrChunkIndex reports a chunk index outside [0, total).
	ErrChunkIndex = errors.New("chunk index out of range")
)

// Result is produced when a prompt becomes available to the consumer.
type Result struct {
	// ID is the transfer id to acknowledge, or 0 for prompts carried by llm.state.
	ID     int
	Prompt string
}

type transfer struct {
	id     int
	total  int
	chunks map[int]string
}

// Assembler tracks at most one in-flight transfer, like a single consumer panel.
type Assembler struct {
	current *transfer
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Accept consumes one outbound message. It returns a Result once a prompt is
// complete. Messages for transfers other than the current one are ignored.
func (a *Assembler) Accept(msg Outbound) (*Result, error) {
	switch m := msg.(type) {
	case State:
		if m.Prompt == nil {
			return nil, nil
		}
		a.current = nil
		return &Result{Prompt: *m.Prompt}, nil

	case Prompt:
		a.current = nil
		return &Result{ID: m.ID, Prompt: m.Prompt}, nil

	case PromptStart:
		if m.Total <= 0 {
			a.current = nil
			return &Result{ID: m.ID}, nil
		}
		a.current = &transfer{id: m.ID, total: m.Total, chunks: make(map[int]string, m.Total)}
		return nil, nil

	case PromptChunk:
		if a.current == nil || a.current.id != m.ID {
			return nil, nil
		}
		if m.Index < 0 || m.Index >= a.current.total {
			return nil, fmt.Errorf("%w: %d of %d in transfer %d", ErrChunkIndex, m.Index, a.current.total, m.ID)
		}
		a.current.chunks[m.Index] = m.Chunk
		return nil, nil

	case PromptEnd:
		if a.current == nil || a.current.id != m.ID {
			return nil, nil
		}
		t := a.current
		a.current = nil
		if len(t.chunks) != t.total {
			return nil, fmt.Errorf("%w: %d of %d chunks for transfer %d", ErrIncompleteTransfer, len(t.chunks), t.total, t.id)
		}
		ordered := make([]string, t.total)
		for i := range ordered {
			ordered[i] = t.chunks[i]
		}
		return &Result{ID: t.id, Prompt: core.JoinPromptChunks(ordered)}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}

// Pending reports whether a chunked transfer is in progress.
func (a *Assembler) Pending() bool {
	return a.current != nil
}
