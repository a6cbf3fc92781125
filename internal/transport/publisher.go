// ABOUTME: Host-side prompt publisher implementing the start/chunk/end protocol
// ABOUTME: Dedupes unchanged prompts and resyncs after a failed delivery
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/docright/internal/core"
)

// Messenger delivers outbound messages to a consumer.
type Messenger interface {
	PostMessage(ctx context.Context, msg Outbound) error
}

// Receipt records the consumer's acknowledgement of a prompt.
type Receipt struct {
	ID     int
	Length int
	// Matched is true when Length equals the UTF-16 length of the prompt last sent.
	Matched bool
}

// Publisher pushes the current prompt to a consumer over a size-limited channel.
type Publisher struct {
	mu        sync.Mutex
	messenger Messenger
	chunkSize int
	logger    *log.Logger

	nextID    int
	current   string
	lastSent  *string
	needsSync bool
	receipt   *Receipt

	// OnToggleAutoSave, when set, is called for llm.toggleAutoSave messages.
	OnToggleAutoSave func(enabled bool)
}

// NewPublisher creates a publisher that splits prompts into chunkSize pieces.
func NewPublisher(messenger Messenger, chunkSize int, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{
		messenger: messenger,
		chunkSize: chunkSize,
		logger:    logger,
		nextID:    1,
	}
}

// Publish makes prompt current and sends it unless it equals the prompt
// last delivered. force always sends. It reports whether anything was sent.
func (p *Publisher) Publish(ctx context.Context, prompt string, force bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = prompt
	return p.post(ctx, force)
}

// PostState sends a status update, attaching the current prompt when asked.
func (p *Publisher) PostState(ctx context.Context, state State) error {
	if err := p.messenger.PostMessage(ctx, state); err != nil {
		p.mu.Lock()
		p.needsSync = true
		p.mu.Unlock()
		return fmt.Errorf("posting state: %w", err)
	}
	return nil
}

// Handle reacts to a consumer message.
func (p *Publisher) Handle(ctx context.Context, msg Inbound) error {
	switch m := msg.(type) {
	case Ready:
		p.logger.Debug("consumer ready, resending prompt")
		return p.resend(ctx)
	case RequestPrompt:
		p.logger.Debug("consumer requested prompt")
		return p.resend(ctx)
	case PromptReceived:
		p.recordReceipt(m)
		return nil
	case ToggleAutoSave:
		if p.OnToggleAutoSave != nil {
			p.OnToggleAutoSave(m.Enabled)
		}
		return nil
	case Debug:
		p.logger.Debug("consumer", "message", m.Message, "data", string(m.Data))
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}

// NeedsSync reports whether the last delivery failed and a resend is pending.
func (p *Publisher) NeedsSync() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.needsSync
}

// LastReceipt returns the most recent acknowledgement, if any.
func (p *Publisher) LastReceipt() (Receipt, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.receipt == nil {
		return Receipt{}, false
	}
	return *p.receipt, true
}

func (p *Publisher) resend(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.post(ctx, true)
	return err
}

func (p *Publisher) recordReceipt(m PromptReceived) {
	p.mu.Lock()
	defer p.mu.Unlock()
	matched := p.lastSent != nil && core.Len16(*p.lastSent) == m.Length
	p.receipt = &Receipt{ID: m.ID, Length: m.Length, Matched: matched}
	p.logger.Debug("prompt received", "id", m.ID, "length", m.Length, "matched", matched)
}

// post must be called with p.mu held.
func (p *Publisher) post(ctx context.Context, force bool) (bool, error) {
	if !force && !p.needsSync && p.lastSent != nil && *p.lastSent == p.current {
		p.logger.Debug("prompt unchanged, skipping")
		return false, nil
	}

	chunks, err := core.BuildPromptChunks(p.current, p.chunkSize)
	if err != nil {
		return false, err
	}

	id := p.nextID
	p.nextID++
	if err := p.send(ctx, id, chunks); err != nil {
		p.needsSync = true
		p.lastSent = nil
		p.logger.Warn("prompt delivery failed", "id", id, "err", err)
		return false, fmt.Errorf("posting prompt %d: %w", id, err)
	}

	sent := p.current
	p.lastSent = &sent
	p.needsSync = false
	p.logger.Debug("prompt sent", "id", id, "chunks", chunks.Total)
	return true, nil
}

func (p *Publisher) send(ctx context.Context, id int, chunks core.PromptChunks) error {
	if chunks.Total == 1 {
		return p.messenger.PostMessage(ctx, Prompt{ID: id, Prompt: chunks.Chunks[0]})
	}

	if err := p.messenger.PostMessage(ctx, PromptStart{ID: id, Total: chunks.Total}); err != nil {
		return err
	}
	for i, chunk := range chunks.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.messenger.PostMessage(ctx, PromptChunk{ID: id, Index: i, Chunk: chunk}); err != nil {
			return err
		}
	}
	return p.messenger.PostMessage(ctx, PromptEnd{ID: id})
}
