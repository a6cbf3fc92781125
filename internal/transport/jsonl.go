// ABOUTME: JSON-lines message channel over plain readers and writers
// ABOUTME: Lets the CLI act as a prompt host or consumer over stdio
package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

const maxLineSize = 16 * 1024 * 1024

// LineChannel writes one encoded message per line.
type LineChannel struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineChannel creates a channel writing to w.
func NewLineChannel(w io.Writer) *LineChannel {
	return &LineChannel{w: w}
}

// Send writes msg as a single JSON line.
func (c *LineChannel) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", msg.Type(), err)
	}
	return nil
}

// PostMessage implements Messenger.
func (c *LineChannel) PostMessage(ctx context.Context, msg Outbound) error {
	return c.Send(ctx, msg)
}

// ReadOutbound decodes host messages from r and passes each to fn.
func ReadOutbound(ctx context.Context, r io.Reader, fn func(Outbound) error) error {
	return readLines(ctx, r, func(line []byte) error {
		msg, err := DecodeOutbound(line)
		if err != nil {
			return err
		}
		return fn(msg)
	})
}

// ReadInbound decodes consumer messages from r and passes each to fn.
func ReadInbound(ctx context.Context, r io.Reader, fn func(Inbound) error) error {
	return readLines(ctx, r, func(line []byte) error {
		msg, err := DecodeInbound(line)
		if err != nil {
			return err
		}
		return fn(msg)
	})
}

func readLines(ctx context.Context, r io.Reader, fn func([]byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading messages: %w", err)
	}
	return nil
}
