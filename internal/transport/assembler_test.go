// ABOUTME: Tests for consumer-side prompt reassembly
// ABOUTME: Also drives a publisher through a JSON-lines channel end to end
package transport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestAssembler_OutOfOrderChunks(t *testing.T) {
	a := NewAssembler()
	msgs := []Outbound{
		PromptStart{ID: 4, Total: 3},
		PromptChunk{ID: 4, Index: 2, Chunk: "ef"},
		PromptChunk{ID: 4, Index: 0, Chunk: "ab"},
		PromptChunk{ID: 9, Index: 1, Chunk: "zz"},
		PromptChunk{ID: 4, Index: 1, Chunk: "cd"},
		PromptChunk{ID: 4, Index: 1, Chunk: "cd"},
	}
	for _, m := range msgs {
		if res, err := a.Accept(m); err != nil || res != nil {
			t.Fatalf("Accept(%#v) = %v, %v", m, res, err)
		}
	}
	if !a.Pending() {
		t.Error("Pending = false during transfer")
	}

	res, err := a.Accept(PromptEnd{ID: 4})
	if err != nil {
		t.Fatalf("Accept(end) failed: %v", err)
	}
	if res == nil || res.Prompt != "abcdef" || res.ID != 4 {
		t.Errorf("result = %+v, want abcdef for id 4", res)
	}
	if a.Pending() {
		t.Error("Pending = true after end")
	}
}

func TestAssembler_Incomplete(t *testing.T) {
	a := NewAssembler()
	a.Accept(PromptStart{ID: 1, Total: 2})
	a.Accept(PromptChunk{ID: 1, Index: 0, Chunk: "a"})
	_, err := a.Accept(PromptEnd{ID: 1})
	if !errors.Is(err, ErrIncompleteTransfer) {
		t.Errorf("err = %v, want ErrIncompleteTransfer", err)
	}
}

func TestAssembler_Edges(t *testing.T) {
	a := NewAssembler()

	a.Accept(PromptStart{ID: 1, Total: 2})
	if _, err := a.Accept(PromptChunk{ID: 1, Index: 2, Chunk: "x"}); !errors.Is(err, ErrChunkIndex) {
		t.Errorf("err = %v, want ErrChunkIndex", err)
	}

	res, err := a.Accept(Prompt{ID: 2, Prompt: "whole"})
	if err != nil || res == nil || res.Prompt != "whole" {
		t.Errorf("Accept(Prompt) = %+v, %v", res, err)
	}
	if a.Pending() {
		t.Error("single prompt should cancel the pending transfer")
	}

	if res, _ := a.Accept(PromptEnd{ID: 7}); res != nil {
		t.Errorf("end for unknown transfer = %+v, want nil", res)
	}

	p := "from state"
	res, _ = a.Accept(State{Status: "ready", Prompt: &p})
	if res == nil || res.Prompt != "from state" || res.ID != 0 {
		t.Errorf("Accept(State) = %+v", res)
	}
	if res, _ := a.Accept(State{Status: "running"}); res != nil {
		t.Errorf("state without prompt = %+v, want nil", res)
	}

	res, _ = a.Accept(PromptStart{ID: 8, Total: 0})
	if res == nil || res.Prompt != "" {
		t.Errorf("zero-total start = %+v, want empty prompt", res)
	}
}

func TestLineChannel_EndToEnd(t *testing.T) {
	ctx := context.Background()
	var wire bytes.Buffer
	p := NewPublisher(NewLineChannel(&wire), 3, quietLogger())

	prompt := "The quick brown 🦊 jumps"
	if _, err := p.Publish(ctx, prompt, false); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if lines := strings.Count(wire.String(), "\n"); lines < 3 {
		t.Fatalf("wire has %d lines, want a chunked transfer", lines)
	}

	a := NewAssembler()
	var got *Result
	err := ReadOutbound(ctx, &wire, func(msg Outbound) error {
		res, err := a.Accept(msg)
		if res != nil {
			got = res
		}
		return err
	})
	if err != nil {
		t.Fatalf("ReadOutbound failed: %v", err)
	}
	if got == nil || got.Prompt != prompt {
		t.Fatalf("reassembled = %+v, want %q", got, prompt)
	}

	var acks bytes.Buffer
	if err := NewLineChannel(&acks).Send(ctx, PromptReceived{ID: got.ID, Length: 24}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	err = ReadInbound(ctx, &acks, func(msg Inbound) error {
		return p.Handle(ctx, msg)
	})
	if err != nil {
		t.Fatalf("ReadInbound failed: %v", err)
	}
	if r, ok := p.LastReceipt(); !ok || !r.Matched {
		t.Errorf("receipt = %+v, %v; want matched", r, ok)
	}
}

func TestReadOutbound_ReportsLine(t *testing.T) {
	input := "{\"type\":\"llm.promptEnd\",\"id\":1}\n\n{\"type\":\"bogus\"}\n"
	err := ReadOutbound(context.Background(), strings.NewReader(input), func(Outbound) error { return nil })
	if !errors.Is(err, ErrUnknownMessage) || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("err = %v, want unknown message on line 3", err)
	}
}
