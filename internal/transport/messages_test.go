// ABOUTME: Tests for transport message envelopes
// ABOUTME: Verifies the type discriminator and rejection of unknown messages
package transport

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestEncode_AddsType(t *testing.T) {
	data, err := Encode(PromptChunk{ID: 3, Index: 1, Chunk: "cd"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if fields["type"] != "llm.promptChunk" {
		t.Errorf("type = %v, want llm.promptChunk", fields["type"])
	}
	if fields["index"] != 1.0 || fields["chunk"] != "cd" || fields["id"] != 3.0 {
		t.Errorf("fields = %v", fields)
	}

	data, err = Encode(Ready{})
	if err != nil {
		t.Fatalf("Encode(Ready) failed: %v", err)
	}
	if string(data) != `{"type":"llm.ready"}` {
		t.Errorf("Encode(Ready) = %s", data)
	}
}

func TestDecodeOutbound(t *testing.T) {
	prompt := "hello"
	tests := []Outbound{
		State{Status: "Prompt ready", AutoSave: true, Prompt: &prompt},
		Prompt{ID: 1, Prompt: "hello"},
		PromptStart{ID: 2, Total: 3},
		PromptChunk{ID: 2, Index: 0, Chunk: "ab"},
		PromptEnd{ID: 2},
	}
	for _, want := range tests {
		t.Run(want.Type(), func(t *testing.T) {
			data, err := Encode(want)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := DecodeOutbound(data)
			if err != nil {
				t.Fatalf("DecodeOutbound failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("DecodeOutbound = %#v, want %#v", got, want)
			}
		})
	}
}

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		raw  string
		want Inbound
	}{
		{`{"type":"llm.ready"}`, Ready{}},
		{`{"type":"llm.requestPrompt"}`, RequestPrompt{}},
		{`{"type":"llm.promptReceived","id":1,"length":10}`, PromptReceived{ID: 1, Length: 10}},
		{`{"type":"llm.toggleAutoSave","enabled":true}`, ToggleAutoSave{Enabled: true}},
	}
	for _, tt := range tests {
		got, err := DecodeInbound([]byte(tt.raw))
		if err != nil {
			t.Errorf("DecodeInbound(%s) failed: %v", tt.raw, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DecodeInbound(%s) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}

	got, err := DecodeInbound([]byte(`{"type":"llm.debug","message":"hi","data":{"a":1}}`))
	if err != nil {
		t.Fatalf("DecodeInbound(debug) failed: %v", err)
	}
	if d, ok := got.(Debug); !ok || d.Message != "hi" || string(d.Data) != `{"a":1}` {
		t.Errorf("DecodeInbound(debug) = %#v", got)
	}
}

func TestDecode_Rejects(t *testing.T) {
	for _, raw := range []string{`{"type":"unknown"}`, `{}`, `{"type":"llm.ready"}`} {
		if _, err := DecodeOutbound([]byte(raw)); !errors.Is(err, ErrUnknownMessage) {
			t.Errorf("DecodeOutbound(%s) err = %v, want ErrUnknownMessage", raw, err)
		}
	}
	if _, err := DecodeInbound([]byte(`{"type":"llm.prompt"}`)); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("DecodeInbound(llm.prompt) err = %v, want ErrUnknownMessage", err)
	}
	if _, err := DecodeInbound([]byte(`null`)); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("DecodeInbound(null) err = %v, want ErrUnknownMessage", err)
	}
	if _, err := DecodeInbound([]byte(`not json`)); err == nil {
		t.Error("DecodeInbound(garbage) should fail")
	}
}
