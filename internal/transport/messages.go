// ABOUTME: Tagged message types exchanged between the prompt host and its consumer
// ABOUTME: JSON envelopes carry a "type" discriminator; unknown types are rejected
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownMessage is returned when an envelope's type is not recognised.
var ErrUnknownMessage = errors.New("unknown message type")

// Message type discriminators.
const (
	TypeState          = "llm.state"
	TypePrompt         = "llm.prompt"
	TypePromptStart    = "llm.promptStart"
	TypePromptChunk    = "llm.promptChunk"
	TypePromptEnd      = "llm.promptEnd"
	TypeReady          = "llm.ready"
	TypeRequestPrompt  = "llm.requestPrompt"
	TypePromptReceived = "llm.promptReceived"
	TypeToggleAutoSave = "llm.toggleAutoSave"
	TypeDebug          = "llm.debug"
)

// Message is any transport message.
type Message interface {
	Type() string
}

// Outbound messages flow from the host to the consumer.
type Outbound interface {
	Message
	outbound()
}

// Inbound messages flow from the consumer back to the host.
type Inbound interface {
	Message
	inbound()
}

// State reports host status to the consumer.
type State struct {
	Status    string  `json:"status"`
	IsRunning bool    `json:"isRunning"`
	CanApply  bool    `json:"canApply"`
	AutoSave  bool    `json:"autoSave"`
	Prompt    *string `json:"prompt,omitempty"`
	Response  string  `json:"response,omitempty"`
}

// Prompt carries a whole prompt in one message.
type Prompt struct {
	ID     int    `json:"id"`
	Prompt string `json:"prompt"`
}

// PromptStart announces a chunked transfer of Total chunks.
type PromptStart struct {
	ID    int `json:"id"`
	Total int `json:"total"`
}

// PromptChunk carries chunk Index of a transfer.
type PromptChunk struct {
	ID    int    `json:"id"`
	Index int    `json:"index"`
	Chunk string `json:"chunk"`
}

// PromptEnd closes a chunked transfer.
type PromptEnd struct {
	ID int `json:"id"`
}

// Ready is sent once the consumer can accept prompts.
type Ready struct{}

// RequestPrompt asks the host to resend the current prompt.
type RequestPrompt struct{}

// PromptReceived acknowledges a complete prompt.
type PromptReceived struct {
	ID     int `json:"id"`
	Length int `json:"length"`
}

// ToggleAutoSave switches automatic iteration saving.
type ToggleAutoSave struct {
	Enabled bool `json:"enabled"`
}

// Debug forwards a consumer diagnostic to the host log.
type Debug struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (State) Type() string          { return TypeState }
func (Prompt) Type() string         { return TypePrompt }
func (PromptStart) Type() string    { return TypePromptStart }
func (PromptChunk) Type() string    { return TypePromptChunk }
func (PromptEnd) Type() string      { return TypePromptEnd }
func (Ready) Type() string          { return TypeReady }
func (RequestPrompt) Type() string  { return TypeRequestPrompt }
func (PromptReceived) Type() string { return TypePromptReceived }
func (ToggleAutoSave) Type() string { return TypeToggleAutoSave }
func (Debug) Type() string          { return TypeDebug }

func (State) outbound()       {}
func (Prompt) outbound()      {}
func (PromptStart) outbound() {}
func (PromptChunk) outbound() {}
func (PromptEnd) outbound()   {}

func (Ready) inbound()          {}
func (RequestPrompt) inbound()  {}
func (PromptReceived) inbound() {}
func (ToggleAutoSave) inbound() {}
func (Debug) inbound()          {}

// Encode marshals msg with its "type" discriminator.
func Encode(msg Message) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", msg.Type(), err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", msg.Type(), err)
	}
	kind, _ := json.Marshal(msg.Type())
	fields["type"] = kind
	return json.Marshal(fields)
}

func peekType(data []byte) (string, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", fmt.Errorf("decoding envelope: %w", err)
	}
	return envelope.Type, nil
}

func decodeOutbound[T Outbound](data []byte) (Outbound, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", msg.Type(), err)
	}
	return msg, nil
}

func decodeInbound[T Inbound](data []byte) (Inbound, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", msg.Type(), err)
	}
	return msg, nil
}

// DecodeOutbound parses a host-to-consumer message.
func DecodeOutbound(data []byte) (Outbound, error) {
	kind, err := peekType(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case TypeState:
		return decodeOutbound[State](data)
	case TypePrompt:
		return decodeOutbound[Prompt](data)
	case TypePromptStart:
		return decodeOutbound[PromptStart](data)
	case TypePromptChunk:
		return decodeOutbound[PromptChunk](data)
	case TypePromptEnd:
		return decodeOutbound[PromptEnd](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, kind)
	}
}

// DecodeInbound parses a consumer-to-host message.
func DecodeInbound(data []byte) (Inbound, error) {
	kind, err := peekType(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case TypeReady:
		return decodeInbound[Ready](data)
	case TypeRequestPrompt:
		return decodeInbound[RequestPrompt](data)
	case TypePromptReceived:
		return decodeInbound[PromptReceived](data)
	case TypeToggleAutoSave:
		return decodeInbound[ToggleAutoSave](data)
	case TypeDebug:
		return decodeInbound[Debug](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, kind)
	}
}
