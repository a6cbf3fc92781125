// ABOUTME: LLM session and iteration records persisted under .docright/
// ABOUTME: Iterations snapshot a prompt/response pair for later review
package models

import "time"

// ChatMessage is a single chat completion message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMSession is the persisted shape of .docright/llm/session.json.
type LLMSession struct {
	Provider string        `json:"provider"`
	Model    *string       `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// LastRun records the most recent prompt sent and the response received.
type LastRun struct {
	Model     string    `json:"model"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

// Iteration is a saved prompt/response snapshot.
type Iteration struct {
	IterationID string    `json:"iterationId"`
	Model       string    `json:"model"`
	Scope       Scope     `json:"scope"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProjectConfig is the persisted shape of .docright/docright.json.
type ProjectConfig struct {
	Version   int            `json:"version"`
	CreatedAt string         `json:"createdAt"`
	Document  DocumentConfig `json:"document"`
}

// DocumentConfig names the document file relative to the project root.
type DocumentConfig struct {
	File string `json:"file"`
}
