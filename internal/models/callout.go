// ABOUTME: Inline and overall callouts are the user's edit instructions
// ABOUTME: Inline callouts carry an offset range; overall callouts apply to the whole scope
package models

// Callout id prefixes. Ids are "<prefix>-N" and never reused within a project.
const (
	InlinePrefix  = "inline"
	OverallPrefix = "overall"
)

// InlineCallout is an instruction attached to a specific range of the document.
type InlineCallout struct {
	OffsetRange
	ID          string `json:"id"`
	Instruction string `json:"instruction"`
	// Text is the covered text, refreshed whenever the document changes.
	Text string `json:"text,omitempty"`
}

// OverallCallout is a document-wide (or scope-wide) instruction.
type OverallCallout struct {
	ID          string `json:"id"`
	Instruction string `json:"instruction"`
}

// CalloutsState is the persisted shape of callouts.json.
type CalloutsState struct {
	Inline  []InlineCallout  `json:"inline"`
	Overall []OverallCallout `json:"overall"`
}

// NewCalloutsState returns an empty state with non-nil slices so it
// serializes as empty arrays rather than null.
func NewCalloutsState() CalloutsState {
	return CalloutsState{
		Inline:  []InlineCallout{},
		Overall: []OverallCallout{},
	}
}
