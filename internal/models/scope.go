// ABOUTME: Scope restricts editing to the full document or a selected range
// ABOUTME: Selection mirrors the editor's anchor/focus point pair
package models

// ScopeMode is either full-document or range-restricted.
type ScopeMode string

const (
	ScopeFull  ScopeMode = "full"
	ScopeRange ScopeMode = "range"
)

// Selection is an anchor/focus pair of editor points.
type Selection struct {
	AnchorKey    string `json:"anchorKey"`
	AnchorOffset int    `json:"anchorOffset"`
	AnchorType   string `json:"anchorType"`
	FocusKey     string `json:"focusKey"`
	FocusOffset  int    `json:"focusOffset"`
	FocusType    string `json:"focusType"`
	IsBackward   bool   `json:"isBackward"`
}

// Scope is the portion of the document that editing is restricted to.
// Mode is ScopeRange only when Selection is non-nil.
type Scope struct {
	Mode      ScopeMode  `json:"mode"`
	Selection *Selection `json:"selection"`
}

// FullScope returns the full-document scope.
func FullScope() Scope {
	return Scope{Mode: ScopeFull}
}

// IsRange reports whether the scope is restricted to a selection.
func (s Scope) IsRange() bool {
	return s.Mode == ScopeRange && s.Selection != nil
}
