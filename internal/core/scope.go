// ABOUTME: Scope normalization: any untrusted shape becomes a valid Scope
// ABOUTME: Range scopes need non-empty anchor and focus keys; everything else is full
package core

import (
	"encoding/json"
	"math"

	"github.com/harper/docright/internal/models"
)

const defaultPointType = "text"

// NormalizeScope converts raw scope data into a valid Scope. raw may be a
// decoded JSON value (map[string]any), raw JSON bytes, or a models.Scope.
// It never fails: unusable input yields the full-document scope.
func NormalizeScope(raw any) models.Scope {
	switch v := raw.(type) {
	case models.Scope:
		return normalizeTyped(v)
	case *models.Scope:
		if v == nil {
			return models.FullScope()
		}
		return normalizeTyped(*v)
	case json.RawMessage:
		return NormalizeScope([]byte(v))
	case []byte:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return models.FullScope()
		}
		return normalizeMap(decoded)
	default:
		return normalizeMap(raw)
	}
}

func normalizeTyped(s models.Scope) models.Scope {
	if s.Mode != models.ScopeRange || s.Selection == nil {
		return models.FullScope()
	}
	if s.Selection.AnchorKey == "" || s.Selection.FocusKey == "" {
		return models.FullScope()
	}
	sel := *s.Selection
	if sel.AnchorType == "" {
		sel.AnchorType = defaultPointType
	}
	if sel.FocusType == "" {
		sel.FocusType = defaultPointType
	}
	return models.Scope{Mode: models.ScopeRange, Selection: &sel}
}

func normalizeMap(raw any) models.Scope {
	record, ok := raw.(map[string]any)
	if !ok {
		return models.FullScope()
	}
	if mode, _ := record["mode"].(string); mode != string(models.ScopeRange) {
		return models.FullScope()
	}

	selection, ok := record["selection"].(map[string]any)
	if !ok {
		// legacy key
		selection, ok = record["range"].(map[string]any)
	}
	if !ok {
		return models.FullScope()
	}

	anchorKey, _ := selection["anchorKey"].(string)
	focusKey, _ := selection["focusKey"].(string)
	if anchorKey == "" || focusKey == "" {
		return models.FullScope()
	}

	return models.Scope{
		Mode: models.ScopeRange,
		Selection: &models.Selection{
			AnchorKey:    anchorKey,
			AnchorOffset: finiteInt(selection["anchorOffset"]),
			AnchorType:   stringOr(selection["anchorType"], defaultPointType),
			FocusKey:     focusKey,
			FocusOffset:  finiteInt(selection["focusOffset"]),
			FocusType:    stringOr(selection["focusType"], defaultPointType),
			IsBackward:   truthy(selection["isBackward"]),
		},
	}
}

func finiteInt(v any) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return finiteInt(f)
	default:
		return 0
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// truthy follows loose boolean coercion for values that arrive from JSON.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b != ""
	case float64:
		return b != 0 && !math.IsNaN(b)
	case nil:
		return false
	default:
		return true
	}
}

// ScopeModeLabel returns "selection" for a range scope and "full" otherwise.
func ScopeModeLabel(s models.Scope) string {
	if s.IsRange() {
		return "selection"
	}
	return "full"
}

// ScopeDescription returns the fixed description used in prompt templates.
func ScopeDescription(s models.Scope) string {
	if s.IsRange() {
		return "User-selected range in the document."
	}
	return "Full document."
}
