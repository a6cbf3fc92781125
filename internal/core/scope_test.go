// ABOUTME: Tests for scope normalization and scope labels
// ABOUTME: Malformed input must always fall back to the full-document scope
package core

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/harper/docright/internal/models"
)

func TestNormalizeScope(t *testing.T) {
	full := models.FullScope()
	tests := []struct {
		name string
		raw  any
		want models.Scope
	}{
		{"nil", nil, full},
		{"string", "range", full},
		{"missing mode", map[string]any{"selection": map[string]any{"anchorKey": "a", "focusKey": "b"}}, full},
		{"full mode", map[string]any{"mode": "full"}, full},
		{"range without selection", map[string]any{"mode": "range"}, full},
		{"range with empty keys", map[string]any{"mode": "range", "selection": map[string]any{"anchorKey": "", "focusKey": "b"}}, full},
		{"range with numeric keys", map[string]any{"mode": "range", "selection": map[string]any{"anchorKey": 1.0, "focusKey": "b"}}, full},
		{
			"range with defaults",
			map[string]any{"mode": "range", "selection": map[string]any{"anchorKey": "a", "focusKey": "b"}},
			models.Scope{Mode: models.ScopeRange, Selection: &models.Selection{
				AnchorKey: "a", AnchorType: "text", FocusKey: "b", FocusType: "text",
			}},
		},
		{
			"legacy range key",
			map[string]any{"mode": "range", "range": map[string]any{
				"anchorKey": "a", "anchorOffset": 3.0, "anchorType": "element",
				"focusKey": "b", "focusOffset": math.Inf(1), "focusType": 7.0, "isBackward": true,
			}},
			models.Scope{Mode: models.ScopeRange, Selection: &models.Selection{
				AnchorKey: "a", AnchorOffset: 3, AnchorType: "element",
				FocusKey: "b", FocusOffset: 0, FocusType: "text", IsBackward: true,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeScope(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeScope = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeScope_JSON(t *testing.T) {
	raw := []byte(`{"mode":"range","selection":{"anchorKey":"k1","anchorOffset":2,"focusKey":"k2","focusOffset":9,"isBackward":false}}`)
	got := NormalizeScope(raw)
	if got.Mode != models.ScopeRange || got.Selection == nil {
		t.Fatalf("NormalizeScope = %+v, want range", got)
	}
	if got.Selection.AnchorOffset != 2 || got.Selection.FocusOffset != 9 {
		t.Errorf("offsets = %d,%d, want 2,9", got.Selection.AnchorOffset, got.Selection.FocusOffset)
	}

	if got := NormalizeScope([]byte("{not json")); got.Mode != models.ScopeFull || got.Selection != nil {
		t.Errorf("corrupt JSON = %+v, want full", got)
	}
	if got := NormalizeScope(json.RawMessage(`[]`)); got.Mode != models.ScopeFull {
		t.Errorf("array JSON = %+v, want full", got)
	}
}

func TestNormalizeScope_Typed(t *testing.T) {
	in := models.Scope{Mode: models.ScopeRange, Selection: &models.Selection{AnchorKey: "a", FocusKey: "b"}}
	got := NormalizeScope(in)
	if !got.IsRange() || got.Selection.AnchorType != "text" {
		t.Errorf("NormalizeScope(typed) = %+v", got)
	}
	if got.Selection == in.Selection {
		t.Error("selection should be copied")
	}

	if got := NormalizeScope(models.Scope{Mode: models.ScopeRange}); got.Mode != models.ScopeFull {
		t.Errorf("range without selection = %+v, want full", got)
	}
	var nilScope *models.Scope
	if got := NormalizeScope(nilScope); got.Mode != models.ScopeFull {
		t.Errorf("nil pointer = %+v, want full", got)
	}
}

func TestScopeLabels(t *testing.T) {
	rangeScope := models.Scope{Mode: models.ScopeRange, Selection: &models.Selection{AnchorKey: "a", FocusKey: "b"}}

	if got := ScopeModeLabel(models.FullScope()); got != "full" {
		t.Errorf("ScopeModeLabel(full) = %q, want full", got)
	}
	if got := ScopeModeLabel(rangeScope); got != "selection" {
		t.Errorf("ScopeModeLabel(range) = %q, want selection", got)
	}
	if got := ScopeDescription(models.FullScope()); got != "Full document." {
		t.Errorf("ScopeDescription(full) = %q", got)
	}
	if got := ScopeDescription(rangeScope); got != "User-selected range in the document." {
		t.Errorf("ScopeDescription(range) = %q", got)
	}
	// A range mode without a selection is labelled as full.
	if got := ScopeModeLabel(models.Scope{Mode: models.ScopeRange}); got != "full" {
		t.Errorf("ScopeModeLabel(range, nil) = %q, want full", got)
	}
}
