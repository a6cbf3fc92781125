// ABOUTME: Tests for the editing session
// ABOUTME: Exercises callout lifecycle, text edits and serialization through one value
package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/harper/docright/internal/models"
)

func TestSession_AddInlineCallout(t *testing.T) {
	s := NewSession("Hello world", models.NewCalloutsState(), nil, models.FullScope())

	c, err := s.AddInlineCallout(0, 5, "  Capitalize  ")
	if err != nil {
		t.Fatalf("AddInlineCallout failed: %v", err)
	}
	if c.ID != "inline-1" {
		t.Errorf("ID = %q, want inline-1", c.ID)
	}
	if c.Instruction != "Capitalize" {
		t.Errorf("Instruction = %q, want trimmed", c.Instruction)
	}
	if c.Text != "Hello" {
		t.Errorf("Text = %q, want Hello", c.Text)
	}

	tests := []struct {
		name        string
		start, end  int
		instruction string
		wantErr     error
	}{
		{"empty instruction", 6, 11, "   ", ErrEmptyInstruction},
		{"empty range", 6, 6, "x", ErrInvalidRange},
		{"negative start", -1, 2, "x", ErrInvalidRange},
		{"past end", 6, 12, "x", ErrInvalidRange},
		{"overlap", 3, 8, "x", ErrOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddInlineCallout(tt.start, tt.end, tt.instruction)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var overlap *OverlapError
	_, err = s.AddInlineCallout(4, 6, "x")
	if !errors.As(err, &overlap) || overlap.ConflictID != "inline-1" {
		t.Errorf("err = %v, want overlap with inline-1", err)
	}

	// Touching is allowed.
	if _, err := s.AddInlineCallout(5, 11, "Shout"); err != nil {
		t.Errorf("touching callout rejected: %v", err)
	}
}

func TestSession_IDsContinueAfterLoadedState(t *testing.T) {
	state := models.CalloutsState{
		Inline: []models.InlineCallout{
			{ID: "inline-4", Instruction: "a", OffsetRange: models.OffsetRange{StartOffset: 0, EndOffset: 1}},
		},
		Overall: []models.OverallCallout{{ID: "overall-2", Instruction: "b"}},
	}
	s := NewSession("abc", state, nil, models.FullScope())

	c, err := s.AddInlineCallout(1, 2, "next")
	if err != nil {
		t.Fatalf("AddInlineCallout failed: %v", err)
	}
	if c.ID != "inline-5" {
		t.Errorf("ID = %q, want inline-5", c.ID)
	}
	o, err := s.AddOverallCallout("whole thing")
	if err != nil {
		t.Fatalf("AddOverallCallout failed: %v", err)
	}
	if o.ID != "overall-3" {
		t.Errorf("ID = %q, want overall-3", o.ID)
	}

	// Removing the newest id does not allow it to be reissued.
	if err := s.RemoveCallout("inline-5"); err != nil {
		t.Fatalf("RemoveCallout failed: %v", err)
	}
	c, _ = s.AddInlineCallout(1, 2, "again")
	if c.ID != "inline-6" {
		t.Errorf("ID after removal = %q, want inline-6", c.ID)
	}

	if s.State().Inline[0].Text != "a" {
		t.Errorf("loaded callout text = %q, want refreshed to a", s.State().Inline[0].Text)
	}
}

func TestSession_RemoveCallout(t *testing.T) {
	s := NewSession("abc", models.NewCalloutsState(), nil, models.FullScope())
	if _, err := s.AddOverallCallout("x"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveCallout("overall-1"); err != nil {
		t.Errorf("RemoveCallout failed: %v", err)
	}
	if err := s.RemoveCallout("overall-1"); !errors.Is(err, ErrCalloutNotFound) {
		t.Errorf("err = %v, want ErrCalloutNotFound", err)
	}
	if _, err := s.AddOverallCallout(""); !errors.Is(err, ErrEmptyInstruction) {
		t.Errorf("err = %v, want ErrEmptyInstruction", err)
	}
}

func TestSession_ApplyChanges(t *testing.T) {
	s := NewSession("Hello world", models.NewCalloutsState(), nil, models.FullScope())
	if _, err := s.AddInlineCallout(6, 11, "Rename"); err != nil {
		t.Fatal(err)
	}

	changed, err := s.ApplyChanges([]models.TextChange{{RangeOffset: 0, RangeLength: 5, Text: "Goodbye"}})
	if err != nil {
		t.Fatalf("ApplyChanges failed: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if s.Text() != "Goodbye world" {
		t.Errorf("Text = %q", s.Text())
	}
	got := s.InlineCallouts()[0]
	if got.StartOffset != 8 || got.EndOffset != 13 || got.Text != "world" {
		t.Errorf("callout = %+v, want [8,13) world", got)
	}

	_, err = s.ApplyChanges([]models.TextChange{{RangeOffset: 10, RangeLength: 10, Text: ""}})
	if !errors.Is(err, ErrInvalidChange) {
		t.Errorf("out of bounds err = %v, want ErrInvalidChange", err)
	}
	_, err = s.ApplyChanges([]models.TextChange{
		{RangeOffset: 0, RangeLength: 4, Text: ""},
		{RangeOffset: 2, RangeLength: 4, Text: ""},
	})
	if !errors.Is(err, ErrInvalidChange) {
		t.Errorf("overlapping changes err = %v, want ErrInvalidChange", err)
	}
	if s.Text() != "Goodbye world" {
		t.Errorf("rejected batch modified text: %q", s.Text())
	}
}

func TestSession_ApplyChangesBatch(t *testing.T) {
	s := NewSession("one two three", models.NewCalloutsState(), nil, models.FullScope())
	if _, err := s.AddInlineCallout(4, 7, "middle"); err != nil {
		t.Fatal(err)
	}
	_, err := s.ApplyChanges([]models.TextChange{
		{RangeOffset: 0, RangeLength: 3, Text: "1"},
		{RangeOffset: 8, RangeLength: 5, Text: "3"},
	})
	if err != nil {
		t.Fatalf("ApplyChanges failed: %v", err)
	}
	if s.Text() != "1 two 3" {
		t.Errorf("Text = %q, want %q", s.Text(), "1 two 3")
	}
	if c := s.InlineCallouts()[0]; c.Text != "two" {
		t.Errorf("covered text = %q, want two", c.Text)
	}
}

func TestSession_ReplaceText(t *testing.T) {
	s := NewSession("The cat sat.", models.NewCalloutsState(), nil, models.FullScope())
	if _, err := s.AddInlineCallout(8, 11, "verb"); err != nil {
		t.Fatal(err)
	}
	changed, err := s.ReplaceText("The big cat sat.")
	if err != nil {
		t.Fatalf("ReplaceText failed: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if c := s.InlineCallouts()[0]; c.Text != "sat" {
		t.Errorf("covered text = %q, want sat", c.Text)
	}

	changed, err = s.ReplaceText("The big cat sat.")
	if err != nil || changed {
		t.Errorf("identical ReplaceText = %v, %v; want false, nil", changed, err)
	}
}

func TestSession_ContextsAndXML(t *testing.T) {
	s := NewSession("Draft", models.NewCalloutsState(), nil, models.FullScope())
	item, err := s.AddContext(models.ContextItem{Name: "Brief", Path: "brief.md"})
	if err != nil {
		t.Fatalf("AddContext failed: %v", err)
	}
	if item.ID == "" {
		t.Error("context id not assigned")
	}
	if _, err := s.AddContext(models.ContextItem{Name: "NoPath"}); err == nil {
		t.Error("AddContext without path should fail")
	}

	xml, err := s.CalloutsXML()
	if err != nil {
		t.Fatalf("CalloutsXML failed: %v", err)
	}
	if !strings.Contains(xml, "<name>Brief</name>") {
		t.Errorf("context missing from xml:\n%s", xml)
	}
	if doc := s.DocumentXML("<p>Draft</p>"); !strings.Contains(doc, "<llm-body>") {
		t.Errorf("document xml missing body:\n%s", doc)
	}

	if err := s.RemoveContext("Brief"); err != nil {
		t.Errorf("RemoveContext failed: %v", err)
	}
	if len(s.Contexts()) != 0 {
		t.Errorf("contexts = %v, want none", s.Contexts())
	}
}

func TestSession_ScopeAndPrompt(t *testing.T) {
	s := NewSession("Draft", models.NewCalloutsState(), nil, models.Scope{Mode: models.ScopeRange})
	if s.Scope().Mode != models.ScopeFull {
		t.Errorf("invalid initial scope not normalized: %+v", s.Scope())
	}

	s.SetScope(map[string]any{"mode": "range", "selection": map[string]any{"anchorKey": "a", "focusKey": "b"}})
	prompt := s.Prompt("Preamble", "Mode: {{scope_mode}}", "<xml/>")
	if prompt != "Preamble\n\nMode: selection\n\n<xml/>" {
		t.Errorf("Prompt = %q", prompt)
	}

	s.SetFullScope()
	if s.Scope().IsRange() {
		t.Error("SetFullScope left a range scope")
	}
}
