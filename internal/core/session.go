// ABOUTME: Session is the explicit editing state for one document
// ABOUTME: Owns the text buffer, callouts, contexts, scope and id counters
package core

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/harper/docright/internal/models"
)

// Session holds the mutable state of one annotated document. It is not safe
// for concurrent use; callers serialize access.
type Session struct {
	text     string
	inline   []models.InlineCallout
	overall  []models.OverallCallout
	contexts []models.ContextItem
	scope    models.Scope

	inlineIDs  *IDAllocator
	overallIDs *IDAllocator
}

// NewSession creates a session over text with previously persisted state.
// Loaded inline callouts get their covered text refreshed.
func NewSession(text string, state models.CalloutsState, contexts []models.ContextItem, scope models.Scope) *Session {
	s := &Session{
		text:     text,
		inline:   slices.Clone(state.Inline),
		overall:  slices.Clone(state.Overall),
		contexts: slices.Clone(contexts),
		scope:    NormalizeScope(scope),
	}

	var inlineIDs, overallIDs []string
	for _, c := range s.inline {
		inlineIDs = append(inlineIDs, c.ID)
	}
	for _, c := range s.overall {
		overallIDs = append(overallIDs, c.ID)
	}
	s.inlineIDs = NewIDAllocator(models.InlinePrefix, inlineIDs)
	s.overallIDs = NewIDAllocator(models.OverallPrefix, overallIDs)

	s.refreshCoveredText()
	return s
}

// Text returns the current document text.
func (s *Session) Text() string { return s.text }

// Scope returns the active scope.
func (s *Session) Scope() models.Scope { return s.scope }

// Contexts returns a copy of the context items.
func (s *Session) Contexts() []models.ContextItem { return slices.Clone(s.contexts) }

// State returns a copy of the callouts in their persisted shape.
func (s *Session) State() models.CalloutsState {
	state := models.NewCalloutsState()
	state.Inline = append(state.Inline, s.inline...)
	state.Overall = append(state.Overall, s.overall...)
	return state
}

// InlineCallouts returns the inline callouts ordered by start offset.
func (s *Session) InlineCallouts() []models.InlineCallout {
	return SortByStart(s.inline)
}

// AddInlineCallout attaches instruction to [start, end).
func (s *Session) AddInlineCallout(start, end int, instruction string) (models.InlineCallout, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return models.InlineCallout{}, ErrEmptyInstruction
	}
	if start < 0 || end <= start || end > Len16(s.text) {
		return models.InlineCallout{}, fmt.Errorf("%w: [%d, %d) in text of length %d", ErrInvalidRange, start, end, Len16(s.text))
	}
	if existing, ok := FindOverlap(s.inline, start, end); ok {
		return models.InlineCallout{}, &OverlapError{StartOffset: start, EndOffset: end, ConflictID: existing.ID}
	}

	c := models.InlineCallout{
		OffsetRange: models.OffsetRange{StartOffset: start, EndOffset: end},
		ID:          s.inlineIDs.Next(),
		Instruction: instruction,
		Text:        Slice16(s.text, start, end),
	}
	s.inline = append(s.inline, c)
	return c, nil
}

// AddOverallCallout adds a document-wide instruction.
func (s *Session) AddOverallCallout(instruction string) (models.OverallCallout, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return models.OverallCallout{}, ErrEmptyInstruction
	}
	c := models.OverallCallout{ID: s.overallIDs.Next(), Instruction: instruction}
	s.overall = append(s.overall, c)
	return c, nil
}

// RemoveCallout deletes the inline or overall callout with id.
func (s *Session) RemoveCallout(id string) error {
	if i := slices.IndexFunc(s.inline, func(c models.InlineCallout) bool { return c.ID == id }); i >= 0 {
		s.inline = slices.Delete(s.inline, i, i+1)
		return nil
	}
	if i := slices.IndexFunc(s.overall, func(c models.OverallCallout) bool { return c.ID == id }); i >= 0 {
		s.overall = slices.Delete(s.overall, i, i+1)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrCalloutNotFound, id)
}

// ClearInlineCallouts removes every inline callout and returns how many there were.
func (s *Session) ClearInlineCallouts() int {
	n := len(s.inline)
	s.inline = nil
	return n
}

// AddContext appends a context item, assigning an id when it has none.
func (s *Session) AddContext(item models.ContextItem) (models.ContextItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Path = strings.TrimSpace(item.Path)
	item.Description = strings.TrimSpace(item.Description)
	if item.Name == "" || item.Path == "" {
		return models.ContextItem{}, fmt.Errorf("context item requires a name and a path")
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	s.contexts = append(s.contexts, item)
	return item, nil
}

// RemoveContext deletes the context item whose id or name matches key.
func (s *Session) RemoveContext(key string) error {
	i := slices.IndexFunc(s.contexts, func(c models.ContextItem) bool { return c.ID == key || c.Name == key })
	if i < 0 {
		return fmt.Errorf("context item not found: %s", key)
	}
	s.contexts = slices.Delete(s.contexts, i, i+1)
	return nil
}

// ApplyChanges applies a batch of edits to the text and keeps inline ranges
// aligned. All change offsets refer to the text before the batch; changes
// must lie within it and must not overlap each other. The boolean reports
// whether any inline range moved, resized or was dropped.
func (s *Session) ApplyChanges(changes []models.TextChange) (bool, error) {
	if len(changes) == 0 {
		return false, nil
	}

	units := Units(s.text)
	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, func(a, b models.TextChange) int {
		return b.RangeOffset - a.RangeOffset
	})

	limit := len(units)
	for _, c := range sorted {
		end := c.RangeOffset + c.RangeLength
		if c.RangeOffset < 0 || c.RangeLength < 0 || end > limit {
			return false, fmt.Errorf("%w: offset %d length %d against %d units", ErrInvalidChange, c.RangeOffset, c.RangeLength, limit)
		}
		limit = c.RangeOffset
	}

	for _, c := range sorted {
		replacement := Units(c.Text)
		units = slices.Replace(units, c.RangeOffset, c.RangeOffset+c.RangeLength, replacement...)
	}
	s.text = string(utf16.Decode(units))

	var changed bool
	s.inline, changed = ApplyOffsetChanges(s.inline, changes)
	s.refreshCoveredText()
	return changed, nil
}

// ReplaceText swaps in newText as a single minimal edit.
func (s *Session) ReplaceText(newText string) (bool, error) {
	change, ok := DiffChange(s.text, newText)
	if !ok {
		return false, nil
	}
	return s.ApplyChanges([]models.TextChange{change})
}

// SetScope normalizes raw and makes it the active scope.
func (s *Session) SetScope(raw any) models.Scope {
	s.scope = NormalizeScope(raw)
	return s.scope
}

// SetFullScope resets the scope to the whole document.
func (s *Session) SetFullScope() {
	s.scope = models.FullScope()
}

// CalloutsXML serializes the plain text and its callouts.
func (s *Session) CalloutsXML() (string, error) {
	return BuildCalloutsXML(s.text, s.inline, s.overall, s.contexts)
}

// DocumentXML serializes a rendered HTML body with the overall callouts and contexts.
func (s *Session) DocumentXML(html string) string {
	return BuildDocumentXML(html, s.overall, s.contexts)
}

// Prompt assembles the full prompt around xml using the active scope.
func (s *Session) Prompt(preamble, iterationTemplate, xml string) string {
	return BuildPrompt(PromptParts{
		LLMPreamble:       preamble,
		IterationTemplate: iterationTemplate,
		Scope:             s.scope,
		XML:               xml,
	})
}

func (s *Session) refreshCoveredText() {
	units := Units(s.text)
	for i := range s.inline {
		c := &s.inline[i]
		c.Text = SliceUnits(units, c.StartOffset, c.EndOffset)
	}
}
