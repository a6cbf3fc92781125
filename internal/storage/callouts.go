// ABOUTME: Loading and saving callouts.json and contexts.json
// ABOUTME: Loading is fail-safe: malformed entries are dropped, never fatal
package storage

import (
	"encoding/json"
	"strings"

	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/models"
)

// LoadCallouts reads callouts.json and normalizes it. Entries without an id
// or with an invalid range are dropped, as are inline callouts overlapping an
// earlier one. Missing or corrupt files yield an empty state.
func (p *Project) LoadCallouts() models.CalloutsState {
	path := p.path(CalloutsFile)
	data, err := readOptional(path)
	if err != nil || len(data) == 0 {
		if err != nil {
			p.logger.Debug("callouts unreadable, using defaults", "err", err)
		}
		return models.NewCalloutsState()
	}
	p.reportSchema(CalloutsFile, calloutsSchema, data)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		p.logger.Debug("callouts corrupt, using defaults", "err", err)
		return models.NewCalloutsState()
	}
	return NormalizeCallouts(raw)
}

// NormalizeCallouts converts decoded JSON into a valid CalloutsState.
func NormalizeCallouts(raw map[string]any) models.CalloutsState {
	state := models.NewCalloutsState()

	inlineRaw, _ := raw["inline"].([]any)
	var candidates []models.InlineCallout
	for _, entry := range inlineRaw {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := asString(record["id"])
		id = strings.TrimSpace(id)
		start, okStart := asInt(record["startOffset"])
		end, okEnd := asInt(record["endOffset"])
		if id == "" || !okStart || !okEnd || start < 0 || end <= start {
			continue
		}
		instruction, _ := asString(record["instruction"])
		text, _ := asString(record["text"])
		candidates = append(candidates, models.InlineCallout{
			OffsetRange: models.OffsetRange{StartOffset: start, EndOffset: end},
			ID:          id,
			Instruction: strings.TrimSpace(instruction),
			Text:        text,
		})
	}
	for _, c := range candidates {
		if _, clash := core.FindOverlap(state.Inline, c.StartOffset, c.EndOffset); clash {
			continue
		}
		state.Inline = append(state.Inline, c)
	}

	overallRaw, _ := raw["overall"].([]any)
	for _, entry := range overallRaw {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := asString(record["id"])
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		instruction, _ := asString(record["instruction"])
		state.Overall = append(state.Overall, models.OverallCallout{ID: id, Instruction: strings.TrimSpace(instruction)})
	}
	return state
}

// SaveCallouts writes callouts.json.
func (p *Project) SaveCallouts(state models.CalloutsState) error {
	if state.Inline == nil {
		state.Inline = []models.InlineCallout{}
	}
	if state.Overall == nil {
		state.Overall = []models.OverallCallout{}
	}
	return writeJSON(p.path(CalloutsFile), state)
}

// LoadContexts reads contexts.json, dropping entries without a name or path.
func (p *Project) LoadContexts() []models.ContextItem {
	data, err := readOptional(p.path(ContextsFile))
	if err != nil || len(data) == 0 {
		return []models.ContextItem{}
	}
	p.reportSchema(ContextsFile, contextsSchema, data)

	var state models.ContextsState
	if err := json.Unmarshal(data, &state); err != nil {
		// Older projects stored a bare array.
		if err := json.Unmarshal(data, &state.Items); err != nil {
			p.logger.Debug("contexts corrupt, using defaults", "err", err)
			return []models.ContextItem{}
		}
	}

	items := make([]models.ContextItem, 0, len(state.Items))
	for _, item := range state.Items {
		item.Name = strings.TrimSpace(item.Name)
		item.Path = strings.TrimSpace(item.Path)
		if item.Name == "" || item.Path == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// SaveContexts writes contexts.json.
func (p *Project) SaveContexts(items []models.ContextItem) error {
	if items == nil {
		items = []models.ContextItem{}
	}
	return writeJSON(p.path(ContextsFile), models.ContextsState{Items: items})
}

// LoadScope reads scope.json through core.NormalizeScope.
func (p *Project) LoadScope() models.Scope {
	data, err := readOptional(p.path(ScopeFile))
	if err != nil || len(data) == 0 {
		return models.FullScope()
	}
	p.reportSchema(ScopeFile, scopeSchema, data)
	return core.NormalizeScope(data)
}

// SaveScope writes scope.json after normalizing scope.
func (p *Project) SaveScope(scope models.Scope) error {
	return writeJSON(p.path(ScopeFile), core.NormalizeScope(scope))
}

// LoadSession assembles a core.Session from the project's files.
func (p *Project) LoadSession() (*core.Session, error) {
	text, err := p.LoadDocument()
	if err != nil {
		return nil, err
	}
	return core.NewSession(text, p.LoadCallouts(), p.LoadContexts(), p.LoadScope()), nil
}

// SaveSession persists the document, callouts, contexts and scope of s.
func (p *Project) SaveSession(s *core.Session) error {
	if err := p.SaveDocument(s.Text()); err != nil {
		return err
	}
	if err := p.SaveCallouts(s.State()); err != nil {
		return err
	}
	if err := p.SaveContexts(s.Contexts()); err != nil {
		return err
	}
	return p.SaveScope(s.Scope())
}
