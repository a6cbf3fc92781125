// ABOUTME: Iteration snapshots, LLM session and last-run records
// ABOUTME: Snapshots are named iter_<timestamp>_<uuid8>.json and listed newest first
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/docright/internal/models"
)

const iterationPrefix = "iter_"

// NewIterationID returns an id like iter_20250102_150405_1a2b3c4d.
func NewIterationID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return iterationPrefix + now.UTC().Format("20060102_150405") + "_" + suffix
}

// SaveIteration writes a snapshot, assigning an id and timestamp when absent.
func (p *Project) SaveIteration(it models.Iteration) (models.Iteration, error) {
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	if it.IterationID == "" {
		it.IterationID = NewIterationID(it.CreatedAt)
	}
	if err := writeJSON(p.path(IterationsDir, it.IterationID+".json"), it); err != nil {
		return models.Iteration{}, err
	}
	return it, nil
}

// LoadIteration reads one snapshot by id.
func (p *Project) LoadIteration(id string) (models.Iteration, error) {
	if id != filepath.Base(id) || !strings.HasPrefix(id, iterationPrefix) {
		return models.Iteration{}, fmt.Errorf("invalid iteration id: %q", id)
	}
	data, err := os.ReadFile(p.path(IterationsDir, id+".json"))
	if err != nil {
		return models.Iteration{}, fmt.Errorf("reading iteration %s: %w", id, err)
	}
	var it models.Iteration
	if err := json.Unmarshal(data, &it); err != nil {
		return models.Iteration{}, fmt.Errorf("decoding iteration %s: %w", id, err)
	}
	return it, nil
}

// ListIterations returns all readable snapshots, newest first.
func (p *Project) ListIterations() ([]models.Iteration, error) {
	entries, err := os.ReadDir(p.path(IterationsDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing iterations: %w", err)
	}

	var out []models.Iteration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, iterationPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		it, err := p.LoadIteration(strings.TrimSuffix(name, ".json"))
		if err != nil {
			p.logger.Debug("skipping unreadable iteration", "file", name, "err", err)
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func defaultSession() models.LLMSession {
	return models.LLMSession{Provider: "openai", Model: nil, Messages: []models.ChatMessage{}}
}

// LoadLLMSession reads llm/session.json, falling back to an empty OpenAI session.
func (p *Project) LoadLLMSession() models.LLMSession {
	data, err := readOptional(p.path(LLMDir, SessionFile))
	if err != nil || len(data) == 0 {
		return defaultSession()
	}
	var s models.LLMSession
	if err := json.Unmarshal(data, &s); err != nil {
		p.logger.Debug("session corrupt, using defaults", "err", err)
		return defaultSession()
	}
	if s.Provider == "" {
		s.Provider = "openai"
	}
	if s.Messages == nil {
		s.Messages = []models.ChatMessage{}
	}
	return s
}

// SaveLLMSession writes llm/session.json.
func (p *Project) SaveLLMSession(s models.LLMSession) error {
	if s.Messages == nil {
		s.Messages = []models.ChatMessage{}
	}
	return writeJSON(p.path(LLMDir, SessionFile), s)
}

// SaveLastRun writes llm/last_run.json.
func (p *Project) SaveLastRun(run models.LastRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	return writeJSON(p.path(LLMDir, LastRunFile), run)
}

// LoadLastRun reads llm/last_run.json. The boolean is false when none exists.
func (p *Project) LoadLastRun() (models.LastRun, bool) {
	data, err := readOptional(p.path(LLMDir, LastRunFile))
	if err != nil || data == nil {
		return models.LastRun{}, false
	}
	var run models.LastRun
	if err := json.Unmarshal(data, &run); err != nil {
		return models.LastRun{}, false
	}
	return run, true
}
