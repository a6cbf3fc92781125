// ABOUTME: Export of the iteration history index
// ABOUTME: Supports YAML, Markdown and JSON export formats
package sqlite

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportVersion is the version of the export document layout.
const ExportVersion = "1.0"

// ExportData represents the complete exportable history
type ExportData struct {
	Version    string            `yaml:"version" json:"version"`
	ExportedAt string            `yaml:"exported_at" json:"exported_at"`
	Tool       string            `yaml:"tool" json:"tool"`
	Iterations []ExportIteration `yaml:"iterations" json:"iterations"`
}

// ExportIteration represents one history entry for export
type ExportIteration struct {
	IterationID     string `yaml:"iteration_id" json:"iteration_id"`
	ProjectRoot     string `yaml:"project_root" json:"project_root"`
	Model           string `yaml:"model" json:"model"`
	ScopeMode       string `yaml:"scope_mode" json:"scope_mode"`
	PromptUnits     int    `yaml:"prompt_units" json:"prompt_units"`
	PromptTokens    int    `yaml:"prompt_tokens" json:"prompt_tokens"`
	ResponseUnits   int    `yaml:"response_units" json:"response_units"`
	ResponseSnippet string `yaml:"response_snippet,omitempty" json:"response_snippet,omitempty"`
	CreatedAt       string `yaml:"created_at" json:"created_at"`
}

// Export collects the entries matching f, newest first.
func (s *HistoryStore) Export(f Filter) (*ExportData, error) {
	entries, err := s.List(f)
	if err != nil {
		return nil, err
	}
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "docright",
		Iterations: make([]ExportIteration, 0, len(entries)),
	}
	for _, e := range entries {
		data.Iterations = append(data.Iterations, ExportIteration{
			IterationID:     e.IterationID,
			ProjectRoot:     e.ProjectRoot,
			Model:           e.Model,
			ScopeMode:       e.ScopeMode,
			PromptUnits:     e.PromptUnits,
			PromptTokens:    e.PromptTokens,
			ResponseUnits:   e.ResponseUnits,
			ResponseSnippet: e.ResponseSnippet,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		})
	}
	return data, nil
}

// WriteYAML encodes data as YAML
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteJSON encodes data as indented JSON
func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown renders data as a Markdown report grouped by project
func WriteMarkdown(w io.Writer, data *ExportData) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# docright History Export - %s\n\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Iterations) == 0 {
		b.WriteString("No iterations recorded.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	var projects []string
	byProject := map[string][]ExportIteration{}
	for _, it := range data.Iterations {
		if _, ok := byProject[it.ProjectRoot]; !ok {
			projects = append(projects, it.ProjectRoot)
		}
		byProject[it.ProjectRoot] = append(byProject[it.ProjectRoot], it)
	}

	for _, project := range projects {
		fmt.Fprintf(&b, "## %s\n\n", project)
		b.WriteString("| Iteration | Model | Scope | Prompt units | Tokens | Created |\n")
		b.WriteString("|-----------|-------|-------|--------------|--------|---------|\n")
		for _, it := range byProject[project] {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %s |\n",
				it.IterationID, it.Model, it.ScopeMode, it.PromptUnits, it.PromptTokens, it.CreatedAt)
		}
		b.WriteString("\n")
		for _, it := range byProject[project] {
			if it.ResponseSnippet == "" {
				continue
			}
			fmt.Fprintf(&b, "**%s:** %s\n\n", it.IterationID, markdownLine(it.ResponseSnippet))
		}
		b.WriteString("---\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func markdownLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
