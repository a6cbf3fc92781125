// ABOUTME: Project layout under .docright/ and project initialization
// ABOUTME: Locates a project by walking up from a directory, like git does
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/docright/internal/models"
)

// Layout names.
const (
	DirName             = ".docright"
	ConfigFile          = "docright.json"
	SettingsFile        = "settings.json"
	PromptsDir          = "prompts"
	LLMDir              = "llm"
	IterationsDir       = "iterations"
	SessionFile         = "session.json"
	LastRunFile         = "last_run.json"
	DefaultDocumentFile = "document.txt"
	CalloutsFile        = "callouts.json"
	ContextsFile        = "contexts.json"
	ScopeFile           = "scope.json"

	LLMPreambleFile       = "llm_preamble.txt"
	IterationPreambleFile = "iteration_preamble.txt"

	projectVersion = 1
)

var (
	ErrProjectExists = errors.New("project already initialized")
	ErrNotProject    = errors.New("not a docright project (or any parent directory)")
	ErrConfigCorrupt = errors.New("project config is corrupt")
)

// Project is a docright project rooted at Root.
type Project struct {
	Root   string
	logger *log.Logger
}

// Open returns a handle for the project at root without touching the disk.
func Open(root string, logger *log.Logger) *Project {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Project{Root: abs, logger: logger}
}

// Find walks up from start to the nearest directory holding .docright/docright.json.
func Find(start string, logger *log.Logger) (*Project, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		if fileExists(filepath.Join(dir, DirName, ConfigFile)) {
			return Open(dir, logger), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNotProject
		}
		dir = parent
	}
}

// Dir returns the .docright directory.
func (p *Project) Dir() string {
	return filepath.Join(p.Root, DirName)
}

func (p *Project) path(parts ...string) string {
	return filepath.Join(append([]string{p.Dir()}, parts...)...)
}

// SettingsPath returns the location of settings.json.
func (p *Project) SettingsPath() string { return p.path(SettingsFile) }

// Exists reports whether the project has been initialized.
func (p *Project) Exists() bool {
	return fileExists(p.path(ConfigFile))
}

// Initialize creates the project layout. documentFile defaults to document.txt.
// Existing files are never overwritten.
func (p *Project) Initialize(documentFile string) error {
	if p.Exists() {
		return fmt.Errorf("%w: %s", ErrProjectExists, p.Root)
	}
	if documentFile == "" {
		documentFile = DefaultDocumentFile
	}
	cfg := models.ProjectConfig{
		Version:   projectVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Document:  models.DocumentConfig{File: documentFile},
	}
	if err := p.ensureLayout(); err != nil {
		return err
	}
	if err := writeJSON(p.path(ConfigFile), cfg); err != nil {
		return err
	}
	if err := writeIfMissing(filepath.Join(p.Root, documentFile), nil); err != nil {
		return err
	}
	p.logger.Debug("initialized project", "root", p.Root, "document", documentFile)
	return nil
}

// Ensure fills in any missing layout files of an existing project.
func (p *Project) Ensure() error {
	if !p.Exists() {
		return ErrNotProject
	}
	return p.ensureLayout()
}

func (p *Project) ensureLayout() error {
	for _, dir := range []string{p.path(PromptsDir), p.path(LLMDir), p.path(IterationsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	defaults := []struct {
		path string
		v    any
	}{
		{p.path(CalloutsFile), models.NewCalloutsState()},
		{p.path(ContextsFile), models.ContextsState{Items: []models.ContextItem{}}},
		{p.path(ScopeFile), models.FullScope()},
		{p.path(LLMDir, SessionFile), defaultSession()},
	}
	for _, d := range defaults {
		data, err := json.MarshalIndent(d.v, "", "  ")
		if err != nil {
			return err
		}
		if err := writeIfMissing(d.path, append(data, '\n')); err != nil {
			return err
		}
	}

	if err := writeIfMissing(p.path(PromptsDir, LLMPreambleFile), []byte(DefaultLLMPreamble)); err != nil {
		return err
	}
	return writeIfMissing(p.path(PromptsDir, IterationPreambleFile), []byte(DefaultIterationPreamble))
}

// LoadConfig reads docright.json.
func (p *Project) LoadConfig() (models.ProjectConfig, error) {
	data, err := readOptional(p.path(ConfigFile))
	if err != nil {
		return models.ProjectConfig{}, err
	}
	if data == nil {
		return models.ProjectConfig{}, ErrNotProject
	}
	var cfg models.ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.ProjectConfig{}, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}
	if cfg.Document.File == "" {
		cfg.Document.File = DefaultDocumentFile
	}
	return cfg, nil
}

// DocumentPath returns the absolute path of the document file.
func (p *Project) DocumentPath() (string, error) {
	cfg, err := p.LoadConfig()
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(cfg.Document.File) {
		return cfg.Document.File, nil
	}
	return filepath.Join(p.Root, cfg.Document.File), nil
}

// LoadDocument returns the document text, or "" when the file is missing.
func (p *Project) LoadDocument() (string, error) {
	path, err := p.DocumentPath()
	if err != nil {
		return "", err
	}
	data, err := readOptional(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveDocument replaces the document text.
func (p *Project) SaveDocument(text string) error {
	path, err := p.DocumentPath()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(text))
}
