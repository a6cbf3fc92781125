// ABOUTME: Workspace ties a project on disk to its settings and editing session
// ABOUTME: Shared by the CLI, the MCP handlers and the standalone server
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/docright/internal/config"
	"github.com/harper/docright/internal/core"
	"github.com/harper/docright/internal/logging"
	"github.com/harper/docright/internal/render"
	"github.com/harper/docright/internal/storage"
)

// Body selects how the document is serialized into the prompt.
type Body string

const (
	// BodyAuto picks a body from the document file extension.
	BodyAuto Body = ""
	// BodyText serializes plain text with offset-based <llm-edit> markers.
	BodyText     Body = "text"
	BodyHTML     Body = "html"
	BodyMarkdown Body = "markdown"
	BodyOrg      Body = "org"
)

// ParseBody validates a body name.
func ParseBody(s string) (Body, error) {
	switch b := Body(strings.ToLower(strings.TrimSpace(s))); b {
	case BodyAuto, BodyText, BodyHTML, BodyMarkdown, BodyOrg:
		return b, nil
	case "md":
		return BodyMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported body %q (want text, html, markdown or org)", s)
	}
}

// Workspace is an opened project with its settings and session loaded.
type Workspace struct {
	Project  *storage.Project
	Settings config.Settings
	Session  *core.Session
	logger   *log.Logger
}

// Init creates a project at root and opens it.
func Init(root, documentFile string, logger *log.Logger) (*Workspace, error) {
	p := storage.Open(root, logger)
	if err := p.Initialize(documentFile); err != nil {
		return nil, err
	}
	if _, err := os.Stat(p.SettingsPath()); errors.Is(err, os.ErrNotExist) {
		if err := config.SaveSettings(p.SettingsPath(), config.DefaultSettings()); err != nil {
			return nil, err
		}
	}
	return open(p, logger)
}

// Open finds the project containing dir and loads it.
func Open(dir string, logger *log.Logger) (*Workspace, error) {
	p, err := storage.Find(dir, logger)
	if err != nil {
		return nil, err
	}
	return open(p, logger)
}

func open(p *storage.Project, logger *log.Logger) (*Workspace, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := p.Ensure(); err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(p.SettingsPath())
	if err != nil {
		logger.Debug("using default settings", "err", err)
	}
	if settings.Diagnostics.DebugLogging {
		logger.SetLevel(log.DebugLevel)
	}

	session, err := p.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &Workspace{Project: p, Settings: settings, Session: session, logger: logger}, nil
}

// Save persists the session.
func (w *Workspace) Save() error {
	if err := w.Project.SaveSession(w.Session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	w.logger.Debug("saved session", "root", w.Project.Root)
	return nil
}

// Reload discards in-memory changes and rereads the project.
func (w *Workspace) Reload() error {
	session, err := w.Project.LoadSession()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	w.Session = session
	return nil
}

// ResolveBody turns BodyAuto into a concrete body using the document file name.
func (w *Workspace) ResolveBody(body Body) Body {
	if body != BodyAuto {
		return body
	}
	path, err := w.Project.DocumentPath()
	if err != nil {
		return BodyText
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return BodyMarkdown
	case ".org":
		return BodyOrg
	case ".html", ".htm":
		return BodyHTML
	default:
		return BodyText
	}
}

// XML serializes the document for the given body.
func (w *Workspace) XML(body Body) (string, error) {
	var format render.Format
	switch w.ResolveBody(body) {
	case BodyText:
		return w.Session.CalloutsXML()
	case BodyHTML:
		format = render.FormatHTML
	case BodyMarkdown:
		format = render.FormatMarkdown
	case BodyOrg:
		format = render.FormatOrg
	default:
		return "", fmt.Errorf("unsupported body %q", body)
	}

	html, err := render.Render(format, w.Session.Text(), w.Session.InlineCallouts())
	if err != nil {
		return "", err
	}
	return w.Session.DocumentXML(html), nil
}

// Templates returns the LLM preamble and iteration template.
func (w *Workspace) Templates() (preamble, iteration string, err error) {
	preamble, err = w.Project.ReadPrompt(w.Settings.Prompts.LLMPreambleFile, storage.DefaultLLMPreamble)
	if err != nil {
		return "", "", err
	}
	iteration, err = w.Project.ReadPrompt(w.Settings.Prompts.IterationPreambleFile, storage.DefaultIterationPreamble)
	if err != nil {
		return "", "", err
	}
	return preamble, iteration, nil
}

// Prompt assembles the full prompt for the current session.
func (w *Workspace) Prompt(body Body) (string, error) {
	xml, err := w.XML(body)
	if err != nil {
		return "", err
	}
	preamble, iteration, err := w.Templates()
	if err != nil {
		return "", err
	}
	return w.Session.Prompt(preamble, iteration, xml), nil
}

// PromptChunks splits the current prompt with the configured chunk size.
func (w *Workspace) PromptChunks(body Body, chunkSize int) (core.PromptChunks, error) {
	prompt, err := w.Prompt(body)
	if err != nil {
		return core.PromptChunks{}, err
	}
	if chunkSize == 0 {
		chunkSize = w.Settings.LLM.PromptChunkSize
	}
	return core.BuildPromptChunks(prompt, chunkSize)
}

// Model returns the configured chat model, preferring override when set.
func (w *Workspace) Model(override string) string {
	if m := strings.TrimSpace(override); m != "" {
		return m
	}
	return w.Settings.LLM.DefaultModel
}
