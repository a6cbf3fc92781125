// ABOUTME: Prompt template files under .docright/prompts/
// ABOUTME: Missing templates fall back to the built-in defaults
package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ReadPrompt returns the contents of a prompt template. A missing file yields
// fallback; a file that exists but is blank yields "".
func (p *Project) ReadPrompt(name, fallback string) (string, error) {
	if err := validPromptName(name); err != nil {
		return "", err
	}
	data, err := readOptional(p.path(PromptsDir, name))
	if err != nil {
		return "", err
	}
	if data == nil {
		return fallback, nil
	}
	return string(data), nil
}

// WritePrompt replaces a prompt template.
func (p *Project) WritePrompt(name, content string) error {
	if err := validPromptName(name); err != nil {
		return err
	}
	return writeFileAtomic(p.path(PromptsDir, name), []byte(content))
}

func validPromptName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid prompt file name: %q", name)
	}
	return nil
}
