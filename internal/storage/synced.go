// ABOUTME: Raw access to the project files that are mirrored to cloud sync
// ABOUTME: The document is addressed by a fixed logical name regardless of its file name
package storage

import (
	"encoding/json"
	"fmt"
	"slices"
)

// SyncDocument is the logical name of the document among synced files.
const SyncDocument = "document.txt"

// SyncedFiles lists the logical names of files mirrored by cloud sync.
func SyncedFiles() []string {
	return []string{SyncDocument, CalloutsFile, ContextsFile, ScopeFile}
}

func (p *Project) syncedPath(name string) (string, error) {
	if !slices.Contains(SyncedFiles(), name) {
		return "", fmt.Errorf("not a synced file: %s", name)
	}
	if name == SyncDocument {
		return p.DocumentPath()
	}
	return p.path(name), nil
}

// ReadSynced returns the raw contents of a synced file, or nil when missing.
func (p *Project) ReadSynced(name string) ([]byte, error) {
	path, err := p.syncedPath(name)
	if err != nil {
		return nil, err
	}
	return readOptional(path)
}

// WriteSynced replaces a synced file. JSON state files must hold valid JSON.
func (p *Project) WriteSynced(name string, data []byte) error {
	path, err := p.syncedPath(name)
	if err != nil {
		return err
	}
	if name != SyncDocument && !json.Valid(data) {
		return fmt.Errorf("%s: invalid JSON", name)
	}
	return writeFileAtomic(path, data)
}
