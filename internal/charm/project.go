// ABOUTME: Mirrors a project's document and callout state to Charm KV
// ABOUTME: Keys are project:<name>:<file> for each synced file
package charm

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harper/docright/internal/storage"
)

// ProjectPrefix starts every project key.
const ProjectPrefix = "project:"

// ErrNothingToPull means the store holds no files for the project.
var ErrNothingToPull = errors.New("no synced files found for project")

// Store is the subset of KV operations project sync needs.
type Store interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	ListKeys(prefix string) ([]string, error)
}

// ProjectKey generates the key for one file of a project.
func ProjectKey(name, file string) string {
	return ProjectPrefix + name + ":" + file
}

// ProjectName derives a sync name from a project root when none is given.
func ProjectName(p *storage.Project, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return filepath.Base(p.Root)
}

// PushProject uploads the synced files of p under name and returns the keys written.
// Missing files are skipped.
func PushProject(store Store, p *storage.Project, name string) ([]string, error) {
	var written []string
	for _, file := range storage.SyncedFiles() {
		data, err := p.ReadSynced(file)
		if err != nil {
			return written, fmt.Errorf("reading %s: %w", file, err)
		}
		if data == nil {
			continue
		}
		key := ProjectKey(name, file)
		if err := store.Set(key, data); err != nil {
			return written, err
		}
		written = append(written, key)
	}
	return written, nil
}

// PullProject downloads the synced files of name into p and returns the files written.
// Only keys listed in the store are fetched.
func PullProject(store Store, p *storage.Project, name string) ([]string, error) {
	keys, err := store.ListKeys(ProjectKey(name, ""))
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	var written []string
	for _, file := range storage.SyncedFiles() {
		key := ProjectKey(name, file)
		if !present[key] {
			continue
		}
		data, err := store.Get(key)
		if err != nil {
			return written, fmt.Errorf("fetching %s: %w", file, err)
		}
		if data == nil {
			continue
		}
		if err := p.WriteSynced(file, data); err != nil {
			return written, err
		}
		written = append(written, file)
	}
	if len(written) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingToPull, name)
	}
	return written, nil
}

// ListProjects returns the names of projects present in the store.
func ListProjects(store Store) ([]string, error) {
	keys, err := store.ListKeys(ProjectPrefix)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, key := range keys {
		rest := strings.TrimPrefix(key, ProjectPrefix)
		i := strings.LastIndex(rest, ":")
		if i <= 0 {
			continue
		}
		if name := rest[:i]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}
