// Package site loads the manifest the site generator writes next to its
// HTML output: the global note-link graph plus per-page titles.
package site

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// Manifest is the generator's description of the built site.
type Manifest struct {
	// Nodes are unique note paths (no .html extension).
	Nodes []string `json:"nodes"`
	// Edges are (source, target) note path pairs. Endpoints missing from
	// Nodes are tolerated here and dropped at layout build time.
	Edges [][2]string `json:"edges"`
	// Pages maps note paths to their display titles.
	Pages map[string]string `json:"pages"`
}

// Load reads and decodes a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("site: parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// HasNode reports whether path is a known note.
func (m *Manifest) HasNode(path string) bool {
	for _, n := range m.Nodes {
		if n == path {
			return true
		}
	}
	return false
}

// Title returns the display title for a note path, or empty string.
func (m *Manifest) Title(path string) string {
	if m.Pages == nil {
		return ""
	}
	return m.Pages[path]
}

// Source holds the manifest for a running service and supports atomic
// reloads when the generator rebuilds the site.
type Source struct {
	path string
	cur  atomic.Pointer[Manifest]
}

// NewSource loads the manifest at path and keeps it reloadable.
func NewSource(path string) (*Source, error) {
	s := &Source{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the most recently loaded manifest.
func (s *Source) Current() *Manifest { return s.cur.Load() }

// Path returns the manifest file path being watched.
func (s *Source) Path() string { return s.path }

// Reload re-reads the manifest from disk. On failure the previous
// manifest stays in place.
func (s *Source) Reload() error {
	m, err := Load(s.path)
	if err != nil {
		return err
	}
	s.cur.Store(m)
	return nil
}
