// Package storage defines the generated-site file-system abstraction.
package storage

import "time"

// PageMetadata is a lightweight description of one generated HTML page.
type PageMetadata struct {
	// Path is the page file path relative to the site root, e.g.
	// "topics/note.html".
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for site output file operations.
type Provider interface {
	// List returns metadata for every .html page under dir (relative to site root).
	List(dir string) ([]PageMetadata, error)
	// Read returns the raw bytes of the file at path (relative to site root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to site root).
	Write(path string, content []byte) error
}
