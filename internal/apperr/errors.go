// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrEmptyOutline signals a page with no eligible headings; callers
	// omit the navigation panel instead of rendering an empty one.
	ErrEmptyOutline = errors.New("empty outline")
)
