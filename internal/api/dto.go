package api

import "github.com/starford/raido/internal/storage"

// PageListItem is a lightweight item in a page listing (aliased from the
// storage layer).
type PageListItem = storage.PageMetadata

// PageListResponse wraps page listings.
type PageListResponse struct {
	Pages []PageListItem `json:"pages" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// GraphResponse wraps the site link graph.
type GraphResponse struct {
	Nodes []string    `json:"nodes" example:"index,topics/go" validate:"required"`
	Links [][2]string `json:"links" validate:"required"`
}
