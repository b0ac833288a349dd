package v1

import (
	ez_uuid "github.com/billfold/backend/internal/uuid"
)

// URIID is the path parameter for resource detail routes.
type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// URITagID adds the tag path parameter for tag detail routes.
type URITagID struct {
	URIID
	TagID ez_uuid.UUID `uri:"tagId" binding:"required" format:"UUID"` // ID of the tag
}

// Pagination describes one page of a list response.
type Pagination struct {
	Count int   `json:"count"` // Number of items in the current page
	Total int64 `json:"total"` // Number of items matching the filter across all pages
	Page  int   `json:"page"`  // The current page, 1-indexed
	Limit int   `json:"limit"` // Maximum number of items per page
}
