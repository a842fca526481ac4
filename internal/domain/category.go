package domain

import "time"

// CategoryStatus is the lifecycle state of a category
type CategoryStatus string

const (
	CategoryAvailable CategoryStatus = "AVAILABLE"
	CategoryBorrowed  CategoryStatus = "BORROWED"
	CategoryDisabled  CategoryStatus = "DISABLED"
)

// Valid reports whether s is one of the known category statuses
func (s CategoryStatus) Valid() bool {
	switch s {
	case CategoryAvailable, CategoryBorrowed, CategoryDisabled:
		return true
	}
	return false
}

// Category groups books, optionally nested under a parent category
type Category struct {
	ID           int64          `json:"id"`
	Description  string         `json:"description"`
	SortOrder    *int           `json:"sortOrder,omitempty"`
	DateAdded    *time.Time     `json:"dateAdded,omitempty"`
	DateModified *time.Time     `json:"dateModified,omitempty"`
	Status       CategoryStatus `json:"status,omitempty"`
	ParentID     *int64         `json:"parentId,omitempty"`
}

// CategoryPatch carries a merge-patch request body
type CategoryPatch struct {
	Description  *string         `json:"description"`
	SortOrder    *int            `json:"sortOrder"`
	DateAdded    *time.Time      `json:"dateAdded"`
	DateModified *time.Time      `json:"dateModified"`
	Status       *CategoryStatus `json:"status"`
	ParentID     *int64          `json:"parentId"`
}

// Apply merges non-nil patch fields into the category
func (p *CategoryPatch) Apply(c *Category) {
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.SortOrder != nil {
		c.SortOrder = p.SortOrder
	}
	if p.DateAdded != nil {
		c.DateAdded = p.DateAdded
	}
	if p.DateModified != nil {
		c.DateModified = p.DateModified
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.ParentID != nil {
		c.ParentID = p.ParentID
	}
}
