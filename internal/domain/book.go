package domain

import "time"

// Book is a catalogued publication
type Book struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author,omitempty"`
	Keywords     string     `json:"keywords,omitempty"`
	Description  string     `json:"description,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	DateAdded    *time.Time `json:"dateAdded,omitempty"`
	DateModified *time.Time `json:"dateModified,omitempty"`
	CategoryIDs  []int64    `json:"categoryIds,omitempty"`
}

// BookPatch carries a merge-patch request body. Only non-nil fields overwrite.
type BookPatch struct {
	Title        *string    `json:"title"`
	Author       *string    `json:"author"`
	Keywords     *string    `json:"keywords"`
	Description  *string    `json:"description"`
	Rating       *int       `json:"rating"`
	DateAdded    *time.Time `json:"dateAdded"`
	DateModified *time.Time `json:"dateModified"`
	CategoryIDs  []int64    `json:"categoryIds"`
}

// Apply merges non-nil patch fields into the book
func (p *BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Keywords != nil {
		b.Keywords = *p.Keywords
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Rating != nil {
		b.Rating = p.Rating
	}
	if p.DateAdded != nil {
		b.DateAdded = p.DateAdded
	}
	if p.DateModified != nil {
		b.DateModified = p.DateModified
	}
	if p.CategoryIDs != nil {
		b.CategoryIDs = p.CategoryIDs
	}
}
