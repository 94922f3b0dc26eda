package models

import (
	"time"
)

// PostStatus is the publication state of a post
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// ValidStatuses defines allowed post statuses
var ValidStatuses = map[PostStatus]bool{
	StatusDraft:     true,
	StatusPublished: true,
}

// Valid reports whether s is a known status
func (s PostStatus) Valid() bool {
	return ValidStatuses[s]
}

// Post represents a blog post as stored and served
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	Excerpt   string     `json:"excerpt,omitempty"`
	Tags      []string   `json:"tags"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the post
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Tags = append([]string(nil), p.Tags...)
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	return &cp
}

// HasTag reports whether the post carries tag
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CreatePostRequest is the body of POST /
type CreatePostRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Excerpt string     `json:"excerpt,omitempty"`
	Tags    []string   `json:"tags,omitempty"`
	Status  PostStatus `json:"status,omitempty"`
}

// UpdatePostRequest is the body of PUT /{id}.
// A nil field was omitted by the caller and keeps its stored value.
type UpdatePostRequest struct {
	Title   *string     `json:"title,omitempty"`
	Content *string     `json:"content,omitempty"`
	Excerpt *string     `json:"excerpt,omitempty"`
	Tags    *[]string   `json:"tags,omitempty"`
	Status  *PostStatus `json:"status,omitempty"`
}

// IsEmpty reports whether no field was supplied
func (r *UpdatePostRequest) IsEmpty() bool {
	return r == nil || (r.Title == nil && r.Content == nil && r.Excerpt == nil && r.Tags == nil && r.Status == nil)
}

// ApplyTo shallow-merges the supplied fields over p.
// It returns true when the title was supplied and differs from the previous one.
func (r *UpdatePostRequest) ApplyTo(p *Post) (titleChanged bool) {
	if r == nil {
		return false
	}
	if r.Title != nil {
		titleChanged = *r.Title != p.Title
		p.Title = *r.Title
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.Excerpt != nil {
		p.Excerpt = *r.Excerpt
	}
	if r.Tags != nil {
		p.Tags = append([]string{}, (*r.Tags)...)
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	return titleChanged
}

// MessageResponse is the acknowledgement body for deletes
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
