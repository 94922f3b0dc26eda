package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/textutil"
)

const (
	MinTitleLength   = 3
	MaxTitleLength   = 200
	MinContentLength = 50
	MaxTags          = 10
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the list of problems found in a post draft
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Fields returns the names of the offending fields, in order
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i, ve := range e {
		fields[i] = ve.Field
	}
	return fields
}

// Has reports whether any error concerns the given field
func (e Errors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

// ValidateCreate checks a new post draft. It returns nil when the draft is valid.
func ValidateCreate(req *models.CreatePostRequest) error {
	if req == nil {
		return Errors{
			{Field: "title", Message: "title is required"},
			{Field: "content", Message: "content is required"},
		}
	}

	var errs Errors
	errs = append(errs, validateTitle(req.Title)...)
	errs = append(errs, validateContent(req.Content)...)
	errs = append(errs, validateTags(req.Tags)...)
	if req.Status != "" && !req.Status.Valid() {
		errs = append(errs, invalidStatus(req.Status))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUpdate checks only the fields present in a partial update
func ValidateUpdate(req *models.UpdatePostRequest) error {
	if req == nil {
		return nil
	}

	var errs Errors
	if req.Title != nil {
		errs = append(errs, validateTitle(*req.Title)...)
	}
	if req.Content != nil {
		errs = append(errs, validateContent(*req.Content)...)
	}
	if req.Tags != nil {
		errs = append(errs, validateTags(*req.Tags)...)
	}
	if req.Status != nil && !req.Status.Valid() {
		errs = append(errs, invalidStatus(*req.Status))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateTitle(title string) []ValidationError {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)

	switch {
	case n == 0:
		return []ValidationError{{Field: "title", Message: "title is required"}}
	case n < MinTitleLength:
		return []ValidationError{{Field: "title", Message: fmt.Sprintf("title must be at least %d characters", MinTitleLength), Value: title}}
	case n > MaxTitleLength:
		return []ValidationError{{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength)}}
	case textutil.GenerateSlug(title) == "":
		return []ValidationError{{Field: "title", Message: "title must contain at least one letter or digit", Value: title}}
	}
	return nil
}

func validateContent(content string) []ValidationError {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)

	if n == 0 {
		return []ValidationError{{Field: "content", Message: "content is required"}}
	}
	if n < MinContentLength {
		return []ValidationError{{Field: "content", Message: fmt.Sprintf("content must be at least %d characters (has %d)", MinContentLength, n)}}
	}
	return nil
}

func validateTags(tags []string) []ValidationError {
	var errs []ValidationError

	if len(tags) > MaxTags {
		errs = append(errs, ValidationError{
			Field:   "tags",
			Message: fmt.Sprintf("at most %d tags allowed (has %d)", MaxTags, len(tags)),
		})
	}

	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, ValidationError{Field: "tags", Message: "tags must not be empty"})
			continue
		}
		if seen[tag] {
			errs = append(errs, ValidationError{Field: "tags", Message: "duplicate tag", Value: tag})
		}
		seen[tag] = true
	}
	return errs
}

func invalidStatus(status models.PostStatus) ValidationError {
	return ValidationError{
		Field:   "status",
		Message: "invalid status, must be one of: draft, published",
		Value:   string(status),
	}
}
