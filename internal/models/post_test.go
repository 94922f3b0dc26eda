package models

import (
	"encoding/json"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestUpdatePostRequest_ApplyTo(t *testing.T) {
	base := func() *Post {
		return &Post{
			ID:      "p1",
			Title:   "Original",
			Slug:    "original",
			Content: "body",
			Tags:    []string{"a"},
			Status:  StatusDraft,
		}
	}

	t.Run("empty request keeps everything", func(t *testing.T) {
		p := base()
		req := &UpdatePostRequest{}
		if changed := req.ApplyTo(p); changed {
			t.Error("Expected no title change")
		}
		if p.Title != "Original" || p.Content != "body" || len(p.Tags) != 1 || p.Status != StatusDraft {
			t.Errorf("Unexpected mutation: %+v", p)
		}
	})

	t.Run("same title is not a change", func(t *testing.T) {
		p := base()
		req := &UpdatePostRequest{Title: strPtr("Original")}
		if req.ApplyTo(p) {
			t.Error("Expected identical title to report no change")
		}
	})

	t.Run("supplied fields overwrite", func(t *testing.T) {
		p := base()
		tags := []string{}
		status := StatusPublished
		req := &UpdatePostRequest{Title: strPtr("New"), Tags: &tags, Status: &status}
		if !req.ApplyTo(p) {
			t.Error("Expected title change")
		}
		if p.Title != "New" || len(p.Tags) != 0 || p.Status != StatusPublished {
			t.Errorf("Unexpected merge result: %+v", p)
		}
		if p.Content != "body" {
			t.Errorf("Expected content untouched, got %q", p.Content)
		}
	})
}

func TestUpdatePostRequest_DecodeOmittedFields(t *testing.T) {
	var req UpdatePostRequest
	if err := json.Unmarshal([]byte(`{"title":"T","id":"ignored","created_at":"2020-01-01T00:00:00Z"}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.Title == nil || *req.Title != "T" {
		t.Errorf("Expected title to be decoded")
	}
	if req.Content != nil || req.Tags != nil || req.Status != nil {
		t.Error("Expected omitted fields to stay nil")
	}
}

func TestPost_CloneIsDeep(t *testing.T) {
	p := &Post{ID: "p1", Tags: []string{"x"}, CreatedAt: time.Now()}
	cp := p.Clone()
	cp.Tags[0] = "y"
	if p.Tags[0] != "x" {
		t.Error("Expected clone tags to be independent")
	}
}

func TestPostStatus_Valid(t *testing.T) {
	if !StatusDraft.Valid() || !StatusPublished.Valid() {
		t.Error("Expected draft and published to be valid")
	}
	if PostStatus("archived").Valid() {
		t.Error("Expected archived to be invalid")
	}
}
