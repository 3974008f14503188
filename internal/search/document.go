// Package search provides full-text task search using Bleve. Tasks are
// indexed on title and description; visibility filtering happens in the
// service layer on top of the raw hits.
package search

import (
	"github.com/plannerapp/planner-server/internal/domain"
)

// TaskDocument is the document structure for the Bleve index.
type TaskDocument struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	UpdatedAt   int64  `json:"updated_at"` // Unix seconds, for recency sorting
}

// FromTask builds a search document from a task.
func FromTask(task *domain.Task) *TaskDocument {
	return &TaskDocument{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		UpdatedAt:   task.UpdatedAt.Unix(),
	}
}

// ToMap converts the document to a map with field names matching the
// index mapping.
func (d *TaskDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"owner_id":   d.OwnerID,
		"title":      d.Title,
		"status":     d.Status,
		"priority":   d.Priority,
		"updated_at": d.UpdatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	return m
}
