package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "Tracker/internal/domain"
)

// DueDate parses due_date from JSON as either date-only ("2006-01-02") or
// RFC3339. Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("dueDate: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

// SubtaskPayload is the wire shape of one embedded subtask.
type SubtaskPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type CreateTaskRequest struct {
	Title       string           `json:"title" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=1000"`
	DueDate     DueDate          `json:"dueDate"`
	Priority    string           `json:"priority" binding:"required"`
	Subtasks    []SubtaskPayload `json:"subtasks"`
}

// UpdateTaskRequest carries a field-level overwrite: nil = leave as is,
// value = set. There is deliberately no ownerId field to bind.
type UpdateTaskRequest struct {
	Title       *string           `json:"title" binding:"omitempty,max=200"`
	Description *string           `json:"description" binding:"omitempty,max=1000"`
	DueDate     *DueDate          `json:"dueDate"`
	Priority    *string           `json:"priority"`
	Status      *string           `json:"status"`
	Archived    *bool             `json:"archived"`
	Subtasks    *[]SubtaskPayload `json:"subtasks"`
}

type ArchiveTaskRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

type ReplaceSubtasksRequest struct {
	Subtasks *[]SubtaskPayload `json:"subtasks" binding:"required"`
}

type TaskResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     time.Time     `json:"dueDate"`
	Priority    dom.Priority  `json:"priority"`
	Status      dom.Status    `json:"status"`
	Archived    bool          `json:"archived"`
	Subtasks    []dom.Subtask `json:"subtasks"`
	OwnerID     string        `json:"ownerId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Subtasks converts the payload to domain subtasks. Returns an empty slice
// for nil input so the stored array is never null.
func Subtasks(in []SubtaskPayload) []dom.Subtask {
	out := make([]dom.Subtask, len(in))
	for i, s := range in {
		out[i] = dom.Subtask{ID: s.ID, Title: s.Title, Completed: s.Completed}
	}
	return out
}
