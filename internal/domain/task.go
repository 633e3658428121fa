package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Status of a task. There is no enforced transition graph: any authorized
// update may set any value directly.
type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusArchived  Status = "Archived"
)

// ParsePriority validates a priority value.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("priority must be Low, Medium or High, got %q", s)
}

// ParseStatus validates a status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusCompleted, StatusArchived:
		return Status(s), nil
	}
	return "", fmt.Errorf("status must be Active, Completed or Archived, got %q", s)
}

// Subtask is an embedded checklist item. IDs are caller-supplied and the
// store does not enforce uniqueness; the whole array is replaced on update.
type Subtask struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Completed bool   `bson:"completed" json:"completed"`
}

// Task is the domain entity for a to-do item. OwnerID is set at creation
// and never reassigned.
//
// Archived and Status are independent axes: the archive endpoint only flips
// the Archived flag, while a full update may set Status to Archived on its
// own, so archived=false with status=Archived is a representable state.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `bson:"ownerId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	DueDate     time.Time          `bson:"dueDate"`
	Priority    Priority           `bson:"priority"`
	Status      Status             `bson:"status"`
	Archived    bool               `bson:"archived"`
	Subtasks    []Subtask          `bson:"subtasks"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// TaskFilter holds the optional list predicates. A nil field imposes no
// constraint.
type TaskFilter struct {
	Status   *Status
	Priority *Priority
	Archived *bool
}
