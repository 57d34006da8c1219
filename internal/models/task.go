package models

import (
	"time"

	"github.com/google/uuid"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Priority    string    `gorm:"type:varchar(16);not null;default:medium" json:"priority"`
	DueDate     Date      `gorm:"type:date" json:"dueDate"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskChanges lists the mutable fields of a Task. Nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *Date
	Completed   *bool
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Priority == nil && c.DueDate == nil && c.Completed == nil
}

// Columns returns the changes keyed by column name, ready for a gorm Updates call.
func (c TaskChanges) Columns() map[string]any {
	cols := map[string]any{}
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Priority != nil {
		cols["priority"] = *c.Priority
	}
	if c.DueDate != nil {
		cols["due_date"] = *c.DueDate
	}
	if c.Completed != nil {
		cols["completed"] = *c.Completed
	}
	return cols
}

// Apply copies the set fields onto t.
func (c TaskChanges) Apply(t *Task) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.DueDate != nil {
		t.DueDate = *c.DueDate
	}
	if c.Completed != nil {
		t.Completed = *c.Completed
	}
}
