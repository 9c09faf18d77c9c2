package models

// Task is a single to-do item. ID is assigned by the store on insert.
type Task struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Completed   bool   `gorm:"not null;default:false" json:"completed"`
}

// TableName keeps the table named after the entity rather than gorm's plural.
func (Task) TableName() string { return "task" }

// TaskInput is the body accepted by create and update. Pointers let binding
// tell a missing field apart from an empty one.
type TaskInput struct {
	// ID is accepted for compatibility with clients that echo a task back; it is ignored.
	ID          *int64  `json:"id,omitempty"`
	Title       *string `json:"title" binding:"required"`
	Description *string `json:"description" binding:"required"`
	Completed   *bool   `json:"completed"`
}

// Task converts the payload to an unsaved Task.
func (in TaskInput) Task() Task {
	t := Task{}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	return t
}

// MessageResponse is returned by update and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
