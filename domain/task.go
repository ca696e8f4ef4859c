package domain

import "time"

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

type TaskStatus string

const (
	StatusTodo  TaskStatus = "TODO"
	StatusDoing TaskStatus = "DOING"
	StatusDone  TaskStatus = "DONE"
)

// Task is a unit of work belonging to exactly one list at a time. Unlike
// boards and lists, tasks are hard-deleted.
type Task struct {
	ID          string       `json:"id"`
	ListID      string       `json:"listId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	AssigneeID  string       `json:"assigneeId,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}
