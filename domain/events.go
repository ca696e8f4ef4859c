package domain

type TaskEventType string

const (
	TaskCreated TaskEventType = "CREATED"
	TaskUpdated TaskEventType = "UPDATED"
	TaskDeleted TaskEventType = "DELETED"
	TaskMoved   TaskEventType = "MOVED"
)

// TaskEvent is the payload delivered to taskUpdated subscribers. Task always
// carries the post-mutation state (the last state, for deletions).
type TaskEvent struct {
	Type TaskEventType `json:"type"`
	Task Task          `json:"task"`
}
