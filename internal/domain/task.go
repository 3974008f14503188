package domain

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	// TaskStatusPending is the initial state for new tasks.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusCompleted marks a task as done.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusSnoozed defers a task until its snooze time passes.
	TaskStatusSnoozed TaskStatus = "snoozed"
)

// ParseTaskStatus converts a string to TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusSnoozed:
		return TaskStatus(s), true
	default:
		return TaskStatusPending, false
	}
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority converts a string to TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh:
		return TaskPriority(s), true
	default:
		return TaskPriorityNormal, false
	}
}

// Task is the central entity: a unit of work owned by a user, optionally
// nested under a parent task. Visibility extends beyond the owner through
// plan membership; see the sharing service.
type Task struct {
	Timestamps
	OwnerID      string       `json:"owner_id"`
	ParentTaskID string       `json:"parent_task_id,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	DueAt        *time.Time   `json:"due_at,omitempty"`
	IsAllDay     bool         `json:"is_all_day"`
	SnoozedUntil *time.Time   `json:"snoozed_until,omitempty"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// IsCompleted returns true if the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// Complete transitions the task to completed and stamps the completion time.
func (t *Task) Complete(at time.Time) {
	t.Status = TaskStatusCompleted
	t.CompletedAt = &at
	t.SnoozedUntil = nil
	t.Touch()
}

// Snooze transitions the task to snoozed. A nil wake time snoozes the
// task indefinitely.
func (t *Task) Snooze(until *time.Time) {
	t.Status = TaskStatusSnoozed
	t.SnoozedUntil = until
	t.Touch()
}

// TaskView is the API representation of a task: the task itself plus its
// attached categories and recursively rendered subtasks. Each descendant
// appears exactly once.
type TaskView struct {
	Task
	Categories []Category `json:"categories"`
	Subtasks   []TaskView `json:"subtasks"`
}

// TaskCategory links a task to a category. The (task, category) pair is
// unique at the storage layer.
type TaskCategory struct {
	Timestamps
	TaskID     string `json:"task_id"`
	CategoryID string `json:"category_id"`
}
