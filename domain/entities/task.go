package entities

// Target represents one navigation menu entry the demo clicks
type Target struct {
	Label string `json:"label"`
}

// TaskList is the ordered list of targets processed by a demo run
type TaskList []Target

// NewTaskList builds a task list from plain labels, keeping their order
func NewTaskList(labels ...string) TaskList {
	list := make(TaskList, 0, len(labels))
	for _, label := range labels {
		list = append(list, Target{Label: label})
	}
	return list
}

// TaskStatus represents the outcome of a single target
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusSkipped   TaskStatus = "skipped"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskResult records what happened to one target during a run
type TaskResult struct {
	Target  Target     `json:"target"`
	Status  TaskStatus `json:"status"`
	Summary string     `json:"summary,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// HasSummary reports whether the model returned any text for the target
func (r TaskResult) HasSummary() bool {
	return r.Summary != ""
}
