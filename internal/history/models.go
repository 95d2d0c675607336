package history

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// File outcome statuses.
const (
	FileStatusDone   = "done"
	FileStatusFailed = "failed"
)

// Run is one pipeline execution.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	Model          string
	Device         string
	ComputeType    string
	Language       string
	Status         string
	FilesTotal     int
	FilesFailed    int
	AudioSeconds   float64
	ElapsedSeconds float64
}

// FileOutcome is the result of processing a single audio file within a run.
type FileOutcome struct {
	Ordinal      int
	Name         string
	Status       string
	Error        string
	AudioSeconds float64
}
