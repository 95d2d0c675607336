package pipeline

import "time"

// FileFailure describes one file the run could not process.
type FileFailure struct {
	Ordinal int
	Name    string
	Message string
}

// Summary reports what a run did.
type Summary struct {
	// RunID identifies this run in logs, history, and notifications.
	RunID string

	Model       string
	Device      string
	ComputeType string

	// FilesTotal is the number of files discovered for the batch.
	FilesTotal int
	// Processed counts files that produced both output documents.
	Processed int
	// Failures lists the files that did not, in processing order.
	Failures []FileFailure

	// AudioSeconds is the total duration of successfully transcribed audio.
	AudioSeconds float64
	// Elapsed is the wall-clock time of the whole batch.
	Elapsed time.Duration
}

// Failed returns the number of files that could not be processed.
func (s Summary) Failed() int {
	return len(s.Failures)
}

// AudioDuration returns the transcribed audio total as a duration.
func (s Summary) AudioDuration() time.Duration {
	return time.Duration(s.AudioSeconds * float64(time.Second))
}
