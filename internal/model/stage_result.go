package model

import (
	"time"
)

// StageStatus is the closed set of terminal states for one pipeline stage.
// The string values are a stable contract shared with the persisted run
// results and the report layer; they are not display strings.
type StageStatus string

const (
	// StatusSuccess marks a stage that exited with code 0.
	StatusSuccess StageStatus = "success"
	// StatusFailed marks a stage that exited with code 1.
	StatusFailed StageStatus = "failed"
	// StatusError marks a stage that exited with any other code or could
	// not be launched at all.
	StatusError StageStatus = "error"
	// StatusSkipped marks a stage withheld because its dependency did not
	// succeed.
	StatusSkipped StageStatus = "skipped"
	// StatusUserSkipped marks a stage the caller asked to skip.
	StatusUserSkipped StageStatus = "user_skipped"
	// StatusUnknown is the placeholder before a stage has a final status.
	// It must never appear in a finalized RunContext.
	StatusUnknown StageStatus = "unknown"
)

// IsValid reports whether the status belongs to the closed taxonomy.
func (s StageStatus) IsValid() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusError, StatusSkipped, StatusUserSkipped, StatusUnknown:
		return true
	}
	return false
}

// IsTerminal reports whether the status is a final state for a run.
func (s StageStatus) IsTerminal() bool {
	return s.IsValid() && s != StatusUnknown
}

// Passing reports whether the status counts toward an overall successful run.
func (s StageStatus) Passing() bool {
	return s == StatusSuccess || s == StatusUserSkipped
}

func (s StageStatus) String() string {
	return string(s)
}

// StageResult captures the outcome of one stage within a run. It is created
// when the stage finishes (or is declared skipped) and never mutated after.
type StageResult struct {
	Name      string        `json:"name"`
	Status    StageStatus   `json:"status"`
	ExitCode  *int          `json:"exit_code,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at,omitzero"`
	EndedAt   time.Time     `json:"ended_at,omitzero"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
}

// ExitCodeValue returns the recorded exit code, or -1 when the stage never
// produced one (skips).
func (r StageResult) ExitCodeValue() int {
	if r.ExitCode == nil {
		return -1
	}
	return *r.ExitCode
}
