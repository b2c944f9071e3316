package model

import (
	"fmt"
	"time"
)

// RunContext accumulates the results of one scheduler invocation. Results are
// keyed by stage name and only stages declared up front may be recorded;
// stages the run never reached are simply absent.
type RunContext struct {
	RunID     string                 `json:"run_id"`
	URL       string                 `json:"url,omitempty"`
	StartedAt time.Time              `json:"started_at"`
	EndedAt   time.Time              `json:"ended_at,omitzero"`
	Results   map[string]StageResult `json:"stages"`

	// Order preserves declaration order for summary rendering; Results is a
	// map and loses it.
	Order []string `json:"order"`

	declared map[string]struct{}
}

// NewRunContext creates a run context for the declared stage names.
func NewRunContext(runID, url string, declared []string) *RunContext {
	set := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		set[name] = struct{}{}
	}
	return &RunContext{
		RunID:     runID,
		URL:       url,
		StartedAt: time.Now(),
		Results:   make(map[string]StageResult, len(declared)),
		declared:  set,
	}
}

// Record stores a finalized stage result. It rejects stages that were never
// declared, non-terminal statuses, and attempts to overwrite an existing
// result, so a stage can reach exactly one terminal state per run.
func (rc *RunContext) Record(result StageResult) error {
	if _, ok := rc.declared[result.Name]; !ok {
		return fmt.Errorf("stage %q was not declared for this run", result.Name)
	}
	if !result.Status.IsTerminal() {
		return fmt.Errorf("stage %q: status %q is not terminal", result.Name, result.Status)
	}
	if _, exists := rc.Results[result.Name]; exists {
		return fmt.Errorf("stage %q already has a recorded result", result.Name)
	}

	rc.Results[result.Name] = result
	rc.Order = append(rc.Order, result.Name)
	return nil
}

// StatusOf returns the recorded status for a stage, or StatusUnknown when the
// stage has no result yet.
func (rc *RunContext) StatusOf(name string) StageStatus {
	if res, ok := rc.Results[name]; ok {
		return res.Status
	}
	return StatusUnknown
}

// OverallStatus is success iff every recorded result is success or
// user-skipped. It is computed, never stored.
func (rc *RunContext) OverallStatus() StageStatus {
	for _, res := range rc.Results {
		if !res.Status.Passing() {
			return StatusFailed
		}
	}
	return StatusSuccess
}

// ExitCode maps the overall status onto the shared verdict contract.
func (rc *RunContext) ExitCode() int {
	if rc.OverallStatus() == StatusSuccess {
		return VerdictOK
	}
	return VerdictFailures
}
