package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/config"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/ledger"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/logger"
	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/model"
	pipeerrors "github.com/sumeromer/10xgenomics-dataset-scraper/pkg/errors"
)

// criticalExitCode is the reserved exit code signalling that a stage could
// not even run. The scheduler aborts the whole run when it sees it.
const criticalExitCode = 2

// Toucher records the last successful completion time of a task. Injected so
// the scheduler's decision logic stays testable without a filesystem.
type Toucher interface {
	Touch(task string, at time.Time) error
}

// Options carries per-run parameters for the scheduler.
type Options struct {
	RunID         string
	URL           string
	BaseOutputDir string

	// Skip holds user-requested skips keyed by stage name.
	Skip map[string]bool

	// StageTimeout bounds each stage executable's wall-clock time.
	// Zero means unbounded.
	StageTimeout time.Duration
}

// Scheduler walks a declared stage list in order, invoking each stage via the
// StageRunner boundary and recording outcomes in a RunContext. It is strictly
// sequential: stage N+1 is not considered until stage N's result is final,
// because the dependency gate needs that result.
type Scheduler struct {
	runner StageRunner
	ledger Toucher
	log    *logger.Logger
	now    func() time.Time
}

// NewScheduler assembles a scheduler. The ledger may be nil, in which case
// the success side effect is skipped.
func NewScheduler(runner StageRunner, ledger Toucher, log *logger.Logger) *Scheduler {
	return &Scheduler{runner: runner, ledger: ledger, log: log, now: time.Now}
}

// Run executes the declared stages and returns the finalized run context.
// Stage-level failures are recorded, not returned; the error is non-nil only
// for scheduler-internal faults (which indicate a bug, not a stage failure).
func (s *Scheduler) Run(ctx context.Context, stages []config.Stage, opts Options) (*model.RunContext, error) {
	declared := make([]string, 0, len(stages))
	for _, stage := range stages {
		declared = append(declared, stage.Name)
	}

	rc := model.NewRunContext(opts.RunID, opts.URL, declared)

	for _, stage := range stages {
		stageLog := s.log.WithStage(stage.Name)

		if !stage.Enabled {
			// disabled stages never appear in results at all
			stageLog.Info("stage disabled, omitting")
			continue
		}

		if opts.Skip[stage.Name] {
			stageLog.Info("stage skipped on user request")
			if err := rc.Record(model.StageResult{
				Name:   stage.Name,
				Status: model.StatusUserSkipped,
				Reason: "user requested skip",
			}); err != nil {
				return rc, pipeerrors.NewExecutionError(stage.Name, err)
			}
			continue
		}

		if skip, reason := s.dependencyGate(rc, stage, stageLog); skip {
			if err := rc.Record(model.StageResult{
				Name:   stage.Name,
				Status: model.StatusSkipped,
				Reason: reason,
			}); err != nil {
				return rc, pipeerrors.NewExecutionError(stage.Name, err)
			}
			continue
		}

		result := s.executeStage(ctx, stage, opts, stageLog)
		if err := rc.Record(result); err != nil {
			return rc, pipeerrors.NewExecutionError(stage.Name, err)
		}

		if result.ExitCodeValue() == criticalExitCode {
			stageLog.Error(nil, "critical error encountered, stopping pipeline")
			break
		}
	}

	rc.EndedAt = s.now()
	return rc, nil
}

// dependencyGate applies the per-stage dependency decision. A failed or
// errored dependency skips the stage; a user-skipped dependency lets it run
// on the assumption that the dependency's output survives from a prior run
// (no existence check is performed).
func (s *Scheduler) dependencyGate(rc *model.RunContext, stage config.Stage, stageLog *logger.Logger) (bool, string) {
	if stage.DependsOn == "" {
		return false, ""
	}

	depStatus := rc.StatusOf(stage.DependsOn)
	switch depStatus {
	case model.StatusSuccess:
		return false, ""
	case model.StatusUserSkipped:
		stageLog.Info(fmt.Sprintf("dependency %s was user-skipped, continuing on existing outputs", stage.DependsOn))
		return false, ""
	case model.StatusFailed, model.StatusError:
		stageLog.Warn(fmt.Sprintf("dependency %s failed, skipping", stage.DependsOn))
		return true, fmt.Sprintf("dependency %s failed", stage.DependsOn)
	default:
		stageLog.Warn(fmt.Sprintf("dependency %s status: %s, skipping", stage.DependsOn, depStatus))
		return true, fmt.Sprintf("dependency %s status: %s", stage.DependsOn, depStatus)
	}
}

func (s *Scheduler) executeStage(ctx context.Context, stage config.Stage, opts Options, stageLog *logger.Logger) model.StageResult {
	args := buildArgs(stage, opts)
	stageLog.Info(fmt.Sprintf("running %s", stage.Command))

	stageCtx := ctx
	if opts.StageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, opts.StageTimeout)
		defer cancel()
	}

	started := s.now()
	exitCode, err := s.runner.Run(stageCtx, stage, args)
	ended := s.now()

	result := model.StageResult{
		Name:      stage.Name,
		StartedAt: started,
		EndedAt:   ended,
		Duration:  ended.Sub(started),
	}

	if err != nil {
		// failure to launch is critical by contract
		code := criticalExitCode
		result.Status = model.StatusError
		result.ExitCode = &code
		result.Error = err.Error()
		stageLog.Error(err, "stage could not be launched")
		return result
	}

	result.ExitCode = &exitCode
	switch exitCode {
	case 0:
		result.Status = model.StatusSuccess
		stageLog.Info(fmt.Sprintf("stage completed in %s", result.Duration.Round(time.Millisecond)))
		s.touchLedger(stage.Name, ended, stageLog)
	case 1:
		result.Status = model.StatusFailed
		stageLog.Warn("stage failed with validation errors")
	default:
		result.Status = model.StatusError
		stageLog.Error(nil, fmt.Sprintf("stage encountered a critical error (exit code %d)", exitCode))
	}

	return result
}

// touchLedger records a successful stage completion. Best effort: a ledger
// write failure never changes the stage's own status.
func (s *Scheduler) touchLedger(stageName string, at time.Time, stageLog *logger.Logger) {
	if s.ledger == nil {
		return
	}
	task := ledger.TaskName(stageName)
	if err := s.ledger.Touch(task, at); err != nil {
		stageLog.Warn(fmt.Sprintf("failed to update timestamp ledger: %v", err))
	}
}

// buildArgs produces the fixed argument contract each stage executable is
// invoked with. The acquisition stage additionally receives the source URL.
func buildArgs(stage config.Stage, opts Options) []string {
	args := append([]string(nil), stage.Args...)
	if stage.Name == "scraper" {
		args = append(args, "--url", opts.URL)
	}
	args = append(args, "--name", opts.RunID, "--base-output-dir", opts.BaseOutputDir)
	return args
}
