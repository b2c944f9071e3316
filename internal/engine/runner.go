package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/config"
	pipeerrors "github.com/sumeromer/10xgenomics-dataset-scraper/pkg/errors"
)

// StageRunner is the boundary to the external stage executables. The
// scheduler judges a stage solely by the exit code this returns; stage
// internals are opaque.
type StageRunner interface {
	Run(ctx context.Context, stage config.Stage, args []string) (int, error)
}

// ExecRunner runs stage executables as child processes. Stdin, stdout and
// stderr are wired straight through so interactive progress indicators stay
// visible; nothing is buffered.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// NewExecRunner returns a runner attached to the parent process streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
}

// Run launches the stage executable and waits for it to exit. A process that
// ran and exited non-zero is not an error here; only failure to launch is.
func (r *ExecRunner) Run(ctx context.Context, stage config.Stage, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, stage.Command, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Stdin = r.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, pipeerrors.NewLaunchError(stage.Name, stage.Command, err)
	}

	return 0, nil
}
