package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStageStatusTaxonomy(t *testing.T) {
	t.Parallel()

	// The string values are a persisted contract.
	require.Equal(t, StageStatus("success"), StatusSuccess)
	require.Equal(t, StageStatus("failed"), StatusFailed)
	require.Equal(t, StageStatus("error"), StatusError)
	require.Equal(t, StageStatus("skipped"), StatusSkipped)
	require.Equal(t, StageStatus("user_skipped"), StatusUserSkipped)
	require.Equal(t, StageStatus("unknown"), StatusUnknown)

	require.False(t, StageStatus("done").IsValid())
	require.False(t, StatusUnknown.IsTerminal())
	require.True(t, StatusSkipped.IsTerminal())

	require.True(t, StatusSuccess.Passing())
	require.True(t, StatusUserSkipped.Passing())
	require.False(t, StatusSkipped.Passing())
	require.False(t, StatusFailed.Passing())
}

func TestRunContextRecord(t *testing.T) {
	t.Parallel()

	t.Run("rejects undeclared stage", func(t *testing.T) {
		t.Parallel()
		rc := NewRunContext("run-1", "", []string{"scraper"})
		err := rc.Record(StageResult{Name: "uploader", Status: StatusSuccess})
		require.Error(t, err)
		require.NotContains(t, rc.Results, "uploader")
	})

	t.Run("rejects non-terminal status", func(t *testing.T) {
		t.Parallel()
		rc := NewRunContext("run-1", "", []string{"scraper"})
		err := rc.Record(StageResult{Name: "scraper", Status: StatusUnknown})
		require.Error(t, err)
	})

	t.Run("rejects double finalization", func(t *testing.T) {
		t.Parallel()
		rc := NewRunContext("run-1", "", []string{"scraper"})
		require.NoError(t, rc.Record(StageResult{Name: "scraper", Status: StatusSuccess}))
		err := rc.Record(StageResult{Name: "scraper", Status: StatusFailed})
		require.Error(t, err)
		require.Equal(t, StatusSuccess, rc.Results["scraper"].Status)
	})

	t.Run("preserves declaration order", func(t *testing.T) {
		t.Parallel()
		rc := NewRunContext("run-1", "", []string{"a", "b", "c"})
		require.NoError(t, rc.Record(StageResult{Name: "a", Status: StatusSuccess}))
		require.NoError(t, rc.Record(StageResult{Name: "b", Status: StatusFailed}))
		require.Equal(t, []string{"a", "b"}, rc.Order)
	})
}

func TestRunContextOverallStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		statuses map[string]StageStatus
		want     StageStatus
		exitCode int
	}{
		{
			name:     "all success",
			statuses: map[string]StageStatus{"a": StatusSuccess, "b": StatusSuccess},
			want:     StatusSuccess,
			exitCode: VerdictOK,
		},
		{
			name:     "user skip still succeeds",
			statuses: map[string]StageStatus{"a": StatusUserSkipped, "b": StatusSuccess},
			want:     StatusSuccess,
			exitCode: VerdictOK,
		},
		{
			name:     "dependency skip fails the run",
			statuses: map[string]StageStatus{"a": StatusFailed, "b": StatusSkipped},
			want:     StatusFailed,
			exitCode: VerdictFailures,
		},
		{
			name:     "error fails the run",
			statuses: map[string]StageStatus{"a": StatusError},
			want:     StatusFailed,
			exitCode: VerdictFailures,
		},
		{
			name:     "empty run counts as success",
			statuses: map[string]StageStatus{},
			want:     StatusSuccess,
			exitCode: VerdictOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			names := make([]string, 0, len(tt.statuses))
			for name := range tt.statuses {
				names = append(names, name)
			}
			rc := NewRunContext("run-1", "", names)
			for name, status := range tt.statuses {
				require.NoError(t, rc.Record(StageResult{Name: name, Status: status}))
			}
			require.Equal(t, tt.want, rc.OverallStatus())
			require.Equal(t, tt.exitCode, rc.ExitCode())
		})
	}
}

func TestStageResultExitCodeValue(t *testing.T) {
	t.Parallel()

	skipped := StageResult{Name: "validator", Status: StatusSkipped}
	require.Equal(t, -1, skipped.ExitCodeValue())

	code := 1
	failed := StageResult{
		Name:      "validator",
		Status:    StatusFailed,
		ExitCode:  &code,
		StartedAt: time.Now(),
	}
	require.Equal(t, 1, failed.ExitCodeValue())
}
