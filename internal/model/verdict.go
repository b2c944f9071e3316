package model

// Verdict codes shared by the scheduler's process exit and the validation
// report. The three values are a stable contract with calling automation.
const (
	// VerdictOK means every check passed and every stage succeeded.
	VerdictOK = 0
	// VerdictFailures means the run completed but with recoverable
	// failures or mismatches.
	VerdictFailures = 1
	// VerdictCritical means the run could not execute at all.
	VerdictCritical = 2
)
