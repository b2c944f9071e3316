package validation

import (
	"strings"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
)

// ComparisonRule binds one record field to the policy used to compare its
// declared value against the observed one.
type ComparisonRule struct {
	Field  string
	Policy ComparisonPolicy
}

// DefaultRules is the fixed rule set for dataset records. Species must match
// exactly; preservation tolerates formatting variants; sample type tolerates
// partial text; names only need to agree ignoring case.
func DefaultRules() []ComparisonRule {
	return []ComparisonRule{
		{Field: "species", Policy: PolicyExact},
		{Field: "preservation", Policy: PolicyNormalized},
		{Field: "sample_type", Policy: PolicySubstring},
		{Field: "dataset_name", Policy: PolicyCaseInsensitive},
	}
}

// DiffEntry records one field where the declared and observed values
// disagree.
type DiffEntry struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Declared string   `json:"declared_value,omitempty"`
	Observed string   `json:"observed_value,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// CompareRecord applies the rules to one declared/observed record pair.
// Fields the observation left empty produce no diff at all: absence of
// confirmation is not evidence of drift.
func CompareRecord(declared, observed dataset.Record, rules []ComparisonRule) []DiffEntry {
	var diffs []DiffEntry

	for _, rule := range rules {
		declaredValue := strings.TrimSpace(declared[rule.Field])
		observedValue := strings.TrimSpace(observed[rule.Field])

		if observedValue == "" {
			continue
		}

		if Matches(declaredValue, observedValue, rule.Policy) {
			continue
		}

		diffs = append(diffs, DiffEntry{
			Field:    rule.Field,
			Severity: rule.Policy.Severity(),
			Declared: declaredValue,
			Observed: observedValue,
		})
	}

	return diffs
}

// RecordStatus is the aggregate verdict for one record pair.
type RecordStatus string

const (
	// StatusVerified means every compared field agreed.
	StatusVerified RecordStatus = "verified"
	// StatusMismatched means at least one error-severity field disagreed.
	StatusMismatched RecordStatus = "mismatched"
	// StatusWarning means only warning-severity fields disagreed.
	StatusWarning RecordStatus = "warning"
	// StatusFailed means the record could not be observed at all.
	StatusFailed RecordStatus = "failed"
)

// StatusFor derives a record's status from its diff list.
func StatusFor(diffs []DiffEntry) RecordStatus {
	if len(diffs) == 0 {
		return StatusVerified
	}
	for _, d := range diffs {
		if d.Severity == SeverityError {
			return StatusMismatched
		}
	}
	return StatusWarning
}

// URLValidationResult is the per-record outcome of source-of-truth
// verification.
type URLValidationResult struct {
	RecordURL  string       `json:"dataset_url"`
	RecordName string       `json:"dataset_name"`
	Status     RecordStatus `json:"status"`
	Diffs      []DiffEntry  `json:"differences,omitempty"`
}
