package validation

import (
	"strings"
)

// ComparisonPolicy names one way two field values can be compared. The set is
// closed; every policy is dispatched through Matches.
type ComparisonPolicy string

const (
	// PolicyExact requires byte equality after trimming surrounding
	// whitespace.
	PolicyExact ComparisonPolicy = "exact"
	// PolicyCaseInsensitive requires equality after trimming and
	// lower-casing.
	PolicyCaseInsensitive ComparisonPolicy = "case_insensitive"
	// PolicyNormalized additionally strips spaces and hyphens, so
	// "Fresh Frozen", "fresh-frozen" and "freshfrozen" all agree.
	PolicyNormalized ComparisonPolicy = "normalized"
	// PolicySubstring succeeds when either trimmed lower-cased value
	// contains the other, tolerating longer descriptive text on one side.
	PolicySubstring ComparisonPolicy = "substring"
)

// Severity classifies how much a mismatch matters.
type Severity string

const (
	// SeverityError marks a mismatch that fails the record.
	SeverityError Severity = "error"
	// SeverityWarning marks a soft mismatch that flags the record without
	// failing it.
	SeverityWarning Severity = "warning"
)

// Severity returns the severity a mismatch under this policy carries.
// Exact and case-insensitive mismatches are hard errors; normalized and
// substring policies exist for fields where loose agreement is acceptable.
func (p ComparisonPolicy) Severity() Severity {
	switch p {
	case PolicyExact, PolicyCaseInsensitive:
		return SeverityError
	default:
		return SeverityWarning
	}
}

// IsValid reports whether the policy belongs to the closed set.
func (p ComparisonPolicy) IsValid() bool {
	switch p {
	case PolicyExact, PolicyCaseInsensitive, PolicyNormalized, PolicySubstring:
		return true
	}
	return false
}

// Matches reports whether declared and observed agree under the policy.
// Both values are trimmed first; an unknown policy never matches.
func Matches(declared, observed string, policy ComparisonPolicy) bool {
	declared = strings.TrimSpace(declared)
	observed = strings.TrimSpace(observed)

	switch policy {
	case PolicyExact:
		return declared == observed
	case PolicyCaseInsensitive:
		return strings.EqualFold(declared, observed)
	case PolicyNormalized:
		return normalize(declared) == normalize(observed)
	case PolicySubstring:
		d := strings.ToLower(declared)
		o := strings.ToLower(observed)
		return strings.Contains(d, o) || strings.Contains(o, d)
	default:
		return false
	}
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
