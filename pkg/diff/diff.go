// Package diff renders unified diffs between two serialized records so
// consistency reports can show exactly which lines drifted between files.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 2000
	truncateMessage = "... (diff truncated, exceeds 2,000 lines) ..."
)

// Unified compares two byte slices and renders the result in unified diff
// format, labelling each side. Identical content yields an empty string.
// Output beyond 2,000 lines is truncated with a marker.
func Unified(left, right []byte, leftLabel, rightLabel string) string {
	if bytes.Equal(left, right) {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(left), string(right), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", leftLabel)
	fmt.Fprintf(&buf, "+++ %s\n", rightLabel)

	leftLines := strings.Count(string(left), "\n") + 1
	rightLines := strings.Count(string(right), "\n") + 1
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", leftLines, rightLines)

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		return strings.Join(lines[:maxDiffLines], "\n") + "\n" + truncateMessage + "\n"
	}
	return result
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
