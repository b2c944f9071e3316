// Package ledger maintains the per-run timestamp.txt file recording the last
// successful completion time of each pipeline task. The file is a small
// tab-separated table rewritten in full on every update.
package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the well-known ledger file name inside a run directory.
const FileName = "timestamp.txt"

// timeLayout matches the format consumed by downstream tooling.
const timeLayout = "2006-01-02 15:04:05"

// Tasks is the fixed task universe. Every write emits one line per task, in
// this order, whether or not the task has run yet.
var Tasks = []string{"scraper", "validator", "metadata-enricher"}

// TaskName converts a stage name to its ledger task name. Stage names use
// underscores, ledger task names use hyphens.
func TaskName(stage string) string {
	return strings.ReplaceAll(stage, "_", "-")
}

// Ledger reads and rewrites one run's timestamp table.
type Ledger struct {
	path string
}

// New returns a ledger rooted at the given run directory.
func New(runDir string) *Ledger {
	return &Ledger{path: filepath.Join(runDir, FileName)}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Read parses the existing table. A missing file yields an empty table, not
// an error. Unknown task lines are preserved in the returned map but are not
// rewritten by Touch.
func (l *Ledger) Read() (map[string]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer file.Close()

	entries := make(map[string]string)
	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			// header line
			first = false
			continue
		}
		if line == "" || !strings.Contains(line, "\t") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		task := strings.TrimSpace(parts[0])
		if task == "" {
			continue
		}
		entries[task] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Touch records a completion time for one task and rewrites the whole table.
// The write is atomic (temp file + rename); the scheduler is single-threaded
// so no further locking is needed.
func (l *Ledger) Touch(task string, at time.Time) error {
	entries, err := l.Read()
	if err != nil {
		return err
	}
	entries[task] = at.Format(timeLayout)

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s\ttime\n", "task")
	for _, name := range Tasks {
		fmt.Fprintf(&sb, "%-24s\t%s\n", name, entries[name])
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary ledger: %w", err)
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace ledger: %w", err)
	}

	return nil
}
