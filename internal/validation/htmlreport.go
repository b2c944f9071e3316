package validation

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// reportTemplate renders the report as a standalone page: summary cards on
// top, then the file consistency findings, then one row per verified URL.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Validation Report - {{.RunName}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1f2430; }
  h1 { font-size: 1.4rem; }
  .meta { color: #667; margin-bottom: 1.5rem; }
  .cards { display: flex; gap: 1rem; margin-bottom: 2rem; }
  .card { border: 1px solid #d8dce6; border-radius: 6px; padding: 0.8rem 1.4rem; min-width: 7rem; text-align: center; }
  .card .num { font-size: 1.6rem; font-weight: 600; display: block; }
  .verdict-0 { border-color: #2f9e44; color: #2f9e44; }
  .verdict-1 { border-color: #e8590c; color: #e8590c; }
  .verdict-2 { border-color: #c92a2a; color: #c92a2a; }
  table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
  th, td { border: 1px solid #d8dce6; padding: 0.4rem 0.7rem; text-align: left; font-size: 0.9rem; }
  th { background: #f1f3f7; }
  .status-verified { color: #2f9e44; }
  .status-mismatched, .status-failed { color: #c92a2a; }
  .status-warning { color: #e8590c; }
  .diff { font-family: monospace; font-size: 0.85rem; white-space: pre-wrap; background: #f8f9fb; padding: 0.6rem; }
</style>
</head>
<body>
<h1>Validation Report &mdash; {{.RunName}}</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>

<div class="cards">
  <div class="card verdict-{{.Verdict}}"><span class="num">{{.Verdict}}</span>verdict</div>
{{- with .URLValidation}}
  <div class="card"><span class="num">{{.Verified}}</span>verified</div>
  <div class="card"><span class="num">{{.Mismatched}}</span>mismatched</div>
  <div class="card"><span class="num">{{.Warnings}}</span>warnings</div>
  <div class="card"><span class="num">{{.Failed}}</span>failed</div>
{{- end}}
</div>

{{- with .FileConsistency}}
<h2>File Consistency</h2>
{{- if .Passed}}
<p class="status-verified">JSON and XLSX exports agree ({{.JSONCount}} records).</p>
{{- else}}
<p class="status-failed">Exports disagree: {{len .Mismatches}} mismatch(es).</p>
<table>
  <tr><th>Row</th><th>Record</th><th>Field</th><th>JSON</th><th>XLSX</th><th>Note</th></tr>
{{- range .Mismatches}}
  <tr><td>{{.Row}}</td><td>{{.RecordKey}}</td><td>{{.Field}}</td><td>{{.JSONValue}}</td><td>{{.XLSXValue}}</td><td>{{.Message}}</td></tr>
{{- end}}
</table>
{{- if .Detail}}<div class="diff">{{.Detail}}</div>{{- end}}
{{- end}}
{{- end}}

{{- with .URLValidation}}
<h2>Source Page Verification</h2>
{{- if .Error}}
<p class="status-failed">{{.Error}}</p>
{{- end}}
<table>
  <tr><th>Dataset</th><th>URL</th><th>Status</th><th>Differences</th></tr>
{{- range .Results}}
  <tr>
    <td>{{.RecordName}}</td>
    <td>{{.RecordURL}}</td>
    <td class="status-{{.Status}}">{{.Status}}</td>
    <td>
{{- range .Diffs}}
      <div><strong>{{.Field}}</strong> [{{.Severity}}]{{if .Message}} {{.Message}}{{else}} declared &quot;{{.Declared}}&quot; vs observed &quot;{{.Observed}}&quot;{{end}}</div>
{{- end}}
    </td>
  </tr>
{{- end}}
</table>
{{- end}}
</body>
</html>
`))

// WriteReportHTML renders the report for human review next to its JSON twin.
func WriteReportHTML(report *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
