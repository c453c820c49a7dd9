package pipeline

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/pexnet/sift-highlight/internal/model"
)

// Renderer writes reports as JSON, as an HTML reader preview and as a terminal summary
type Renderer struct {
	useColor bool
}

// NewRenderer creates a renderer; useColor toggles ANSI colors in summaries
func NewRenderer(useColor bool) *Renderer {
	return &Renderer{useColor: useColor}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderHTML writes a standalone reader preview with the highlighted content and evidence list
func (r *Renderer) RenderHTML(report *model.Report, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close file: %w", closeErr)
		}
	}()

	return r.WriteHTML(f, report)
}

// WriteHTML renders the reader preview to w
func (r *Renderer) WriteHTML(w io.Writer, report *model.Report) error {
	view := previewView{
		Report: report,
		// Both fragments come from sanitized input and the highlighter's own marks
		Title:   template.HTML(report.TitleHTML),
		Content: template.HTML(report.ContentHTML),
	}
	if err := previewTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

// RenderSummary prints a short human readable explanation
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	heading := color.New(color.Bold)
	label := color.New(color.FgCyan)
	muted := color.New(color.Faint)
	for _, c := range []*color.Color{heading, label, muted} {
		if r.useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	_, _ = heading.Fprintf(w, "%s\n", displayTitle(report))
	_, _ = label.Fprint(w, "  highlight: ")
	_, _ = fmt.Fprintf(w, "%s (%d ranges, %d realized)\n", report.Mode, len(report.Ranges), len(report.AppliedMarkerIDs))

	if !report.HasExplanation() {
		_, _ = muted.Fprintln(w, "  no match explanation available")
		return
	}

	if report.MatchedTerms != nil {
		_, _ = label.Fprint(w, "  matched terms: ")
		_, _ = fmt.Fprintln(w, *report.MatchedTerms)
	}
	if report.ReasonSummary != "" {
		_, _ = label.Fprint(w, "  why matched: ")
		_, _ = fmt.Fprintln(w, report.ReasonSummary)
	}
	if report.EvidenceSummary != "" {
		_, _ = label.Fprint(w, "  match evidence: ")
		_, _ = fmt.Fprintln(w, report.EvidenceSummary)
	}
	for _, row := range report.Rows {
		line := fmt.Sprintf("    - [%s] %s", row.SourceName, row.Title)
		if row.MarkerID != "" {
			line += " #" + row.MarkerID
		}
		_, _ = fmt.Fprintln(w, line)
		if row.Snippet != "" {
			_, _ = muted.Fprintf(w, "      %q\n", row.Snippet)
		}
	}
}

func displayTitle(report *model.Report) string {
	if report.Title != "" {
		return report.Title
	}
	return report.ArticleID
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

type previewView struct {
	Report  *model.Report
	Title   template.HTML
	Content template.HTML
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Report.Title}}</title>
<style>
.workspace-reader__highlight { background: #ffe58a; }
.evidence li { margin-bottom: .5em; }
.evidence .snippet { color: #666; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- with .Report.MatchedTerms}}
<p><strong>Matched terms:</strong> {{.}}</p>
{{- end}}
{{- with .Report.ReasonSummary}}
<p><strong>Why matched:</strong> {{.}}</p>
{{- end}}
{{- with .Report.EvidenceSummary}}
<p><strong>Match evidence:</strong> {{.}}</p>
{{- end}}
{{- if .Report.Rows}}
<ul class="evidence">
{{- range .Report.Rows}}
<li>
<span class="source">{{.SourceName}}</span>:
{{- if .MarkerID}} <a href="#{{.MarkerID}}">{{.Title}}</a>{{else}} {{.Title}}{{end}}
{{- with .Snippet}}<div class="snippet">{{.}}</div>{{end}}
</li>
{{- end}}
</ul>
{{- end}}
<article>
{{.Content}}
</article>
</body>
</html>
`))
