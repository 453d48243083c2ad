package reporting

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// SummaryRow is one analyzed structure in a batch summary.
type SummaryRow struct {
	Descriptor string
	Canonical  string
	Identifier string
	Bonds      int
	Weakest    string // formatted energy of the weakest bond
	WeakestIdx int
}

// SummaryWarning is one skipped structure in a batch summary.
type SummaryWarning struct {
	Descriptor string
	Stage      string
	Message    string
}

// Summary is the data bound into the batch summary template.
type Summary struct {
	GeneratedAt time.Time
	Duration    time.Duration
	Submitted   int
	Rows        []SummaryRow
	Warnings    []SummaryWarning
	Error       string
}

var funcMap = template.FuncMap{
	"ts": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"pipe": func(s string) string {
		return strings.ReplaceAll(s, "|", `\|`)
	},
}

const summaryTemplate = `# BDE batch summary

Generated: {{ ts .GeneratedAt }} ({{ .Duration }})
Submitted: {{ .Submitted }}, analyzed: {{ len .Rows }}, skipped: {{ len .Warnings }}
{{- if .Error }}

> {{ .Error }}
{{- end }}
{{- if .Rows }}

| # | SMILES | Canonical | ID | Bonds | Weakest bond | BDE |
|---|---|---|---|---|---|---|
{{- range $i, $r := .Rows }}
| {{ $i }} | {{ pipe $r.Descriptor }} | {{ pipe $r.Canonical }} | {{ $r.Identifier }} | {{ $r.Bonds }} | {{ $r.WeakestIdx }} | {{ $r.Weakest }} |
{{- end }}
{{- end }}
{{- if .Warnings }}

## Skipped
{{- range .Warnings }}
- {{ .Descriptor }} ({{ .Stage }}): {{ .Message }}
{{- end }}
{{- end }}
`

var summaryTmpl = template.Must(template.New("summary").Funcs(funcMap).Parse(summaryTemplate))

// RenderSummary renders s as Markdown.
func RenderSummary(s Summary) (string, error) {
	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, s); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to render summary")
	}
	return buf.String(), nil
}

//Personal.AI order the ending
