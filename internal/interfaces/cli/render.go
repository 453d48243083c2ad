package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// tabular results render as aligned columns in table and text mode.
type tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

var renderers = map[string]func(io.Writer, interface{}) error{
	"json":  renderJSON,
	"table": renderTable,
	"text":  renderText,
}

// PrintResult writes data to stdout in the --output format. Without a CLI
// context it falls back to JSON.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := "json"
	if c, err := GetCLIContext(cmd); err == nil {
		format = c.OutputFormat
	}
	render, ok := renderers[format]
	if !ok {
		render = renderText
	}
	return render(cmd.OutOrStdout(), data)
}

func renderJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func renderTable(w io.Writer, data interface{}) error {
	t, ok := data.(tabular)
	if !ok {
		return renderJSON(w, data)
	}
	_, err := io.WriteString(w, FormatTable(t.TableHeaders(), t.TableRows()))
	return err
}

func renderText(w io.Writer, data interface{}) error {
	var s string
	switch v := data.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		return renderTable(w, data)
	}
	_, err := fmt.Fprintln(w, s)
	return err
}

// FormatTable aligns headers and rows two spaces apart under a dashed rule.
// Short rows are padded with empty cells.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	rule := make([]string, len(headers))
	for i := range headers {
		width := len(headers[i])
		for _, row := range rows {
			if i < len(row) && len(row[i]) > width {
				width = len(row[i])
			}
		}
		rule[i] = strings.Repeat("-", width)
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	line := func(cells []string) {
		padded := make([]string, len(headers))
		copy(padded, cells)
		fmt.Fprintln(tw, strings.Join(padded, "\t"))
	}
	line(headers)
	line(rule)
	for _, row := range rows {
		line(row)
	}
	_ = tw.Flush()
	return sb.String()
}

func PrintError(cmd *cobra.Command, err error) {
	if err != nil {
		note(cmd.ErrOrStderr(), color.New(color.FgRed, color.Bold), "Error: ", err.Error())
	}
}

func PrintSuccess(cmd *cobra.Command, msg string) {
	note(cmd.OutOrStdout(), color.New(color.FgGreen), "OK: ", msg)
}

func PrintWarning(cmd *cobra.Command, msg string) {
	note(cmd.ErrOrStderr(), color.New(color.FgYellow), "Warning: ", msg)
}

func note(w io.Writer, label *color.Color, prefix, msg string) {
	_, _ = label.Fprint(w, prefix)
	fmt.Fprintln(w, msg)
}

//Personal.AI order the ending
