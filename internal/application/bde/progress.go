package bde

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress modes accepted by NewProgress.
const (
	ProgressAuto     = "auto"
	ProgressTerminal = "terminal"
	ProgressCI       = "ci"
	ProgressOff      = "off"
)

// Progress receives batch progress.
type Progress interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewProgress returns a reporter for mode writing to w.  "auto" picks the
// line-by-line reporter when the CI or GITHUB_ACTIONS variable is set and the
// progress bar otherwise.
func NewProgress(mode string, w io.Writer) Progress {
	if w == nil {
		w = os.Stderr
	}
	switch mode {
	case ProgressOff:
		return NopProgress{}
	case ProgressCI:
		return &CIProgress{w: w}
	case ProgressTerminal:
		return &TerminalProgress{w: w}
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIProgress{w: w}
	}
	return &TerminalProgress{w: w}
}

// TerminalProgress displays a progress bar.
type TerminalProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalProgress) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalProgress) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalProgress) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIProgress prints one line per item.
type CIProgress struct {
	w     io.Writer
	total int
}

func (r *CIProgress) Start(total int) {
	r.total = total
	fmt.Fprintf(r.w, "Starting batch analysis of %d structures\n", total)
}

func (r *CIProgress) Update(current int, message string) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIProgress) Finish() {
	fmt.Fprintln(r.w, "Batch analysis complete")
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Start(int)          {}
func (NopProgress) Update(int, string) {}
func (NopProgress) Finish()            {}

//Personal.AI order the ending
