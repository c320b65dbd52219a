// Package progressui renders live terminal progress bars for an
// anctx.Context's Progress callback, the way the teacher's CLI commands
// use github.com/fatih/color for interactive stdout feedback.
package progressui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Bar width and score-coloring thresholds, adapted from the teacher's
// terminal progress-bar and score-coloring constants.
const (
	defaultBarWidth     = 30
	progressFilledGlyph = "█"
	progressEmptyGlyph  = "░"
	thresholdGood       = 0.8
	thresholdFair       = 0.4
)

// Reporter draws a single-line, carriage-return-updated progress bar per
// stage. Its Report method has the exact signature of anctx.ProgressFunc,
// so a *Reporter can be assigned directly to anctx.Context.Progress.
type Reporter struct {
	out      io.Writer
	barWidth int
	noColor  bool

	mu          sync.Mutex
	activeStage string
}

// New returns a Reporter writing to out with the default bar width. Pass
// os.Stderr so progress output never mixes with piped report output on
// stdout.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out, barWidth: defaultBarWidth}
}

// NewNoColor returns a Reporter with ANSI coloring disabled, for
// non-terminal output (CI logs, files) or when the caller honors NO_COLOR.
func NewNoColor(out io.Writer) *Reporter {
	return &Reporter{out: out, barWidth: defaultBarWidth, noColor: true}
}

// Report implements anctx.ProgressFunc. It redraws the current line in
// place; when a new stage starts it first emits a newline so the prior
// stage's final bar is preserved, and when done reaches total it emits a
// trailing newline so later output does not overwrite the completed bar.
func (r *Reporter) Report(stage string, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeStage != "" && r.activeStage != stage {
		fmt.Fprintln(r.out)
	}

	r.activeStage = stage

	fraction := fractionOf(done, total)
	bar := drawBar(fraction, r.barWidth)
	line := fmt.Sprintf("\r%-20s [%s] %d/%d (%3.0f%%)", stage, r.colorize(bar, fraction), done, total, fraction*100)

	fmt.Fprint(r.out, line)

	if total > 0 && done >= total {
		fmt.Fprintln(r.out)
		r.activeStage = ""
	}
}

func fractionOf(done, total int) float64 {
	if total <= 0 {
		return 0
	}

	fraction := float64(done) / float64(total)

	switch {
	case fraction < 0:
		return 0
	case fraction > 1:
		return 1
	default:
		return fraction
	}
}

func drawBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	empty := width - filled

	return strings.Repeat(progressFilledGlyph, filled) + strings.Repeat(progressEmptyGlyph, empty)
}

func (r *Reporter) colorize(bar string, fraction float64) string {
	if r.noColor {
		return bar
	}

	var c *color.Color

	switch {
	case fraction >= thresholdGood:
		c = color.New(color.FgGreen)
	case fraction >= thresholdFair:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}

	return c.Sprint(bar)
}
