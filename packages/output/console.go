package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitsmoke/packages/http"
	"github.com/abdul-hamid-achik/hitsmoke/packages/smoke"
	"github.com/fatih/color"
)

// ConsoleFormatter prints each smoke step as a labelled status/body block.
// It implements smoke.Reporter.
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) StepStarted(step smoke.Step) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s\n", bold(step.Label))
}

// StepCompleted prints the status code and the body exactly as received.
func (f *ConsoleFormatter) StepCompleted(step smoke.Step, resp *http.Response) {
	fmt.Fprintf(f.writer, "Status: %d\n", resp.StatusCode)
	if f.verbose {
		timing := color.New(color.FgGreen).SprintFunc()
		if !resp.IsSuccess() {
			timing = color.New(color.FgYellow).SprintFunc()
		}
		fmt.Fprintf(f.writer, "%s\n", timing(fmt.Sprintf("(%dms)", resp.DurationMs())))
	}
	fmt.Fprintf(f.writer, "Response: %s\n\n", resp.BodyString())
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version, target string) {
	if !f.verbose {
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s %s\n\n", bold("hitsmoke"), version, cyan(target))
}
