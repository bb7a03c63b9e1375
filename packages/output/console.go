package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abdul-hamid-achik/restflow/packages/history"
	"github.com/abdul-hamid-achik/restflow/packages/metrics"
	"github.com/abdul-hamid-achik/restflow/packages/rest"
	"github.com/fatih/color"
)

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

// FormatResponse prints the status line, optionally the headers, and the
// body. JSON bodies are re-indented for readability.
func (f *ConsoleFormatter) FormatResponse(resp *rest.Response) {
	cyan := color.New(color.FgCyan).SprintFunc()

	statusColor := color.New(color.FgGreen)
	switch {
	case resp.IsRedirect():
		statusColor = color.New(color.FgYellow)
	case resp.IsClientError() || resp.IsServerError():
		statusColor = color.New(color.FgRed)
	}
	status := statusColor.SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", status(resp.Status), cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))

	if f.verbose {
		keys := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(f.writer, "%s: %s\n", k, resp.Headers[k])
		}
		fmt.Fprintf(f.writer, "\n")
	}

	if len(resp.Body) == 0 {
		return
	}

	if resp.IsJSON() {
		var indented bytes.Buffer
		if err := json.Indent(&indented, resp.Body, "", "  "); err == nil {
			fmt.Fprintf(f.writer, "%s\n", indented.String())
			return
		}
	}
	fmt.Fprintf(f.writer, "%s\n", resp.BodyString())
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// FormatSummary prints the latency statistics of a repeated run.
func (f *ConsoleFormatter) FormatSummary(s metrics.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Summary"))
	fmt.Fprintf(f.writer, "Requests: ")
	if s.Success > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d ok", s.Success)))
	}
	if s.Errors > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", s.Errors)))
	}
	fmt.Fprintf(f.writer, "%d total (%.1f req/s)\n", s.Total, s.RPS)
	fmt.Fprintf(f.writer, "Latency:  p50=%s p95=%s p99=%s min=%s max=%s mean=%s\n",
		s.P50, s.P95, s.P99, s.Min, s.Max, s.Mean)
	fmt.Fprintf(f.writer, "Time:     %dms\n", s.Duration.Milliseconds())
}

// FormatHistory prints recorded exchanges, newest first.
func (f *ConsoleFormatter) FormatHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(f.writer, "No recorded requests.\n")
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, e := range entries {
		statusStr := fmt.Sprintf("%d", e.StatusCode)
		if e.StatusCode >= 200 && e.StatusCode < 300 {
			statusStr = green(statusStr)
		} else if e.StatusCode >= 400 {
			statusStr = red(statusStr)
		}

		fmt.Fprintf(f.writer, "%s  %s %s %s (%dms, %dB)\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			bold(e.Method), e.URL, statusStr, e.DurationMs, e.Size)
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("restflow"), version)
}
