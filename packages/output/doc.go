// Package output renders responses, errors, latency summaries, and
// request history for the terminal.
//
// The console formatter colors the status line by response class and
// re-indents JSON bodies; color can be disabled for non-tty use.
package output
