// Package cli implements the lobbymap command-line interface.
//
// This package provides commands for extracting the node map of a Celeste
// lobby level, embedding it in a screenshot of the level, and drawing labels
// and route arrows onto that screenshot. The CLI is built using cobra and
// logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - walk: Extract the node map of a level and optionally embed it in a PNG
//   - draw: Draw labels, graph edges and a highlighted route onto a PNG
//   - dot: Export the node map as a Graphviz graph with pinned positions
//   - cache: Clear or locate the node map cache used by walk
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs and
// status lines go to stderr; stdout carries only command output such as the
// node map JSON.
//
// # Example
//
//	import "github.com/matzehuels/lobbymap/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Drew 12 labels (84ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
