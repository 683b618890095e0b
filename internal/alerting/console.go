package alerting

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// ConsoleAlerter writes alerts to a writer (stdout by default).
type ConsoleAlerter struct {
	out io.Writer
}

// NewConsoleAlerter creates a console alerter writing to stdout.
func NewConsoleAlerter() *ConsoleAlerter {
	return &ConsoleAlerter{out: os.Stdout}
}

// NewConsoleAlerterWithWriter creates a console alerter with a custom writer.
func NewConsoleAlerterWithWriter(w io.Writer) *ConsoleAlerter {
	return &ConsoleAlerter{out: w}
}

// Alert writes the alert to the configured writer.
func (a *ConsoleAlerter) Alert(_ context.Context, severity Severity, message string, fields ...any) error {
	ts := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] [%s] %s", ts, severity, message)
	if formatted := FormatFields(fields...); formatted != "" {
		line += "\n" + formatted
	}
	_, err := fmt.Fprintln(a.out, line)
	return err
}

// Name returns the alerter name.
func (a *ConsoleAlerter) Name() string {
	return "console"
}
