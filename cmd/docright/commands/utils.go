// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Formatting, offset parsing and output file handling
package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// truncate cuts s to at most max runes, ending in "..." when anything was cut
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// oneLine collapses whitespace runs, newlines included, to single spaces
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ageUnits are checked in order; the first bound the age falls under wins.
var ageUnits = []struct {
	bound  time.Duration
	unit   time.Duration
	suffix string
}{
	{time.Hour, time.Minute, "m"},
	{24 * time.Hour, time.Hour, "h"},
	{7 * 24 * time.Hour, 24 * time.Hour, "d"},
}

// formatTime renders t relative to now for recent times and as a date otherwise
func formatTime(t time.Time) string {
	age := time.Since(t)
	if age < time.Minute {
		return "just now"
	}
	for _, u := range ageUnits {
		if age < u.bound {
			return fmt.Sprintf("%d%s ago", int(age/u.unit), u.suffix)
		}
	}
	return t.Format(time.DateOnly)
}

// parseOffset parses a non-negative code unit offset
func parseOffset(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", name, n)
	}
	return n, nil
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// outputWriter returns the command's stdout, or a file when path is set.
// The returned close function must always be called.
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}
