// Package batch reads word lists for bulk translation.
package batch

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one line of a batch file: the text to translate plus an
// optional note the user attached after "=".
type Entry struct {
	Text string
	Note string
}

// ReadFile reads batch entries from a file. Supported formats:
//   - text only: "hello" (translated as-is)
//   - with note: "hello = greeting" (note is carried into the output)
//
// Blank lines and lines starting with '#' are skipped.
func ReadFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			text := strings.TrimSpace(parts[0])
			note := strings.TrimSpace(parts[1])
			if text == "" {
				// A note without text is not translatable
				continue
			}
			entries = append(entries, Entry{Text: text, Note: note})
		} else {
			entries = append(entries, Entry{Text: line})
		}
	}

	return entries, nil
}
