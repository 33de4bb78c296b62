package envfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrFileRead indicates the env file could not be opened or read
var ErrFileRead = errors.New("could not read secrets file or no file was provided")

// ReadEntries reads the env file at path. Blank lines and comments are
// skipped; duplicate keys are returned in file order.
func ReadEntries(path string) ([]Entry, error) {
	if path == "" {
		return nil, ErrFileRead
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}

	return Parse(string(data)), nil
}

// Parse parses env file content
func Parse(content string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		entries = append(entries, ParseLine(line))
	}
	return entries
}

// WriteEntries writes entries to path as KEY="VALUE" lines
func WriteEntries(path string, entries []Entry) error {
	content := strings.Join(Lines(entries), "\n")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write secrets to %s: %w", path, err)
	}
	return nil
}
