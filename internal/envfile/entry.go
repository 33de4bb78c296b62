// Package envfile reads, writes and compares .env style files.
package envfile

import "strings"

// Entry is a single environment variable
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Line renders the entry in canonical KEY="VALUE" form
func (e Entry) Line() string {
	return e.Key + `="` + e.Value + `"`
}

// ParseLine parses a KEY=VALUE line. Double quotes are stripped and only the
// first '=' separates key from value, so values may contain '='.
func ParseLine(line string) Entry {
	line = strings.ReplaceAll(line, `"`, "")
	key, value, _ := strings.Cut(line, "=")
	return Entry{Key: key, Value: value}
}

// Lines renders every entry in canonical form
func Lines(entries []Entry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Line())
	}
	return lines
}
