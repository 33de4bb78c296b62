package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/hush/internal/envfile"
	pkgtypes "github.com/vietdv277/hush/pkg/types"
)

const maxColumnWidth = 60

// Column is one table column
type Column struct {
	Header string
	Style  lipgloss.Style
}

// Table renders rows in a styled box
type Table struct {
	Columns []Column
	Rows    [][]string
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = runewidth.StringWidth(c.Header)
	}
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}
	return widths
}

func border(sb *strings.Builder, widths []int, left, mid, right string) {
	sb.WriteString(BorderStyle.Render(left))
	for i, w := range widths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(widths)-1 {
			sb.WriteString(BorderStyle.Render(mid))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
}

// Render writes the table to w
func (t *Table) Render(w io.Writer) {
	widths := t.widths()

	var sb strings.Builder

	border(&sb, widths, TopLeft, TopT, TopRight)

	// Header row
	sb.WriteString(BorderStyle.Render(Vertical))
	for i, c := range t.Columns {
		sb.WriteString(HeaderStyle.Render(" " + padRight(c.Header, widths[i]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	border(&sb, widths, LeftT, Cross, RightT)

	// Data rows
	for _, row := range t.Rows {
		sb.WriteString(BorderStyle.Render(Vertical))
		for i, c := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(c.Style.Render(" " + padRight(cell, widths[i]) + " "))
			sb.WriteString(BorderStyle.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	border(&sb, widths, BottomLeft, BottomT, BottomRight)

	fmt.Fprint(w, sb.String())
}

// PrintSecretTable prints the summaries of `hush list`
func PrintSecretTable(w io.Writer, secrets []pkgtypes.SecretSummary, now time.Time) {
	t := &Table{Columns: []Column{
		{Header: "Name", Style: NameStyle},
		{Header: "Message", Style: ValueStyle},
		{Header: "Version", Style: MutedStyle},
		{Header: "Updated at", Style: MutedStyle},
		{Header: "Secrets", Style: KeyStyle},
	}}

	for _, s := range secrets {
		count := strconv.Itoa(s.Count)
		if s.Count < 0 {
			count = "?"
		}
		message := s.Message
		if s.Encrypted {
			count += " (encrypted)"
			if message == "" {
				message = "-"
			}
		}
		t.Rows = append(t.Rows, []string{
			s.Name,
			message,
			strconv.Itoa(s.Version),
			RelativeTime(s.UpdatedAt, now),
			count,
		})
	}

	t.Render(w)
	fmt.Fprintf(w, "  %d secrets\n", len(secrets))
}

// PrintEntryTable prints the entries of a secret
func PrintEntryTable(w io.Writer, entries []envfile.Entry) {
	t := &Table{Columns: []Column{
		{Header: "Key", Style: KeyStyle},
		{Header: "Value", Style: ValueStyle},
	}}

	for _, e := range entries {
		t.Rows = append(t.Rows, []string{e.Key, e.Value})
	}

	t.Render(w)
}

// PrintDiff prints the lines that differ between the local file and the remote secret
func PrintDiff(w io.Writer, diff envfile.DiffResult) {
	for _, line := range diff.Added {
		fmt.Fprintln(w, AddedStyle.Render("[ADD]    "+line))
	}
	for _, line := range diff.Removed {
		fmt.Fprintln(w, RemovedStyle.Render("[REMOVE] "+line))
	}
	for _, line := range diff.Changed {
		fmt.Fprintln(w, ChangedStyle.Render("[CHANGE] "+line))
	}
}
