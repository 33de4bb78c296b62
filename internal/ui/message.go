package ui

import (
	"fmt"
	"io"
	"time"
)

// Done prints a success line: "Done! <msg>"
func Done(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", DoneStyle.Render("Done!"), fmt.Sprintf(format, args...))
}

// Error prints a red failure line for err
func Error(w io.Writer, err error) {
	fmt.Fprintf(w, "%s — %s\n", ErrorStyle.Render("Error!"), err)
}

// Bold renders s in bold
func Bold(s string) string {
	return BoldStyle.Render(s)
}

// FormatDate renders t as an absolute local timestamp
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// RelativeTime renders t relative to now ("5 minutes ago", "yesterday")
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}

	d := now.Sub(t)
	if d < 0 {
		return FormatDate(t)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	case d < 48*time.Hour:
		return "yesterday"
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	default:
		return t.Local().Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
