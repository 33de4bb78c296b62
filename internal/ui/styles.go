package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Color palette
const (
	ColorBorder  = "240"
	ColorHeader  = "252"
	ColorKey     = "214"
	ColorName    = "81"
	ColorValue   = "252"
	ColorAdded   = "82"
	ColorRemoved = "203"
	ColorChanged = "214"
	ColorMuted   = "240"
	ColorHint    = "245"
)

// Shared styles
var (
	BorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorKey))
	NameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorName))
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorValue))
	AddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAdded))
	RemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRemoved))
	ChangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorChanged))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint))

	DoneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAdded))
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRemoved))
	BoldStyle  = lipgloss.NewStyle().Bold(true)
	LabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorChanged))
)

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}
