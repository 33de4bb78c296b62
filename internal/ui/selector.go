package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

const (
	listHeight = 8
	minWidth   = 40
	maxWidth   = 100
)

var (
	ErrNoSecrets          = errors.New("no secrets available")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Model is the bubbletea model for picking a secret key
type Model struct {
	keys         []string
	filtered     []string
	cursor       int
	offset       int // for scrolling
	search       string
	selected     string
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int // width inside the box (excluding borders)
}

// NewModel creates a new selector model
func NewModel(keys []string) Model {
	m := Model{
		keys:      keys,
		filtered:  keys,
		termWidth: 80, // default
	}
	m.calculateWidth()
	return m
}

func (m *Model) calculateWidth() {
	m.contentWidth = min(max(m.termWidth-2, minWidth), maxWidth)
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidth()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.selected = m.filtered[m.cursor]
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+listHeight {
					m.offset = m.cursor - listHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				m.search = m.search[:len(m.search)-1]
				m.filter()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filter()
		}
	}

	return m, nil
}

// filter narrows the keys to those containing the search query
func (m *Model) filter() {
	if m.search == "" {
		m.filtered = m.keys
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, k := range m.keys {
			if strings.Contains(strings.ToLower(k), query) {
				m.filtered = append(m.filtered, k)
			}
		}
	}
	// Reset cursor if out of bounds
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	m.offset = 0
}

// Selected returns the chosen key, or "" when nothing was chosen
func (m Model) Selected() string {
	return m.selected
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	w := m.contentWidth

	line := func(s string, render func(...string) string) {
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(render(padRight(s, w)))
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
	}

	sb.WriteString(BorderStyle.Render(TopLeft + strings.Repeat(Horizontal, w) + TopRight))
	sb.WriteString("\n")

	line(" > "+m.search, NameStyle.Render)
	line("", MutedStyle.Render)

	visibleEnd := min(m.offset+listHeight, len(m.filtered))
	for i := m.offset; i < visibleEnd; i++ {
		if i == m.cursor {
			line(" > "+m.filtered[i], KeyStyle.Render)
		} else {
			line("   "+m.filtered[i], ValueStyle.Render)
		}
	}

	// Fill remaining lines if list is short
	for i := max(visibleEnd, m.offset); i < m.offset+listHeight; i++ {
		if i == 0 && len(m.filtered) == 0 {
			line(" No secrets found", MutedStyle.Render)
			continue
		}
		line("", MutedStyle.Render)
	}

	sb.WriteString(BorderStyle.Render(BottomLeft + strings.Repeat(Horizontal, w) + BottomRight))
	sb.WriteString("\n")

	sb.WriteString(m.renderStatusBar())

	return sb.String()
}

func (m Model) renderStatusBar() string {
	w := m.contentWidth + 2 // include border width for status bar

	countInfo := fmt.Sprintf("  %d/%d secrets", len(m.filtered), len(m.keys))
	hintsPlain := "[Enter:select] [Esc:cancel]"

	padding := w - runewidth.StringWidth(countInfo) - runewidth.StringWidth(hintsPlain)

	var sb strings.Builder
	sb.WriteString(countInfo)
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	sb.WriteString(HintStyle.Render(hintsPlain))
	sb.WriteString("\n")

	return sb.String()
}

// SelectSecret displays an interactive picker and returns the chosen key
func SelectSecret(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", ErrNoSecrets
	}

	p := tea.NewProgram(NewModel(keys))

	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(Model)
	if result.cancelled || result.selected == "" {
		return "", ErrSelectionCancelled
	}

	return result.selected, nil
}
