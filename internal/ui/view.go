package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nibzard/dailytasks/internal/tasklist"
)

const (
	title      = "Daily Tasks"
	entryWidth = 25
	rowWidth   = 40
)

type styles struct {
	title        lipgloss.Style
	entry        lipgloss.Style
	entryFocused lipgloss.Style
	box          lipgloss.Style
	boxFocused   lipgloss.Style
	row          lipgloss.Style
	selected     lipgloss.Style
	empty        lipgloss.Style
	scrollTrack  lipgloss.Style
	scrollThumb  lipgloss.Style
	addButton    lipgloss.Style
	deleteButton lipgloss.Style
	clearButton  lipgloss.Style
	dialog       lipgloss.Style
	dialogTitle  lipgloss.Style
	help         lipgloss.Style
	status       lipgloss.Style
}

func defaultStyles() styles {
	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	return styles{
		title: lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1),
		entry: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
		entryFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#4CAF50")),
		box:          box,
		boxFocused:   box.BorderForeground(lipgloss.Color("#61AFEF")),
		row:          lipgloss.NewStyle().Width(rowWidth),
		selected:     lipgloss.NewStyle().Width(rowWidth).Reverse(true),
		empty:        lipgloss.NewStyle().Width(rowWidth).Faint(true).Italic(true),
		scrollTrack:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		scrollThumb:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		addButton:    button.Background(lipgloss.Color("#4CAF50")),
		deleteButton: button.Background(lipgloss.Color("#f44336")),
		clearButton:  button.Background(lipgloss.Color("#FF9800")),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF9800")).
			Padding(0, 2),
		dialogTitle: lipgloss.NewStyle().Bold(true),
		help:        lipgloss.NewStyle().Faint(true),
		status:      lipgloss.NewStyle().Faint(true).Italic(true),
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n")

	entryStyle := m.styles.entry
	if m.focus == focusEntry && m.dialog.kind == dialogNone {
		entryStyle = m.styles.entryFocused
	}
	entry := entryStyle.Render(m.input.View())
	add := lipgloss.NewStyle().MarginLeft(1).MarginTop(1).Render(m.styles.addButton.Render("Add"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, entry, add))
	b.WriteString("\n")

	b.WriteString(m.renderList())
	b.WriteString("\n")

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.deleteButton.Render("Delete Task"),
		"  ",
		m.styles.clearButton.Render("Clear All"),
	)
	b.WriteString(buttons)
	b.WriteString("\n\n")

	if m.dialog.kind != dialogNone {
		b.WriteString(m.renderDialog())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.styles.status.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderList() string {
	n := m.list.Len()
	rows := make([]string, 0, m.visible)
	for i := m.offset; i < m.offset+m.visible; i++ {
		switch {
		case i < n:
			text := ansi.Truncate(sanitize(m.list.At(i)), rowWidth, "…")
			style := m.styles.row
			if tasklist.Selection(i) == m.selected {
				style = m.styles.selected
			}
			rows = append(rows, style.Render(text))
		case n == 0 && i == 0:
			rows = append(rows, m.styles.empty.Render("No tasks yet."))
		default:
			rows = append(rows, m.styles.row.Render(""))
		}
	}

	content := strings.Join(rows, "\n")
	if bar := m.renderScrollbar(); bar != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, bar)
	}

	box := m.styles.box
	if m.focus == focusList && m.dialog.kind == dialogNone {
		box = m.styles.boxFocused
	}
	return box.Render(content)
}

// renderScrollbar draws a one-column scrollbar when the list overflows.
func (m *Model) renderScrollbar() string {
	pos, size, ok := scrollThumb(m.list.Len(), m.visible, m.offset)
	if !ok {
		return ""
	}
	cells := make([]string, m.visible)
	for i := range cells {
		if i >= pos && i < pos+size {
			cells[i] = m.styles.scrollThumb.Render("█")
		} else {
			cells[i] = m.styles.scrollTrack.Render("│")
		}
	}
	return strings.Join(cells, "\n")
}

// scrollThumb returns the thumb position and size for a list of total rows
// showing visible rows from offset. ok is false when everything fits.
func scrollThumb(total, visible, offset int) (pos, size int, ok bool) {
	if visible <= 0 || total <= visible {
		return 0, 0, false
	}
	size = visible * visible / total
	if size < 1 {
		size = 1
	}
	track := visible - size
	maxOffset := total - visible
	pos = offset * track / maxOffset
	if pos > track {
		pos = track
	}
	if pos < 0 {
		pos = 0
	}
	return pos, size, true
}

func (m *Model) renderDialog() string {
	var hint string
	switch m.dialog.kind {
	case dialogConfirm:
		hint = "[y] Yes   [n] No"
	default:
		hint = "[enter] OK"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.dialogTitle.Render(m.dialog.title),
		"",
		m.dialog.message,
		"",
		m.styles.help.Render(hint),
	)
	return m.styles.dialog.Render(body)
}

func (m *Model) statusLine() string {
	n := m.list.Len()
	noun := "tasks"
	if n == 1 {
		noun = "task"
	}
	line := fmt.Sprintf("%d %s · %s", n, noun, filepath.Base(m.list.Path()))
	if m.selected != tasklist.NoSelection {
		line += fmt.Sprintf(" · selected %d", int(m.selected)+1)
	}
	return line
}

func (m *Model) helpLine() string {
	if m.focus == focusEntry {
		return "enter add · tab list · ctrl+c quit"
	}
	return "↑/↓ select · d delete · c clear all · tab type · q quit"
}

// sanitize replaces control characters so a task always renders on one row.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}
