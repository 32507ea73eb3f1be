// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/dailytasks/internal/config"
	"github.com/nibzard/dailytasks/internal/tasklist"
)

// DefaultListHeight is the number of visible task rows when not configured.
const DefaultListHeight = config.DefaultListHeight

// chromeHeight is the number of screen rows used by everything except the
// task rows.
const chromeHeight = 14

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	listHeight int
	logger     *log.Logger
}

// WithListHeight sets how many task rows are visible before the list scrolls.
func WithListHeight(n int) TUIOption {
	return func(c *tuiConfig) {
		if n > 0 {
			c.listHeight = n
		}
	}
}

// WithLogger sets the logger used for interface events.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// RunTUI runs the interface over list until the user quits or ctx is done.
func RunTUI(ctx context.Context, list *tasklist.List, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := NewModel(list, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focus int

const (
	focusEntry focus = iota
	focusList
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogWarning
	dialogConfirm
)

type dialog struct {
	kind    dialogKind
	title   string
	message string
}

// Model is the bubbletea model of the task window.
type Model struct {
	list   *tasklist.List
	logger *log.Logger
	input  textinput.Model
	styles styles

	focus      focus
	selected   tasklist.Selection
	offset     int // first visible row
	listHeight int // configured visible rows
	visible    int // visible rows after fitting the terminal
	width      int
	dialog     dialog
}

// NewModel creates the model for list.
func NewModel(list *tasklist.List, opts ...TUIOption) *Model {
	c := &tuiConfig{
		listHeight: DefaultListHeight,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	ti := textinput.New()
	ti.Placeholder = "New task..."
	ti.Prompt = ""
	ti.CharLimit = 0 // unlimited, like the controller
	ti.Width = entryWidth
	ti.Focus()

	return &Model{
		list:       list,
		logger:     c.logger,
		input:      ti,
		styles:     defaultStyles(),
		focus:      focusEntry,
		selected:   tasklist.NoSelection,
		listHeight: c.listHeight,
		visible:    c.listHeight,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.dialog.kind != dialogNone {
			return m.handleDialogKey(msg)
		}
		if m.focus == focusEntry {
			return m.handleEntryKey(msg)
		}
		return m.handleListKey(msg)
	}

	if m.focus == focusEntry {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.addTask()
		return m, nil
	case "tab", "down", "esc":
		m.focusList()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "home", "g":
		m.selectIndex(0)
	case "end", "G":
		m.selectIndex(m.list.Len() - 1)
	case "pgup":
		m.moveSelection(-m.visible)
	case "pgdown":
		m.moveSelection(m.visible)
	case "d", "x", "delete", "backspace":
		m.deleteTask()
	case "c":
		m.dialog = dialog{kind: dialogConfirm, title: tasklist.TitleConfirm, message: tasklist.MsgConfirmClear}
	case "esc":
		m.selected = tasklist.NoSelection
	case "tab", "a", "i", "enter":
		return m, m.focusEntry()
	}
	return m, nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.dialog.kind {
	case dialogConfirm:
		switch key {
		case "y", "Y":
			m.dialog = dialog{}
			m.clearAll(true)
		case "n", "N", "esc":
			m.dialog = dialog{}
			m.clearAll(false)
		}
	case dialogWarning:
		switch key {
		case "enter", "esc", " ", "q":
			m.dialog = dialog{}
		}
	}
	return m, nil
}

func (m *Model) addTask() {
	if err := m.list.Add(m.input.Value()); err != nil {
		m.showError(err)
		return
	}
	m.input.Reset()
	// Keep the new task in view.
	m.offset = m.maxOffset()
}

func (m *Model) deleteTask() {
	if err := m.list.Delete(m.selected); err != nil {
		m.showError(err)
		return
	}
	m.selected = tasklist.NoSelection
	m.clampOffset()
}

func (m *Model) clearAll(confirmed bool) {
	answer := tasklist.Never
	if confirmed {
		answer = tasklist.Always
	}
	cleared, err := m.list.ClearAll(answer)
	if err != nil {
		m.showError(err)
		return
	}
	if cleared {
		m.selected = tasklist.NoSelection
		m.offset = 0
	}
}

func (m *Model) showError(err error) {
	if ue, ok := tasklist.AsUserError(err); ok {
		m.dialog = dialog{kind: dialogWarning, title: ue.Title(), message: ue.Error()}
		return
	}
	m.logger.Error("operation failed", "err", err)
	m.dialog = dialog{kind: dialogWarning, title: "Error", message: err.Error()}
}

func (m *Model) focusList() {
	m.focus = focusList
	m.input.Blur()
}

func (m *Model) focusEntry() tea.Cmd {
	m.focus = focusEntry
	return m.input.Focus()
}

func (m *Model) moveSelection(delta int) {
	n := m.list.Len()
	if n == 0 {
		return
	}
	if m.selected == tasklist.NoSelection {
		if delta > 0 {
			m.selectIndex(0)
		} else {
			m.selectIndex(n - 1)
		}
		return
	}
	m.selectIndex(int(m.selected) + delta)
}

func (m *Model) selectIndex(i int) {
	n := m.list.Len()
	if n == 0 {
		m.selected = tasklist.NoSelection
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	m.selected = tasklist.Selection(i)
	m.ensureVisible(i)
}

// ensureVisible adjusts offset to keep row i in view.
func (m *Model) ensureVisible(i int) {
	if i < m.offset {
		m.offset = i
	}
	if i >= m.offset+m.visible {
		m.offset = i - m.visible + 1
	}
	m.clampOffset()
}

func (m *Model) maxOffset() int {
	limit := m.list.Len() - m.visible
	if limit < 0 {
		return 0
	}
	return limit
}

func (m *Model) clampOffset() {
	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	visible := m.listHeight
	if height > 0 && height-chromeHeight < visible {
		visible = height - chromeHeight
	}
	if visible < 1 {
		visible = 1
	}
	m.visible = visible
	if m.selected != tasklist.NoSelection {
		m.ensureVisible(int(m.selected))
	} else {
		m.clampOffset()
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
