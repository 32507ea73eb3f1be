// Package tasklist owns the ordered task list and keeps it in sync with the
// task file.
//
// Every successful mutation rewrites the whole file before returning. If the
// write fails the mutation is undone, so the in-memory list always matches
// what is on disk.
package tasklist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dailytasks/internal/taskfile"
)

// Selection is a position in the list. NoSelection means nothing is selected.
type Selection int

// NoSelection is the Selection value for "nothing selected".
const NoSelection Selection = -1

// Confirmer answers yes/no questions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Always is a Confirmer that always answers yes.
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

// Never is a Confirmer that always answers no.
var Never Confirmer = ConfirmFunc(func(string) bool { return false })

// Option configures a List.
type Option func(*List)

// WithLogger sets the logger used for list events.
func WithLogger(logger *log.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWriter overrides the function used to persist the list.
func WithWriter(write func(path string, tasks []string) error) Option {
	return func(l *List) {
		if write != nil {
			l.write = write
		}
	}
}

// List is the task list controller.
type List struct {
	path   string
	tasks  []string
	logger *log.Logger
	write  func(path string, tasks []string) error
}

// Open creates a List backed by the file at path and loads it. A missing
// file yields an empty list. Open does not write to the file.
func Open(path string, opts ...Option) (*List, error) {
	if path == "" {
		return nil, fmt.Errorf("task file path is empty")
	}
	l := &List{
		path:   path,
		tasks:  make([]string, 0),
		logger: log.New(io.Discard),
		write:  taskfile.Write,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *List) load() error {
	tasks, err := taskfile.Read(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("task file not found, starting empty", "path", l.path)
			return nil
		}
		return fmt.Errorf("read task file: %w", err)
	}
	l.tasks = tasks
	l.logger.Info("tasks loaded", "path", l.path, "count", len(tasks))
	return nil
}

// Path returns the task file path.
func (l *List) Path() string {
	return l.path
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// At returns the task at position i.
func (l *List) At(i int) string {
	return l.tasks[i]
}

// Tasks returns a copy of the tasks in order.
func (l *List) Tasks() []string {
	out := make([]string, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Add appends text as the last task and persists the list. Trailing
// whitespace is dropped, as it would be on the next load.
func (l *List) Add(text string) error {
	text, err := normalize(text)
	if err != nil {
		l.logger.Debug("task rejected", "reason", err)
		return err
	}

	prev := l.tasks
	l.tasks = append(l.Tasks(), text)
	if err := l.persist(); err != nil {
		l.tasks = prev
		return err
	}
	l.logger.Info("task added", "index", len(l.tasks)-1, "count", len(l.tasks))
	return nil
}

// AddAll appends every text in order and persists once. Nothing is added
// if any text fails validation.
func (l *List) AddAll(texts []string) (int, error) {
	clean := make([]string, 0, len(texts))
	for i, text := range texts {
		text, err := normalize(text)
		if err != nil {
			return 0, fmt.Errorf("task %d: %w", i+1, err)
		}
		clean = append(clean, text)
	}
	if len(clean) == 0 {
		return 0, nil
	}

	prev := l.tasks
	l.tasks = append(l.Tasks(), clean...)
	if err := l.persist(); err != nil {
		l.tasks = prev
		return 0, err
	}
	l.logger.Info("tasks added", "added", len(clean), "count", len(l.tasks))
	return len(clean), nil
}

// Delete removes the task at sel and persists the list.
func (l *List) Delete(sel Selection) error {
	_, err := l.Remove(sel)
	return err
}

// Remove removes the task at sel, persists the list and returns the
// removed text.
func (l *List) Remove(sel Selection) (string, error) {
	i := int(sel)
	if sel == NoSelection || i < 0 || i >= len(l.tasks) {
		return "", &SelectionError{Message: MsgSelectTask, Index: i, Err: ErrNoSelection}
	}

	prev := l.tasks
	removed := l.tasks[i]
	next := make([]string, 0, len(l.tasks)-1)
	next = append(next, l.tasks[:i]...)
	next = append(next, l.tasks[i+1:]...)
	l.tasks = next
	if err := l.persist(); err != nil {
		l.tasks = prev
		return "", err
	}
	l.logger.Info("task deleted", "index", i, "count", len(l.tasks))
	return removed, nil
}

// ClearAll asks c to confirm and, if it does, removes every task and
// persists the empty list. It reports whether the list was cleared.
func (l *List) ClearAll(c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(MsgConfirmClear) {
		l.logger.Debug("clear declined")
		return false, nil
	}

	prev := l.tasks
	l.tasks = make([]string, 0)
	if err := l.persist(); err != nil {
		l.tasks = prev
		return false, err
	}
	l.logger.Info("tasks cleared", "removed", len(prev))
	return true, nil
}

func (l *List) persist() error {
	if err := l.write(l.path, l.tasks); err != nil {
		l.logger.Error("persist failed", "path", l.path, "err", err)
		return fmt.Errorf("save task file: %w", err)
	}
	return nil
}

// normalize returns text in the form a reload of the task file would
// produce, or a ValidationError if that form is not a valid task.
func normalize(text string) (string, error) {
	if strings.ContainsAny(text, "\r\n") {
		return "", &ValidationError{Message: MsgSingleLine, Err: ErrMultiline}
	}
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if text == "" {
		return "", &ValidationError{Message: MsgEnterTask, Err: ErrEmptyTask}
	}
	return text, nil
}
