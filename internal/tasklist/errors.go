package tasklist

import "errors"

var (
	// ErrEmptyTask is returned when Add receives an empty string.
	ErrEmptyTask = errors.New("empty task")
	// ErrMultiline is returned when task text contains a line break.
	ErrMultiline = errors.New("task contains a line break")
	// ErrNoSelection is returned when Delete has no task to act on.
	ErrNoSelection = errors.New("no task selected")
)

// User-facing messages.
const (
	MsgEnterTask     = "Please enter a task."
	MsgSingleLine    = "Tasks must fit on a single line."
	MsgSelectTask    = "Please select a task to delete."
	MsgConfirmClear  = "Are you sure you want to delete all tasks?"
	TitleInputError  = "Input Error"
	TitleSelectError = "Selection Error"
	TitleConfirm     = "Confirm"
)

// ValidationError reports task text that cannot be added.
type ValidationError struct {
	Message string // shown to the user
	Err     error  // ErrEmptyTask or ErrMultiline
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Title returns the dialog title for the error.
func (e *ValidationError) Title() string {
	return TitleInputError
}

// SelectionError reports a delete without a valid selection.
type SelectionError struct {
	Message string
	Index   int // requested position, NoSelection when nothing was selected
	Err     error
}

func (e *SelectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SelectionError) Unwrap() error {
	return e.Err
}

// Title returns the dialog title for the error.
func (e *SelectionError) Title() string {
	return TitleSelectError
}

// UserError is implemented by errors that carry a dialog title and a
// message meant for the user.
type UserError interface {
	error
	Title() string
}

// AsUserError reports whether err (or anything it wraps) is a UserError.
func AsUserError(err error) (UserError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	var se *SelectionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
