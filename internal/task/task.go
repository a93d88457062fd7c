// Package task holds the task model, the date parser shared by its variants,
// the ordered task list and the substring filter over it.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyName   = errors.New("task name is empty")
	ErrNoSuchTask  = errors.New("no such task")
	ErrUnknownKind = errors.New("unknown task kind")
)

// Kind discriminates the task variants. It is fixed at construction.
type Kind int

const (
	KindTodo Kind = iota + 1
	KindDeadline
	KindEvent
)

// Tag returns the single-letter marker used both on disk and in display strings.
func (k Kind) Tag() string {
	switch k {
	case KindTodo:
		return "T"
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "?"
	}
}

func (k Kind) String() string {
	switch k {
	case KindTodo:
		return "todo"
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindFromTag is the inverse of Kind.Tag.
func KindFromTag(tag string) (Kind, error) {
	switch tag {
	case "T":
		return KindTodo, nil
	case "D":
		return KindDeadline, nil
	case "E":
		return KindEvent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
	}
}

// Task is a tagged union over the three variants. By is set only for
// deadlines; Start and End only for events.
type Task struct {
	Kind  Kind
	Name  string
	Done  bool
	By    time.Time
	Start time.Time
	End   time.Time
}

func NewTodo(name string) (Task, error) {
	if err := checkName(name); err != nil {
		return Task{}, err
	}
	return Task{Kind: KindTodo, Name: name}, nil
}

// NewDeadline parses by with ParseDateTime.
func NewDeadline(name, by string) (Task, error) {
	if err := checkName(name); err != nil {
		return Task{}, err
	}
	at, err := ParseDateTime(by)
	if err != nil {
		return Task{}, err
	}
	return Task{Kind: KindDeadline, Name: name, By: at}, nil
}

// NewEvent parses start and end with ParseDateTime. No ordering between the
// two is enforced here; stored events may legitimately predate that rule.
func NewEvent(name, start, end string) (Task, error) {
	if err := checkName(name); err != nil {
		return Task{}, err
	}
	from, err := ParseDateTime(start)
	if err != nil {
		return Task{}, err
	}
	to, err := ParseDateTime(end)
	if err != nil {
		return Task{}, err
	}
	return Task{Kind: KindEvent, Name: name, Start: from, End: to}, nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t *Task) Complete() { t.Done = true }
func (t *Task) Incomplete() { t.Done = false }

// PrimaryTime is the instant a task is ordered by: the deadline for a
// Deadline, the start for an Event. Todos have none.
func (t Task) PrimaryTime() (time.Time, bool) {
	switch t.Kind {
	case KindDeadline:
		return t.By, true
	case KindEvent:
		return t.Start, true
	default:
		return time.Time{}, false
	}
}

// String renders the display string, e.g. "[D] [X] report (by: Oct 01 2024 14:00)".
func (t Task) String() string {
	done := "[ ]"
	if t.Done {
		done = "[X]"
	}
	s := fmt.Sprintf("[%s] %s %s", t.Kind.Tag(), done, t.Name)
	switch t.Kind {
	case KindDeadline:
		s += fmt.Sprintf(" (by: %s)", FormatDisplay(t.By))
	case KindEvent:
		s += fmt.Sprintf(" (from: %s to: %s)", FormatDisplay(t.Start), FormatDisplay(t.End))
	}
	return s
}
