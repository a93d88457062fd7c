package task

import (
	"fmt"
	"slices"
)

// IndexError reports a 1-based index outside 1..Size.
// It satisfies errors.Is(err, ErrNoSuchTask).
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	if e == nil {
		return ErrNoSuchTask.Error()
	}
	return fmt.Sprintf("task %d does not exist (list has %d)", e.Index, e.Size)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrNoSuchTask
}

// List is the ordered task collection. All positions are 1-based.
// The zero value is an empty list ready to use.
type List struct {
	tasks []Task
}

// NewList returns a list holding copies of tasks in the given order.
func NewList(tasks ...Task) *List {
	return &List{tasks: slices.Clone(tasks)}
}

func (l *List) Len() int { return len(l.tasks) }
func (l *List) IsEmpty() bool { return len(l.tasks) == 0 }

// Add appends t.
func (l *List) Add(t Task) {
	l.tasks = append(l.tasks, t)
}

// Get returns a snapshot of the task at n. Changing it does not change the list.
func (l *List) Get(n int) (Task, error) {
	if err := l.check(n); err != nil {
		return Task{}, err
	}
	return l.tasks[n-1], nil
}

// Remove deletes the task at n and shifts the rest down by one.
func (l *List) Remove(n int) (Task, error) {
	if err := l.check(n); err != nil {
		return Task{}, err
	}
	removed := l.tasks[n-1]
	l.tasks = slices.Delete(l.tasks, n-1, n)
	return removed, nil
}

func (l *List) Complete(n int) error {
	if err := l.check(n); err != nil {
		return err
	}
	l.tasks[n-1].Complete()
	return nil
}

func (l *List) Incomplete(n int) error {
	if err := l.check(n); err != nil {
		return err
	}
	l.tasks[n-1].Incomplete()
	return nil
}

// Tasks returns a copy of the tasks in list order.
func (l *List) Tasks() []Task {
	return slices.Clone(l.tasks)
}

// Entry pairs a task snapshot with its 1-based position in the list it came from.
type Entry struct {
	Index int
	Task  Task
}

// ByTime orders tasks by PrimaryTime, earliest first. Tasks without a time
// go last; ties keep list order.
func (l *List) ByTime() []Entry {
	out := make([]Entry, 0, len(l.tasks))
	for i, t := range l.tasks {
		out = append(out, Entry{Index: i + 1, Task: t})
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		at, aok := a.Task.PrimaryTime()
		bt, bok := b.Task.PrimaryTime()
		switch {
		case aok && bok:
			return at.Compare(bt)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
	return out
}

func (l *List) check(n int) error {
	if n < 1 || n > len(l.tasks) {
		return &IndexError{Index: n, Size: len(l.tasks)}
	}
	return nil
}
