// Package command turns one line of user input into a change to the task list
// and the text to show for it.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amirbrooks/sisyphus/internal/task"
)

// Saver persists the task list when the session ends.
type Saver interface {
	Save(tasks *task.List) error
}

// Config carries the presentation values used when building replies.
type Config struct {
	Divider string
	Indent  string
}

// DefaultConfig matches config.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		Divider: "-----------------------------",
		Indent:  "    ",
	}
}

// Reply is the outcome of one handled line. Exit is set once the session
// should end; Rejected marks input that changed nothing.
type Reply struct {
	Text     string
	Exit     bool
	Rejected bool
}

type Option func(*Dispatcher)

func WithConfig(c Config) Option {
	return func(d *Dispatcher) { d.cfg = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// Dispatcher routes commands to their handlers. It holds no state of its own
// between calls; everything lives in the task list.
type Dispatcher struct {
	tasks *task.List
	saver Saver
	cfg   Config
	log   zerolog.Logger
}

// New returns a dispatcher operating on tasks. A nil list starts empty.
func New(tasks *task.List, saver Saver, opts ...Option) *Dispatcher {
	if tasks == nil {
		tasks = task.NewList()
	}
	d := &Dispatcher{
		tasks: tasks,
		saver: saver,
		cfg:   DefaultConfig(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tasks exposes the list being operated on.
func (d *Dispatcher) Tasks() *task.List { return d.tasks }

// Handle runs one line of input. It never panics on user input: every
// failure comes back as a rejected reply and leaves the list unchanged.
func (d *Dispatcher) Handle(line string) Reply {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return d.reject("", msgInvalidCommand)
	}

	cmd, args := tokens[0], tokens[1:]
	d.log.Debug().Str("cmd", cmd).Int("args", len(args)).Msg("handle")

	switch cmd {
	case "bye":
		return d.cmdBye()
	case "list":
		return ok(d.render(d.tasks))
	case "latest":
		return d.cmdLatest()
	case "find":
		return d.cmdFind(args)
	case "mark":
		return d.cmdMark(args, true)
	case "unmark":
		return d.cmdMark(args, false)
	case "todo":
		return d.cmdTodo(args)
	case "deadline":
		return d.cmdDeadline(args)
	case "event":
		return d.cmdEvent(args)
	case "delete":
		return d.cmdDelete(args)
	case "manual":
		return ok(Manual())
	default:
		return d.reject(cmd, msgInvalidCommand)
	}
}

const (
	msgInvalidCommand = "Invalid command, you are wrong."
	msgNoTasks        = "No tasks found"
)

func (d *Dispatcher) cmdBye() Reply {
	var b strings.Builder
	if !d.tasks.IsEmpty() {
		if err := d.saver.Save(d.tasks); err != nil {
			fmt.Fprintf(&b, "Error saving file: %v\n", err)
		} else {
			b.WriteString("Saved.\n")
		}
	}
	b.WriteString("See you!")
	return Reply{Text: b.String(), Exit: true}
}

func (d *Dispatcher) cmdLatest() Reply {
	if d.tasks.IsEmpty() {
		return ok(msgNoTasks)
	}
	lines := make([]string, 0, d.tasks.Len())
	for _, e := range d.tasks.ByTime() {
		lines = append(lines, d.item(e.Index, e.Task))
	}
	return ok(strings.Join(lines, "\n"))
}

func (d *Dispatcher) cmdFind(args []string) Reply {
	if len(args) != 1 {
		return d.reject("find", "Invalid input")
	}
	query := args[0]
	return ok(fmt.Sprintf("Filtering based on query: %s\n%s\n%s",
		query, d.cfg.Divider, d.render(task.Filter(d.tasks, query))))
}

func (d *Dispatcher) cmdMark(args []string, done bool) Reply {
	name, state, apply := "unmark", "is not done yet", d.tasks.Incomplete
	if done {
		name, state, apply = "mark", "is done", d.tasks.Complete
	}
	switch {
	case len(args) == 0:
		return d.reject(name, fmt.Sprintf("Task to %s has not been specified!", name))
	case len(args) > 1:
		return d.reject(name, "Incorrect input!")
	}

	n, err := strconv.Atoi(args[0])
	if err == nil {
		err = apply(n)
	}
	if err != nil {
		return d.reject(name, fmt.Sprintf("Task %s does not exist", args[0]))
	}
	return ok(fmt.Sprintf("Okay, task %d %s\n%s", n, state, d.render(d.tasks)))
}

func (d *Dispatcher) cmdTodo(args []string) Reply {
	t, err := task.NewTodo(strings.Join(args, " "))
	if err != nil {
		return d.reject("todo", "The description of a todo cannot be empty!")
	}
	return d.add(t)
}

func (d *Dispatcher) cmdDeadline(args []string) Reply {
	segs := split(args, "/by")
	if segs.text(0) == "" {
		return d.reject("deadline", "The description of a deadline task cannot be empty!")
	}
	if !segs.has("/by") || segs.text(1) == "" {
		return d.reject("deadline", "No deadline specified!")
	}
	t, err := task.NewDeadline(segs.text(0), segs.text(1))
	if err != nil {
		return d.rejectErr("deadline", err)
	}
	return d.add(t)
}

func (d *Dispatcher) cmdEvent(args []string) Reply {
	segs := split(args, "/from", "/to")
	if segs.text(0) == "" {
		return d.reject("event", "The description of an event task cannot be empty!")
	}
	if segs.outOfOrder {
		return d.reject("event", "Use /from before /to!")
	}
	if !segs.has("/from") || segs.text(1) == "" {
		return d.reject("event", "No from specified!")
	}
	if !segs.has("/to") || segs.text(2) == "" {
		return d.reject("event", "No to specified!")
	}
	t, err := task.NewEvent(segs.text(0), segs.text(1), segs.text(2))
	if err != nil {
		return d.rejectErr("event", err)
	}
	if t.End.Before(t.Start) {
		return d.reject("event", "An event cannot end before it starts!")
	}
	return d.add(t)
}

func (d *Dispatcher) cmdDelete(args []string) Reply {
	switch {
	case len(args) == 0:
		return d.reject("delete", "Task to delete has not been specified!")
	case len(args) > 1:
		return d.reject("delete", "Incorrect input!")
	case d.tasks.IsEmpty():
		return d.reject("delete", "There aren't any tasks to delete!")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return d.reject("delete", "The task to delete does not exist!")
	}
	removed, err := d.tasks.Remove(n)
	if err != nil {
		return d.reject("delete", "The task to delete does not exist!")
	}
	return ok(fmt.Sprintf("I have removed this task: %s\n%s", removed, d.countLine()))
}

func (d *Dispatcher) add(t task.Task) Reply {
	d.tasks.Add(t)
	d.log.Debug().Str("kind", t.Kind.String()).Int("size", d.tasks.Len()).Msg("task added")
	return ok(fmt.Sprintf("%sadded: %s\n%s%s", d.cfg.Indent, t, d.cfg.Indent, d.countLine()))
}

func (d *Dispatcher) countLine() string {
	noun := "tasks"
	if d.tasks.Len() == 1 {
		noun = "task"
	}
	return fmt.Sprintf("You now have %d %s in the list.", d.tasks.Len(), noun)
}

// render lists every task with its 1-based position.
func (d *Dispatcher) render(l *task.List) string {
	if l.IsEmpty() {
		return msgNoTasks
	}
	lines := make([]string, 0, l.Len())
	for i, t := range l.Tasks() {
		lines = append(lines, d.item(i+1, t))
	}
	return strings.Join(lines, "\n")
}

func (d *Dispatcher) item(n int, t task.Task) string {
	return fmt.Sprintf("%s%d.%s", d.cfg.Indent, n, t)
}

func (d *Dispatcher) reject(cmd, msg string) Reply {
	d.log.Info().Str("cmd", cmd).Str("reason", msg).Msg("rejected")
	return Reply{Text: msg, Rejected: true}
}

// rejectErr turns a construction failure into a reply.
func (d *Dispatcher) rejectErr(cmd string, err error) Reply {
	var dfe *task.DateFormatError
	if errors.As(err, &dfe) {
		return d.reject(cmd, fmt.Sprintf("Invalid date %q. Use yyyy-MM-dd or yyyy-MM-dd HH:mm", dfe.Input))
	}
	return d.reject(cmd, err.Error())
}

func ok(text string) Reply {
	return Reply{Text: text}
}
