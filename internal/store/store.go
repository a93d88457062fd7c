package store

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/amirbrooks/sisyphus/internal/task"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

const DefaultSeparator = " | "

var (
	ErrCorruptRecord = errors.New("corrupt record")
	timeNow          = func() time.Time { return time.Now().UTC() }
)

// CorruptRecordError describes a line that Load skipped.
// It still satisfies errors.Is(err, ErrCorruptRecord).
type CorruptRecordError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *CorruptRecordError) Error() string {
	if e == nil {
		return ErrCorruptRecord.Error()
	}
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptRecordError) Is(target error) bool {
	return target == ErrCorruptRecord
}

func (e *CorruptRecordError) Unwrap() error { return e.Err }

// Store reads and writes a task list as one pipe-delimited record per line.
type Store struct {
	path string
	sep  string
	log  zerolog.Logger
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithSeparator overrides the field separator. Empty values are ignored.
func WithSeparator(sep string) Option {
	return func(s *Store) {
		if sep != "" {
			s.sep = sep
		}
	}
}

func New(path string, opts ...Option) *Store {
	s := &Store{path: path, sep: DefaultSeparator, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string { return s.path }

// LoadResult is what Load recovered. Fresh is set when the file did not exist.
type LoadResult struct {
	Tasks   *task.List
	Skipped []*CorruptRecordError
	Fresh   bool
}

// Save replaces the file with one record per task, in list order. The write
// goes through a temporary file, so a failed save leaves the old file intact.
func (s *Store) Save(tasks *task.List) error {
	var buf bytes.Buffer
	for _, t := range tasks.Tasks() {
		buf.WriteString(s.Encode(t))
		buf.WriteByte('\n')
	}
	if err := atomicWriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("save failed")
		return fmt.Errorf("save tasks: %w", err)
	}
	s.log.Debug().Str("path", s.path).Int("tasks", tasks.Len()).Msg("saved")
	return nil
}

// Load reads the file written by Save. A missing file is a fresh start, not an
// error. Records that cannot be decoded are skipped and listed in Skipped.
func (s *Store) Load() (LoadResult, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info().Str("path", s.path).Msg("no data file, starting fresh")
			return LoadResult{Tasks: task.NewList(), Fresh: true}, nil
		}
		return LoadResult{}, fmt.Errorf("load tasks: %w", err)
	}
	defer f.Close()

	res := LoadResult{Tasks: task.NewList()}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := s.Decode(line)
		if err != nil {
			var cre *CorruptRecordError
			if !errors.As(err, &cre) {
				cre = &CorruptRecordError{Reason: "undecodable", Err: err}
			}
			cre.Line = lineNo
			cre.Text = line
			s.log.Warn().Err(cre).Str("path", s.path).Msg("skipping record")
			res.Skipped = append(res.Skipped, cre)
			continue
		}
		res.Tasks.Add(t)
	}
	if err := sc.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("load tasks: %w", err)
	}
	s.log.Info().
		Str("path", s.path).
		Int("tasks", res.Tasks.Len()).
		Int("skipped", len(res.Skipped)).
		Msg("loaded")
	return res, nil
}

// Encode renders t as a single record: T carries 3 fields, D 4 and E 5.
func (s *Store) Encode(t task.Task) string {
	done := "0"
	if t.Done {
		done = "1"
	}
	fields := []string{t.Kind.Tag(), done, t.Name}
	switch t.Kind {
	case task.KindDeadline:
		fields = append(fields, task.FormatCanonical(t.By))
	case task.KindEvent:
		fields = append(fields, task.FormatCanonical(t.Start), task.FormatCanonical(t.End))
	}
	return strings.Join(fields, s.sep)
}

// Decode parses one record. Dates are read from the end of the line, so a name
// that happens to contain the separator still comes back whole.
func (s *Store) Decode(line string) (task.Task, error) {
	parts := strings.Split(line, s.sep)
	if len(parts) < 3 {
		return task.Task{}, &CorruptRecordError{Reason: fmt.Sprintf("expected at least 3 fields, got %d", len(parts))}
	}
	kind, err := task.KindFromTag(strings.TrimSpace(parts[0]))
	if err != nil {
		return task.Task{}, &CorruptRecordError{Reason: "unknown type tag", Err: err}
	}
	var done bool
	switch strings.TrimSpace(parts[1]) {
	case "0":
	case "1":
		done = true
	default:
		return task.Task{}, &CorruptRecordError{Reason: fmt.Sprintf("invalid done flag %q", strings.TrimSpace(parts[1]))}
	}

	var t task.Task
	switch kind {
	case task.KindTodo:
		t, err = task.NewTodo(strings.Join(parts[2:], s.sep))
	case task.KindDeadline:
		if len(parts) < 4 {
			return task.Task{}, &CorruptRecordError{Reason: "deadline record has no date"}
		}
		n := len(parts)
		t, err = task.NewDeadline(strings.Join(parts[2:n-1], s.sep), parts[n-1])
	case task.KindEvent:
		if len(parts) < 5 {
			return task.Task{}, &CorruptRecordError{Reason: "event record needs start and end"}
		}
		n := len(parts)
		t, err = task.NewEvent(strings.Join(parts[2:n-2], s.sep), parts[n-2], parts[n-1])
	}
	if err != nil {
		return task.Task{}, &CorruptRecordError{Reason: "invalid " + kind.String(), Err: err}
	}
	t.Done = done
	return t, nil
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".tmp-"+newULID())
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
