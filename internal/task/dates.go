package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutDateTime is the canonical form, used for input and on disk.
	LayoutDateTime = "2006-01-02 15:04"
	LayoutDate     = "2006-01-02"
	LayoutDisplay  = "Jan 02 2006 15:04"
)

var ErrDateFormat = errors.New("invalid date format")

// DateFormatError reports an input that matched none of Layouts.
type DateFormatError struct {
	Input   string
	Layouts []string
}

func (e *DateFormatError) Error() string {
	if e == nil {
		return ErrDateFormat.Error()
	}
	return fmt.Sprintf("invalid date %q: use %s", e.Input, humanLayouts(e.Layouts))
}

func (e *DateFormatError) Is(target error) bool {
	return target == ErrDateFormat
}

// ParseDateTime accepts "yyyy-MM-dd HH:mm" or a bare "yyyy-MM-dd", which is
// taken as midnight. Surrounding whitespace is ignored.
func ParseDateTime(s string) (time.Time, error) {
	in := strings.TrimSpace(s)
	// time.Parse accepts a one-digit hour for "15"; the length check keeps
	// both fields fixed width.
	if len(in) == len(LayoutDateTime) {
		if t, err := time.Parse(LayoutDateTime, in); err == nil {
			return t, nil
		}
	}
	if len(in) == len(LayoutDate) {
		if d, err := time.Parse(LayoutDate, in); err == nil {
			return d, nil
		}
	}
	return time.Time{}, &DateFormatError{
		Input:   in,
		Layouts: []string{LayoutDateTime, LayoutDate},
	}
}

// FormatCanonical renders t in the round-trippable on-disk form.
func FormatCanonical(t time.Time) string {
	return t.Format(LayoutDateTime)
}

// FormatDisplay renders t for people; it cannot be parsed back.
func FormatDisplay(t time.Time) string {
	return t.Format(LayoutDisplay)
}

func humanLayouts(layouts []string) string {
	names := make([]string, 0, len(layouts))
	for _, l := range layouts {
		switch l {
		case LayoutDateTime:
			names = append(names, "yyyy-MM-dd HH:mm")
		case LayoutDate:
			names = append(names, "yyyy-MM-dd")
		default:
			names = append(names, l)
		}
	}
	return strings.Join(names, " or ")
}
