package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskString(t *testing.T) {
	todo, err := NewTodo("read book")
	require.NoError(t, err)
	assert.Equal(t, "[T] [ ] read book", todo.String())

	dl, err := NewDeadline("submit report", "2024-10-01 14:00")
	require.NoError(t, err)
	assert.Equal(t, "[D] [ ] submit report (by: Oct 01 2024 14:00)", dl.String())

	ev, err := NewEvent("project meeting", "2024-10-01 14:00", "2024-10-01 16:00")
	require.NoError(t, err)
	assert.Equal(t, "[E] [ ] project meeting (from: Oct 01 2024 14:00 to: Oct 01 2024 16:00)", ev.String())
}

func TestEventDateOnlyIsMidnight(t *testing.T) {
	ev, err := NewEvent("team sync", "2024-10-01", "2024-10-02")
	require.NoError(t, err)
	assert.Contains(t, ev.String(), "(from: Oct 01 2024 00:00 to: Oct 02 2024 00:00)")
	assert.Equal(t, "2024-10-01 00:00", FormatCanonical(ev.Start))
	assert.Equal(t, "2024-10-02 00:00", FormatCanonical(ev.End))
}

func TestEventAndDeadlineShareParser(t *testing.T) {
	_, dlErr := NewDeadline("x", "25/12/2024")
	_, evErr := NewEvent("x", "25/12/2024", "2024-12-26")
	require.Error(t, dlErr)
	require.Error(t, evErr)
	assert.Equal(t, dlErr.Error(), evErr.Error())

	_, err := NewEvent("x", "2024-12-25", "26-12-2024 10:00")
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestEmptyNameRejected(t *testing.T) {
	_, err := NewTodo("   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewDeadline("", "2024-10-01")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewEvent("", "2024-10-01", "2024-10-02")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCompleteIncomplete(t *testing.T) {
	todo, err := NewTodo("read book")
	require.NoError(t, err)
	before := todo.String()

	todo.Complete()
	assert.True(t, todo.Done)
	assert.Equal(t, "[T] [X] read book", todo.String())

	todo.Incomplete()
	assert.Equal(t, before, todo.String())
}

func TestKindTags(t *testing.T) {
	for _, k := range []Kind{KindTodo, KindDeadline, KindEvent} {
		got, err := KindFromTag(k.Tag())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := KindFromTag("X")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestPrimaryTime(t *testing.T) {
	todo, _ := NewTodo("a")
	_, ok := todo.PrimaryTime()
	assert.False(t, ok)

	dl, _ := NewDeadline("b", "2024-10-01 09:30")
	at, ok := dl.PrimaryTime()
	assert.True(t, ok)
	assert.Equal(t, dl.By, at)

	ev, _ := NewEvent("c", "2024-09-01", "2024-09-02")
	at, ok = ev.PrimaryTime()
	assert.True(t, ok)
	assert.Equal(t, ev.Start, at)
}
