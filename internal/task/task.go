// Package task defines the Task domain type shared across the database,
// views, and the serialization backends.
package task

import (
	"github.com/google/uuid"

	"github.com/deso/notnow/internal/position"
	"github.com/deso/notnow/internal/tags"
)

// LineEnd is the single code unit used internally to separate lines
// within a Task's details. It is translated to the host line-ending
// convention only at serialization boundaries.
const LineEnd = '\r'

// LineEndString is LineEnd as a one-rune string, for use with
// strings.ReplaceAll.
const LineEndString = "\r"

// Task is a single to-do item.
type Task struct {
	ID       uuid.UUID
	Summary  string
	Details  string
	Tags     []tags.Tag
	Position *position.Position
}

// New creates a task with a fresh random ID and no tags.
func New(summary string) *Task {
	return &Task{ID: uuid.New(), Summary: summary}
}

// HasTag reports whether t carries tg.
func (t *Task) HasTag(tg tags.Tag) bool {
	for _, x := range t.Tags {
		if x.Equal(tg) {
			return true
		}
	}
	return false
}

// AddTag adds tg to t, reporting false if it is already present.
func (t *Task) AddTag(tg tags.Tag) bool {
	if t.HasTag(tg) {
		return false
	}
	t.Tags = append(t.Tags, tg)
	return true
}

// RemoveTag removes tg from t, reporting false if it was not present.
func (t *Task) RemoveTag(tg tags.Tag) bool {
	for i, x := range t.Tags {
		if x.Equal(tg) {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// IsComplete reports whether t carries the catalog's distinguished
// "complete" tag.
func (t *Task) IsComplete(catalog *tags.Catalog) bool {
	complete := catalog.EnsureComplete()
	for _, tg := range t.Tags {
		if tg.Template() == complete {
			return true
		}
	}
	return false
}
