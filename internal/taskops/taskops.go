// Package taskops defines concrete undo-logged mutations over a task
// database: the operations a user performs on a single task (toggling a
// tag, editing its summary), each satisfying internal/undo.Op so they
// run through an undo.Log.
//
// original_source/src/ops.rs specifies only the generic Ops<O,D,T>
// container (ported as internal/undo.Log); its concrete call sites live
// in the UI layer (src/ui/*, src/task_list_box.rs), out of scope per
// spec.md's Non-goals on rich-text rendering. These op types are
// therefore built directly against the Op contract rather than a
// specific original_source call site.
package taskops

import (
	"github.com/deso/notnow/internal/tags"
	"github.com/deso/notnow/internal/task"
	"github.com/deso/notnow/internal/taskdb"
)

// Data is the undo log's mutable state: the task database every op in
// this package mutates, addressed by entry index.
type Data[Aux any] struct {
	DB *taskdb.Db[task.Task, Aux]
}

// ToggleTag flips Tag on the task at Index: adds it if absent, removes it
// if present. It records which happened so Undo can invert it exactly,
// regardless of what else may have changed the task's tags in between.
type ToggleTag[Aux any] struct {
	Index int
	Tag   tags.Tag

	added bool
}

// Exec applies the toggle, reporting whether the task at Index existed.
func (op *ToggleTag[Aux]) Exec(data *Data[Aux]) bool {
	e, ok := data.DB.Get(op.Index)
	if !ok {
		return false
	}
	t := e.Item()
	if t.HasTag(op.Tag) {
		t.RemoveTag(op.Tag)
		op.added = false
	} else {
		t.AddTag(op.Tag)
		op.added = true
	}
	return true
}

// Undo reverses Exec's effect, reporting whether the task at Index
// existed.
func (op *ToggleTag[Aux]) Undo(data *Data[Aux]) bool {
	e, ok := data.DB.Get(op.Index)
	if !ok {
		return false
	}
	t := e.Item()
	if op.added {
		t.RemoveTag(op.Tag)
	} else {
		t.AddTag(op.Tag)
	}
	return true
}

// SetSummary replaces the summary of the task at Index, recording the
// previous value for Undo.
type SetSummary[Aux any] struct {
	Index   int
	Summary string

	prev string
}

// Exec applies the new summary, reporting whether the task at Index
// existed.
func (op *SetSummary[Aux]) Exec(data *Data[Aux]) bool {
	e, ok := data.DB.Get(op.Index)
	if !ok {
		return false
	}
	t := e.Item()
	op.prev = t.Summary
	t.Summary = op.Summary
	return true
}

// Undo restores the task's previous summary, reporting whether the task
// at Index existed.
func (op *SetSummary[Aux]) Undo(data *Data[Aux]) bool {
	e, ok := data.DB.Get(op.Index)
	if !ok {
		return false
	}
	e.Item().Summary = op.prev
	return true
}
