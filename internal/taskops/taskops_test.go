package taskops

import (
	"testing"

	"github.com/deso/notnow/internal/tags"
	"github.com/deso/notnow/internal/task"
	"github.com/deso/notnow/internal/taskdb"
	"github.com/deso/notnow/internal/undo"
)

func newData(t *testing.T) (*Data[struct{}], *tags.Catalog) {
	t.Helper()
	catalog := tags.NewCatalog()
	tk := task.New("wash the car")
	pairs := []taskdb.Pair[task.Task, struct{}]{{Item: *tk}}
	db, _ := taskdb.FromItems(pairs)
	return &Data[struct{}]{DB: db}, catalog
}

func TestToggleTagExecUndo(t *testing.T) {
	data, catalog := newData(t)
	urgent := catalog.InstantiateByName("urgent")

	log := undo.NewLog[Data[struct{}], bool, *ToggleTag[struct{}]](4)

	if ok := log.Exec(&ToggleTag[struct{}]{Index: 0, Tag: urgent}, data); !ok {
		t.Fatalf("Exec reported the task as missing")
	}
	e, _ := data.DB.Get(0)
	if !e.Item().HasTag(urgent) {
		t.Fatalf("tag was not added")
	}

	if _, ok := log.Undo(data); !ok {
		t.Fatalf("Undo reported nothing to undo")
	}
	e, _ = data.DB.Get(0)
	if e.Item().HasTag(urgent) {
		t.Fatalf("tag was not removed by undo")
	}

	if _, ok := log.Redo(data); !ok {
		t.Fatalf("Redo reported nothing to redo")
	}
	e, _ = data.DB.Get(0)
	if !e.Item().HasTag(urgent) {
		t.Fatalf("tag was not restored by redo")
	}
}

func TestSetSummaryExecUndo(t *testing.T) {
	data, _ := newData(t)
	log := undo.NewLog[Data[struct{}], bool, *SetSummary[struct{}]](4)

	log.Exec(&SetSummary[struct{}]{Index: 0, Summary: "wash the truck"}, data)
	e, _ := data.DB.Get(0)
	if e.Item().Summary != "wash the truck" {
		t.Fatalf("got %q, want %q", e.Item().Summary, "wash the truck")
	}

	if _, ok := log.Undo(data); !ok {
		t.Fatalf("Undo reported nothing to undo")
	}
	e, _ = data.DB.Get(0)
	if e.Item().Summary != "wash the car" {
		t.Fatalf("got %q, want original summary restored", e.Item().Summary)
	}
}
