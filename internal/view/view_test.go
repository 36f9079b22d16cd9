package view

import (
	"testing"

	"github.com/deso/notnow/internal/formula"
	"github.com/deso/notnow/internal/tags"
	"github.com/deso/notnow/internal/task"
	"github.com/deso/notnow/internal/taskdb"
)

func buildDB(t *testing.T, catalog *tags.Catalog) (*taskdb.Db[task.Task, int], map[string]*task.Task) {
	t.Helper()
	urgent := catalog.InstantiateByName("urgent")
	home := catalog.InstantiateByName("home")

	byName := make(map[string]*task.Task)

	mkTask := func(name string, tg ...tags.Tag) task.Task {
		tk := task.New(name)
		for _, x := range tg {
			tk.AddTag(x)
		}
		return *tk
	}

	pairs := []taskdb.Pair[task.Task, int]{
		{Item: mkTask("a", urgent)},
		{Item: mkTask("b", home)},
		{Item: mkTask("c", urgent, home)},
		{Item: mkTask("d")},
	}
	db, ptrs := taskdb.FromItems(pairs)
	for i, p := range ptrs {
		byName[pairs[i].Item.Summary] = p
	}
	return db, byName
}

func TestMatchesAndIteration(t *testing.T) {
	catalog := tags.NewCatalog()
	db, byName := buildDB(t, catalog)

	f, err := formula.Parse("urgent")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := FromFormula("urgent tasks", db, f, catalog)

	var got []string
	for e := range v.Iter() {
		got = append(got, e.Item().Summary)
	}
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if !v.Matches(byName["a"]) || v.Matches(byName["b"]) {
		t.Errorf("Matches disagreed with Iter results")
	}
}

func TestIterRevIsReverseOfIter(t *testing.T) {
	catalog := tags.NewCatalog()
	db, _ := buildDB(t, catalog)

	f, err := formula.Parse("urgent | home")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := FromFormula("either", db, f, catalog)

	var forward, backward []string
	for e := range v.Iter() {
		forward = append(forward, e.Item().Summary)
	}
	for e := range v.IterRev() {
		backward = append(backward, e.Item().Summary)
	}

	if len(forward) != len(backward) {
		t.Fatalf("got %v and %v, mismatched lengths", forward, backward)
	}
	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			t.Fatalf("got forward %v, backward %v: not reverses of one another", forward, backward)
		}
	}
}

func TestSaveLoadCNFRoundTrip(t *testing.T) {
	catalog := tags.NewCatalog()
	db, _ := buildDB(t, catalog)

	f, err := formula.Parse("urgent & !home")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := FromFormula("active", db, f, catalog)

	saved := v.SaveCNF()
	loadedCNF, err := LoadCNF(saved, catalog)
	if err != nil {
		t.Fatalf("LoadCNF: %v", err)
	}
	loaded := New("active", db, loadedCNF)

	var origNames, loadedNames []string
	for e := range v.Iter() {
		origNames = append(origNames, e.Item().Summary)
	}
	for e := range loaded.Iter() {
		loadedNames = append(loadedNames, e.Item().Summary)
	}
	if len(origNames) != len(loadedNames) {
		t.Fatalf("got %v, want %v", loadedNames, origNames)
	}
	for i := range origNames {
		if origNames[i] != loadedNames[i] {
			t.Fatalf("got %v, want %v", loadedNames, origNames)
		}
	}
}

func TestLoadCNFUnknownTemplateFails(t *testing.T) {
	unknown := [][]formula.Lit{{{Name: "9999", Neg: false}}}
	if _, err := LoadCNF(unknown, tags.NewCatalog()); err == nil {
		t.Fatalf("expected an error for an unknown template ID")
	}
}
