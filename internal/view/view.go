// Package view implements CNF-filtered projections over a task database:
// a View holds a name and a boolean combination of tag literals, and
// produces a lazily filtered, double-ended iteration over a TaskDb whose
// elements satisfy it.
//
// Grounded on original_source/src/view.rs and
// original_source/src/ser/view.rs (the CNF conversion itself lives in
// internal/formula/cnf.go; this package resolves the string-keyed
// literals those conversions produce against a tag catalog).
package view

import (
	"fmt"
	"strconv"

	"github.com/deso/notnow/internal/formula"
	"github.com/deso/notnow/internal/nnerr"
	"github.com/deso/notnow/internal/tags"
	"github.com/deso/notnow/internal/task"
	"github.com/deso/notnow/internal/taskdb"
)

// Lit is a single CNF literal resolved against a tag catalog.
type Lit struct {
	Template *tags.Template
	Neg      bool
}

func (l Lit) satisfiedBy(t *task.Task) bool {
	present := false
	for _, tg := range t.Tags {
		if tg.Template() == l.Template {
			present = true
			break
		}
	}
	if l.Neg {
		return !present
	}
	return present
}

// View is a named CNF-filtered projection over a TaskDb.
type View[Aux any] struct {
	Name string

	db  *taskdb.Db[task.Task, Aux]
	cnf [][]Lit
}

// New creates a View over db filtered by cnf (an AND of ORs).
func New[Aux any](name string, db *taskdb.Db[task.Task, Aux], cnf [][]Lit) *View[Aux] {
	return &View[Aux]{Name: name, db: db, cnf: cnf}
}

// FromFormula builds a View over db from a parsed tag formula, resolving
// (and creating, if necessary) a tag for every name the formula
// references.
func FromFormula[Aux any](name string, db *taskdb.Db[task.Task, Aux], f formula.Formula, catalog *tags.Catalog) *View[Aux] {
	raw := formula.ToCNF(f)
	cnf := make([][]Lit, len(raw))
	for i, clause := range raw {
		lits := make([]Lit, len(clause))
		for j, l := range clause {
			tg := catalog.InstantiateByName(l.Name)
			lits[j] = Lit{Template: tg.Template(), Neg: l.Neg}
		}
		cnf[i] = lits
	}
	return New(name, db, cnf)
}

// LoadCNF resolves a persisted CNF — whose literal names are decimal
// template IDs — against catalog. Fails naming the offending ID if any
// template is unknown.
func LoadCNF(raw [][]formula.Lit, catalog *tags.Catalog) ([][]Lit, error) {
	cnf := make([][]Lit, len(raw))
	for i, clause := range raw {
		lits := make([]Lit, len(clause))
		for j, l := range clause {
			id, err := strconv.ParseUint(l.Name, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing template id %q: %w", l.Name, err)
			}
			tg, ok := catalog.InstantiateByID(id)
			if !ok {
				return nil, fmt.Errorf("%w: view references unknown template %d", nnerr.InvalidReference, id)
			}
			lits[j] = Lit{Template: tg.Template(), Neg: l.Neg}
		}
		cnf[i] = lits
	}
	return cnf, nil
}

// SaveCNF renders v's CNF into the on-disk string-literal form (template
// IDs in decimal) for persistence alongside the view's name.
func (v *View[Aux]) SaveCNF() [][]formula.Lit {
	raw := make([][]formula.Lit, len(v.cnf))
	for i, clause := range v.cnf {
		lits := make([]formula.Lit, len(clause))
		for j, l := range clause {
			lits[j] = formula.Lit{Name: strconv.FormatUint(l.Template.ID(), 10), Neg: l.Neg}
		}
		raw[i] = lits
	}
	return raw
}

// Matches reports whether t satisfies v's CNF: every clause (an OR of
// literals) must have at least one satisfied literal.
func (v *View[Aux]) Matches(t *task.Task) bool {
	for _, clause := range v.cnf {
		satisfied := false
		for _, lit := range clause {
			if lit.satisfiedBy(t) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// Iter lazily yields, in forward order, the entries of the underlying
// TaskDb whose task satisfies v's CNF.
func (v *View[Aux]) Iter() func(yield func(taskdb.Entry[task.Task, Aux]) bool) {
	return func(yield func(taskdb.Entry[task.Task, Aux]) bool) {
		e, ok := v.db.Get(0)
		for ok {
			if v.Matches(e.Item()) && !yield(e) {
				return
			}
			e, ok = e.Next()
		}
	}
}

// IterRev lazily yields, in reverse order, the entries of the underlying
// TaskDb whose task satisfies v's CNF.
func (v *View[Aux]) IterRev() func(yield func(taskdb.Entry[task.Task, Aux]) bool) {
	return func(yield func(taskdb.Entry[task.Task, Aux]) bool) {
		e, ok := v.db.Last()
		for ok {
			if v.Matches(e.Item()) && !yield(e) {
				return
			}
			e, ok = e.Prev()
		}
	}
}
