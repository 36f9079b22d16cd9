// Package ical implements the iCal-like serialization backend: a Task
// becomes a calendar with a single VTODO component, and the tasks
// metadata document (tag templates plus task ordering) becomes a VTODO
// at a fixed, reserved UID.
//
// Grounded on original_source/src/ser/backends/ical/{task,tasks_meta,util}.rs.
// github.com/arran4/golang-ical is named (not grounded) per SPEC_FULL.md's
// Domain Stack: no example repo in the pack touches iCal, but spec.md
// §4.C requires an iCal-like codec, so this is the closest idiomatic Go
// library for it.
package ical

import (
	"fmt"
	"strconv"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/deso/notnow/internal/nnerr"
	"github.com/deso/notnow/internal/position"
	"github.com/deso/notnow/internal/serialize"
	"github.com/deso/notnow/internal/tags"
	"github.com/deso/notnow/internal/task"
)

// MetadataUID is the fixed, reserved UID of the tasks-metadata document.
// No real task may use it; IDs are v4 UUIDs and collision probability is
// zero for a well-formed ID generator.
const MetadataUID = "00000000-0000-0000-0000-000000000000"

const (
	propTags      = ics.ComponentProperty("TAGS")
	propPosition  = ics.ComponentProperty("POSITION")
	propTemplates = ics.ComponentProperty("TEMPLATES")
	propTaskIDs   = ics.ComponentProperty("IDS")
)

// templateLit is a TEMPLATES list entry: "<id>:<name>".
type templateLit struct {
	id   uint64
	name string
}

func (t templateLit) String() string {
	return strconv.FormatUint(t.id, 10) + ":" + t.name
}

func parseTemplateLit(s string) (templateLit, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return templateLit{}, fmt.Errorf("%w: malformed template entry %q", nnerr.InvalidFormat, s)
	}
	id, err := strconv.ParseUint(s[:idx], 10, 64)
	if err != nil {
		return templateLit{}, fmt.Errorf("parsing template id in %q: %w", s, err)
	}
	return templateLit{id: id, name: s[idx+1:]}, nil
}

type uuidLit uuid.UUID

func (u uuidLit) String() string { return uuid.UUID(u).String() }

func propValue(todo *ics.VTodo, property ics.ComponentProperty) string {
	p := todo.GetProperty(property)
	if p == nil {
		return ""
	}
	return p.Value
}

func singleTodo(cal *ics.Calendar) (*ics.VTodo, error) {
	var todo *ics.VTodo
	for _, comp := range cal.Components {
		t, ok := comp.(*ics.VTodo)
		if !ok {
			continue
		}
		if todo != nil {
			return nil, fmt.Errorf("%w: calendar contains multiple TODO components", nnerr.InvalidFormat)
		}
		todo = t
	}
	if todo == nil {
		return nil, fmt.Errorf("%w: calendar contains no TODO component", nnerr.InvalidFormat)
	}
	return todo, nil
}

// TaskToICal serializes t as a calendar containing a single TODO.
func TaskToICal(t *task.Task) string {
	cal := ics.NewCalendar()
	todo := cal.AddVTodo(t.ID.String())
	todo.SetSummary(t.Summary)
	if t.Details != "" {
		todo.SetDescription(strings.ReplaceAll(t.Details, task.LineEndString, "\n"))
	}
	if s, ok := serialize.EmitList(t.Tags); ok {
		todo.SetProperty(propTags, s)
	}
	if t.Position != nil {
		todo.SetProperty(propPosition, strconv.FormatFloat(t.Position.Get(), 'g', -1, 64))
	}
	return cal.Serialize()
}

// TaskFromICal parses a calendar produced by TaskToICal, resolving tag
// references against catalog. Unknown templates cause a load error naming
// the offending ID.
func TaskFromICal(data string, catalog *tags.Catalog) (*task.Task, error) {
	cal, err := ics.ParseCalendar(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}
	todo, err := singleTodo(cal)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if uidStr := propValue(todo, ics.ComponentPropertyUniqueId); uidStr != "" {
		parsed, err := uuid.Parse(uidStr)
		if err != nil {
			return nil, fmt.Errorf("parsing task UID %q: %w", uidStr, err)
		}
		id = parsed
	}

	details := strings.ReplaceAll(propValue(todo, ics.ComponentPropertyDescription), "\n", task.LineEndString)

	var tagList []tags.Tag
	if s := propValue(todo, propTags); s != "" {
		tagList, err = serialize.ParseList(s, func(p string) (tags.Tag, error) {
			n, err := strconv.ParseUint(p, 10, 64)
			if err != nil {
				return tags.Tag{}, fmt.Errorf("parsing tag id %q: %w", p, err)
			}
			tg, ok := catalog.InstantiateByID(n)
			if !ok {
				return tags.Tag{}, fmt.Errorf("%w: tag template %d", nnerr.InvalidReference, n)
			}
			return tg, nil
		})
		if err != nil {
			return nil, fmt.Errorf("parsing task tags: %w", err)
		}
	}

	var pos *position.Position
	if s := propValue(todo, propPosition); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing task position %q: %w", s, err)
		}
		p := position.Position(f)
		pos = &p
	}

	return &task.Task{
		ID:       id,
		Summary:  propValue(todo, ics.ComponentPropertySummary),
		Details:  details,
		Tags:     tagList,
		Position: pos,
	}, nil
}

// MetadataToICal serializes the tasks-metadata document: every template in
// the catalog plus the task ordering, as a calendar containing a single
// TODO at MetadataUID.
func MetadataToICal(catalog *tags.Catalog, order []uuid.UUID) string {
	cal := ics.NewCalendar()
	todo := cal.AddVTodo(MetadataUID)

	templates := catalog.Templates()
	lits := make([]templateLit, len(templates))
	for i, tmpl := range templates {
		lits[i] = templateLit{id: tmpl.ID(), name: tmpl.Name()}
	}
	if s, ok := serialize.EmitList(lits); ok {
		todo.SetProperty(propTemplates, s)
	}

	ids := make([]uuidLit, len(order))
	for i, id := range order {
		ids[i] = uuidLit(id)
	}
	if s, ok := serialize.EmitList(ids); ok {
		todo.SetProperty(propTaskIDs, s)
	}

	return cal.Serialize()
}

// MetadataFromICal parses a document produced by MetadataToICal, loading
// every template into catalog and returning the persisted task ordering.
func MetadataFromICal(data string, catalog *tags.Catalog) ([]uuid.UUID, error) {
	cal, err := ics.ParseCalendar(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}
	todo, err := singleTodo(cal)
	if err != nil {
		return nil, err
	}

	if s := propValue(todo, propTemplates); s != "" {
		lits, err := serialize.ParseList(s, parseTemplateLit)
		if err != nil {
			return nil, fmt.Errorf("parsing templates: %w", err)
		}
		for _, lit := range lits {
			catalog.LoadTemplate(lit.id, lit.name)
		}
	}

	var order []uuid.UUID
	if s := propValue(todo, propTaskIDs); s != "" {
		order, err = serialize.ParseList(s, uuid.Parse)
		if err != nil {
			return nil, fmt.Errorf("parsing task ordering: %w", err)
		}
	}
	return order, nil
}
