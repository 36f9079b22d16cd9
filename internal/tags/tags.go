// Package tags implements the tag template catalog: a deduplicated set of
// named tag definitions plus lightweight handles ("tags") that reference
// them by identity. One template is distinguished as the "complete"
// template; its presence on a task marks the task done.
package tags

import (
	"sort"
	"strconv"
	"sync"

	"github.com/deso/notnow/internal/ids"
)

// CompleteTagName is the display name of the distinguished completion
// template. EnsureComplete returns the catalog's template with this name,
// creating it if absent.
const CompleteTagName = "complete"

// templateIDs is the process-wide source of template IDs, shared by every
// Catalog.
var templateIDs ids.Counter

// Template is a named tag definition. Templates are immutable after
// creation and identified by a process-unique monotonic ID.
type Template struct {
	id   uint64
	name string
}

// ID returns the template's process-unique identity.
func (t *Template) ID() uint64 { return t.id }

// Name returns the template's display name.
func (t *Template) Name() string { return t.name }

// Tag is a lightweight handle to a Template, shared by copying the pointer.
// Two Tags are equal iff they reference the same Template.
type Tag struct {
	template *Template
}

// Template returns the underlying template this tag references.
func (t Tag) Template() *Template { return t.template }

// Name returns the referenced template's display name.
func (t Tag) Name() string { return t.template.Name() }

// Equal reports whether t and other reference the same template.
func (t Tag) Equal(other Tag) bool { return t.template == other.template }

// String renders the tag as its referenced template's ID, the form used
// when persisting a pipe-separated list of tags.
func (t Tag) String() string { return strconv.FormatUint(t.template.ID(), 10) }

// Catalog is an ordered-by-ID set of Templates. It guarantees the
// "complete" template always exists once EnsureComplete has been called,
// creating it on first use.
type Catalog struct {
	mu       sync.RWMutex
	byID     map[uint64]*Template
	byName   map[string]*Template
	order    []uint64
	complete *Template
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:   make(map[uint64]*Template),
		byName: make(map[string]*Template),
	}
}

// Create defines a new template with the given name and returns it.
// Duplicate names are permitted at this layer; callers that want
// deduplication should use InstantiateByName, which reuses an existing template
// by name.
func (c *Catalog) Create(name string) *Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createLocked(name)
}

func (c *Catalog) createLocked(name string) *Template {
	t := &Template{id: templateIDs.Next(), name: name}
	c.byID[t.id] = t
	if _, ok := c.byName[name]; !ok {
		c.byName[name] = t
	}
	c.order = append(c.order, t.id)
	return t
}

// LoadTemplate registers a template with an explicit, externally persisted
// ID and name, as when hydrating a catalog from disk. If a template with
// this ID is already registered, it is returned unchanged. Bumps the
// process-wide ID counter so that subsequently Create'd templates never
// collide with a loaded ID.
func (c *Catalog) LoadTemplate(id uint64, name string) *Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.byID[id]; ok {
		return t
	}
	t := &Template{id: id, name: name}
	c.byID[id] = t
	if _, ok := c.byName[name]; !ok {
		c.byName[name] = t
	}
	c.order = append(c.order, id)
	templateIDs.EnsureAbove(id + 1)
	return t
}

// InstantiateByID returns a Tag referencing the template with the given ID.
// Reports false if no such template exists in the catalog.
func (c *Catalog) InstantiateByID(id uint64) (Tag, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byID[id]
	if !ok {
		return Tag{}, false
	}
	return Tag{template: t}, true
}

// InstantiateByName returns a Tag referencing the template with the given
// name, creating the template if it does not already exist.
func (c *Catalog) InstantiateByName(name string) Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.byName[name]; ok {
		return Tag{template: t}
	}
	return Tag{template: c.createLocked(name)}
}

// EnsureComplete guarantees the catalog contains the distinguished
// "complete" template, creating it if absent, and returns it. Calling this
// repeatedly never creates a second "complete" template.
func (c *Catalog) EnsureComplete() *Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.complete != nil {
		return c.complete
	}
	if t, ok := c.byName[CompleteTagName]; ok {
		c.complete = t
		return t
	}
	t := c.createLocked(CompleteTagName)
	c.complete = t
	return t
}

// Templates returns all templates in ID order.
func (c *Catalog) Templates() []*Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Template, 0, len(c.order))
	ids := append([]uint64(nil), c.order...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		out = append(out, c.byID[id])
	}
	return out
}
