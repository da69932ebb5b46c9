// Package catalog is the unified, namespace-qualified store of function
// records built during one run, together with the specialized stores and
// cross-reference sets the extraction passes feed.
package catalog

import (
	"iter"
	"strings"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/expose"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/model"
)

// Catalog holds every record of a run. Records are never removed.
type Catalog struct {
	records map[string]*model.Function
	keys    []string
	index   *NamespaceIndex

	Reference    *Store[*model.Function]
	FFI          *Store[*model.Function]
	Types        *Store[model.CType]
	Helpers      *Store[*model.Function]
	Exposures    *Store[*model.Exposure]
	Undocumented *Store[*model.Function]

	locals   map[string]struct{}
	globals  map[string]struct{}
	prefixed map[string]map[string]struct{}

	// folded is the lowercased known set, rebuilt when knownSize changes.
	folded     map[string]struct{}
	foldedSize int
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		records:      make(map[string]*model.Function),
		index:        newNamespaceIndex(),
		Reference:    NewStore[*model.Function](),
		FFI:          NewStore[*model.Function](),
		Types:        NewStore[model.CType](),
		Helpers:      NewStore[*model.Function](),
		Exposures:    NewStore[*model.Exposure](),
		Undocumented: NewStore[*model.Function](),
		locals:       make(map[string]struct{}),
		globals:      make(map[string]struct{}),
		prefixed:     make(map[string]map[string]struct{}),
	}
}

// Insert stores fn under its key. A record already present is replaced only
// when fn has strictly more parameters. It reports whether fn was stored.
func (c *Catalog) Insert(fn *model.Function) bool {
	key := fn.Key()
	if old, ok := c.records[key]; ok {
		if len(fn.Parameters) <= len(old.Parameters) {
			return false
		}
	} else {
		c.keys = append(c.keys, key)
	}
	c.records[key] = fn
	c.index.add(fn.Namespace, fn.Name)
	return true
}

// Lookup returns the record stored under key exactly.
func (c *Catalog) Lookup(key string) (*model.Function, bool) {
	fn, ok := c.records[key]
	return fn, ok
}

// Len returns the number of catalog records.
func (c *Catalog) Len() int { return len(c.keys) }

// Records yields the catalog records in first-insertion order of their keys.
func (c *Catalog) Records() iter.Seq[*model.Function] {
	return func(yield func(*model.Function) bool) {
		for _, key := range c.keys {
			if !yield(c.records[key]) {
				return
			}
		}
	}
}

// Index returns the namespace index.
func (c *Catalog) Index() *NamespaceIndex { return c.index }

// AddReference records a function documented on the reference page.
func (c *Catalog) AddReference(fn *model.Function) {
	c.Reference.Set(fn.Name, fn)
}

// AddFFI records a foreign function. The first declaration of a name wins.
func (c *Catalog) AddFFI(fn *model.Function) bool {
	return c.FFI.Add(fn.Name, fn)
}

// AddType records a foreign type. The first declaration of a name wins.
func (c *Catalog) AddType(t model.CType) bool {
	return c.Types.Add(t.Name, t)
}

// AddHelper records a Helper function. The first definition of a name wins.
func (c *Catalog) AddHelper(fn *model.Function) bool {
	return c.Helpers.Add(fn.Name, fn)
}

// AddExposure records an "expose globally" mapping. A later mapping for the
// same exposed name replaces the earlier one.
func (c *Catalog) AddExposure(e *model.Exposure) {
	c.Exposures.Set(e.Name, e)
}

// NoteLocal records a locally defined function name.
func (c *Catalog) NoteLocal(name string) { c.locals[name] = struct{}{} }

// NoteGlobal records a globally defined function name.
func (c *Catalog) NoteGlobal(name string) { c.globals[name] = struct{}{} }

// NotePrefixed records that name is called as prefix.name somewhere.
func (c *Catalog) NotePrefixed(prefix, name string) {
	set, ok := c.prefixed[name]
	if !ok {
		set = make(map[string]struct{})
		c.prefixed[name] = set
	}
	set[prefix] = struct{}{}
}

// CalledWith reports whether name was seen called as prefix.name.
func (c *Catalog) CalledWith(name, prefix string) bool {
	_, ok := c.prefixed[name][prefix]
	return ok
}

// Known reports whether name is already accounted for by a formal
// definition or a cross-reference, so that call-site inference must skip it.
// Names are also matched case-insensitively against the known and local sets.
func (c *Catalog) Known(name string) bool {
	if c.exactlyKnown(name) {
		return true
	}
	if c.CalledWith(name, model.NamespaceC) || c.FFI.Has(name) || c.index.Any(name) {
		return true
	}
	return c.foldKnown(name)
}

func (c *Catalog) exactlyKnown(name string) bool {
	if _, ok := c.locals[name]; ok {
		return true
	}
	if _, ok := c.globals[name]; ok {
		return true
	}
	return c.Reference.Has(name) || c.Exposures.Has(name)
}

func (c *Catalog) foldKnown(name string) bool {
	if n := c.knownSize(); c.folded == nil || c.foldedSize != n {
		c.folded = make(map[string]struct{}, n)
		for candidate := range c.knownNames() {
			c.folded[strings.ToLower(candidate)] = struct{}{}
		}
		c.foldedSize = n
	}
	_, ok := c.folded[strings.ToLower(name)]
	return ok
}

// knownSize counts the sources of knownNames. The sets and stores only grow,
// so an unchanged count means an unchanged name set.
func (c *Catalog) knownSize() int {
	return len(c.locals) + len(c.globals) + c.Reference.Len() +
		c.FFI.Len() + c.Helpers.Len() + c.Exposures.Len()
}

// knownNames yields the names of the known set, including the prefixed
// spellings of foreign and Helper functions.
func (c *Catalog) knownNames() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, set := range []map[string]struct{}{c.locals, c.globals} {
			for name := range set {
				if !yield(name) {
					return
				}
			}
		}
		for name := range c.Reference.All() {
			if !yield(name) {
				return
			}
		}
		for name := range c.FFI.All() {
			if !yield(name) || !yield(model.NamespaceC+"."+name) {
				return
			}
		}
		for name := range c.Helpers.All() {
			if !yield(model.NamespaceHelper + "." + name) {
				return
			}
		}
		for name := range c.Exposures.All() {
			if !yield(name) {
				return
			}
		}
	}
}

// Resolve looks up a "namespace.name" path. An exact catalog hit wins; then
// the Helper, C and global paths consult their dedicated stores, and an
// exposed name resolves through its mapping; finally the first namespace in
// index order that defines the bare name is used.
func (c *Catalog) Resolve(path string) (*model.Function, bool) {
	return c.resolve(path, make(map[string]bool))
}

func (c *Catalog) resolve(path string, seen map[string]bool) (*model.Function, bool) {
	if fn, ok := c.records[path]; ok {
		return fn, true
	}
	namespace, name, ok := strings.Cut(path, ".")
	if !ok || strings.Contains(name, ".") {
		return nil, false
	}

	var store *Store[*model.Function]
	switch namespace {
	case model.NamespaceHelper:
		store = c.Helpers
	case model.NamespaceC:
		store = c.FFI
	case model.NamespaceGlobal:
		store = c.Reference
	}
	if store != nil {
		if fn, ok := store.Get(name); ok {
			return fn, true
		}
	}
	if e, ok := c.Exposures.Get(name); ok && !seen[name] {
		seen[name] = true
		r := expose.Resolve(guarded{c, seen}, e)
		if !r.Unresolved {
			return r.Function(), true
		}
	}

	if ns, ok := c.index.First(name); ok {
		return c.records[ns+"."+name], true
	}
	return nil, false
}

// guarded resolves with a shared set of exposed names already being
// followed, so that exposures pointing at each other terminate.
type guarded struct {
	c    *Catalog
	seen map[string]bool
}

func (g guarded) Resolve(path string) (*model.Function, bool) {
	return g.c.resolve(path, g.seen)
}

// ResolveExposures resolves every recorded exposure against the catalog, in
// insertion order.
func (c *Catalog) ResolveExposures() []model.ResolvedExposure {
	out := make([]model.ResolvedExposure, 0, c.Exposures.Len())
	for _, e := range c.Exposures.All() {
		out = append(out, expose.Resolve(c, e))
	}
	return out
}
