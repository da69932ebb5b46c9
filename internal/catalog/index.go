package catalog

import "slices"

// NamespaceIndex maps each namespace to the names defined in it. Namespaces
// are kept in the order they were first seen, which is the order the
// bare-name fallback of Resolve walks.
type NamespaceIndex struct {
	order []string
	names map[string]map[string]struct{}
	// owners maps a bare name to the namespaces defining it, in index order.
	owners map[string][]string
}

func newNamespaceIndex() *NamespaceIndex {
	return &NamespaceIndex{
		names:  make(map[string]map[string]struct{}),
		owners: make(map[string][]string),
	}
}

func (x *NamespaceIndex) add(namespace, name string) {
	set, ok := x.names[namespace]
	if !ok {
		set = make(map[string]struct{})
		x.names[namespace] = set
		x.order = append(x.order, namespace)
	}
	if _, ok := set[name]; ok {
		return
	}
	set[name] = struct{}{}
	x.owners[name] = append(x.owners[name], namespace)
}

// Namespaces returns every namespace in first-seen order.
func (x *NamespaceIndex) Namespaces() []string {
	return slices.Clone(x.order)
}

// Names returns the names defined in namespace, sorted.
func (x *NamespaceIndex) Names(namespace string) []string {
	set := x.names[namespace]
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Defines reports whether namespace defines name.
func (x *NamespaceIndex) Defines(namespace, name string) bool {
	_, ok := x.names[namespace][name]
	return ok
}

// First returns the first namespace, in index order, that defines name.
func (x *NamespaceIndex) First(name string) (string, bool) {
	owners := x.owners[name]
	if len(owners) == 0 {
		return "", false
	}
	// owners is appended in the order names reach each namespace, which can
	// differ from namespace order; pick by namespace order.
	best := -1
	for _, ns := range owners {
		i := slices.Index(x.order, ns)
		if best == -1 || i < best {
			best = i
		}
	}
	return x.order[best], true
}

// Any reports whether any namespace defines name.
func (x *NamespaceIndex) Any(name string) bool {
	return len(x.owners[name]) > 0
}
