package lnb

import "sort"

// Expansion tracks which parent entries are expanded.
// State lives in memory only and is lost on reload.
type Expansion struct {
	expanded    map[string]bool
	initialized bool
}

// NewExpansion creates an empty expansion state
func NewExpansion() *Expansion {
	return &Expansion{expanded: make(map[string]bool)}
}

// Load expands every parent the first time a non-empty model is seen.
// Later loads leave the state untouched.
func (e *Expansion) Load(m RenderModel) {
	if e.initialized || m.Empty {
		return
	}
	if e.expanded == nil {
		e.expanded = make(map[string]bool)
	}
	for _, p := range m.Parents() {
		e.expanded[p.Node.ID] = true
	}
	e.initialized = true
}

// Toggle flips the expansion of id and returns the new state
func (e *Expansion) Toggle(id string) bool {
	if e.expanded[id] {
		delete(e.expanded, id)
		return false
	}
	if e.expanded == nil {
		e.expanded = make(map[string]bool)
	}
	e.expanded[id] = true
	return true
}

// IsExpanded reports whether id is expanded
func (e *Expansion) IsExpanded(id string) bool {
	return e.expanded[id]
}

// Expanded returns expanded ids in sorted order
func (e *Expansion) Expanded() []string {
	ids := make([]string, 0, len(e.expanded))
	for id := range e.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Initialized reports whether the first load has happened
func (e *Expansion) Initialized() bool {
	return e.initialized
}
