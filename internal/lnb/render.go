package lnb

import "sort"

// PlaceholderMessage is shown when no menu node is active
const PlaceholderMessage = "LNB 메뉴가 구성되지 않았습니다"

// EntryKind classifies a top-level render entry
type EntryKind string

const (
	KindIndependent EntryKind = "independent"
	KindParent      EntryKind = "parent"
)

// Entry is one top-level item of the rendered menu
type Entry struct {
	Node     Config    `json:"node"`
	Kind     EntryKind `json:"kind"`
	Children []Config  `json:"children,omitempty"`
}

// RenderModel is the ordered, filtered menu ready for display
type RenderModel struct {
	Entries     []Entry `json:"entries"`
	Empty       bool    `json:"empty"`
	Placeholder string  `json:"placeholder,omitempty"`
}

// Render filters inactive nodes, sorts by order and classifies each
// top-level node as independent or parent. Input may be flat (ParentID)
// or nested (Children). Only one level of children is rendered.
func Render(nodes []Config) RenderModel {
	top := ActiveSorted(Nest(nodes))

	m := RenderModel{Entries: make([]Entry, 0, len(top))}
	for _, n := range top {
		e := Entry{Node: n, Kind: KindIndependent}
		e.Node.Children = nil

		if kids := ActiveSorted(n.Children); len(kids) > 0 {
			e.Kind = KindParent
			e.Children = make([]Config, len(kids))
			for i, k := range kids {
				k.Children = nil
				e.Children[i] = k
			}
		}
		m.Entries = append(m.Entries, e)
	}

	if len(m.Entries) == 0 {
		m.Empty = true
		m.Placeholder = PlaceholderMessage
	}
	return m
}

// ActiveSorted returns the active nodes of list in ascending order.
// Ties keep their input order.
func ActiveSorted(list []Config) []Config {
	out := make([]Config, 0, len(list))
	for _, n := range list {
		if n.IsActive {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Classify reports how n renders: parent iff it has an active child
func Classify(n Config) EntryKind {
	for _, c := range n.Children {
		if c.IsActive {
			return KindParent
		}
	}
	return KindIndependent
}

// Independents returns the leaf entries in render order
func (m RenderModel) Independents() []Entry {
	return m.byKind(KindIndependent)
}

// Parents returns the expandable entries in render order
func (m RenderModel) Parents() []Entry {
	return m.byKind(KindParent)
}

// IDs returns top-level entry ids in render order
func (m RenderModel) IDs() []string {
	ids := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		ids[i] = e.Node.ID
	}
	return ids
}

// Find looks up a rendered node (top-level or child) by id
func (m RenderModel) Find(id string) (Config, bool) {
	for _, e := range m.Entries {
		if e.Node.ID == id {
			return e.Node, true
		}
		for _, c := range e.Children {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Config{}, false
}

func (m RenderModel) byKind(kind EntryKind) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
