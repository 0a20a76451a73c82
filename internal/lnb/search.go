package lnb

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Hit is a single fuzzy match against the rendered menu
type Hit struct {
	Node           Config `json:"node"`
	ParentID       string `json:"parentId,omitempty"`
	Score          int    `json:"score"`
	MatchedIndexes []int  `json:"matchedIndexes,omitempty"`
}

type searchable struct {
	node     Config
	parentID string
}

// Filter fuzzy-matches query against the display names of every rendered
// node, children included. Results are ordered best match first.
// An empty query returns every node in render order.
func Filter(m RenderModel, query string) []Hit {
	var items []searchable
	for _, e := range m.Entries {
		items = append(items, searchable{node: e.Node})
		for _, c := range e.Children {
			items = append(items, searchable{node: c, parentID: e.Node.ID})
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		hits := make([]Hit, len(items))
		for i, it := range items {
			hits[i] = Hit{Node: it.node, ParentID: it.parentID}
		}
		return hits
	}

	names := make([]string, len(items))
	for i, it := range items {
		// match on both the label and the machine name
		names[i] = it.node.Label() + " " + it.node.Name
	}

	matches := fuzzy.Find(query, names)
	hits := make([]Hit, 0, len(matches))
	for _, match := range matches {
		it := items[match.Index]
		hits = append(hits, Hit{
			Node:           it.node,
			ParentID:       it.parentID,
			Score:          match.Score,
			MatchedIndexes: match.MatchedIndexes,
		})
	}
	return hits
}
