package tree

import (
	"slices"
	"strings"
)

// Kind tags a node as a category, subcategory or item.
type Kind string

// Node kinds, spelled as in the persisted format.
const (
	KindCategory    Kind = "category"
	KindSubcategory Kind = "subcategory"
	KindItem        Kind = "item"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCategory, KindSubcategory, KindItem:
		return true
	}
	return false
}

// Node is one category, subcategory or item.
type Node struct {
	Key         string   // raw category name or user-entered title
	Title       string   // display override, empty for none
	Kind        Kind     // explicit node kind
	Children    []*Node  // ordered; order is row order
	Members     []string // wiki page titles of a fetched leaf
	Description string   // item text of a manual leaf
	ExtraDepth  int      // additional columns taken by a parent cell
}

// DisplayTitle returns Title, or Key when no override is set.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Key
}

// IsLeaf reports whether n renders as a data row: it is an item, it has no
// children, or it carries content. Content wins over children.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindItem || len(n.Children) == 0 || n.HasContent()
}

// HasContent reports whether n carries members or a description.
func (n *Node) HasContent() bool {
	return len(n.Members) > 0 || n.Description != ""
}

// Child returns the direct child with the given key, or nil.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// AddChild appends c and returns it.
func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

// AddMember appends a member unless it is already present. It reports
// whether the member was added.
func (n *Node) AddMember(member string) bool {
	if slices.Contains(n.Members, member) {
		return false
	}
	n.Members = append(n.Members, member)
	return true
}

// Depth returns the number of columns n's subtree needs, including the
// extra depth of parents. A leaf has depth 1.
func (n *Node) Depth() int {
	if n.IsLeaf() {
		return 1
	}
	d := 0
	for _, c := range n.Children {
		d = max(d, c.Depth())
	}
	return 1 + max(n.ExtraDepth, 0) + d
}

// HeaderTitle is one cell of the table header. Cols is the number of columns
// the cell spans; the last header title always takes the remaining columns.
type HeaderTitle struct {
	Title string
	Cols  int
}

// Tree is an ordered forest of top-level nodes with table header titles.
type Tree struct {
	Titles      []HeaderTitle
	Collapsible bool
	Roots       []*Node
}

// New creates an empty tree with a single header title.
func New(title string) *Tree {
	return &Tree{Titles: []HeaderTitle{{Title: title}}}
}

// Title joins all header titles with " / ".
func (t *Tree) Title() string {
	parts := make([]string, len(t.Titles))
	for i, h := range t.Titles {
		parts[i] = h.Title
	}
	return strings.Join(parts, " / ")
}

// Root returns the top-level node with the given key, or nil.
func (t *Tree) Root(key string) *Node {
	for _, r := range t.Roots {
		if r.Key == key {
			return r
		}
	}
	return nil
}

// AddRoot appends a top-level node and returns it.
func (t *Tree) AddRoot(n *Node) *Node {
	t.Roots = append(t.Roots, n)
	return n
}

// MaxDepth returns the deepest [Node.Depth] of any top-level node, or 0 for
// an empty tree.
func (t *Tree) MaxDepth() int {
	d := 0
	for _, r := range t.Roots {
		d = max(d, r.Depth())
	}
	return d
}

// Walk visits every node depth-first in order. The path holds the keys of
// the node's ancestors. Children of leaves are not visited. Walk stops when
// fn returns false.
func (t *Tree) Walk(fn func(path []string, n *Node) bool) {
	var visit func(path []string, nodes []*Node) bool
	visit = func(path []string, nodes []*Node) bool {
		for _, n := range nodes {
			if !fn(path, n) {
				return false
			}
			if n.IsLeaf() {
				continue
			}
			if !visit(append(slices.Clip(path), n.Key), n.Children) {
				return false
			}
		}
		return true
	}
	visit(nil, t.Roots)
}

// Leaves returns the number of data rows the tree renders.
func (t *Tree) Leaves() int {
	count := 0
	t.Walk(func(_ []string, n *Node) bool {
		if n.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// Members returns every member of every leaf in row order, without
// duplicates.
func (t *Tree) Members() []string {
	var out []string
	seen := make(map[string]bool)
	t.Walk(func(_ []string, n *Node) bool {
		for _, m := range n.Members {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
		return true
	})
	return out
}
