package category

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Category is a node of the normalized hierarchy. A Category without
// subcategories is a leaf bucket that collects members directly.
type Category struct {
	Key           string
	Subcategories []*Category
}

// IsLeaf reports whether c has no subcategories.
func (c *Category) IsLeaf() bool { return len(c.Subcategories) == 0 }

// Depth counts nesting levels below and including c. A leaf has depth 1.
func (c *Category) Depth() int {
	d := 0
	for _, sub := range c.Subcategories {
		d = max(d, sub.Depth())
	}
	return d + 1
}

// Find returns the first descendant of c (depth-first, in declaration order)
// whose key equals key, or nil.
func (c *Category) Find(key string) *Category {
	for _, sub := range c.Subcategories {
		if sub.Key == key {
			return sub
		}
		if found := sub.Find(key); found != nil {
			return found
		}
	}
	return nil
}

// Mapping is the bucket a raw wiki category resolves to.
type Mapping struct {
	Parent      string // top-level category key
	Subcategory string // nested key, empty when the category is top-level
	Title       string // title override, empty when none is declared
	Found       bool   // false when the category is not part of the map
}

// Map is an immutable category hierarchy with display titles.
type Map struct {
	categories []*Category
	titles     map[string]string
}

// New creates a Map from already normalized categories. The titles map is
// copied; categories are used as given and must not be modified afterwards.
func New(categories []*Category, titles map[string]string) *Map {
	t := make(map[string]string, len(titles))
	for k, v := range titles {
		t[k] = v
	}
	return &Map{categories: categories, titles: t}
}

// FromDeclaration normalizes a raw declaration and creates a Map from it.
func FromDeclaration(decl *orderedmap.OrderedMap[string, any], titles map[string]string) (*Map, error) {
	cats, err := Normalize(decl)
	if err != nil {
		return nil, err
	}
	return New(cats, titles), nil
}

// Categories returns the top-level categories in declaration order.
// The returned slice must be treated as read-only.
func (m *Map) Categories() []*Category { return m.categories }

// Title returns the display title for key, or key itself when no override
// is declared.
func (m *Map) Title(key string) string {
	if t, ok := m.titles[key]; ok {
		return t
	}
	return key
}

// MappedCategory resolves a raw wiki category to its bucket.
//
// Top-level keys are checked in declaration order; for each, the whole
// subtree is searched depth-first before moving to the next top-level key.
// A nested match reports its top-level ancestor as Parent. Categories not
// present in the map become their own top-level bucket with Found=false.
func (m *Map) MappedCategory(name string) Mapping {
	title := m.titles[name]
	for _, c := range m.categories {
		if c.Key == name {
			return Mapping{Parent: c.Key, Title: title, Found: true}
		}
		if sub := c.Find(name); sub != nil {
			return Mapping{Parent: c.Key, Subcategory: sub.Key, Title: title, Found: true}
		}
	}
	return Mapping{Parent: name, Title: title}
}

// MaxDepth returns the deepest nesting level of any top-level category.
// A map of leaf categories has depth 1; an empty map has depth 0.
func (m *Map) MaxDepth() int {
	d := 0
	for _, c := range m.categories {
		d = max(d, c.Depth())
	}
	return d
}

// MaxSubcategories returns the largest number of immediate subcategories of
// any top-level category.
func (m *Map) MaxSubcategories() int {
	n := 0
	for _, c := range m.categories {
		n = max(n, len(c.Subcategories))
	}
	return n
}

// CurrentMaxSubcategories returns the row-splitting count of a set of
// sibling subcategories: the number of physical table rows they emit and
// therefore the rowspan of their parent cell.
//
// A node with n immediate subcategories contributes n when n >= 2 and 1
// otherwise; every child with a positive contribution adds
// (contribution - 1) on top.
func CurrentMaxSubcategories(subs []*Category) int {
	return countSplits(subs)
}

func countSplits(subs []*Category) int {
	n := len(subs)
	contrib := 1
	if n >= 2 {
		contrib = n
	}
	for _, sub := range subs {
		if c := countSplits(sub.Subcategories); c > 0 {
			contrib += c - 1
		}
	}
	return contrib
}

// String renders the hierarchy with resolved titles as indented JSON.
func (m *Map) String() string {
	root := orderedmap.New[string, any]()
	for _, c := range m.categories {
		root.Set(c.Key, m.describe(c))
	}
	data, err := json.MarshalIndent(root, "", "    ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (m *Map) describe(c *Category) *orderedmap.OrderedMap[string, any] {
	node := orderedmap.New[string, any]()
	node.Set("title", m.Title(c.Key))
	if !c.IsLeaf() {
		subs := orderedmap.New[string, any]()
		for _, sub := range c.Subcategories {
			subs.Set(sub.Key, m.describe(sub))
		}
		node.Set("subcategories", subs)
	}
	return node
}
