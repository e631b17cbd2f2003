package tree

import (
	"fmt"
	"strings"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
)

// Issue is a structural problem found in a tree.
type Issue struct {
	Path    []string // keys from the root down to the offending node
	Message string
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return strings.Join(i.Path, " > ") + ": " + i.Message
}

// Issues reports duplicate sibling keys, nodes carrying both children and
// content, items with children, negative extra depths and unknown kinds.
// Children of conflicting nodes are not inspected since they never render.
func (t *Tree) Issues() []Issue {
	var issues []Issue
	add := func(path []string, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	check := func(path []string, siblings []*Node) {
		seen := make(map[string]bool, len(siblings))
		for _, n := range siblings {
			if seen[n.Key] {
				add(path, "duplicate key %q", n.Key)
			}
			seen[n.Key] = true
		}
	}
	check(nil, t.Roots)

	t.Walk(func(parent []string, n *Node) bool {
		path := append(append([]string(nil), parent...), n.Key)
		if !n.Kind.Valid() {
			add(path, "unknown kind %q", n.Kind)
		}
		if n.ExtraDepth < 0 {
			add(path, "negative extra depth %d", n.ExtraDepth)
		}
		switch {
		case len(n.Children) == 0:
		case n.Kind == KindItem:
			add(path, "item has %d children", len(n.Children))
		case n.HasContent():
			add(path, "node has both children and content")
		default:
			check(path, n.Children)
		}
		return true
	})
	return issues
}

// Validate returns an INVALID_TREE error listing every issue, or nil.
func (t *Tree) Validate() error {
	issues := t.Issues()
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, is := range issues {
		msgs[i] = is.String()
	}
	return wlerrors.New(wlerrors.ErrCodeInvalidTree, "%s", strings.Join(msgs, "; "))
}
