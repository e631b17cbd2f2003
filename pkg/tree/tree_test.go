package tree

import (
	"strings"
	"testing"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
)

func sample() *Tree {
	t := New("List of Countries")
	arathia := t.AddRoot(&Node{Key: "Arathia", Title: "[[Arathia]]", Kind: KindCategory})
	arathia.AddChild(&Node{Key: "Major Countries", Kind: KindSubcategory, Members: []string{"Sunspire", "Valoria"}})
	arathia.AddChild(&Node{Key: "Minor Countries", Kind: KindSubcategory, Members: []string{"Ostmark"}})
	t.AddRoot(&Node{Key: "Dragon Characters", Kind: KindCategory, Members: []string{"Ignis"}})
	return t
}

func TestNodeIsLeaf(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"empty category", &Node{Kind: KindCategory}, true},
		{"category with children", &Node{Kind: KindCategory, Children: []*Node{{Kind: KindSubcategory}}}, false},
		{"item", &Node{Kind: KindItem}, true},
		{"item with children", &Node{Kind: KindItem, Children: []*Node{{Kind: KindItem}}}, true},
		{"category with children and members", &Node{Kind: KindCategory, Members: []string{"m"}, Children: []*Node{{Kind: KindSubcategory}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsLeaf(); got != tt.want {
				t.Errorf("IsLeaf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayTitle(t *testing.T) {
	n := &Node{Key: "Arathia"}
	if got := n.DisplayTitle(); got != "Arathia" {
		t.Errorf("DisplayTitle() = %q, want key", got)
	}
	n.Title = "[[Arathia]]"
	if got := n.DisplayTitle(); got != "[[Arathia]]" {
		t.Errorf("DisplayTitle() = %q, want override", got)
	}
}

func TestAddMemberDeduplicates(t *testing.T) {
	n := &Node{Kind: KindSubcategory}
	if !n.AddMember("Sunspire") {
		t.Error("first AddMember() = false")
	}
	if n.AddMember("Sunspire") {
		t.Error("second AddMember() = true")
	}
	if len(n.Members) != 1 {
		t.Errorf("Members = %v", n.Members)
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		name string
		tree *Tree
		want int
	}{
		{"empty", New("x"), 0},
		{"sample", sample(), 2},
		{
			name: "extra depth",
			tree: &Tree{Roots: []*Node{{
				Key: "Spear", Kind: KindCategory, ExtraDepth: 1,
				Children: []*Node{{Key: "Thrust", Kind: KindItem, Description: "d"}},
			}}},
			want: 3,
		},
		{
			name: "extra depth on leaf ignored",
			tree: &Tree{Roots: []*Node{{Key: "A", Kind: KindCategory, ExtraDepth: 4}}},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tree.MaxDepth(); got != tt.want {
				t.Errorf("MaxDepth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWalkOrder(t *testing.T) {
	var got []string
	sample().Walk(func(path []string, n *Node) bool {
		got = append(got, strings.Join(append(append([]string(nil), path...), n.Key), "/"))
		return true
	})
	want := []string{"Arathia", "Arathia/Major Countries", "Arathia/Minor Countries", "Dragon Characters"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Walk order = %v, want %v", got, want)
	}
}

func TestWalkStops(t *testing.T) {
	visits := 0
	sample().Walk(func(_ []string, _ *Node) bool {
		visits++
		return visits < 2
	})
	if visits != 2 {
		t.Errorf("visits = %d, want 2", visits)
	}
}

func TestLeavesAndMembers(t *testing.T) {
	tr := sample()
	if got := tr.Leaves(); got != 3 {
		t.Errorf("Leaves() = %d, want 3", got)
	}
	if got := strings.Join(tr.Members(), ","); got != "Sunspire,Valoria,Ostmark,Ignis" {
		t.Errorf("Members() = %s", got)
	}
}

func TestTitle(t *testing.T) {
	tr := &Tree{Titles: []HeaderTitle{{Title: "Arts", Cols: 2}, {Title: "Description"}}}
	if got := tr.Title(); got != "Arts / Description" {
		t.Errorf("Title() = %q", got)
	}
}

func TestIssues(t *testing.T) {
	tests := []struct {
		name  string
		tree  *Tree
		wants []string
	}{
		{"valid", sample(), nil},
		{
			name:  "duplicate roots",
			tree:  &Tree{Roots: []*Node{{Key: "A", Kind: KindCategory}, {Key: "A", Kind: KindCategory}}},
			wants: []string{`duplicate key "A"`},
		},
		{
			name: "conflict",
			tree: &Tree{Roots: []*Node{{
				Key: "A", Kind: KindCategory, Members: []string{"m"},
				Children: []*Node{{Key: "X", Kind: KindSubcategory}},
			}}},
			wants: []string{"A: node has both children and content"},
		},
		{
			name: "item with children",
			tree: &Tree{Roots: []*Node{{
				Key: "A", Kind: KindCategory,
				Children: []*Node{{Key: "I", Kind: KindItem, Children: []*Node{{Key: "J", Kind: KindItem}}}},
			}}},
			wants: []string{"A > I: item has 1 children"},
		},
		{
			name:  "negative extra depth",
			tree:  &Tree{Roots: []*Node{{Key: "A", Kind: KindCategory, ExtraDepth: -1}}},
			wants: []string{"negative extra depth -1"},
		},
		{
			name:  "unknown kind",
			tree:  &Tree{Roots: []*Node{{Key: "A", Kind: "folder"}}},
			wants: []string{`unknown kind "folder"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.tree.Issues()
			if len(issues) != len(tt.wants) {
				t.Fatalf("Issues() = %v, want %d issues", issues, len(tt.wants))
			}
			for i, want := range tt.wants {
				if !strings.Contains(issues[i].String(), want) {
					t.Errorf("issue %d = %q, want it to contain %q", i, issues[i], want)
				}
			}
			err := tt.tree.Validate()
			if (err != nil) != (len(tt.wants) > 0) {
				t.Errorf("Validate() = %v", err)
			}
			if err != nil && !wlerrors.Is(err, wlerrors.ErrCodeInvalidTree) {
				t.Errorf("Validate() code = %v, want INVALID_TREE", wlerrors.GetCode(err))
			}
		})
	}
}
