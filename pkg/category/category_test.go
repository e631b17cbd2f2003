package category

import (
	"strings"
	"testing"
)

func mustMap(t *testing.T, decl string, titles map[string]string) *Map {
	t.Helper()
	raw, err := ParseDeclaration([]byte(decl))
	if err != nil {
		t.Fatalf("ParseDeclaration() error: %v", err)
	}
	m, err := FromDeclaration(raw, titles)
	if err != nil {
		t.Fatalf("FromDeclaration() error: %v", err)
	}
	return m
}

func keys(cats []*Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Key
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		decl     string
		wantTop  []string
		wantSubs map[string][]string
	}{
		{
			name:    "leaves",
			decl:    `{"Solar Oaths": {}, "Void Oaths": {}, "Arc Oaths": null}`,
			wantTop: []string{"Solar Oaths", "Void Oaths", "Arc Oaths"},
		},
		{
			name:     "shorthand nesting",
			decl:     `{"Elysium": {"Major": {}, "Minor": {}}}`,
			wantTop:  []string{"Elysium"},
			wantSubs: map[string][]string{"Elysium": {"Major", "Minor"}},
		},
		{
			name:     "explicit list",
			decl:     `{"Arathia": {"subcategories": ["Major Countries", "Minor Countries", "Fallen Countries"]}}`,
			wantTop:  []string{"Arathia"},
			wantSubs: map[string][]string{"Arathia": {"Major Countries", "Minor Countries", "Fallen Countries"}},
		},
		{
			name:     "explicit object",
			decl:     `{"A": {"subcategories": {"Y": {}, "X": {}}}}`,
			wantTop:  []string{"A"},
			wantSubs: map[string][]string{"A": {"Y", "X"}},
		},
		{
			name:    "order preserved",
			decl:    `{"z": {}, "a": {}, "m": {}}`,
			wantTop: []string{"z", "a", "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMap(t, tt.decl, nil)
			got := keys(m.Categories())
			if strings.Join(got, ",") != strings.Join(tt.wantTop, ",") {
				t.Fatalf("top-level = %v, want %v", got, tt.wantTop)
			}
			for _, c := range m.Categories() {
				want := tt.wantSubs[c.Key]
				if gotSubs := keys(c.Subcategories); strings.Join(gotSubs, ",") != strings.Join(want, ",") {
					t.Errorf("%s subcategories = %v, want %v", c.Key, gotSubs, want)
				}
			}
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		decl string
	}{
		{"mixed explicit key", `{"A": {"subcategories": ["X"], "Y": {}}}`},
		{"duplicate list entry", `{"A": {"subcategories": ["X", "X"]}}`},
		{"number in list", `{"A": {"subcategories": [1]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseDeclaration([]byte(tt.decl))
			if err != nil {
				t.Fatalf("ParseDeclaration() error: %v", err)
			}
			if _, err := Normalize(raw); err == nil {
				t.Error("Normalize() succeeded, want error")
			}
		})
	}
}

func TestParseDeclarationNotObject(t *testing.T) {
	if _, err := ParseDeclaration([]byte(`["a"]`)); err == nil {
		t.Error("expected error for array declaration")
	}
	if _, err := ParseDeclaration([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestMappedCategory(t *testing.T) {
	m := mustMap(t, `{"A": {"subcategories": ["X", "Y"]}}`, map[string]string{})

	tests := []struct {
		name string
		in   string
		want Mapping
	}{
		{"subcategory", "X", Mapping{Parent: "A", Subcategory: "X", Found: true}},
		{"top-level", "A", Mapping{Parent: "A", Found: true}},
		{"unknown", "Z", Mapping{Parent: "Z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MappedCategory(tt.in); got != tt.want {
				t.Errorf("MappedCategory(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
	if d := m.MaxDepth(); d != 2 {
		t.Errorf("MaxDepth() = %d, want 2", d)
	}
}

func TestMappedCategoryDeepAndTieBreak(t *testing.T) {
	m := mustMap(t, `{
		"Species": {"Humanoid": {"Elf": {}, "Dwarf": {}}},
		"Beasts": {"Elf": {}}
	}`, map[string]string{"Elf": "[[Elf]]"})

	got := m.MappedCategory("Elf")
	want := Mapping{Parent: "Species", Subcategory: "Elf", Title: "[[Elf]]", Found: true}
	if got != want {
		t.Errorf("MappedCategory(Elf) = %+v, want %+v", got, want)
	}

	got = m.MappedCategory("Humanoid")
	if got.Parent != "Species" || got.Subcategory != "Humanoid" {
		t.Errorf("MappedCategory(Humanoid) = %+v", got)
	}

	unknown := m.MappedCategory("Elf Characters")
	if unknown.Found || unknown.Parent != "Elf Characters" || unknown.Subcategory != "" {
		t.Errorf("unknown mapping = %+v", unknown)
	}
}

func TestTitle(t *testing.T) {
	m := mustMap(t, `{"Arathia": {}}`, map[string]string{"Arathia": "[[Arathia]]"})
	if got := m.Title("Arathia"); got != "[[Arathia]]" {
		t.Errorf("Title(Arathia) = %q", got)
	}
	if got := m.Title("Elysium"); got != "Elysium" {
		t.Errorf("Title(Elysium) = %q, want key verbatim", got)
	}
}

func TestMaxDepth(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want int
	}{
		{"empty", `{}`, 0},
		{"leaves", `{"a": {}, "b": {}}`, 1},
		{"two levels", `{"a": {"x": {}}, "b": {}}`, 2},
		{"three levels", `{"a": {"x": {"p": {}}}, "b": {"y": {}}}`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMap(t, tt.decl, nil)
			got := m.MaxDepth()
			if got != tt.want {
				t.Errorf("MaxDepth() = %d, want %d", got, tt.want)
			}
			// depth(T) = max over children of their own depth
			want := 0
			for _, c := range m.Categories() {
				want = max(want, c.Depth())
			}
			if got != want {
				t.Errorf("MaxDepth() = %d, recursive definition gives %d", got, want)
			}
			if len(m.Categories()) > 0 && got < 1 {
				t.Errorf("MaxDepth() = %d for non-empty map", got)
			}
		})
	}
}

func TestCurrentMaxSubcategories(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want int
	}{
		{"two leaves", `{"A": {"X": {}, "Y": {}}}`, 2},
		{"lone leaf child", `{"A": {"X": {}}}`, 1},
		{"lone child with lone grandchild", `{"A": {"X": {"P": {}}}}`, 1},
		{"lone child with two grandchildren", `{"A": {"X": {"P": {}, "Q": {}}}}`, 2},
		{"mixed", `{"A": {"X": {}, "Y": {"P": {}, "Q": {}, "R": {}}}}`, 4},
		{"deep", `{"A": {"X": {"P": {"1": {}, "2": {}}, "Q": {}}, "Y": {}}}`, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMap(t, tt.decl, nil)
			a := m.Categories()[0]
			if got := CurrentMaxSubcategories(a.Subcategories); got != tt.want {
				t.Errorf("CurrentMaxSubcategories() = %d, want %d", got, tt.want)
			}
			if got, leaves := CurrentMaxSubcategories(a.Subcategories), countLeaves(a); got != leaves {
				t.Errorf("row count %d differs from leaf count %d", got, leaves)
			}
		})
	}
}

func countLeaves(c *Category) int {
	if c.IsLeaf() {
		return 1
	}
	n := 0
	for _, sub := range c.Subcategories {
		n += countLeaves(sub)
	}
	return n
}

func TestCurrentMaxSubcategoriesOrderInvariant(t *testing.T) {
	a := mustMap(t, `{"A": {"X": {}, "Y": {"P": {}, "Q": {}}, "Z": {"R": {}}}}`, nil)
	b := mustMap(t, `{"A": {"Z": {"R": {}}, "Y": {"Q": {}, "P": {}}, "X": {}}}`, nil)

	got := CurrentMaxSubcategories(a.Categories()[0].Subcategories)
	reordered := CurrentMaxSubcategories(b.Categories()[0].Subcategories)
	if got != reordered {
		t.Errorf("reordering changed count: %d vs %d", got, reordered)
	}
}

func TestMaxSubcategories(t *testing.T) {
	m := mustMap(t, `{"A": {"X": {}, "Y": {}, "Z": {}}, "B": {"W": {}}, "C": {}}`, nil)
	if got := m.MaxSubcategories(); got != 3 {
		t.Errorf("MaxSubcategories() = %d, want 3", got)
	}
}

func TestString(t *testing.T) {
	m := mustMap(t, `{"Arathia": {"Major Countries": {}}}`, map[string]string{"Arathia": "[[Arathia]]"})
	s := m.String()
	for _, want := range []string{`"Arathia"`, `"title": "[[Arathia]]"`, `"subcategories"`, `"title": "Major Countries"`} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %s:\n%s", want, s)
		}
	}
}
