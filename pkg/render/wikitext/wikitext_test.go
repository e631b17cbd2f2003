package wikitext

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikilist/pkg/layout"
	"github.com/matzehuels/wikilist/pkg/tree"
)

func mustLayout(t *testing.T, tr *tree.Tree) *layout.Layout {
	t.Helper()
	l, err := layout.Build(tr, layout.Options{Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return l
}

func lines(s ...string) string { return strings.Join(s, "\n") }

const style = `style="text-align:center; font-weight: bold; position: relative;"`

func TestRenderFetched(t *testing.T) {
	tr := &tree.Tree{Titles: []tree.HeaderTitle{{Title: "List"}}, Collapsible: true}
	tr.AddRoot(&tree.Node{Key: "A", Kind: tree.KindCategory, Children: []*tree.Node{
		{Key: "X", Kind: tree.KindSubcategory, Members: []string{"p1", "p2"}},
		{Key: "Y", Kind: tree.KindSubcategory, Members: []string{"p3"}},
	}})

	got := Render(mustLayout(t, tr), Options{})
	want := lines(
		`{| class="mw-collapsible mw-collapsed wikitable custom-button" style="width:100%;"`,
		`! colspan="3" `+style+` | List`,
		`|-`,
		`|rowspan="2" class="custom-rowspan"|A`,
		`|class="dotted-row custom-row" |X`,
		`|colspan="1" class="custom-row" |[[p1]]{{ts}}[[p2]]`,
		`|-`,
		`|class="dotted-row" |Y`,
		`|colspan="1"|[[p3]]`,
		`|}`,
	)
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTopLevelRows(t *testing.T) {
	tr := &tree.Tree{Titles: []tree.HeaderTitle{{Title: "List of [[Oaths]]"}}, Collapsible: true}
	tr.AddRoot(&tree.Node{Key: "Solar Oaths", Title: "[[Solar]]", Kind: tree.KindCategory, Members: []string{"Dawn"}})
	tr.AddRoot(&tree.Node{Key: "Void Oaths", Title: "[[Void]]", Kind: tree.KindCategory})

	got := Render(mustLayout(t, tr), Options{})
	want := lines(
		`{| class="mw-collapsible mw-collapsed wikitable custom-button" style="width:100%;"`,
		`! colspan="2" `+style+` | List of [[Oaths]]`,
		`|-`,
		`|class="dotted-row" |[[Solar]]`,
		`|colspan="1"|[[Dawn]]`,
		`|-`,
		`|class="dotted-row" |[[Void]]`,
		`|colspan="1"|`,
		`|}`,
	)
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderManual(t *testing.T) {
	tr := &tree.Tree{Titles: []tree.HeaderTitle{{Title: "Art", Cols: 2}, {Title: "Description"}}}
	tr.AddRoot(&tree.Node{Key: "Spear", Kind: tree.KindCategory, ExtraDepth: 1, Children: []*tree.Node{
		{Key: "Thrust", Kind: tree.KindItem, Description: "A thrust."},
		{Key: "Sweep", Kind: tree.KindItem, Description: "A sweep."},
	}})
	tr.AddRoot(&tree.Node{Key: "Note", Kind: tree.KindItem, Description: "Loose."})

	got := Render(mustLayout(t, tr), Options{RowStyle: TitleSpan})
	want := lines(
		`{| class="wikitable custom-button" style="width:100%;"`,
		`! colspan="2" class="dotted-row" `+style+` | Art`,
		`! colspan="2" `+style+` | Description`,
		`|-`,
		`|rowspan="2" colspan="2" class="custom-rowspan"|Spear`,
		`|class="dotted-row custom-row" colspan="1"|Thrust`,
		`| class="custom-row"|A thrust.`,
		`|-`,
		`|class="dotted-row" colspan="1"|Sweep`,
		`|A sweep.`,
		`|-`,
		`|class="dotted-row" colspan="3"|Note`,
		`|Loose.`,
		`|}`,
	)
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	got := Render(mustLayout(t, tree.New("Empty")), Options{})
	want := lines(
		`{| class="wikitable custom-button" style="width:100%;"`,
		`! colspan="1" `+style+` | Empty`,
		`|-`,
		`|}`,
	)
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderNoTrailingSeparator(t *testing.T) {
	tr := tree.New("T")
	tr.AddRoot(&tree.Node{Key: "A", Kind: tree.KindCategory, Members: []string{"a"}})
	tr.AddRoot(&tree.Node{Key: "B", Kind: tree.KindCategory, Members: []string{"b"}})
	got := Render(mustLayout(t, tr), Options{})
	if strings.HasSuffix(got, "|-\n|}") {
		t.Errorf("trailing separator before footer:\n%s", got)
	}
	if strings.Count(got, "\n|-\n") != 2 {
		t.Errorf("want header separator and one row separator:\n%s", got)
	}
}

func TestHeaderRemainingColumns(t *testing.T) {
	tests := []struct {
		name    string
		titles  []tree.HeaderTitle
		columns int
		want    []string
	}{
		{
			name:    "single",
			titles:  []tree.HeaderTitle{{Title: "T"}},
			columns: 4,
			want:    []string{`colspan="4"`},
		},
		{
			name:    "default cols",
			titles:  []tree.HeaderTitle{{Title: "A"}, {Title: "B"}},
			columns: 3,
			want:    []string{`colspan="1" class="dotted-row"`, `colspan="2"`},
		},
		{
			name:    "overflow clamps",
			titles:  []tree.HeaderTitle{{Title: "A", Cols: 5}, {Title: "B"}},
			columns: 3,
			want:    []string{`colspan="5" class="dotted-row"`, `colspan="1"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Header(layout.Header{Titles: tt.titles}, tt.columns)
			if len(got) != len(tt.want)+2 {
				t.Fatalf("Header() = %d lines: %v", len(got), got)
			}
			for i, w := range tt.want {
				if !strings.HasPrefix(got[i+1], "! "+w+" ") {
					t.Errorf("line %d = %q, want prefix %q", i+1, got[i+1], w)
				}
			}
		})
	}
}

func TestParseRowStyle(t *testing.T) {
	for in, want := range map[string]RowStyle{"": ContentSpan, "content": ContentSpan, "Title": TitleSpan} {
		got, err := ParseRowStyle(in)
		if err != nil || got != want {
			t.Errorf("ParseRowStyle(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseRowStyle("diagonal"); err == nil {
		t.Error("ParseRowStyle accepted unknown style")
	}
}
