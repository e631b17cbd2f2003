package layout_test

import (
	"fmt"

	"github.com/matzehuels/wikilist/pkg/layout"
	"github.com/matzehuels/wikilist/pkg/tree"
)

func ExampleBuild() {
	t := tree.New("List of Countries")
	arathia := t.AddRoot(&tree.Node{Key: "Arathia", Title: "[[Arathia]]", Kind: tree.KindCategory})
	arathia.AddChild(&tree.Node{Key: "Major Countries", Kind: tree.KindSubcategory, Members: []string{"Sunspire", "Valoria"}})
	arathia.AddChild(&tree.Node{Key: "Minor Countries", Kind: tree.KindSubcategory, Members: []string{"Ostmark"}})

	l, err := layout.Build(t, layout.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, d := range l.Directives {
		switch d.Op {
		case layout.OpParentCell:
			fmt.Printf("%s %s rowspan=%d\n", d.Op, d.Title, d.RowSpan)
		case layout.OpDataRow:
			fmt.Printf("%s %s colspan=%d %s\n", d.Op, d.Title, d.ColSpan, d.Content)
		default:
			fmt.Println(d.Op)
		}
	}
	// Output:
	// parent [[Arathia]] rowspan=2
	// row Major Countries colspan=1 [[Sunspire]]{{ts}}[[Valoria]]
	// separator
	// row Minor Countries colspan=1 [[Ostmark]]
}
