package tree_test

import (
	"fmt"

	"github.com/matzehuels/wikilist/pkg/tree"
)

func ExampleTree_MaxDepth() {
	t := tree.New("List of Combat Arts")
	spear := t.AddRoot(&tree.Node{Key: "Spear Techniques", Kind: tree.KindCategory, ExtraDepth: 1})
	spear.AddChild(&tree.Node{Key: "Moonlight Spear", Kind: tree.KindItem, Description: "A thrusting technique."})

	sword := t.AddRoot(&tree.Node{Key: "Sword Arts", Kind: tree.KindCategory})
	sword.AddChild(&tree.Node{Key: "Kenjutsu", Kind: tree.KindSubcategory}).
		AddChild(&tree.Node{Key: "Middle Guard", Kind: tree.KindItem, Description: "A defensive stance."})

	fmt.Println(t.MaxDepth(), t.Leaves())
	// Output: 3 2
}
