// Package diagram draws category trees as Graphviz diagrams.
//
// # Overview
//
// Where the wikitext renderer flattens a tree into table rows, a diagram
// shows the hierarchy itself: one box per category, subcategory and item,
// with edges from parent to child. It is useful for checking a list
// definition or a manual tree before publishing the table.
//
// # Usage
//
//	dot := diagram.ToDOT(t, diagram.Options{Members: true})
//	svg, err := diagram.RenderSVG(dot)
//
// # Shapes
//
// Node kinds are told apart by shape: categories are bold boxes,
// subcategories rounded boxes, and items notes. Leaves show their member
// count, or every member when [Options.Members] is set.
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz] in process; no
// Graphviz installation is needed.
package diagram
