// Package layout turns a category tree into a linear sequence of table
// directives.
//
// # Overview
//
// [Build] walks a [tree.Tree] depth-first and emits one directive per table
// cell group:
//
//   - [OpParentCell]: a cell spanning all rows of a subtree
//   - [OpDataRow]: one leaf row (title and content)
//   - [OpSeparator]: the break between two physical rows
//
// The header and footer are not directives; they are described by
// [Layout.Header] and emitted by the renderer.
//
// # Geometry
//
// The table has [Layout.MaxDepth]+1 columns. A node at column d that has
// children gets a parent cell spanning min(MaxDepth-d, ExtraDepth+1)
// columns and [RowSpan] rows; its children start at column d+1+ExtraDepth.
// A leaf at column d spans the remaining MaxDepth-d columns with its
// content, so every physical row covers exactly MaxDepth+1 columns.
//
// # Conflicts
//
// A node with content and children is a leaf; its children are dropped and
// logged. With [Options.Strict] such trees, and any other tree with
// validation issues, are rejected with an INVALID_TREE error.
package layout
