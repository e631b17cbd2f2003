// Package tree defines the category tree that both list paths produce and
// the layout engine consumes.
//
// # Overview
//
// A [Tree] is an ordered forest of [Node] values plus the header titles of the
// rendered table. The fetched path builds it from wiki categories (see
// package aggregate); the manual path decodes it from a saved JSON document
// (see package io).
//
// # Node Kinds
//
// Every node carries an explicit [Kind]:
//
//   - [KindCategory]: a top-level bucket
//   - [KindSubcategory]: a nested bucket
//   - [KindItem]: a hand-authored entry with a description
//
// A node is a leaf when it is an item, has no children, or carries members
// or a description. Leaves render as a single table row; parents render as a
// spanning cell in front of their children's rows. Content wins over
// children: the children of a leaf are never rendered.
//
// # Extra Depth
//
// [Node.ExtraDepth] widens the cell of a parent by that many columns and
// pushes its children further to the right. It is only honored on
// categories and subcategories that have children.
//
// # Validation
//
// Nodes that carry both children and content are conflicts. [Tree.Issues]
// reports them together with duplicate sibling keys and negative extra
// depths; [Tree.Validate] turns any issue into an INVALID_TREE error.
package tree
