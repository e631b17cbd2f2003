// Package catalog holds the definitions of the lists wikilist can build.
//
// A list names a root wiki category, a table title, and the category
// hierarchy its members are filed into. Definitions are written in TOML;
// arrays of tables keep declaration order, which is row order:
//
//	[[list]]
//	name = "countries"
//	title = "List of Countries"
//	root = "Countries"
//
//	  [[list.category]]
//	  key = "Arathia"
//	  title = "[[Arathia]]"
//
//	    [[list.category.sub]]
//	    key = "Major Countries"
//
// A list may instead carry a JSON category declaration in the shorthand
// accepted by [category.ParseDeclaration], with titles in a [list.titles]
// table.
//
// [Builtin] returns the catalog compiled into the binary. [Load] reads a
// user file, and [Catalog.Merge] lets user lists replace built-in ones of
// the same name.
package catalog
