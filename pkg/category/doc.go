// Package category models the static category hierarchy a list is built from.
//
// # Overview
//
// A [Map] is declared once per list (from the built-in catalog, a TOML list
// file, or a JSON declaration) and is read-only afterwards. It answers the
// structural questions the aggregator and the layout engine need:
//
//   - [Map.MappedCategory]: which top-level bucket (and subcategory) a raw wiki
//     category belongs to
//   - [Map.Title]: the display title of any key
//   - [Map.MaxDepth]: how many nesting levels the table needs
//   - [CurrentMaxSubcategories]: how many physical rows a subtree emits, which
//     is the rowspan of its parent cell
//
// # Declarations
//
// Declarations are nested objects where a non-empty value marks subcategories
// and an empty value marks a leaf. The explicit form with a "subcategories"
// key is accepted as well, including a plain list of leaf keys:
//
//	{
//	  "Arathia": {"subcategories": ["Major Countries", "Minor Countries"]},
//	  "Elysium": {"Major Elysian Countries": {}, "Minor Elysian Countries": {}},
//	  "Dragon Characters": {}
//	}
//
// Key order is significant: it determines row order in the rendered table.
// [ParseDeclaration] preserves it.
package category
