// Package io reads and writes category trees in the saved JSON format.
//
// # Overview
//
// Manual lists are authored in an external editor and saved as JSON. The
// same format is used for save files, exported fetched lists and the
// preview server's render endpoint, so any tree can be re-imported and
// rendered identically.
//
// # JSON Format
//
// The root object holds reserved header keys followed by the top-level
// nodes in row order:
//
//	{
//	  "__title": "List of Combat Arts",
//	  "__collapsible": true,
//	  "Sword arts": {
//	    "Kenjutsu": {
//	      "Middle Guard": "A defensive stance."
//	    }
//	  },
//	  "Spear Techniques": {
//	    "__options": {"extra_depth": 1},
//	    "Moonlight Spear": "A thrusting technique."
//	  }
//	}
//
// __title is either a string or a list of header cells:
//
//	"__title": [{"title": "Art", "cols": 2}, {"title": "Description"}]
//
// # Node Fields
//
// A string value is an item whose description is the string. An object
// value may carry:
//   - __metadata: {"type": "category"|"subcategory"|"item", "title": "..."}
//   - __options: {"extra_depth": n}
//   - description: item text
//   - members: list of wiki page titles (fetched lists)
//
// Every other key is a child node. When __metadata.type is missing the kind
// is inferred: item when a description is present, category at the top
// level and subcategory below it.
//
// # Compression
//
// [ReadJSON] transparently accepts gzip-compressed input. [ExportJSON]
// compresses when the path ends in ".gz".
package io
