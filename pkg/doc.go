// Package pkg provides the core libraries of wikilist.
//
// # Overview
//
// Wikilist turns a hierarchy of wiki categories into MediaWiki table markup.
// Every level of the hierarchy becomes a column; parent cells span the rows
// of their descendants. The pkg directory is organized into these areas:
//
//  1. [tree] and [category] - Domain types (the category tree, category maps)
//  2. [layout] - The table layout engine (rowspans, colspans, separators)
//  3. [render] - Output formats (wikitext, HTML preview, Graphviz diagram)
//  4. [aggregate] and [integrations] - Building trees from a live wiki
//  5. [pipeline] - Orchestration (fetch → layout → render) with caching
//  6. [cache], [saves], [io] - Persistence of responses, trees and files
//
// # Architecture
//
// The typical data flow:
//
//	MediaWiki API            JSON tree (file or save)
//	      ↓                           ↓
//	[aggregate] (group members)  [io] (decode)
//	      ↓                           ↓
//	      └──────────→ [tree] ←───────┘
//	                     ↓
//	             [layout] (directives)
//	                     ↓
//	  [render/wikitext] → [render/html] preview
//
// # Quick Start
//
// Build a catalog list:
//
//	list, _ := catalog.Builtin().Get("countries")
//	wiki := mediawiki.NewClient(nil, mediawiki.Options{})
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.BuildList(ctx, wiki, list, pipeline.Options{})
//	fmt.Println(res.Wikitext)
//
// Render a hand-written tree:
//
//	t, _ := io.ImportJSON("arts.json")
//	res, err := runner.BuildManual(ctx, t, pipeline.Options{})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/tree
// [category]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/category
// [layout]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/render
// [render/wikitext]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/render/wikitext
// [render/html]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/render/html
// [aggregate]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/aggregate
// [integrations]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/integrations
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/cache
// [saves]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/saves
// [io]: https://pkg.go.dev/github.com/matzehuels/wikilist/pkg/io
package pkg
