// Package render groups the output formats of wikilist.
//
// # Overview
//
// A built list exists as a [layout.Layout]: header plus a flat sequence of
// row directives. The subpackages turn it, or the tree behind it, into
// something a person reads:
//
//   - [wikitext]: MediaWiki table markup, the format published on the wiki
//   - [html]: an HTML preview of rendered wikitext
//   - [diagram]: a Graphviz diagram of the category tree
//
// # Typical Flow
//
//	l, err := layout.Build(t, layout.Options{})
//	text := wikitext.Render(l, wikitext.Options{})
//	page := html.NewPreviewer(html.PreviewOptions{}).Render(text)
//
// [layout.Layout]: github.com/matzehuels/wikilist/pkg/layout.Layout
// [wikitext]: github.com/matzehuels/wikilist/pkg/render/wikitext
// [html]: github.com/matzehuels/wikilist/pkg/render/html
// [diagram]: github.com/matzehuels/wikilist/pkg/render/diagram
package render
