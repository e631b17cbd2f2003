// Package html converts rendered wikitext tables into HTML for previews.
//
// # Conversion
//
// [Convert] understands the table subset wikilist emits: table start and
// end, row separators, header cells and data cells with attributes.
// Anything else is ignored. The result is wrapped in the same
// citizen-table-wrapper div the wiki skin uses, so the wiki's stylesheet
// renders it like the real page:
//
//	table := html.Convert(wikitext)
//
// # Pages
//
// [Page] wraps a converted table in a complete document. A [Previewer]
// carries the head section (usually the wiki's stylesheet links) and
// optionally turns wiki links into real links:
//
//	p := html.NewPreviewer(html.PreviewOptions{WikiURL: "https://www.arathia.net"})
//	page, err := p.Render(wikitext)
package html
