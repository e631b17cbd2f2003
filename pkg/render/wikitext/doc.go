// Package wikitext renders table layouts as MediaWiki table markup.
//
// # Output
//
// [Render] produces a collapsible wikitable whose header spans every column
// of the layout, followed by one line group per directive and the closing
// "|}". For a category "A" with subcategories "X" (members p1, p2) and "Y"
// (member p3):
//
//	{| class="mw-collapsible mw-collapsed wikitable custom-button" style="width:100%;"
//	! colspan="3" style="text-align:center; font-weight: bold; position: relative;" | List
//	|-
//	|rowspan="2" class="custom-rowspan"|A
//	|class="dotted-row custom-row" |X
//	|colspan="1" class="custom-row" |[[p1]]{{ts}}[[p2]]
//	|-
//	|class="dotted-row" |Y
//	|colspan="1"|[[p3]]
//	|}
//
// # Row Styles
//
// Fetched lists put the filler colspan on the content cell
// ([ContentSpan]); manual lists put it on the title cell ([TitleSpan]).
// Both cover the same number of columns.
package wikitext
