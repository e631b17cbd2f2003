package wikitext

import (
	"fmt"
	"strings"

	"github.com/matzehuels/wikilist/pkg/layout"
)

// RowStyle selects which cell of a data row carries the colspan.
type RowStyle int

const (
	// ContentSpan puts the colspan on the content cell.
	ContentSpan RowStyle = iota
	// TitleSpan puts the colspan on the title cell.
	TitleSpan
)

// ParseRowStyle maps "content" and "title" to a row style.
func ParseRowStyle(s string) (RowStyle, error) {
	switch strings.ToLower(s) {
	case "", "content":
		return ContentSpan, nil
	case "title":
		return TitleSpan, nil
	}
	return 0, fmt.Errorf("unknown row style %q (want content or title)", s)
}

func (s RowStyle) String() string {
	if s == TitleSpan {
		return "title"
	}
	return "content"
}

// Options configures [Render].
type Options struct {
	RowStyle RowStyle
}

const (
	headerStyle = `style="text-align:center; font-weight: bold; position: relative;"`
	separator   = "|-"
	footer      = "|}"
)

// Render returns the wikitext of l. Lines are joined with "\n" and the
// result has no trailing newline.
func Render(l *layout.Layout, opts Options) string {
	lines := Header(l.Header, l.Columns())
	for _, d := range l.Directives {
		switch d.Op {
		case layout.OpParentCell:
			lines = append(lines, parentCell(d))
		case layout.OpDataRow:
			lines = append(lines, dataRow(d, opts.RowStyle))
		case layout.OpSeparator:
			lines = append(lines, separator)
		}
	}
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}

// Header returns the table opening lines for a table of the given width,
// ending with the row separator.
func Header(h layout.Header, columns int) []string {
	class := "wikitable custom-button"
	if h.Collapsible {
		class = "mw-collapsible mw-collapsed " + class
	}
	lines := []string{fmt.Sprintf(`{| class="%s" style="width:100%%;"`, class)}

	remaining := columns
	for i, t := range h.Titles {
		if i == len(h.Titles)-1 {
			lines = append(lines, fmt.Sprintf(`! colspan="%d" %s | %s`, max(remaining, 1), headerStyle, t.Title))
			break
		}
		cols := t.Cols
		if cols < 1 {
			cols = 1
		}
		remaining -= cols
		lines = append(lines, fmt.Sprintf(`! colspan="%d" class="dotted-row" %s | %s`, cols, headerStyle, t.Title))
	}
	return append(lines, separator)
}

func parentCell(d layout.Directive) string {
	colspan := ""
	if d.ColSpan > 1 {
		colspan = fmt.Sprintf(` colspan="%d"`, d.ColSpan)
	}
	return fmt.Sprintf(`|rowspan="%d"%s class="custom-rowspan"|%s`, d.RowSpan, colspan, d.Title)
}

func dataRow(d layout.Directive, style RowStyle) string {
	classes := "dotted-row"
	if d.First {
		classes += " custom-row"
	}

	if style == TitleSpan {
		content := "|" + d.Content
		if d.First {
			content = `| class="custom-row"|` + d.Content
		}
		return fmt.Sprintf(`|class="%s" colspan="%d"|%s`, classes, d.ColSpan, d.Title) + "\n" + content
	}

	title := fmt.Sprintf(`|class="%s" |%s`, classes, d.Title)
	if d.First {
		return title + "\n" + fmt.Sprintf(`|colspan="%d" class="custom-row" |%s`, d.ColSpan, d.Content)
	}
	return title + "\n" + fmt.Sprintf(`|colspan="%d"|%s`, d.ColSpan, d.Content)
}
