package html

import (
	"regexp"
	"strings"
)

const (
	wrapperOpen  = `<div class="citizen-table-wrapper">`
	wrapperClose = `</div>`
)

var attrRe = regexp.MustCompile(`([\w-]+)\s*=\s*(?:"([^"]*)"|([^\s"|]+))`)

// Convert turns a wikitext table into an HTML table inside a wrapper div.
// An empty input yields an empty table.
func Convert(wikitext string) string {
	if strings.TrimSpace(wikitext) == "" {
		return wrapperOpen + "<table></table>" + wrapperClose
	}

	c := converter{out: []string{wrapperOpen}}
	for _, line := range strings.Split(strings.TrimSpace(wikitext), "\n") {
		c.line(strings.TrimSpace(line))
	}
	c.closeRow()
	if c.inTable {
		c.out = append(c.out, "</tbody>", "</table>")
	}
	c.out = append(c.out, wrapperClose)
	return strings.Join(c.out, "\n")
}

type converter struct {
	out     []string
	inTable bool
	inRow   bool
}

func (c *converter) line(line string) {
	switch {
	case strings.HasPrefix(line, "{|"):
		c.out = append(c.out, openTag("table", Attributes(line[2:])), "<tbody>")
		c.inTable = true
	case strings.HasPrefix(line, "|}"):
		c.closeRow()
		c.out = append(c.out, "</tbody>", "</table>")
		c.inTable = false
	case strings.HasPrefix(line, "|-"):
		c.closeRow()
		c.out = append(c.out, "<tr>")
		c.inRow = true
	case strings.HasPrefix(line, "!"):
		c.cells("th", strings.Split(line[1:], "!!"))
	case strings.HasPrefix(line, "|"):
		c.cells("td", strings.Split(line[1:], "||"))
	}
}

func (c *converter) cells(tag string, cells []string) {
	if !c.inRow {
		c.out = append(c.out, "<tr>")
		c.inRow = true
	}
	for _, cell := range cells {
		// A line holding a single empty cell is still a cell.
		if len(cells) > 1 && strings.TrimSpace(cell) == "" {
			continue
		}
		attrs, content := SplitCell(cell)
		c.out = append(c.out, openTag(tag, attrs)+content+"\n</"+tag+">")
	}
}

func (c *converter) closeRow() {
	if c.inRow {
		c.out = append(c.out, "</tr>")
		c.inRow = false
	}
}

func openTag(tag, attrs string) string {
	if attrs == "" {
		return "<" + tag + ">"
	}
	return "<" + tag + " " + attrs + ">"
}

// SplitCell separates a cell into HTML attributes and content. The first
// pipe outside of [[links]] and {{templates}} ends the attribute part; a
// cell without such a pipe has no attributes.
func SplitCell(cell string) (attrs, content string) {
	depth := 0
	for i := 0; i < len(cell); i++ {
		switch {
		case strings.HasPrefix(cell[i:], "[[") || strings.HasPrefix(cell[i:], "{{"):
			depth++
			i++
		case strings.HasPrefix(cell[i:], "]]") || strings.HasPrefix(cell[i:], "}}"):
			depth = max(depth-1, 0)
			i++
		case cell[i] == '|' && depth == 0:
			return Attributes(cell[:i]), strings.TrimSpace(cell[i+1:])
		}
	}
	return "", strings.TrimSpace(cell)
}

// Attributes converts wikitext attributes such as `colspan=2 class="x"`
// into normalized HTML attributes. Later duplicates replace earlier ones
// in place.
func Attributes(s string) string {
	s = strings.TrimSpace(strings.TrimRight(s, "|"))
	if s == "" {
		return ""
	}
	var keys []string
	values := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		key, value := m[1], m[2]
		if value == "" {
			value = m[3]
		}
		if _, ok := values[key]; !ok {
			keys = append(keys, key)
		}
		values[key] = strings.TrimSpace(value)
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + `="` + values[k] + `"`
	}
	return strings.Join(parts, " ")
}
