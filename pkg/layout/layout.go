package layout

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikilist/pkg/tree"
)

// MemberSeparator joins wiki links inside a data row.
const MemberSeparator = "{{ts}}"

// Op identifies a directive.
type Op int

const (
	OpParentCell Op = iota
	OpDataRow
	OpSeparator
)

func (o Op) String() string {
	switch o {
	case OpParentCell:
		return "parent"
	case OpDataRow:
		return "row"
	case OpSeparator:
		return "separator"
	}
	return "unknown"
}

// Directive is one element of the emitted table body.
type Directive struct {
	Op      Op
	Title   string // display title of the parent cell or data row
	Content string // data row content, already formatted
	RowSpan int    // parent cells only
	ColSpan int    // columns covered by the parent cell or the row's content
	Column  int    // zero-based column the cell starts at
	First   bool   // data row is the first child of its parent
}

// Header describes the table header.
type Header struct {
	Titles      []tree.HeaderTitle
	Collapsible bool
}

// Layout is the result of [Build].
type Layout struct {
	MaxDepth   int
	Header     Header
	Directives []Directive
}

// Columns returns the number of columns every row covers.
func (l *Layout) Columns() int { return l.MaxDepth + 1 }

// Rows returns the number of data rows.
func (l *Layout) Rows() int {
	n := 0
	for _, d := range l.Directives {
		if d.Op == OpDataRow {
			n++
		}
	}
	return n
}

// Options configures [Build].
type Options struct {
	// Strict rejects trees with validation issues instead of applying the
	// lenient conflict policy.
	Strict bool

	// FirstRoot marks a leaf that opens the table as a first child too.
	// Hand-authored tables style their opening row this way.
	FirstRoot bool

	// Separator joins members in a data row. Defaults to [MemberSeparator].
	Separator string

	// Logger receives conflict diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// Build computes the layout of t. It never modifies t and returns the same
// result for the same tree.
func Build(t *tree.Tree, opts Options) (*Layout, error) {
	if opts.Strict {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Separator == "" {
		opts.Separator = MemberSeparator
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	b := &builder{
		opts: opts,
		out: &Layout{
			MaxDepth: t.MaxDepth(),
			Header:   Header{Titles: append([]tree.HeaderTitle(nil), t.Titles...), Collapsible: t.Collapsible},
		},
	}
	b.emit(t.Roots, 0, nil)
	return b.out, nil
}

type builder struct {
	opts    Options
	out     *Layout
	pending bool // a data row was emitted and the next cell starts a new row
}

func (b *builder) add(d Directive) {
	if b.pending {
		b.out.Directives = append(b.out.Directives, Directive{Op: OpSeparator})
		b.pending = false
	}
	b.out.Directives = append(b.out.Directives, d)
}

func (b *builder) emit(nodes []*tree.Node, column int, path []string) {
	for i, n := range nodes {
		if n.IsLeaf() {
			if len(n.Children) > 0 {
				b.opts.Logger.Warn("ignoring children of node with content",
					"node", strings.Join(append(append([]string(nil), path...), n.Key), " > "),
					"children", len(n.Children))
			}
			b.add(Directive{
				Op:      OpDataRow,
				Title:   n.DisplayTitle(),
				Content: Content(n, b.opts.Separator),
				ColSpan: b.out.MaxDepth - column,
				Column:  column,
				First:   i == 0 && (column > 0 || b.opts.FirstRoot),
			})
			b.pending = true
			continue
		}

		extra := max(n.ExtraDepth, 0)
		b.add(Directive{
			Op:      OpParentCell,
			Title:   n.DisplayTitle(),
			RowSpan: RowSpan(n),
			ColSpan: min(b.out.MaxDepth-column, extra+1),
			Column:  column,
		})
		b.emit(n.Children, column+1+extra, append(path, n.Key))
	}
}

// RowSpan returns the number of physical rows n's subtree emits, which is
// the rowspan of its parent cell. A leaf spans one row.
//
// Among the children, n >= 2 siblings contribute n and a lone child 1; every
// child that is itself a parent adds its own row span minus one.
func RowSpan(n *tree.Node) int {
	if n.IsLeaf() {
		return 1
	}
	span := 1
	if len(n.Children) >= 2 {
		span = len(n.Children)
	}
	for _, c := range n.Children {
		span += RowSpan(c) - 1
	}
	return span
}

// Content formats the content cell of a leaf: its description, or its
// members as wiki links joined by sep.
func Content(n *tree.Node, sep string) string {
	if n.Description != "" || len(n.Members) == 0 {
		return n.Description
	}
	links := make([]string, len(n.Members))
	for i, m := range n.Members {
		links[i] = "[[" + m + "]]"
	}
	return strings.Join(links, sep)
}
