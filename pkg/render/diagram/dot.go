package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/wikilist/pkg/tree"
)

// Options configures diagram generation.
type Options struct {
	// Members lists every member inside leaf nodes. When false, only the
	// member count is shown.
	Members bool
}

const rootID = "__root__"

// ToDOT converts a tree to Graphviz DOT. The table title becomes the root
// node and the tree's nodes hang below it in row order.
//
// Node IDs are the slash-joined key paths, so equal keys under different
// parents stay distinct.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=plaintext, style=\"\", fontsize=18];\n", rootID, t.Title())

	var edges []string
	t.Walk(func(path []string, n *tree.Node) bool {
		id := nodeID(path, n)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n, opts), ", "))
		parent := rootID
		if len(path) > 0 {
			parent = strings.Join(path, "/")
		}
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, id))
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(path []string, n *tree.Node) string {
	return strings.Join(append(append([]string(nil), path...), n.Key), "/")
}

func fmtLabel(n *tree.Node, opts Options) string {
	label := n.DisplayTitle()
	if !n.IsLeaf() {
		if n.ExtraDepth > 0 {
			label += fmt.Sprintf("\n(+%d columns)", n.ExtraDepth)
		}
		return label
	}
	switch {
	case n.Description != "":
		label += "\n" + n.Description
	case opts.Members && len(n.Members) > 0:
		label += "\n" + strings.Join(n.Members, "\n")
	case n.Kind != tree.KindItem:
		label += fmt.Sprintf("\n%d members", len(n.Members))
	}
	return label
}

func fmtAttrs(n *tree.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts))}
	switch n.Kind {
	case tree.KindCategory:
		attrs = append(attrs, "style=\"filled,bold\"", "fillcolor=lightsteelblue")
	case tree.KindItem:
		attrs = append(attrs, "shape=note", "style=filled", "fillcolor=lightyellow")
	}
	if n.IsLeaf() && n.Kind != tree.KindItem && len(n.Members) == 0 {
		attrs = append(attrs, "fontcolor=grey40")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg element with one
// that has a zero-origin viewBox and pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
