package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/wikilist/pkg/tree"
)

// WriteJSON encodes t in the saved format and writes it to w.
//
// Items without a title override, children or extra depth are written in
// the string shorthand. All other nodes are written as objects with an
// explicit __metadata.type, so re-importing never depends on inference.
func WriteJSON(t *tree.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Encode returns the saved form of t.
func Encode(t *tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGzip writes the gzip-compressed saved form of t to w.
func WriteGzip(t *tree.Tree, w io.Writer) error {
	zw := gzip.NewWriter(w)
	if err := WriteJSON(t, zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ExportJSON writes t to a file at path, gzip-compressed when path ends in
// ".gz".
func ExportJSON(t *tree.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if strings.HasSuffix(path, ".gz") {
		return WriteGzip(t, f)
	}
	return WriteJSON(t, f)
}

func document(t *tree.Tree) *orderedmap.OrderedMap[string, any] {
	doc := orderedmap.New[string, any]()
	switch {
	case len(t.Titles) == 1 && t.Titles[0].Cols == 0:
		doc.Set(keyTitle, t.Titles[0].Title)
	case len(t.Titles) > 0:
		cells := make([]headerCell, len(t.Titles))
		for i, h := range t.Titles {
			cells[i] = headerCell{Title: h.Title, Cols: h.Cols}
		}
		doc.Set(keyTitle, cells)
	}
	if t.Collapsible {
		doc.Set(keyCollapsible, true)
	}
	for _, n := range t.Roots {
		doc.Set(n.Key, encodeNode(n))
	}
	return doc
}

func encodeNode(n *tree.Node) any {
	if n.Kind == tree.KindItem && n.Title == "" && n.ExtraDepth == 0 &&
		len(n.Children) == 0 && len(n.Members) == 0 {
		return n.Description
	}

	obj := orderedmap.New[string, any]()
	obj.Set(keyMetadata, metadata{Type: string(n.Kind), Title: n.Title})
	if n.ExtraDepth != 0 {
		obj.Set(keyOptions, options{ExtraDepth: n.ExtraDepth})
	}
	if n.Description != "" || n.Kind == tree.KindItem {
		obj.Set(keyDescription, n.Description)
	}
	if len(n.Members) > 0 {
		obj.Set(keyMembers, n.Members)
	}
	for _, c := range n.Children {
		obj.Set(c.Key, encodeNode(c))
	}
	return obj
}
