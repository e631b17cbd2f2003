package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// Reserved keys of the saved format.
const (
	keyTitle       = "__title"
	keyCollapsible = "__collapsible"
	keyMetadata    = "__metadata"
	keyOptions     = "__options"
	keyDescription = "description"
	keyMembers     = "members"
)

// DefaultTitle is used when a document has no __title.
const DefaultTitle = "List of Items"

type rawObject = *orderedmap.OrderedMap[string, json.RawMessage]

type metadata struct {
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

type options struct {
	ExtraDepth int `json:"extra_depth,omitempty"`
}

type headerCell struct {
	Title string `json:"title"`
	Cols  int    `json:"cols,omitempty"`
}

// ReadJSON decodes a saved tree from r. Gzip-compressed input is detected
// by its magic bytes and decompressed.
//
// ReadJSON returns an INVALID_TREE error if the JSON is malformed, a node
// declares an unknown type, or a reserved key has the wrong shape. It does
// not check the tree's structure; see [tree.Tree.Validate].
func ReadJSON(r io.Reader) (*tree.Tree, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidTree, err, "open gzip stream")
		}
		defer zr.Close()
		r = zr
	} else {
		r = br
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidTree, err, "read tree")
	}
	return Decode(data)
}

// Decode parses a saved tree document.
func Decode(data []byte) (*tree.Tree, error) {
	root, err := decodeObject(data)
	if err != nil {
		return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidTree, err, "decode tree")
	}

	t := &tree.Tree{}
	if raw, ok := root.Get(keyTitle); ok {
		if t.Titles, err = decodeTitles(raw); err != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidTree, err, "decode %s", keyTitle)
		}
	}
	if len(t.Titles) == 0 {
		t.Titles = []tree.HeaderTitle{{Title: DefaultTitle}}
	}
	if raw, ok := root.Get(keyCollapsible); ok {
		if err := json.Unmarshal(raw, &t.Collapsible); err != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidTree, err, "decode %s", keyCollapsible)
		}
	}

	for p := root.Oldest(); p != nil; p = p.Next() {
		if strings.HasPrefix(p.Key, "__") {
			continue
		}
		n, err := decodeNode(p.Key, p.Value, true)
		if err != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidTree, err, "decode tree")
		}
		t.Roots = append(t.Roots, n)
	}
	return t, nil
}

// ImportJSON reads a saved tree from the file at path.
func ImportJSON(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func decodeObject(data []byte) (rawObject, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	obj := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeTitles(raw json.RawMessage) ([]tree.HeaderTitle, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return []tree.HeaderTitle{{Title: s}}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	out := make([]tree.HeaderTitle, len(elems))
	for i, e := range elems {
		// A plain string is a title without a column count.
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			out[i] = tree.HeaderTitle{Title: s}
			continue
		}
		var c headerCell
		if err := json.Unmarshal(e, &c); err != nil {
			return nil, fmt.Errorf("title %d: %w", i, err)
		}
		if c.Cols < 0 {
			return nil, fmt.Errorf("title %q: negative cols %d", c.Title, c.Cols)
		}
		out[i] = tree.HeaderTitle{Title: c.Title, Cols: c.Cols}
	}
	return out, nil
}

func decodeNode(key string, raw json.RawMessage, top bool) (*tree.Node, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: empty value", key)
	}

	switch raw[0] {
	case '"':
		n := &tree.Node{Key: key, Kind: tree.KindItem}
		if err := json.Unmarshal(raw, &n.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	case 'n':
		return &tree.Node{Key: key, Kind: containerKind(top)}, nil
	case '{':
	default:
		return nil, fmt.Errorf("%s: unsupported value %s", key, raw)
	}

	obj, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	n := &tree.Node{Key: key}
	var meta metadata
	if v, ok := obj.Get(keyMetadata); ok {
		if err := json.Unmarshal(v, &meta); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", key, keyMetadata, err)
		}
		n.Title = meta.Title
	}
	if v, ok := obj.Get(keyOptions); ok {
		var opts options
		if err := json.Unmarshal(v, &opts); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", key, keyOptions, err)
		}
		n.ExtraDepth = opts.ExtraDepth
	}
	hasDescription := false
	if v, ok := obj.Get(keyDescription); ok {
		if err := json.Unmarshal(v, &n.Description); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", key, keyDescription, err)
		}
		hasDescription = true
	}
	if v, ok := obj.Get(keyMembers); ok {
		if err := json.Unmarshal(v, &n.Members); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", key, keyMembers, err)
		}
	}

	switch {
	case meta.Type != "":
		n.Kind = tree.Kind(meta.Type)
		if !n.Kind.Valid() {
			return nil, fmt.Errorf("%s: unknown type %q", key, meta.Type)
		}
	case hasDescription:
		n.Kind = tree.KindItem
	default:
		n.Kind = containerKind(top)
	}

	for p := obj.Oldest(); p != nil; p = p.Next() {
		if isReserved(p.Key) {
			continue
		}
		child, err := decodeNode(p.Key, p.Value, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func containerKind(top bool) tree.Kind {
	if top {
		return tree.KindCategory
	}
	return tree.KindSubcategory
}

func isReserved(key string) bool {
	return strings.HasPrefix(key, "__") || key == keyDescription || key == keyMembers
}
