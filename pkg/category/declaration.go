package category

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
)

// subcategoriesKey is the explicit marker accepted in declarations.
const subcategoriesKey = "subcategories"

// ParseDeclaration decodes a JSON category declaration, preserving the key
// order of every object. Objects decode to ordered maps, arrays to []any and
// scalars to their usual encoding/json types.
func ParseDeclaration(data []byte) (*orderedmap.OrderedMap[string, any], error) {
	v, err := decodeOrdered(data)
	if err != nil {
		return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidList, err, "parse category declaration")
	}
	decl, ok := v.(*orderedmap.OrderedMap[string, any])
	if !ok {
		return nil, wlerrors.New(wlerrors.ErrCodeInvalidList, "category declaration must be a JSON object")
	}
	return decl, nil
}

func decodeOrdered(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	switch data[0] {
	case '{':
		raw := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(data, raw); err != nil {
			return nil, err
		}
		out := orderedmap.New[string, any]()
		for p := raw.Oldest(); p != nil; p = p.Next() {
			v, err := decodeOrdered(p.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Key, err)
			}
			out.Set(p.Key, v)
		}
		return out, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := decodeOrdered(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Normalize converts a raw declaration into categories with explicit
// subcategory lists.
//
// A non-empty object value declares subcategories; an empty object, null or
// scalar value declares a leaf. An object holding only a "subcategories" key
// takes its subcategories from that key, which may be an object or a list of
// keys. Mixing the explicit key with other keys is rejected.
func Normalize(decl *orderedmap.OrderedMap[string, any]) ([]*Category, error) {
	if decl == nil {
		return nil, nil
	}
	out := make([]*Category, 0, decl.Len())
	for p := decl.Oldest(); p != nil; p = p.Next() {
		subs, err := normalizeValue(p.Value)
		if err != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidList, err, "category %q", p.Key)
		}
		out = append(out, &Category{Key: p.Key, Subcategories: subs})
	}
	return out, nil
}

func normalizeValue(v any) ([]*Category, error) {
	switch val := v.(type) {
	case nil, string, bool, float64:
		return nil, nil
	case *orderedmap.OrderedMap[string, any]:
		if val.Len() == 0 {
			return nil, nil
		}
		explicit, ok := val.Get(subcategoriesKey)
		if !ok {
			return Normalize(val)
		}
		if val.Len() > 1 {
			return nil, fmt.Errorf("%q cannot be combined with other keys", subcategoriesKey)
		}
		if m, ok := explicit.(*orderedmap.OrderedMap[string, any]); ok {
			return Normalize(m)
		}
		return normalizeValue(explicit)
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return normalizeList(items)
	case []any:
		return normalizeList(val)
	default:
		return nil, fmt.Errorf("unsupported declaration value %T", v)
	}
}

func normalizeList(items []any) ([]*Category, error) {
	var out []*Category
	seen := make(map[string]bool, len(items))
	add := func(c *Category) error {
		if seen[c.Key] {
			return fmt.Errorf("duplicate subcategory %q", c.Key)
		}
		seen[c.Key] = true
		out = append(out, c)
		return nil
	}
	for _, item := range items {
		switch it := item.(type) {
		case string:
			if err := add(&Category{Key: it}); err != nil {
				return nil, err
			}
		case *orderedmap.OrderedMap[string, any]:
			cats, err := Normalize(it)
			if err != nil {
				return nil, err
			}
			for _, c := range cats {
				if err := add(c); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("unsupported subcategory entry %T", item)
		}
	}
	return out, nil
}
