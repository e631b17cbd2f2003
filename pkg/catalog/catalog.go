package catalog

import (
	_ "embed"
	"encoding/json"
	"os"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wikilist/pkg/cache"
	"github.com/matzehuels/wikilist/pkg/category"
	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
)

//go:embed lists.toml
var builtinTOML []byte

// Category is one bucket of a list definition.
type Category struct {
	Key   string     `toml:"key" json:"key"`
	Title string     `toml:"title,omitempty" json:"title,omitempty"`
	Sub   []Category `toml:"sub,omitempty" json:"sub,omitempty"`
}

// List is the definition of one buildable list.
type List struct {
	Name        string            `toml:"name" json:"name"`
	Title       string            `toml:"title" json:"title"`
	Root        string            `toml:"root" json:"root"`
	Description string            `toml:"description,omitempty" json:"description,omitempty"`
	Categories  []Category        `toml:"category,omitempty" json:"categories,omitempty"`
	Declaration string            `toml:"declaration,omitempty" json:"declaration,omitempty"`
	Titles      map[string]string `toml:"titles,omitempty" json:"titles,omitempty"`
}

// Catalog is an ordered set of lists.
type Catalog struct {
	Lists []*List `toml:"list"`
}

var (
	builtin     *Catalog
	builtinErr  error
	builtinOnce sync.Once
)

// Builtin returns the lists compiled into the binary. Callers must not
// modify the result.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(builtinTOML)
	})
	if builtinErr != nil {
		panic("catalog: invalid built-in lists: " + builtinErr.Error())
	}
	return builtin
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(string(data), &c); err != nil {
		return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidList, err, "parse list definitions")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a TOML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Parse(data)
}

// Validate checks that list names are unique and every list is complete.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Lists))
	for _, l := range c.Lists {
		if seen[l.Name] {
			return wlerrors.New(wlerrors.ErrCodeInvalidList, "duplicate list %q", l.Name)
		}
		seen[l.Name] = true
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the list with the given name.
func (c *Catalog) Get(name string) (*List, error) {
	for _, l := range c.Lists {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, wlerrors.New(wlerrors.ErrCodeListNotFound, "unknown list %q", name)
}

// Names returns the list names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Lists))
	for i, l := range c.Lists {
		names[i] = l.Name
	}
	return names
}

// Merge returns a catalog with the lists of c followed by those of other.
// A list of other replaces the list of c with the same name in place.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{Lists: slices.Clone(c.Lists)}
	if other == nil {
		return out
	}
	for _, l := range other.Lists {
		i := slices.IndexFunc(out.Lists, func(x *List) bool { return x.Name == l.Name })
		if i >= 0 {
			out.Lists[i] = l
		} else {
			out.Lists = append(out.Lists, l)
		}
	}
	return out
}

// Validate checks that l names a root and has unique category keys.
func (l *List) Validate() error {
	if l.Name == "" {
		return wlerrors.New(wlerrors.ErrCodeInvalidList, "list without name")
	}
	if l.Root == "" {
		return wlerrors.New(wlerrors.ErrCodeInvalidList, "list %q has no root category", l.Name)
	}
	if l.Declaration != "" && len(l.Categories) > 0 {
		return wlerrors.New(wlerrors.ErrCodeInvalidList, "list %q has both categories and a declaration", l.Name)
	}
	seen := make(map[string]bool)
	var check func(cats []Category) error
	check = func(cats []Category) error {
		for _, c := range cats {
			if c.Key == "" {
				return wlerrors.New(wlerrors.ErrCodeInvalidList, "list %q has a category without key", l.Name)
			}
			if seen[c.Key] {
				return wlerrors.New(wlerrors.ErrCodeInvalidList, "list %q declares %q twice", l.Name, c.Key)
			}
			seen[c.Key] = true
			if err := check(c.Sub); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(l.Categories); err != nil {
		return err
	}
	if l.Declaration != "" {
		if _, err := l.CategoryMap(); err != nil {
			return err
		}
	}
	return nil
}

// HeaderTitle returns the table title, falling back to the root category.
func (l *List) HeaderTitle() string {
	if l.Title != "" {
		return l.Title
	}
	return "List of " + l.Root
}

// CategoryMap builds the category hierarchy of l.
func (l *List) CategoryMap() (*category.Map, error) {
	titles := make(map[string]string, len(l.Titles))
	for k, v := range l.Titles {
		titles[k] = v
	}
	if l.Declaration != "" {
		decl, err := category.ParseDeclaration([]byte(l.Declaration))
		if err != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidList, err, "list %q declaration", l.Name)
		}
		m, err := category.FromDeclaration(decl, titles)
		if err != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeInvalidList, err, "list %q declaration", l.Name)
		}
		return m, nil
	}
	return category.New(convert(l.Categories, titles), titles), nil
}

func convert(cats []Category, titles map[string]string) []*category.Category {
	if len(cats) == 0 {
		return nil
	}
	out := make([]*category.Category, len(cats))
	for i, c := range cats {
		if c.Title != "" {
			titles[c.Key] = c.Title
		}
		out[i] = &category.Category{Key: c.Key, Subcategories: convert(c.Sub, titles)}
	}
	return out
}

// Hash identifies the definition of l. Lists with the same hash build the
// same table from the same wiki content.
func (l *List) Hash() string {
	data, _ := json.Marshal(l)
	return cache.Hash(data)
}
