package aggregate

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wikilist/pkg/category"
	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	"github.com/matzehuels/wikilist/pkg/observability"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// Defaults for [Options].
const (
	DefaultConcurrency    = 10
	DefaultRequestTimeout = 15 * time.Second
)

// Wiki is the part of the wiki API the aggregator needs.
type Wiki interface {
	// CategoryMembers returns the pages and subcategories of a category.
	CategoryMembers(ctx context.Context, category string) (members, subcategories []string, err error)

	// PageCategories returns the categories a page belongs to.
	PageCategories(ctx context.Context, title string) ([]string, error)
}

// Options configures an [Aggregator].
type Options struct {
	Title          string        // table header title
	Concurrency    int           // parallel category lookups
	RequestTimeout time.Duration // deadline of a single lookup
	DropUnmapped   bool          // ignore categories missing from the map
	PageURL        func(title string) string
	Logger         *log.Logger
}

// Result is a populated tree plus diagnostics.
type Result struct {
	Tree          *tree.Tree
	Members       int      // members of the root category
	Subcategories []string // subcategories of the root category
	Uncategorized []string // members placed in no bucket, sorted
	Failed        []string // members whose lookup failed, in member order
}

// Aggregator turns category membership into a tree.
type Aggregator struct {
	wiki Wiki
	cats *category.Map
	opts Options
}

// New creates an Aggregator. Zero options fall back to the defaults.
func New(wiki Wiki, cats *category.Map, opts Options) *Aggregator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.PageURL == nil {
		opts.PageURL = func(title string) string { return title }
	}
	if cats == nil {
		cats = category.New(nil, nil)
	}
	return &Aggregator{wiki: wiki, cats: cats, opts: opts}
}

// lookup is the outcome of one member's category request.
type lookup struct {
	categories []string
	err        error
}

// Aggregate builds the tree for the members of root.
func (a *Aggregator) Aggregate(ctx context.Context, root string) (*Result, error) {
	members, subcats, err := a.wiki.CategoryMembers(ctx, root)
	if err != nil {
		return nil, wlerrors.Wrap(wlerrors.ErrCodeNetwork, err, "fetch members of %q", root)
	}
	a.opts.Logger.Debug("fetched category", "category", root, "members", len(members), "subcategories", len(subcats))

	lookups, err := a.lookupAll(ctx, members)
	if err != nil {
		return nil, err
	}

	t := Skeleton(a.cats, a.opts.Title)
	t.Collapsible = true
	res := &Result{Tree: t, Members: len(members), Subcategories: subcats}

	placed := make(map[string]bool, len(members))
	for i, member := range members {
		l := lookups[i]
		if l.err != nil {
			res.Failed = append(res.Failed, member)
		}
		for _, cat := range l.categories {
			if cat == root {
				continue
			}
			if a.place(t, cat, member) {
				placed[member] = true
			}
		}
	}

	for _, member := range members {
		if !placed[member] && !slices.Contains(res.Uncategorized, member) {
			res.Uncategorized = append(res.Uncategorized, member)
		}
	}
	slices.Sort(res.Uncategorized)
	if len(res.Uncategorized) > 0 {
		a.opts.Logger.Warn("uncategorized members", "category", root, "count", len(res.Uncategorized))
		for _, m := range res.Uncategorized {
			a.opts.Logger.Warn("uncategorized", "url", a.opts.PageURL(m))
		}
	}
	return res, nil
}

// lookupAll fetches the categories of every member on a bounded pool. Each
// worker owns one slot of the result slice.
func (a *Aggregator) lookupAll(ctx context.Context, members []string) ([]lookup, error) {
	out := make([]lookup, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	for i, member := range members {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rctx, cancel := context.WithTimeout(gctx, a.opts.RequestTimeout)
			defer cancel()

			cats, err := a.wiki.PageCategories(rctx, member)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				a.opts.Logger.Warn("category lookup failed", "member", member, "err", err)
				observability.Pipeline().OnMemberError(ctx, member, err)
				out[i] = lookup{err: err}
				return nil
			}
			out[i] = lookup{categories: cats}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, wlerrors.Wrap(wlerrors.ErrCodeTimeout, ctx.Err(), "category lookups interrupted")
		}
		return nil, err
	}
	return out, nil
}

// place files member under the bucket cat resolves to. It reports whether
// the member ended up in a bucket.
func (a *Aggregator) place(t *tree.Tree, cat, member string) bool {
	m := a.cats.MappedCategory(cat)
	if !m.Found && a.opts.DropUnmapped {
		a.opts.Logger.Debug("dropping unmapped category", "category", cat, "member", member)
		return false
	}

	parent := t.Root(m.Parent)
	if parent == nil {
		parent = t.AddRoot(&tree.Node{Key: m.Parent, Kind: tree.KindCategory, Title: m.Title})
		a.opts.Logger.Debug("new top-level bucket", "category", m.Parent)
	}

	bucket := parent
	if m.Subcategory != "" {
		bucket = find(parent, m.Subcategory)
		if bucket == nil {
			bucket = parent.AddChild(&tree.Node{Key: m.Subcategory, Kind: tree.KindSubcategory, Title: m.Title})
		}
	}

	if len(bucket.Children) > 0 {
		a.opts.Logger.Debug("skipping interior bucket", "category", bucket.Key, "member", member)
		return false
	}
	bucket.AddMember(member)
	return true
}

// find returns the first descendant of n with the given key.
func find(n *tree.Node, key string) *tree.Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
		if found := find(c, key); found != nil {
			return found
		}
	}
	return nil
}

// Skeleton creates a tree with one empty node per category of cats.
// Display titles come from the map.
func Skeleton(cats *category.Map, title string) *tree.Tree {
	t := tree.New(title)
	for _, c := range cats.Categories() {
		t.AddRoot(skeletonNode(cats, c, tree.KindCategory))
	}
	return t
}

func skeletonNode(cats *category.Map, c *category.Category, kind tree.Kind) *tree.Node {
	n := &tree.Node{Key: c.Key, Kind: kind}
	if title := cats.Title(c.Key); title != c.Key {
		n.Title = title
	}
	for _, sub := range c.Subcategories {
		n.AddChild(skeletonNode(cats, sub, tree.KindSubcategory))
	}
	return n
}
