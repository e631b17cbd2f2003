package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/wikilist/pkg/aggregate"
	"github.com/matzehuels/wikilist/pkg/catalog"
	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/observability"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// Fetched is the outcome of the fetch stage.
type Fetched struct {
	Tree          *tree.Tree
	Members       int
	Uncategorized []string
	Failed        []string
}

// cachedList is the cache form of [Fetched].
type cachedList struct {
	Tree          json.RawMessage `json:"tree"`
	Members       int             `json:"members"`
	Uncategorized []string        `json:"uncategorized,omitempty"`
}

// pageLinker is implemented by wikis that can link to a page.
type pageLinker interface {
	PageURL(title string) string
}

// Fetch lists the members of list's root category and buckets them into
// a tree. It does not use the cache.
func Fetch(ctx context.Context, wiki aggregate.Wiki, list *catalog.List, opts Options) (*Fetched, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cats, err := list.CategoryMap()
	if err != nil {
		return nil, err
	}

	aggOpts := opts.AggregateOptions(list.HeaderTitle())
	if l, ok := wiki.(pageLinker); ok {
		aggOpts.PageURL = l.PageURL
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, list.Name, list.Root)
	start := time.Now()

	res, err := aggregate.New(wiki, cats, aggOpts).Aggregate(ctx, list.Root)
	if err != nil {
		hooks.OnFetchComplete(ctx, list.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnFetchComplete(ctx, list.Name, res.Members, len(res.Uncategorized), time.Since(start), nil)

	return &Fetched{
		Tree:          res.Tree,
		Members:       res.Members,
		Uncategorized: res.Uncategorized,
		Failed:        res.Failed,
	}, nil
}

func encodeFetched(f *Fetched) ([]byte, error) {
	data, err := wlio.Encode(f.Tree)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cachedList{Tree: data, Members: f.Members, Uncategorized: f.Uncategorized})
}

func decodeFetched(data []byte) (*Fetched, error) {
	var c cachedList
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	t, err := wlio.Decode(c.Tree)
	if err != nil {
		return nil, err
	}
	return &Fetched{Tree: t, Members: c.Members, Uncategorized: c.Uncategorized}, nil
}
