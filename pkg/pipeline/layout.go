package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/wikilist/pkg/layout"
	"github.com/matzehuels/wikilist/pkg/observability"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// ComputeLayout builds and verifies the table layout of t. The name only
// labels observability events.
func ComputeLayout(ctx context.Context, name string, t *tree.Tree, opts Options) (*layout.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	nodes := 0
	t.Walk(func([]string, *tree.Node) bool {
		nodes++
		return true
	})

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, name, nodes)
	start := time.Now()

	l, err := layout.Build(t, layout.Options{
		Strict:    opts.Strict,
		FirstRoot: opts.RowStyle == "title",
		Logger:    opts.Logger,
	})
	if err == nil {
		err = l.Verify()
	}
	if err != nil {
		hooks.OnLayoutComplete(ctx, name, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, name, l.Rows(), time.Since(start), nil)
	return l, nil
}
