package cli

import (
	"context"

	"github.com/spf13/cobra"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	"github.com/matzehuels/wikilist/pkg/render/diagram"
	"github.com/matzehuels/wikilist/pkg/tree"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// treeCommand draws the category tree of a list, file or save.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		format  string
		output  string
		members bool
		noCache bool
		refresh bool
		lists   string
	)

	cmd := &cobra.Command{
		Use:   "tree <list|file|save-id>",
		Short: "Draw a category tree as a Graphviz diagram",
		Long: `Draw the category tree behind a table.

A catalog list name fetches the list first. Anything else is read as a
JSON file or a save ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return wlerrors.New(wlerrors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot' or 'svg')", format)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			spinner := newSpinnerWithContext(ctx, "Loading "+args[0]+"...")
			spinner.Start()
			t, err := c.resolveTree(ctx, args[0], lists, noCache, refresh)
			if err != nil {
				spinner.StopWithError("Could not load " + args[0])
				return err
			}

			dot := diagram.ToDOT(t, diagram.Options{Members: members})
			data := []byte(dot)
			if format == formatSVG {
				spinner.SetMessage("Rendering diagram...")
				if data, err = diagram.RenderSVG(ctx, dot); err != nil {
					spinner.StopWithError("Rendering failed")
					return err
				}
			}
			spinner.StopWithSuccess("Drew " + t.Title())
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&members, "members", false, "list members inside leaf nodes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached wiki answers")
	cmd.Flags().StringVar(&lists, "lists", "", "extra TOML file with list definitions")

	return cmd
}

// resolveTree fetches ref when it names a catalog list and loads it as a
// file or save otherwise.
func (c *CLI) resolveTree(ctx context.Context, ref, listsFile string, noCache, refresh bool) (*tree.Tree, error) {
	cat, err := c.loadCatalog(listsFile)
	if err != nil {
		return nil, err
	}
	list, err := cat.Get(ref)
	if err != nil {
		return c.loadTree(ctx, ref)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts := c.buildOptions()
	opts.Refresh = refresh
	f, _, err := runner.FetchWithCacheInfo(ctx, c.newWiki(runner.Cache, refresh), list, opts)
	if err != nil {
		return nil, err
	}
	return f.Tree, nil
}
