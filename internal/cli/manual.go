package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/pipeline"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// manualCommand renders a hand-authored tree.
func (c *CLI) manualCommand() *cobra.Command {
	var (
		output   string
		htmlPath string
		strict   bool
		rowStyle string
	)

	cmd := &cobra.Command{
		Use:   "manual [file|save-id]",
		Short: "Build a table from a hand-written category tree",
		Long: `Build a nested table from a JSON tree.

The argument is a JSON file (optionally gzip-compressed) or the ID of a
tree in the save store. Without an argument an interactive picker over
the saves is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			src := ""
			if len(args) == 1 {
				src = args[0]
			}
			t, err := c.loadTree(ctx, src)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.buildOptions()
			opts.Strict = strict
			opts.RowStyle = rowStyle
			if htmlPath != "" {
				opts.Formats = []string{pipeline.FormatWikitext, pipeline.FormatHTML}
			}
			res, err := runner.BuildManual(ctx, t, opts)
			if err != nil {
				return err
			}
			printSuccess("Built %s", t.Title())
			printStats(res)

			if err := writeOutput(cmd, output, []byte(res.Wikitext+"\n")); err != nil {
				return err
			}
			if htmlPath != "" {
				return writeOutput(cmd, htmlPath, res.Artifacts[pipeline.FormatHTML])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write wikitext to file (default stdout)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write an HTML preview to file")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject trees with structural issues")
	cmd.Flags().StringVar(&rowStyle, "row-style", "", "data row style: title (default) or content")

	return cmd
}

// loadTree reads a tree from a file, or from the save store when src is not
// an existing file. An empty src shows the save picker.
func (c *CLI) loadTree(ctx context.Context, src string) (*tree.Tree, error) {
	if src != "" {
		if fi, err := os.Stat(src); err == nil && !fi.IsDir() {
			return wlio.ImportJSON(src)
		}
	}

	store, err := c.openSaves(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if src == "" {
		infos, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		if src, err = pick(newSavePicker(infos)); err != nil {
			return nil, err
		}
	}
	return store.Get(ctx, src)
}
