package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikilist/pkg/catalog"
	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/integrations/mediawiki"
	"github.com/matzehuels/wikilist/pkg/pipeline"
)

// buildOpts holds the flags of the build command.
type buildOpts struct {
	output       string        // wikitext destination, stdout when empty
	html         string        // HTML preview destination
	json         string        // tree export destination
	save         string        // save ID to store the fetched tree under
	lists        string        // extra catalog file
	noCache      bool          // bypass every cache
	refresh      bool          // ignore cached answers but store fresh ones
	dropUnmapped bool          // leave out members whose categories are unmapped
	concurrency  int           // parallel wiki lookups
	timeout      time.Duration // per-request timeout
}

// buildCommand builds a table from a catalog list.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [list]",
		Short: "Build a table from the members of a wiki category",
		Long: `Build a nested table from a catalog list.

The members of the list's root category are looked up on the wiki and
grouped by their categories. Without a list name an interactive picker
is shown.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeListNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(opts.lists)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			} else if name, err = pick(newListPicker(cat)); err != nil {
				return err
			}
			list, err := cat.Get(name)
			if err != nil {
				return err
			}
			return c.runBuild(cmd, list, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write wikitext to file (default stdout)")
	cmd.Flags().StringVar(&opts.html, "html", "", "write an HTML preview to file")
	cmd.Flags().StringVar(&opts.json, "json", "", "export the fetched tree as JSON (.gz to compress)")
	cmd.Flags().StringVar(&opts.save, "save", "", "store the fetched tree in the save store under this ID")
	cmd.Flags().StringVar(&opts.lists, "lists", "", "extra TOML file with list definitions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached wiki answers")
	cmd.Flags().BoolVar(&opts.dropUnmapped, "drop-unmapped", false, "leave out members in unmapped categories")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "parallel wiki lookups (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (default from config)")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, list *catalog.List, opts buildOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	bopts := c.buildOptions()
	bopts.Refresh = opts.refresh
	bopts.DropUnmapped = opts.dropUnmapped
	if opts.concurrency > 0 {
		bopts.Concurrency = opts.concurrency
	}
	if opts.timeout > 0 {
		bopts.RequestTimeout = opts.timeout
	}
	if opts.html != "" {
		bopts.Formats = []string{pipeline.FormatWikitext, pipeline.FormatHTML}
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Fetching Category:"+list.Root+"...")
	spinner.Start()
	res, err := runner.BuildList(ctx, c.newWiki(runner.Cache, opts.refresh), list, bopts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.StopWithSuccess("Built " + list.HeaderTitle())
	printStats(res)

	if err := writeOutput(cmd, opts.output, []byte(res.Wikitext+"\n")); err != nil {
		return err
	}
	if opts.html != "" {
		if err := writeOutput(cmd, opts.html, res.Artifacts[pipeline.FormatHTML]); err != nil {
			return err
		}
	}
	if opts.json != "" {
		if err := wlio.ExportJSON(res.Tree, opts.json); err != nil {
			return wlerrors.Wrap(wlerrors.ErrCodeInternal, err, "export tree")
		}
		printFile(opts.json)
	}
	if opts.save != "" {
		store, err := c.openSaves(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.Put(ctx, opts.save, res.Tree); err != nil {
			return err
		}
		printSuccess("Saved as %s", opts.save)
		printNextStep("Render the saved tree", appName+" manual "+opts.save)
	}

	wikiURL := c.Config.WikiURL
	printDiagnostics(res, func(title string) string { return mediawiki.PageURL(wikiURL, title) })
	prog.done("Build finished", "list", list.Name, "members", res.Stats.Members, "rows", res.Stats.Rows)
	return nil
}
