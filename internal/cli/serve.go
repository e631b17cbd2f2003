package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikilist/internal/server"
	"github.com/matzehuels/wikilist/pkg/aggregate"
	"github.com/matzehuels/wikilist/pkg/render/html"
	"github.com/matzehuels/wikilist/pkg/saves"
)

// serveCommand runs the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		noSaves bool
		lists   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tables and HTML previews over HTTP",
		Long: `Serve catalog lists and saved trees over HTTP.

  GET  /lists                  catalog lists
  GET  /lists/{name}           wikitext (?format=json, ?refresh=1)
  GET  /lists/{name}/preview   HTML preview
  GET  /saves                  stored trees
  GET  /saves/{id}             wikitext of a stored tree
  GET  /saves/{id}/preview     HTML preview of a stored tree
  POST /render                 wikitext of a posted JSON tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if addr == "" {
				addr = c.Config.ListenAddr
			}

			cat, err := c.loadCatalog(lists)
			if err != nil {
				return err
			}
			runner, err := c.newServeRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var store saves.Store
			if !noSaves {
				if store, err = c.openSaves(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			srv := server.New(addr, server.Options{
				Catalog: cat,
				Runner:  runner,
				Wiki: func(refresh bool) aggregate.Wiki {
					return c.newWiki(runner.Cache, refresh)
				},
				Saves:     store,
				Build:     c.buildOptions(),
				Previewer: html.NewPreviewer(html.PreviewOptions{HeadFile: c.Config.HeadFile, WikiURL: c.Config.WikiURL}),
				Logger:    c.Logger,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			printSuccess("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			printInfo("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from WIKILIST_LISTEN_ADDR)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noSaves, "no-saves", false, "do not serve stored trees")
	cmd.Flags().StringVar(&lists, "lists", "", "extra TOML file with list definitions")

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
