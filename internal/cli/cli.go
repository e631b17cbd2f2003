// Package cli implements the wikilist command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikilist/internal/config"
	"github.com/matzehuels/wikilist/pkg/aggregate"
	"github.com/matzehuels/wikilist/pkg/buildinfo"
	"github.com/matzehuels/wikilist/pkg/cache"
	"github.com/matzehuels/wikilist/pkg/catalog"
	"github.com/matzehuels/wikilist/pkg/integrations/mediawiki"
	"github.com/matzehuels/wikilist/pkg/observability"
	"github.com/matzehuels/wikilist/pkg/pipeline"
	"github.com/matzehuels/wikilist/pkg/saves"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "wikilist"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	envFile string

	// newWiki builds the wiki client. Replaced in tests.
	newWiki func(backend cache.Cache, refresh bool) aggregate.Wiki
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	c.newWiki = c.mediawikiClient
	return c
}

// SetLogLevel updates the logger's level. At debug level pipeline and cache
// events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Wikilist builds MediaWiki category tables",
		Long: `Wikilist builds nested MediaWiki tables from wiki categories or from
hand-written category trees.

Fetched lists query a MediaWiki API for the members of a root category and
group them by their subcategories. Manual lists are edited as JSON files or
kept in the save store.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "load settings from this .env file (default .env)")

	root.AddCommand(c.listsCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.manualCommand())
	root.AddCommand(c.savesCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured cache backend: Redis when a URL is set,
// the file cache otherwise.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisURL != "" {
		return cache.NewRedisCache(ctx, c.Config.RedisURL, "")
	}
	return cache.NewFileCache(c.cacheDir())
}

// serveKeyPrefix separates the server's built lists from the CLI's when
// both use one cache backend.
const serveKeyPrefix = "serve:"

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	return c.runnerWithKeyer(ctx, noCache, nil)
}

// newServeRunner creates a runner whose list cache keys carry serveKeyPrefix.
func (c *CLI) newServeRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	return c.runnerWithKeyer(ctx, noCache, cache.NewScopedKeyer(nil, serveKeyPrefix))
}

func (c *CLI) runnerWithKeyer(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

func (c *CLI) mediawikiClient(backend cache.Cache, refresh bool) aggregate.Wiki {
	return mediawiki.NewClient(backend, mediawiki.Options{
		APIURL:  c.Config.APIURL,
		WikiURL: c.Config.WikiURL,
		Ignore:  c.Config.IgnoreCategories,
		TTL:     c.Config.CacheTTL,
		Refresh: refresh,
	})
}

// openSaves opens the configured save store: MongoDB when a URI is set,
// files otherwise.
func (c *CLI) openSaves(ctx context.Context) (saves.Store, error) {
	opts := saves.Options{
		MaxBackups:     c.Config.MaxBackups,
		DisableBackups: !c.Config.BackupEnabled,
	}
	if c.Config.MongoURI != "" {
		return saves.NewMongoStore(ctx, saves.MongoConfig{
			URI:      c.Config.MongoURI,
			Database: c.Config.MongoDatabase,
			Options:  opts,
		})
	}
	dir := c.Config.SaveDir
	if dir == "" {
		dir = filepath.Join(config.DataDir(), "saves")
	}
	return saves.NewFileStore(dir, opts)
}

// loadCatalog returns the built-in lists, extended by the configured lists
// file and extra.
func (c *CLI) loadCatalog(extra string) (*catalog.Catalog, error) {
	cat := catalog.Builtin()
	for _, path := range []string{c.Config.ListsFile, extra} {
		if path == "" {
			continue
		}
		user, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		cat = cat.Merge(user)
	}
	return cat, nil
}

// buildOptions returns pipeline options seeded from the configuration.
func (c *CLI) buildOptions() pipeline.Options {
	return pipeline.Options{
		Concurrency:    c.Config.Concurrency,
		RequestTimeout: c.Config.RequestTimeout,
		Source:         c.Config.APIURL,
		ListTTL:        c.Config.ListTTL,
		WikiURL:        c.Config.WikiURL,
		HeadFile:       c.Config.HeadFile,
		Logger:         c.Logger,
	}
}
