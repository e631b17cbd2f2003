// Package pipeline provides the list building pipeline for wikilist.
//
// This package implements the complete fetch → layout → render pipeline
// shared by the CLI and the preview server. By centralizing this logic, both
// entry points produce identical tables and share one cache.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: list the members of a root category and bucket them into a
//     tree (skipped for manual trees)
//  2. Layout: compute rowspans, colspans and separators for the tree
//  3. Render: produce wikitext and the other requested formats
//
// Only the fetch stage is cached; layout and render are cheap and pure.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	list, _ := catalog.Builtin().Get("countries")
//	result, err := runner.BuildList(ctx, wiki, list, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Wikitext)
//
// Manual trees skip the fetch stage:
//
//	t, _ := io.ImportJSON("arts.json")
//	result, err := runner.BuildManual(ctx, t, pipeline.Options{})
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikilist/pkg/aggregate"
	"github.com/matzehuels/wikilist/pkg/cache"
	"github.com/matzehuels/wikilist/pkg/layout"
	"github.com/matzehuels/wikilist/pkg/render/wikitext"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultConcurrency is the number of parallel category lookups.
	DefaultConcurrency = aggregate.DefaultConcurrency

	// DefaultRequestTimeout bounds a single category lookup.
	DefaultRequestTimeout = aggregate.DefaultRequestTimeout

	// DefaultListTTL is how long an aggregated tree stays cached.
	DefaultListTTL = time.Hour
)

// Format constants for output formats.
const (
	FormatWikitext = "wikitext"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatWikitext: true,
	FormatHTML:     true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatSVG:      true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Fetch options
	Refresh        bool          `json:"refresh,omitempty"`
	DropUnmapped   bool          `json:"drop_unmapped,omitempty"`
	Concurrency    int           `json:"concurrency,omitempty"`
	RequestTimeout time.Duration `json:"request_timeout,omitempty"`
	Source         string        `json:"source,omitempty"` // wiki API URL, part of the cache key
	ListTTL        time.Duration `json:"list_ttl,omitempty"`

	// Layout options
	Strict bool `json:"strict,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	RowStyle string   `json:"row_style,omitempty"` // "content" or "title"
	WikiURL  string   `json:"wiki_url,omitempty"`  // link target of HTML previews
	HeadFile string   `json:"-"`
	Members  bool     `json:"members,omitempty"` // list members in diagrams

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Name is the list name, or the tree title for manual builds.
	Name string

	// Tree is the populated category tree.
	Tree *tree.Tree

	// Layout is the computed table layout.
	Layout *layout.Layout

	// Wikitext is the rendered table.
	Wikitext string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Uncategorized lists members placed in no bucket, sorted.
	Uncategorized []string

	// Failed lists members whose category lookup failed.
	Failed []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Members    int
	Rows       int
	Columns    int
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit bool // Whether the aggregated tree came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: wikitext, html, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRowStyle checks that a row style is valid.
func ValidateRowStyle(style string) error {
	_, err := wikitext.ParseRowStyle(style)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.ListTTL == 0 {
		o.ListTTL = DefaultListTTL
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatWikitext}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateRowStyle(o.RowStyle); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// ListKeyOpts returns cache key options for an aggregated list.
func (o *Options) ListKeyOpts(definition string) cache.ListKeyOpts {
	return cache.ListKeyOpts{
		Definition:   definition,
		Source:       o.Source,
		DropUnmapped: o.DropUnmapped,
	}
}

// AggregateOptions returns the aggregator options for a list with the
// given header title.
func (o *Options) AggregateOptions(title string) aggregate.Options {
	return aggregate.Options{
		Title:          title,
		Concurrency:    o.Concurrency,
		RequestTimeout: o.RequestTimeout,
		DropUnmapped:   o.DropUnmapped,
		Logger:         o.Logger,
	}
}
