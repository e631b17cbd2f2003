package mediawiki

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/wikilist/pkg/cache"
	"github.com/matzehuels/wikilist/pkg/integrations"
)

// Defaults for [Options].
const (
	DefaultAPIURL    = "https://www.arathia.net/w/api.php"
	DefaultWikiURL   = "https://www.arathia.net"
	DefaultUserAgent = "wikilist (https://github.com/matzehuels/wikilist)"
	DefaultTTL       = 24 * time.Hour
)

const (
	categoryPrefix    = "Category:"
	categoryNamespace = 14
	membersLimit      = "500"
)

// DefaultIgnore lists maintenance categories that never describe content.
var DefaultIgnore = []string{"Pages with broken file links"}

// Options configures a [Client]. Zero values fall back to the defaults.
type Options struct {
	APIURL    string        // api.php endpoint
	WikiURL   string        // base URL for page links
	Ignore    []string      // category names dropped from every answer
	TTL       time.Duration // cache lifetime of a complete answer
	Refresh   bool          // bypass cached answers
	UserAgent string
}

// Client queries a MediaWiki installation.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	apiURL  string
	wikiURL string
	ignore  []string
	refresh bool
}

// NewClient creates a client caching complete answers in backend. Pass nil
// for backend to disable caching.
func NewClient(backend cache.Cache, opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.WikiURL == "" {
		opts.WikiURL = DefaultWikiURL
	}
	if opts.Ignore == nil {
		opts.Ignore = DefaultIgnore
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	headers := map[string]string{"User-Agent": opts.UserAgent}
	return &Client{
		Client:  integrations.NewClient(backend, "mediawiki", opts.TTL, headers),
		apiURL:  opts.APIURL,
		wikiURL: strings.TrimRight(opts.WikiURL, "/"),
		ignore:  opts.Ignore,
		refresh: opts.Refresh,
	}
}

// membership is the cached answer of a category members query.
type membership struct {
	Members       []string `json:"members"`
	Subcategories []string `json:"subcategories"`
}

// CategoryMembers returns the pages and the subcategories of category, in
// API order. The category is given without its "Category:" prefix.
func (c *Client) CategoryMembers(ctx context.Context, category string) ([]string, []string, error) {
	var m membership
	err := c.Cached(ctx, "members:"+category, c.refresh, &m, func() error {
		return c.fetchMembers(ctx, category, &m)
	})
	if err != nil {
		return nil, nil, err
	}
	return m.Members, m.Subcategories, nil
}

func (c *Client) fetchMembers(ctx context.Context, category string, m *membership) error {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"list":    {"categorymembers"},
		"cmtitle": {categoryPrefix + category},
		"cmlimit": {membersLimit},
	}
	*m = membership{}
	return c.query(ctx, params, func(q queryResult) {
		for _, p := range q.CategoryMembers {
			if c.ignored(p.Title) {
				continue
			}
			if p.NS == categoryNamespace || strings.HasPrefix(p.Title, categoryPrefix) {
				m.Subcategories = append(m.Subcategories, strings.TrimPrefix(p.Title, categoryPrefix))
				continue
			}
			m.Members = append(m.Members, p.Title)
		}
	})
}

// PageCategories returns the categories of page without their "Category:"
// prefix. A page without categories yields an empty slice.
func (c *Client) PageCategories(ctx context.Context, page string) ([]string, error) {
	var cats []string
	err := c.Cached(ctx, "categories:"+page, c.refresh, &cats, func() error {
		return c.fetchCategories(ctx, page, &cats)
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) fetchCategories(ctx context.Context, page string, cats *[]string) error {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"prop":    {"categories"},
		"titles":  {page},
		"cllimit": {"max"},
	}
	out := []string{}
	err := c.query(ctx, params, func(q queryResult) {
		for _, p := range q.Pages {
			for _, cat := range p.Categories {
				name := strings.TrimPrefix(cat.Title, categoryPrefix)
				if c.ignored(name) || slices.Contains(out, name) {
					continue
				}
				out = append(out, name)
			}
		}
	})
	*cats = out
	return err
}

// PageURL returns the browser URL of a page.
func (c *Client) PageURL(title string) string {
	return PageURL(c.wikiURL, title)
}

// PageURL returns <wikiURL>/wiki/<title> with spaces written as underscores.
func PageURL(wikiURL, title string) string {
	return strings.TrimRight(wikiURL, "/") + "/wiki/" + strings.ReplaceAll(title, " ", "_")
}

func (c *Client) ignored(name string) bool {
	return slices.Contains(c.ignore, strings.TrimPrefix(name, categoryPrefix))
}

// query runs params against the API and calls fn for every result page,
// following continue tokens until the answer is complete.
func (c *Client) query(ctx context.Context, params url.Values, fn func(queryResult)) error {
	for {
		var resp apiResponse
		if err := c.Get(ctx, c.apiURL+"?"+params.Encode(), &resp); err != nil {
			return err
		}
		if resp.Error != nil {
			return fmt.Errorf("%w: %s: %s", integrations.ErrNetwork, resp.Error.Code, resp.Error.Info)
		}
		fn(resp.Query)
		if len(resp.Continue) == 0 {
			return nil
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
	}
}

type apiResponse struct {
	Continue map[string]string `json:"continue"`
	Query    queryResult       `json:"query"`
	Error    *apiError         `json:"error"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type queryResult struct {
	CategoryMembers []pageRef          `json:"categorymembers"`
	Pages           map[string]pageCat `json:"pages"`
}

type pageRef struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

type pageCat struct {
	Title      string    `json:"title"`
	Categories []pageRef `json:"categories"`
}
