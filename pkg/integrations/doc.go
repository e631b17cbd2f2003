// Package integrations provides the HTTP plumbing for wiki API clients.
//
// # Overview
//
// The [Client] type wraps net/http with the behavior every API client in
// this module shares:
//
//   - default headers (the MediaWiki API asks for a descriptive User-Agent)
//   - JSON decoding of responses
//   - status mapping to [ErrNotFound] and [ErrNetwork]
//   - response caching through a [cache.Cache]
//   - HTTP observability hooks
//
// Requests are never retried. A failed call returns its error and the caller
// decides how to degrade.
//
// The MediaWiki client lives in the [mediawiki] subpackage:
//
//	c, _ := cache.NewFileCache(dir)
//	wiki := mediawiki.NewClient(c, mediawiki.Options{APIURL: "https://www.arathia.net/w/api.php"})
//	members, subcats, err := wiki.CategoryMembers(ctx, "Countries")
//
// [cache.Cache]: github.com/matzehuels/wikilist/pkg/cache.Cache
// [mediawiki]: github.com/matzehuels/wikilist/pkg/integrations/mediawiki
package integrations
