// Package mediawiki provides an HTTP client for the MediaWiki action API.
//
// # Overview
//
// The client answers the two questions the list builder asks a wiki:
// which pages and subcategories belong to a category, and which categories
// a page belongs to.
//
// # Usage
//
//	client := mediawiki.NewClient(backend, mediawiki.Options{
//	    APIURL:  "https://www.arathia.net/w/api.php",
//	    WikiURL: "https://www.arathia.net",
//	})
//
//	members, subcats, err := client.CategoryMembers(ctx, "Countries")
//	cats, err := client.PageCategories(ctx, "Sunspire")
//
// # Continuation
//
// Both queries follow the API's continue tokens until the result set is
// complete, so categories with more than 500 members are returned whole.
//
// # Caching
//
// Complete answers are cached through [cache.Cache] with the TTL from
// [Options]. Set [Options.Refresh] to bypass cached entries. Requests are
// never retried; failures surface as [integrations.ErrNetwork] or
// [integrations.ErrNotFound].
//
// # Ignored categories
//
// Maintenance categories such as "Pages with broken file links" are removed
// from every answer. The list is configurable through [Options.Ignore].
package mediawiki
