// Package aggregate buckets the members of a wiki category into a tree
// shaped by a [category.Map].
//
// # Overview
//
// [Aggregator.Aggregate] fetches the members of a root category, asks the
// wiki for the categories of every member concurrently, and files each
// member under the bucket its categories resolve to:
//
//	agg := aggregate.New(wiki, catMap, aggregate.Options{Title: "List of Countries"})
//	res, err := agg.Aggregate(ctx, "Countries")
//
// Every category and subcategory of the map exists in the result even when
// it collects no members, so empty buckets still render as rows.
//
// # Determinism
//
// Lookups run on a bounded worker pool, but results are merged on the
// calling goroutine in the order the wiki listed the members. The tree does
// not depend on response timing.
//
// # Failures
//
// Only a failure to list the root category is an error. A member whose
// categories cannot be fetched is logged and treated as having none, which
// usually makes it uncategorized. Members that end up in no bucket are
// reported in [Result.Uncategorized].
package aggregate
