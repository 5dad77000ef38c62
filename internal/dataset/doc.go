// Package dataset loads category extracts of the health-professionals
// directory into model.Dataset snapshots.
//
// The load path is: resolve the category in the registry, consult the
// payload cache, fetch from the origin on a miss, decode the declared
// character encoding, parse the semicolon-separated CSV, enrich rows
// with commune coordinates, and publish the finished snapshot. Each
// stage is its own type:
//   - Fetcher: HTTP retrieval with timeout, size cap and one retry
//   - Parser: header-driven CSV to Practitioner rows
//   - Loader: the composed read-through pipeline with in-process
//     memoization and single-flight fetches
//   - Prefetcher: concurrent warm-up of many categories
//
// Failures fold into two sentinels: ErrSourceUnavailable for anything
// that kept the bytes from arriving, ErrParse for bytes that arrived
// but are not a directory extract.
package dataset
