// Package main provides the entry point for the psmap CLI.
//
// psmap explores the French health-professionals directory (annuaire
// santé) published on data.gouv.fr: it fetches the CSV extracts,
// filters and aggregates them, and serves them to map frontends.
//
// Usage:
//
//	psmap fetch medecin
//	psmap stats medecin --city PARIS
//	psmap serve --addr :8080
//
// See --help for all available options.
package main

// main is the entry point for psmap.
func main() {
	Execute()
}
