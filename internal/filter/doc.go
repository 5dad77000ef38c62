// Package filter reduces a dataset snapshot to the rows matching a set
// of user-selected criteria.
//
// Apply is a pure function: it combines every active predicate with
// AND, leaves absent predicates unconstrained, preserves the source row
// order and never mutates its input. An empty result is a normal value.
// Criteria values that do not occur in the data simply produce an empty
// result; validation of category keys happens earlier, at the registry
// boundary, so this package returns no errors at all.
package filter
