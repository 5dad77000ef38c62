// Package registry is the catalog of known dataset categories.
//
// Each category maps a health-profession key to the public CSV extract
// that carries its rows, plus the format hints (separator, encoding)
// needed to parse it. The catalog is built once at startup from the
// compiled-in definitions, optionally merged with a YAML file, and is
// read-only afterwards.
//
// This package contains the following main types:
//   - Category: one definition (key, label, URL, format hints)
//   - Registry: the immutable lookup, with Resolve and Categories
//   - File: the on-disk YAML format for overrides and additions
//
// Resolving a key that is not registered fails with ErrUnknownCategory;
// there is no default category.
package registry
