// Package server exposes the dataset pipeline over HTTP for map and
// dashboard frontends: category listing, filtered practitioner pages,
// sampled scatter points, aggregate statistics, heatmap grids and file
// exports, all behind a uniform JSON envelope.
package server
