// Package export writes dataset snapshots out in user-facing formats.
//
// Each format is a Writer constructed over an io.Writer, so the same
// implementations back the CLI's --output flag, stdout and the HTTP
// export endpoint:
//   - CSVWriter: the filtered table as a semicolon-separated file,
//     typed columns first, source extras after (the download button)
//   - JSONWriter: snapshot plus summary as one document, with optional
//     indentation
//   - MarkdownWriter: a summary report with provenance, a mermaid pie
//     chart of the civility breakdown and the top-value rankings
//
// MultiWriter fans one snapshot out to several destinations.
package export
