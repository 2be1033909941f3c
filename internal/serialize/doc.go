// Package serialize turns datasets into the row shapes the write paths need.
//
// Three modes are provided:
//
//   - Literal renders SQL literal tuples. It is used for dry-run previews only.
//   - Native walks the dataset row by row and normalizes each cell by its
//     column type. The single-row strategy uses it.
//   - BulkArray resolves one converter per column and fills a single
//     backing slice column by column. The batched and copy strategies use it.
//
// CopyText encodes rows in PostgreSQL's COPY text format with '|' as the
// field delimiter.
package serialize
