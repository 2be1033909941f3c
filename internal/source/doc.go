// Package source reads datasets from delimited text and JSON Lines.
//
// Column types are inferred from the data: a column is an integer column
// when every non-null cell is an integer, a float column when every
// non-null cell is a number, a timestamp column when every non-null cell
// parses with one of TimestampLayouts, and text otherwise.
package source
