// Package schema derives PostgreSQL table definitions from datasets and
// creates them on demand.
//
// Every identifier that reaches SQL passes ValidateIdentifier first and is
// then quoted with pgx.Identifier, so table and column names are never
// spliced into statements raw. Names are folded to lower case, matching
// PostgreSQL's handling of unquoted identifiers.
package schema
