package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks name against the identifier allow-list.
func ValidateIdentifier(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("identifier is empty")
	case len(name) > pgframe.MaxIdentifierLength:
		return fmt.Errorf("identifier %q is longer than %d bytes", name, pgframe.MaxIdentifierLength)
	case !identifierPattern.MatchString(name):
		return fmt.Errorf("identifier %q must match %s", name, identifierPattern)
	}
	return nil
}

// Normalize validates name and folds it to lower case.
func Normalize(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return strings.ToLower(name), nil
}

// TableName validates and normalizes a table name, returning a schema-kind error.
func TableName(op, name string) (string, error) {
	n, err := Normalize(name)
	if err != nil {
		return "", pgframe.NewError(pgframe.KindSchema, op, name, err)
	}
	return n, nil
}

// SchemaName returns the normalized target schema, DefaultSchema when empty.
func SchemaName(op, name string) (string, error) {
	if name == "" {
		return pgframe.DefaultSchema, nil
	}
	n, err := Normalize(name)
	if err != nil {
		return "", pgframe.NewError(pgframe.KindSchema, op, "", fmt.Errorf("schema: %w", err))
	}
	return n, nil
}

// Qualified quotes schema and table as "schema"."table".
func Qualified(schemaName, table string) string {
	return pgx.Identifier{schemaName, table}.Sanitize()
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
