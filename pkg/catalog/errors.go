package catalog

import "fmt"

// NameError reports an unknown table/column, or a duplicate where a
// unique name is required.
type NameError struct {
	Message string
}

func (e *NameError) Error() string { return e.Message }

// ErrTableNotFound builds the NameError for an unknown table name.
func ErrTableNotFound(name string) error {
	return &NameError{Message: fmt.Sprintf("table %q not found", name)}
}

// ErrColumnNotFound builds the NameError for an unknown column name
// within a known table.
func ErrColumnNotFound(table, column string) error {
	return &NameError{Message: fmt.Sprintf("column %q not found in table %q", column, table)}
}

// SchemaError reports a DDL-time schema violation: missing or duplicate
// primary key, a foreign key target that isn't PRIMARY_KEY/UNIQUE, or an
// illegal ALTER operation.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string { return e.Message }

// ConstraintError reports a row-level constraint breach: NOT_NULL,
// UNIQUE, PRIMARY_KEY, or a dangling foreign key value.
type ConstraintError struct {
	Message string
}

func (e *ConstraintError) Error() string { return e.Message }
