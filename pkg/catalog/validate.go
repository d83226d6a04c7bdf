package catalog

import "fmt"

// ValidateTableCreation checks that a newly built table (not yet put into
// cat) can legally enter the catalog: it has a primary key, no table of
// the same name already exists, and its column names are unique.
func ValidateTableCreation(table *Table, cat *Catalog) error {
	if table.PrimaryKey == nil {
		return &SchemaError{Message: fmt.Sprintf("table %q must declare a PRIMARY_KEY column", table.Name)}
	}
	if _, exists := cat.Get(table.Name); exists {
		return &NameError{Message: fmt.Sprintf("table %q already exists", table.Name)}
	}
	seen := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		if seen[col.Name] {
			return &SchemaError{Message: fmt.Sprintf("column %q declared more than once in table %q", col.Name, table.Name)}
		}
		seen[col.Name] = true
	}
	return nil
}

// ValidateColumnAddition checks that col can be appended to table: no
// existing column shares its name.
func ValidateColumnAddition(table *Table, col *Column) error {
	if _, exists := table.Column(col.Name); exists {
		return &SchemaError{Message: fmt.Sprintf("column %q already exists in table %q", col.Name, table.Name)}
	}
	return nil
}

// ValidateRowInsertion checks row against table's NOT_NULL/UNIQUE/
// PRIMARY_KEY column constraints (against the rows already stored) and
// against every foreign key's referential constraint.
func ValidateRowInsertion(table *Table, row Row) error {
	for _, col := range table.Columns {
		v, present := row.Get(col.Name)
		if !present {
			return &SchemaError{Message: fmt.Sprintf("row is missing a value for column %q", col.Name)}
		}
		if col.Has(NotNull) && !v.HasValue() {
			return &ConstraintError{Message: fmt.Sprintf("column %q is NOT_NULL", col.Name)}
		}
		if col.Has(Unique) && v.HasValue() {
			for _, existing := range table.Rows {
				ev, ok := existing.Get(col.Name)
				if ok && ev.Equal(v) {
					return &ConstraintError{Message: fmt.Sprintf("value %q violates UNIQUE constraint on column %q", v.String(), col.Name)}
				}
			}
		}
	}

	for _, fk := range table.ForeignKeys {
		v, _ := row.Get(fk.Column.Name)
		if !v.HasValue() {
			continue
		}
		referenced := fk.References.Table()
		found := false
		for _, existing := range referenced.Rows {
			rv, ok := existing.Get(fk.References.Name)
			if ok && rv.Equal(v) {
				found = true
				break
			}
		}
		if !found {
			return &ConstraintError{Message: fmt.Sprintf(
				"value %q for column %q has no matching row in %q.%q",
				v.String(), fk.Column.Name, referenced.Name, fk.References.Name)}
		}
	}
	return nil
}
