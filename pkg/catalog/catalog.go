// Package catalog holds the engine's table definitions and row storage:
// Column, Row, Table, PrimaryKey, ForeignKey, Relation, and the Catalog
// that maps table name to Table.
package catalog

import "github.com/corvid-db/corvid/pkg/value"

// ColumnConstraint is a per-column integrity rule. PRIMARY_KEY implies
// NOT_NULL and UNIQUE semantically (enforced wherever constraints are
// checked, not by expanding the slice).
type ColumnConstraint int

const (
	NotNull ColumnConstraint = iota
	Unique
	PrimaryKeyConstraint
)

func (c ColumnConstraint) String() string {
	switch c {
	case NotNull:
		return "NOT_NULL"
	case Unique:
		return "UNIQUE"
	case PrimaryKeyConstraint:
		return "PRIMARY_KEY"
	default:
		return "UNKNOWN"
	}
}

// Column belongs to exactly one Table, set once when it is appended.
type Column struct {
	Name        string
	Type        value.DataType
	Constraints []ColumnConstraint
	table       *Table
}

// Table returns the owning table, or nil if the column hasn't been
// appended to one yet.
func (c *Column) Table() *Table { return c.table }

// Has reports whether the column carries the given constraint, with
// PRIMARY_KEY implying NOT_NULL and UNIQUE.
func (c *Column) Has(constraint ColumnConstraint) bool {
	for _, cc := range c.Constraints {
		if cc == constraint {
			return true
		}
		if cc == PrimaryKeyConstraint && (constraint == NotNull || constraint == Unique) {
			return true
		}
	}
	return false
}

// Row is every column of its owning table mapped to a BoxedValue
// (possibly NULL). Rows are append-only; there is no UPDATE or DELETE.
type Row struct {
	Values map[string]value.BoxedValue
}

// Get returns the value for the named column, and whether it exists in
// the row at all (as opposed to existing but being NULL).
func (r Row) Get(name string) (value.BoxedValue, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// PrimaryKey wraps the single column that uniquely identifies a Table's rows.
type PrimaryKey struct {
	Column *Column
}

// ForeignKey pairs a local column with a PrimaryKey (or UNIQUE column) in
// another table.
type ForeignKey struct {
	Column     *Column
	References *Column
}

// Relation is a ForeignKey paired with its referenced Table, kept
// alongside the ForeignKey for navigation.
type Relation struct {
	ForeignKey      *ForeignKey
	ReferencedTable *Table
}

// Table is an ordered column list, its rows, and its key/relation
// structure.
type Table struct {
	Name        string
	Columns     []*Column
	Rows        []Row
	PrimaryKey  *PrimaryKey
	ForeignKeys []*ForeignKey
	Relations   []*Relation
}

// NewTable constructs an empty table with no columns, rows, or keys.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// AppendColumn adds column to the table's schema, setting its
// back-reference, and backfills NULL for it in every existing row. It
// does not validate — callers run ValidateColumnAddition first.
func (t *Table) AppendColumn(col *Column) {
	col.table = t
	t.Columns = append(t.Columns, col)
	for i := range t.Rows {
		t.Rows[i].Values[col.Name] = value.Null(col.Type)
	}
}

// AppendRow adds row to the table's storage. It does not validate —
// callers run ValidateRowInsertion first.
func (t *Table) AppendRow(row Row) {
	t.Rows = append(t.Rows, row)
}

// DropColumn removes the named column from the schema, from every row,
// and from any ForeignKey/Relation whose local column is the dropped
// one. Callers must check the PK/cross-table-FK rules before calling.
func (t *Table) DropColumn(name string) {
	idx := -1
	for i, c := range t.Columns {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)

	for i := range t.Rows {
		delete(t.Rows[i].Values, name)
	}

	keptFKs := t.ForeignKeys[:0]
	for _, fk := range t.ForeignKeys {
		if fk.Column.Name != name {
			keptFKs = append(keptFKs, fk)
		}
	}
	t.ForeignKeys = keptFKs

	keptRels := t.Relations[:0]
	for _, rel := range t.Relations {
		if rel.ForeignKey.Column.Name != name {
			keptRels = append(keptRels, rel)
		}
	}
	t.Relations = keptRels
}

// Catalog maps table name to Table, the engine's process-wide state for
// one Engine instance.
type Catalog struct {
	tables map[string]*Table
}

// New constructs an empty Catalog.
func New() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// Get returns the table with the given name, if any.
func (c *Catalog) Get(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Put inserts or replaces a table.
func (c *Catalog) Put(t *Table) {
	c.tables[t.Name] = t
}

// Delete removes a table by name.
func (c *Catalog) Delete(name string) {
	delete(c.tables, name)
}

// Tables returns every table in the catalog, in no particular order.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	return out
}

// Clone deep-copies a table's schema, rows, and key structure into a new
// *Table sharing no mutable state with the original. ALTER TABLE applies
// its operations to a clone and only commits via ReplaceWith once every
// operation has validated, giving the whole statement all-or-nothing
// semantics without disturbing other tables' Relations into this one
// (they hold the original *Table pointer, which ReplaceWith mutates in
// place rather than swaps out).
func (t *Table) Clone() *Table {
	cp := &Table{Name: t.Name}
	cp.Columns = make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		cp.Columns[i] = &Column{
			Name:        c.Name,
			Type:        c.Type,
			Constraints: append([]ColumnConstraint(nil), c.Constraints...),
			table:       cp,
		}
	}
	colByName := func(name string) *Column {
		for _, c := range cp.Columns {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	cp.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		vals := make(map[string]value.BoxedValue, len(r.Values))
		for k, v := range r.Values {
			vals[k] = v
		}
		cp.Rows[i] = Row{Values: vals}
	}

	if t.PrimaryKey != nil {
		cp.PrimaryKey = &PrimaryKey{Column: colByName(t.PrimaryKey.Column.Name)}
	}
	for _, fk := range t.ForeignKeys {
		cp.ForeignKeys = append(cp.ForeignKeys, &ForeignKey{
			Column:     colByName(fk.Column.Name),
			References: fk.References,
		})
	}
	for _, rel := range t.Relations {
		var clonedFK *ForeignKey
		for _, fk := range cp.ForeignKeys {
			if fk.Column.Name == rel.ForeignKey.Column.Name {
				clonedFK = fk
				break
			}
		}
		cp.Relations = append(cp.Relations, &Relation{ForeignKey: clonedFK, ReferencedTable: rel.ReferencedTable})
	}
	return cp
}

// ReplaceWith installs other's schema/rows/keys into t in place, fixing
// column back-references to point at t rather than other. t's identity
// is preserved, so any other table's Relation pointing at t keeps working.
func (t *Table) ReplaceWith(other *Table) {
	t.Columns = other.Columns
	for _, c := range t.Columns {
		c.table = t
	}
	t.Rows = other.Rows
	t.PrimaryKey = other.PrimaryKey
	t.ForeignKeys = other.ForeignKeys
	t.Relations = other.Relations
}
