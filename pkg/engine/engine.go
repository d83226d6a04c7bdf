// Package engine holds the catalog for one running instance and
// implements the five statement effects (CREATE/ALTER/DROP TABLE, INSERT,
// SELECT), including WHERE-tree evaluation and result materialization.
package engine

import (
	"fmt"
	"time"

	"github.com/corvid-db/corvid/internal/config"
	"github.com/corvid-db/corvid/pkg/catalog"
	"github.com/corvid-db/corvid/pkg/lexer"
	"github.com/corvid-db/corvid/pkg/monitor"
	"github.com/corvid-db/corvid/pkg/parser"
	"github.com/corvid-db/corvid/pkg/value"
)

// Engine is a single-process, in-memory relational store. It is
// synchronous and not safe for concurrent use from multiple goroutines
// without an external mutex; Execute has no suspension points and runs
// each statement to completion or error.
type Engine struct {
	cfg     config.EngineConfig
	catalog *catalog.Catalog
	monitor *monitor.StatementMonitor
}

// New constructs an Engine with an empty catalog.
func New(cfg config.EngineConfig) *Engine {
	return &Engine{cfg: cfg, catalog: catalog.New()}
}

// SetMonitor attaches an optional StatementMonitor that observes every
// statement Execute or ExecuteBatch runs.
func (e *Engine) SetMonitor(m *monitor.StatementMonitor) {
	e.monitor = m
}

// GetTable returns a point-in-time copy of the named table for
// introspection; mutating it has no effect on the engine's catalog.
func (e *Engine) GetTable(name string) (*catalog.Table, bool) {
	t, ok := e.catalog.Get(name)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (e *Engine) compareOptions() value.CompareOptions {
	return value.CompareOptions{StrictNaN: e.cfg.Comparison.StrictNaN}
}

// Execute parses and runs exactly one statement, terminated by `;`.
func (e *Engine) Execute(queryText string) (*ResultSet, error) {
	start := time.Now()
	stmt, rs, rowsScanned, err := e.parseAndRun(queryText)
	if e.monitor != nil {
		e.monitor.Observe(&monitor.ExecutedStatement{
			Text:        queryText,
			Statement:   stmt,
			Duration:    time.Since(start),
			Err:         err,
			RowsScanned: rowsScanned,
		})
	}
	return rs, err
}

func (e *Engine) parseAndRun(queryText string) (parser.Statement, *ResultSet, int, error) {
	l := lexer.New(queryText)
	l.AllowUnterminatedString = e.cfg.Lexer.AllowUnterminatedString
	p, err := parser.New(l)
	if err != nil {
		return nil, nil, 0, err
	}
	stmt, err := p.ParseStatement()
	if err != nil {
		return nil, nil, 0, err
	}
	rs, rowsScanned, err := e.executeStatement(stmt)
	return stmt, rs, rowsScanned, err
}

// BatchResult is the outcome of one statement within an ExecuteBatch run.
type BatchResult struct {
	Statement parser.Statement // nil if the statement failed to parse
	Result    *ResultSet       // nil unless Statement is a SELECT that succeeded
	Err       error
}

// ExecuteBatch runs every statement in text in order. A failing statement
// is reported in its BatchResult and execution continues with the next
// statement, per the batch-execution propagation policy.
func (e *Engine) ExecuteBatch(text string) []BatchResult {
	l := lexer.New(text)
	l.AllowUnterminatedString = e.cfg.Lexer.AllowUnterminatedString
	p, err := parser.New(l)
	if err != nil {
		return []BatchResult{{Err: err}}
	}

	var results []BatchResult
	for !p.AtEnd() {
		start := time.Now()
		stmt, err := p.ParseStatement()
		if err != nil {
			results = append(results, BatchResult{Err: err})
			if e.monitor != nil {
				e.monitor.Observe(&monitor.ExecutedStatement{Duration: time.Since(start), Err: err})
			}
			p.Resync()
			continue
		}

		rs, rowsScanned, err := e.executeStatement(stmt)
		results = append(results, BatchResult{Statement: stmt, Result: rs, Err: err})
		if e.monitor != nil {
			e.monitor.Observe(&monitor.ExecutedStatement{
				Statement: stmt, Duration: time.Since(start), Err: err, RowsScanned: rowsScanned,
			})
		}
	}
	return results
}

func (e *Engine) executeStatement(stmt parser.Statement) (*ResultSet, int, error) {
	switch s := stmt.(type) {
	case *parser.SelectStatement:
		return e.executeSelect(s)
	case *parser.InsertStatement:
		return nil, 0, e.executeInsert(s)
	case *parser.CreateTableStatement:
		return nil, 0, e.executeCreateTable(s)
	case *parser.AlterTableStatement:
		return nil, 0, e.executeAlterTable(s)
	case *parser.DropTableStatement:
		return nil, 0, e.executeDropTable(s)
	default:
		return nil, 0, fmt.Errorf("unsupported statement kind %T", stmt)
	}
}

// --- CREATE TABLE ---

func (e *Engine) executeCreateTable(s *parser.CreateTableStatement) error {
	table := catalog.NewTable(s.Table)

	for _, cd := range s.Columns {
		col := &catalog.Column{Name: cd.Name, Type: cd.Type, Constraints: cd.Constraints}
		if err := catalog.ValidateColumnAddition(table, col); err != nil {
			return err
		}
		table.AppendColumn(col)
	}

	var pkColumns []*catalog.Column
	for _, col := range table.Columns {
		if col.Has(catalog.PrimaryKeyConstraint) {
			pkColumns = append(pkColumns, col)
		}
	}
	if len(pkColumns) != 1 {
		return &catalog.SchemaError{Message: fmt.Sprintf(
			"table %q must declare exactly one PRIMARY_KEY column, found %d", s.Table, len(pkColumns))}
	}
	table.PrimaryKey = &catalog.PrimaryKey{Column: pkColumns[0]}

	for _, fkDef := range s.ForeignKeys {
		if err := e.attachForeignKey(table, fkDef); err != nil {
			return err
		}
	}

	if err := catalog.ValidateTableCreation(table, e.catalog); err != nil {
		return err
	}
	e.catalog.Put(table)
	return nil
}

// attachForeignKey resolves fkDef against table and the catalog and, if
// every endpoint is valid, appends the ForeignKey/Relation pair to table.
func (e *Engine) attachForeignKey(table *catalog.Table, fkDef parser.ForeignKeyDef) error {
	localCol, ok := table.Column(fkDef.Column)
	if !ok {
		return catalog.ErrColumnNotFound(table.Name, fkDef.Column)
	}
	for _, fk := range table.ForeignKeys {
		if fk.Column.Name == localCol.Name {
			return &catalog.SchemaError{Message: fmt.Sprintf(
				"column %q already has a FOREIGN_KEY", localCol.Name)}
		}
	}

	refTable, ok := e.catalog.Get(fkDef.ReferencedTable)
	if !ok {
		return catalog.ErrTableNotFound(fkDef.ReferencedTable)
	}
	refCol, ok := refTable.Column(fkDef.ReferencedCol)
	if !ok {
		return catalog.ErrColumnNotFound(refTable.Name, fkDef.ReferencedCol)
	}
	if !refCol.Has(catalog.PrimaryKeyConstraint) && !refCol.Has(catalog.Unique) {
		return &catalog.SchemaError{Message: fmt.Sprintf(
			"foreign key target %s.%s must be PRIMARY_KEY or UNIQUE", refTable.Name, refCol.Name)}
	}

	fk := &catalog.ForeignKey{Column: localCol, References: refCol}
	table.ForeignKeys = append(table.ForeignKeys, fk)
	table.Relations = append(table.Relations, &catalog.Relation{ForeignKey: fk, ReferencedTable: refTable})
	return nil
}

// --- INSERT ---

func (e *Engine) executeInsert(s *parser.InsertStatement) error {
	table, ok := e.catalog.Get(s.Table)
	if !ok {
		return catalog.ErrTableNotFound(s.Table)
	}

	columnNames := s.Columns
	if columnNames == nil {
		columnNames = make([]string, len(table.Columns))
		for i, col := range table.Columns {
			columnNames[i] = col.Name
		}
	}
	if len(columnNames) != len(s.Values) {
		return fmt.Errorf("INSERT into %q: %d columns but %d values", s.Table, len(columnNames), len(s.Values))
	}

	values := make(map[string]value.BoxedValue, len(table.Columns))
	for _, col := range table.Columns {
		values[col.Name] = value.Null(col.Type)
	}
	for i, name := range columnNames {
		col, ok := table.Column(name)
		if !ok {
			return catalog.ErrColumnNotFound(table.Name, name)
		}
		v, err := e.resolveComparisonValue(col, s.Values[i])
		if err != nil {
			return err
		}
		values[name] = v
	}

	row := catalog.Row{Values: values}
	if err := catalog.ValidateRowInsertion(table, row); err != nil {
		return err
	}
	table.AppendRow(row)
	return nil
}

// --- SELECT ---

func (e *Engine) executeSelect(s *parser.SelectStatement) (*ResultSet, int, error) {
	table, ok := e.catalog.Get(s.Table)
	if !ok {
		return nil, 0, catalog.ErrTableNotFound(s.Table)
	}

	columns := s.Columns
	if len(columns) == 1 && columns[0] == "*" {
		columns = make([]string, len(table.Columns))
		for i, col := range table.Columns {
			columns[i] = col.Name
		}
	} else {
		for _, name := range columns {
			if _, ok := table.Column(name); !ok {
				return nil, 0, catalog.ErrColumnNotFound(table.Name, name)
			}
		}
	}

	rs := &ResultSet{Columns: columns}
	rowsScanned := 0
	for _, row := range table.Rows {
		rowsScanned++
		ok, err := e.satisfiesWhere(table, row, s.Where)
		if err != nil {
			return nil, rowsScanned, err
		}
		if !ok {
			continue
		}
		cells := make([]string, len(columns))
		for i, name := range columns {
			v, _ := row.Get(name)
			cells[i] = v.String()
		}
		rs.Rows = append(rs.Rows, cells)
	}
	return rs, rowsScanned, nil
}

// satisfiesWhere evaluates where (nil means "no WHERE clause" — all rows
// match) against row.
func (e *Engine) satisfiesWhere(table *catalog.Table, row catalog.Row, where parser.WhereNode) (bool, error) {
	if where == nil {
		return true, nil
	}
	switch n := where.(type) {
	case *parser.ConditionGroup:
		switch n.Op {
		case parser.And:
			for _, child := range n.Children {
				ok, err := e.satisfiesWhere(table, row, child)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}
			return true, nil
		case parser.Or:
			for _, child := range n.Children {
				ok, err := e.satisfiesWhere(table, row, child)
				if err != nil {
					return false, err
				}
				if ok {
					return true, nil
				}
			}
			return false, nil
		default:
			return false, fmt.Errorf("unsupported logical operator %d", n.Op)
		}
	case *parser.Condition:
		return e.satisfiesCondition(table, row, n)
	default:
		return false, fmt.Errorf("unsupported WHERE node %T", where)
	}
}

// satisfiesCondition resolves a single leaf condition. An unknown column
// makes the condition false rather than raising a name error, matching
// the engine's source-parity policy (overridable via
// EngineConfig.Where.UnknownColumnIsError).
func (e *Engine) satisfiesCondition(table *catalog.Table, row catalog.Row, cond *parser.Condition) (bool, error) {
	col, ok := table.Column(cond.Column)
	if !ok {
		if e.cfg.Where.UnknownColumnIsError {
			return false, catalog.ErrColumnNotFound(table.Name, cond.Column)
		}
		return false, nil
	}
	rowValue, _ := row.Get(cond.Column)

	switch cond.Operator {
	case lexer.IS_NULL:
		return !rowValue.HasValue(), nil
	case lexer.IS_NOT_NULL:
		return rowValue.HasValue(), nil
	}

	rhs, err := e.resolveComparisonValue(col, cond.Value)
	if err != nil {
		return false, err
	}
	cmp, err := rowValue.Compare(rhs, e.compareOptions())
	if err != nil {
		return false, err
	}
	switch cond.Operator {
	case lexer.EQUAL:
		return cmp == 0, nil
	case lexer.NOT_EQUAL:
		return cmp != 0, nil
	case lexer.LESS_THAN:
		return cmp < 0, nil
	case lexer.LESS_EQUAL:
		return cmp <= 0, nil
	case lexer.GREATER_THAN:
		return cmp > 0, nil
	case lexer.GREATER_EQUAL:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported comparison operator %s", cond.Operator)
	}
}

// resolveComparisonValue parses literal text into a BoxedValue of col's
// declared DataType. Both INSERT and SELECT/WHERE funnel through this one
// helper so the "always drive from the column's type" rule can't drift
// between the two call sites.
func (e *Engine) resolveComparisonValue(col *catalog.Column, literal string) (value.BoxedValue, error) {
	return value.FromText(literal, col.Type)
}

// --- ALTER TABLE ---

func (e *Engine) executeAlterTable(s *parser.AlterTableStatement) error {
	table, ok := e.catalog.Get(s.Table)
	if !ok {
		return catalog.ErrTableNotFound(s.Table)
	}

	working := table.Clone()
	for _, op := range s.Operations {
		if err := e.applyAlterOperation(working, op); err != nil {
			return err
		}
	}
	table.ReplaceWith(working)
	return nil
}

func (e *Engine) applyAlterOperation(working *catalog.Table, op parser.AlterOperation) error {
	switch o := op.(type) {
	case *parser.AddColumnOp:
		return e.applyAddColumn(working, o.Column)
	case *parser.DropColumnOp:
		return e.applyDropColumn(working, o.Name)
	case *parser.AddForeignKeyOp:
		return e.applyAddForeignKey(working, o.ForeignKey)
	default:
		return fmt.Errorf("unsupported ALTER operation %T", op)
	}
}

func (e *Engine) applyAddColumn(working *catalog.Table, cd parser.ColumnDef) error {
	for _, c := range cd.Constraints {
		if c == catalog.PrimaryKeyConstraint {
			return &catalog.SchemaError{Message: "ADD COLUMN cannot declare PRIMARY_KEY"}
		}
		if c == catalog.NotNull {
			return &catalog.SchemaError{Message: "ADD COLUMN cannot declare NOT_NULL: existing rows would violate it"}
		}
	}
	col := &catalog.Column{Name: cd.Name, Type: cd.Type, Constraints: cd.Constraints}
	if err := catalog.ValidateColumnAddition(working, col); err != nil {
		return err
	}
	working.AppendColumn(col)
	return nil
}

func (e *Engine) applyDropColumn(working *catalog.Table, name string) error {
	col, ok := working.Column(name)
	if !ok {
		return catalog.ErrColumnNotFound(working.Name, name)
	}
	if working.PrimaryKey != nil && working.PrimaryKey.Column.Name == name {
		return &catalog.SchemaError{Message: fmt.Sprintf("cannot DROP COLUMN %q: it is the PRIMARY_KEY", name)}
	}

	for _, other := range e.catalog.Tables() {
		if other.Name == working.Name {
			continue
		}
		for _, rel := range other.Relations {
			if rel.ReferencedTable.Name == working.Name && rel.ForeignKey.References.Name == col.Name {
				return &catalog.SchemaError{Message: fmt.Sprintf(
					"cannot DROP COLUMN %q: %s.%s references it", name, other.Name, rel.ForeignKey.Column.Name)}
			}
		}
	}

	working.DropColumn(name)
	return nil
}

func (e *Engine) applyAddForeignKey(working *catalog.Table, fkDef parser.ForeignKeyDef) error {
	if err := e.attachForeignKey(working, fkDef); err != nil {
		return err
	}
	fk := working.ForeignKeys[len(working.ForeignKeys)-1]
	for _, row := range working.Rows {
		v, _ := row.Get(fk.Column.Name)
		if !v.HasValue() {
			continue
		}
		found := false
		for _, refRow := range fk.References.Table().Rows {
			rv, ok := refRow.Get(fk.References.Name)
			if ok && rv.Equal(v) {
				found = true
				break
			}
		}
		if !found {
			return &catalog.ConstraintError{Message: fmt.Sprintf(
				"existing value %q in column %q has no match in %s.%s",
				v.String(), fk.Column.Name, fk.References.Table().Name, fk.References.Name)}
		}
	}
	return nil
}

// --- DROP TABLE ---

func (e *Engine) executeDropTable(s *parser.DropTableStatement) error {
	if _, ok := e.catalog.Get(s.Table); !ok {
		return catalog.ErrTableNotFound(s.Table)
	}
	for _, other := range e.catalog.Tables() {
		if other.Name == s.Table {
			continue
		}
		for _, rel := range other.Relations {
			if rel.ReferencedTable.Name == s.Table {
				return &catalog.SchemaError{Message: fmt.Sprintf(
					"cannot DROP TABLE %q: %s.%s references it", s.Table, other.Name, rel.ForeignKey.Column.Name)}
			}
		}
	}
	e.catalog.Delete(s.Table)
	return nil
}
