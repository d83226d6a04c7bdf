package engine

import (
	"testing"

	"github.com/corvid-db/corvid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *Engine {
	return New(*config.DefaultConfig())
}

func mustExec(t *testing.T, e *Engine, sql string) *ResultSet {
	t.Helper()
	rs, err := e.Execute(sql)
	require.NoError(t, err, sql)
	return rs
}

func mustErr(t *testing.T, e *Engine, sql string) error {
	t.Helper()
	_, err := e.Execute(sql)
	require.Error(t, err, sql)
	return err
}

func TestCreateInsertSelect(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE people (id INTEGER PRIMARY_KEY, name TEXT, age INTEGER);")
	mustExec(t, e, "INSERT INTO people VALUES (1, 'Ada', 36);")
	mustExec(t, e, "INSERT INTO people VALUES (2, 'Lin', 29);")

	rs := mustExec(t, e, "SELECT * FROM people WHERE age > 30;")
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, []string{"id", "name", "age"}, rs.Columns)
	assert.Equal(t, []string{"1", "Ada", "36"}, rs.Rows[0])
}

func TestUniqueConstraintViolation(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE users (id INTEGER PRIMARY_KEY, email TEXT UNIQUE);")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'a@example.com');")

	err := mustErr(t, e, "INSERT INTO users VALUES (2, 'a@example.com');")
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestForeignKeyRejectsDanglingReference(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE departments (id INTEGER PRIMARY_KEY, name TEXT);")
	mustExec(t, e, "CREATE TABLE employees (id INTEGER PRIMARY_KEY, dept_id INTEGER, FOREIGN_KEY dept_id REFERENCES departments id);")

	err := mustErr(t, e, "INSERT INTO employees VALUES (1, 99);")
	assert.Contains(t, err.Error(), "no matching row")
}

func TestForeignKeyAcceptsValidReference(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE departments (id INTEGER PRIMARY_KEY, name TEXT);")
	mustExec(t, e, "CREATE TABLE employees (id INTEGER PRIMARY_KEY, dept_id INTEGER, FOREIGN_KEY dept_id REFERENCES departments id);")
	mustExec(t, e, "INSERT INTO departments VALUES (1, 'Eng');")
	mustExec(t, e, "INSERT INTO employees VALUES (1, 1);")

	rs := mustExec(t, e, "SELECT * FROM employees;")
	require.Len(t, rs.Rows, 1)
}

func TestWherePrecedenceWithParens(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE items (id INTEGER PRIMARY_KEY, category TEXT, price INTEGER);")
	mustExec(t, e, "INSERT INTO items VALUES (1, 'book', 10);")
	mustExec(t, e, "INSERT INTO items VALUES (2, 'book', 50);")
	mustExec(t, e, "INSERT INTO items VALUES (3, 'toy', 10);")

	rs := mustExec(t, e, "SELECT * FROM items WHERE category = 'book' AND (price = 10 OR price = 20);")
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "1", rs.Rows[0][0])
}

func TestAlterTableAddAndDropColumn(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE widgets (id INTEGER PRIMARY_KEY, name TEXT);")
	mustExec(t, e, "INSERT INTO widgets VALUES (1, 'gadget');")

	mustExec(t, e, "ALTER TABLE widgets ADD COLUMN weight DOUBLE;")
	tbl, ok := e.GetTable("widgets")
	require.True(t, ok)
	_, hasWeight := tbl.Column("weight")
	assert.True(t, hasWeight)

	mustExec(t, e, "ALTER TABLE widgets DROP COLUMN weight;")
	tbl, ok = e.GetTable("widgets")
	require.True(t, ok)
	_, hasWeight = tbl.Column("weight")
	assert.False(t, hasWeight)
}

func TestAlterTableDropColumnRejectsPrimaryKey(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE widgets (id INTEGER PRIMARY_KEY, name TEXT);")

	err := mustErr(t, e, "ALTER TABLE widgets DROP COLUMN id;")
	assert.Contains(t, err.Error(), "PRIMARY_KEY")
}

func TestAlterTableAddForeignKeyRevalidatesExistingRows(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE departments (id INTEGER PRIMARY_KEY, name TEXT);")
	mustExec(t, e, "CREATE TABLE employees (id INTEGER PRIMARY_KEY, dept_id INTEGER);")
	mustExec(t, e, "INSERT INTO employees VALUES (1, 99);")

	err := mustErr(t, e, "ALTER TABLE employees ADD FOREIGN_KEY dept_id REFERENCES departments id;")
	assert.Contains(t, err.Error(), "no match")

	tbl, ok := e.GetTable("employees")
	require.True(t, ok)
	assert.Len(t, tbl.ForeignKeys, 0)
}

func TestAlterTableDropColumnRejectsCrossTableReference(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE departments (id INTEGER PRIMARY_KEY, code INTEGER UNIQUE);")
	mustExec(t, e, "CREATE TABLE employees (id INTEGER PRIMARY_KEY, dept_code INTEGER, FOREIGN_KEY dept_code REFERENCES departments code);")

	err := mustErr(t, e, "ALTER TABLE departments DROP COLUMN code;")
	assert.Contains(t, err.Error(), "references it")
}

func TestIsNullComparison(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE people (id INTEGER PRIMARY_KEY, nickname TEXT);")
	mustExec(t, e, "INSERT INTO people VALUES (1, NULL);")
	mustExec(t, e, "INSERT INTO people VALUES (2, 'Bee');")

	rs := mustExec(t, e, "SELECT id FROM people WHERE nickname IS_NULL;")
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "1", rs.Rows[0][0])

	rs = mustExec(t, e, "SELECT id FROM people WHERE nickname IS_NOT_NULL;")
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "2", rs.Rows[0][0])
}

func TestCreateTableRequiresExactlyOnePrimaryKey(t *testing.T) {
	e := newEngine()
	err := mustErr(t, e, "CREATE TABLE bad (a INTEGER, b INTEGER);")
	assert.Contains(t, err.Error(), "PRIMARY_KEY")
}

func TestAllOrNothingOnAlterFailureLeavesTableUnchanged(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE widgets (id INTEGER PRIMARY_KEY, name TEXT);")

	before, _ := e.GetTable("widgets")
	err := mustErr(t, e, "ALTER TABLE widgets ADD COLUMN name TEXT;") // duplicate column name
	assert.Error(t, err)

	after, _ := e.GetTable("widgets")
	assert.Equal(t, len(before.Columns), len(after.Columns))
}

func TestDropTableRejectsWhenReferenced(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE departments (id INTEGER PRIMARY_KEY, name TEXT);")
	mustExec(t, e, "CREATE TABLE employees (id INTEGER PRIMARY_KEY, dept_id INTEGER, FOREIGN_KEY dept_id REFERENCES departments id);")

	err := mustErr(t, e, "DROP TABLE departments;")
	assert.Contains(t, err.Error(), "references it")
}

func TestDropTableSucceedsWhenUnreferenced(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE widgets (id INTEGER PRIMARY_KEY, name TEXT);")
	mustExec(t, e, "DROP TABLE widgets;")

	_, ok := e.GetTable("widgets")
	assert.False(t, ok)
}

func TestExecuteBatchContinuesAfterError(t *testing.T) {
	e := newEngine()
	mustExec(t, e, "CREATE TABLE people (id INTEGER PRIMARY_KEY, name TEXT);")

	results := e.ExecuteBatch("INSERT INTO people VALUES (1, 'Ada'); INSERT INTO ghost VALUES (1); INSERT INTO people VALUES (2, 'Lin');")
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)

	rs := mustExec(t, e, "SELECT * FROM people;")
	assert.Len(t, rs.Rows, 2)
}
