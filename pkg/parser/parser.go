// Package parser turns a token stream from pkg/lexer into a Statement AST
// by recursive descent, keeping exactly one token of look-ahead.
package parser

import (
	"github.com/corvid-db/corvid/pkg/catalog"
	"github.com/corvid-db/corvid/pkg/lexer"
	"github.com/corvid-db/corvid/pkg/value"
)

// Parser is a recursive-descent parser over a *lexer.Lexer. It is built
// either fresh over a string (NewFromString) or over an existing Lexer
// (New) so a caller running several statements out of one text blob can
// keep advancing the same underlying position across ParseStatement calls.
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token
}

// New builds a Parser over an existing Lexer, priming the look-ahead.
func New(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{l: l}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewFromString builds a Parser over a fresh Lexer for text.
func NewFromString(text string) (*Parser, error) {
	return New(lexer.New(text))
}

func (p *Parser) nextToken() error {
	p.cur = p.peek
	t, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peek.Type == t }

// expect advances past cur if it matches t, returning the consumed token;
// otherwise it returns a *ParseError describing what was expected.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.curTokenIs(t) {
		return lexer.Token{}, newParseError(t.String(), p.cur)
	}
	tok := p.cur
	if err := p.nextToken(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

// AtEnd reports whether the parser has consumed the whole statement
// (cur is END_OF_QUERY). Callers doing batch execution use this to know
// whether more statements remain in the underlying Lexer.
func (p *Parser) AtEnd() bool {
	return p.curTokenIs(lexer.END_OF_QUERY)
}

// Resync discards tokens up to and past the next END_OF_QUERY, ignoring
// further lex errors along the way, leaving cur on the following
// statement's first token exactly as ParseStatement does on success. Used
// by batch execution to recover the Parser's position after a statement
// fails, so the next statement in the same text can still be attempted.
func (p *Parser) Resync() {
	for !p.curTokenIs(lexer.END_OF_QUERY) {
		if err := p.nextToken(); err != nil {
			continue
		}
	}
	_ = p.nextToken()
}

// ParseStatement parses exactly one statement (through its terminating
// END_OF_QUERY) and returns its AST.
func (p *Parser) ParseStatement() (Statement, error) {
	var (
		stmt Statement
		err  error
	)
	switch p.cur.Type {
	case lexer.SELECT:
		stmt, err = p.parseSelect()
	case lexer.INSERT:
		stmt, err = p.parseInsert()
	case lexer.CREATE:
		stmt, err = p.parseCreateTable()
	case lexer.ALTER:
		stmt, err = p.parseAlterTable()
	case lexer.DROP:
		stmt, err = p.parseDropTable()
	default:
		return nil, newParseError("SELECT, INSERT, CREATE, ALTER, or DROP", p.cur)
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.END_OF_QUERY); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseSelect() (*SelectStatement, error) {
	if _, err := p.expect(lexer.SELECT); err != nil {
		return nil, err
	}

	var columns []string
	for {
		if p.curTokenIs(lexer.STAR) {
			columns = append(columns, "*")
			if err := p.nextToken(); err != nil {
				return nil, err
			}
		} else {
			tok, err := p.expect(lexer.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			columns = append(columns, tok.Literal)
		}
		if !p.curTokenIs(lexer.COMMA) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if len(columns) == 0 {
		return nil, newParseError("at least one column", p.cur)
	}

	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	table, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	stmt := &SelectStatement{Columns: columns, Table: table.Literal}
	if p.curTokenIs(lexer.WHERE) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		where, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *Parser) parseOr() (WhereNode, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []WhereNode{first}
	for p.curTokenIs(lexer.OR) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &ConditionGroup{Op: Or, Children: children}, nil
}

func (p *Parser) parseAnd() (WhereNode, error) {
	first, err := p.parseWhereExpr()
	if err != nil {
		return nil, err
	}
	children := []WhereNode{first}
	for p.curTokenIs(lexer.AND) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		next, err := p.parseWhereExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	// Always wrapped, even for a single condition, so the engine's
	// evaluator only ever walks ConditionGroup nodes.
	return &ConditionGroup{Op: And, Children: children}, nil
}

func (p *Parser) parseWhereExpr() (WhereNode, error) {
	if p.curTokenIs(lexer.LEFT_PAREN) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RIGHT_PAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parseCondition()
}

func (p *Parser) parseCondition() (*Condition, error) {
	col, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	switch p.cur.Type {
	case lexer.IS_NULL, lexer.IS_NOT_NULL:
		op := p.cur.Type
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &Condition{Column: col.Literal, Operator: op}, nil
	case lexer.EQUAL, lexer.NOT_EQUAL, lexer.LESS_THAN, lexer.LESS_EQUAL, lexer.GREATER_THAN, lexer.GREATER_EQUAL:
		op := p.cur.Type
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		rhs := p.cur
		if rhs.Type != lexer.IDENTIFIER && rhs.Type != lexer.NUMBER && rhs.Type != lexer.STRING {
			return nil, newParseError("identifier, number, or string literal", rhs)
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &Condition{Column: col.Literal, Operator: op, Value: rhs.Literal}, nil
	default:
		return nil, newParseError("comparison operator, IS_NULL, or IS_NOT_NULL", p.cur)
	}
}

func (p *Parser) parseInsert() (*InsertStatement, error) {
	if _, err := p.expect(lexer.INSERT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.INTO); err != nil {
		return nil, err
	}
	table, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	stmt := &InsertStatement{Table: table.Literal}
	if p.curTokenIs(lexer.LEFT_PAREN) {
		cols, err := p.parseIdentifierList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if _, err := p.expect(lexer.VALUES); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LEFT_PAREN); err != nil {
		return nil, err
	}
	for {
		v := p.cur
		if v.Type != lexer.IDENTIFIER && v.Type != lexer.NUMBER && v.Type != lexer.STRING {
			return nil, newParseError("identifier, number, or string literal", v)
		}
		stmt.Values = append(stmt.Values, v.Literal)
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if !p.curTokenIs(lexer.COMMA) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RIGHT_PAREN); err != nil {
		return nil, err
	}
	if stmt.Columns != nil && len(stmt.Columns) != len(stmt.Values) {
		return nil, newParseError("matching column and value counts", p.cur)
	}
	return stmt, nil
}

// parseIdentifierList parses `( ident, ident, ... )`.
func (p *Parser) parseIdentifierList() ([]string, error) {
	if _, err := p.expect(lexer.LEFT_PAREN); err != nil {
		return nil, err
	}
	var names []string
	for {
		tok, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Literal)
		if !p.curTokenIs(lexer.COMMA) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RIGHT_PAREN); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseCreateTable() (*CreateTableStatement, error) {
	if _, err := p.expect(lexer.CREATE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TABLE); err != nil {
		return nil, err
	}
	table, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LEFT_PAREN); err != nil {
		return nil, err
	}

	stmt := &CreateTableStatement{Table: table.Literal}
	for {
		if p.curTokenIs(lexer.FOREIGN_KEY) {
			fk, err := p.parseForeignKeyClause()
			if err != nil {
				return nil, err
			}
			stmt.ForeignKeys = append(stmt.ForeignKeys, fk)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if !p.curTokenIs(lexer.COMMA) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RIGHT_PAREN); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseColumnDef parses `name type constraint*`.
func (p *Parser) parseColumnDef() (ColumnDef, error) {
	name, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ColumnDef{}, err
	}
	typeTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ColumnDef{}, err
	}
	dt, err := value.ParseDataType(typeTok.Literal)
	if err != nil {
		return ColumnDef{}, newParseError("a known data type", typeTok)
	}

	col := ColumnDef{Name: name.Literal, Type: dt}
	for {
		switch p.cur.Type {
		case lexer.PRIMARY_KEY:
			col.Constraints = append(col.Constraints, catalog.PrimaryKeyConstraint)
		case lexer.NOT_NULL:
			col.Constraints = append(col.Constraints, catalog.NotNull)
		case lexer.UNIQUE:
			col.Constraints = append(col.Constraints, catalog.Unique)
		default:
			return col, nil
		}
		if err := p.nextToken(); err != nil {
			return ColumnDef{}, err
		}
	}
}

// parseForeignKeyClause parses `FOREIGN_KEY col REFERENCES table col`.
func (p *Parser) parseForeignKeyClause() (ForeignKeyDef, error) {
	if _, err := p.expect(lexer.FOREIGN_KEY); err != nil {
		return ForeignKeyDef{}, err
	}
	col, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ForeignKeyDef{}, err
	}
	if _, err := p.expect(lexer.REFERENCES); err != nil {
		return ForeignKeyDef{}, err
	}
	refTable, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ForeignKeyDef{}, err
	}
	refCol, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ForeignKeyDef{}, err
	}
	return ForeignKeyDef{Column: col.Literal, ReferencedTable: refTable.Literal, ReferencedCol: refCol.Literal}, nil
}

func (p *Parser) parseAlterTable() (*AlterTableStatement, error) {
	if _, err := p.expect(lexer.ALTER); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TABLE); err != nil {
		return nil, err
	}
	table, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	stmt := &AlterTableStatement{Table: table.Literal}
	for {
		op, err := p.parseAlterOperation()
		if err != nil {
			return nil, err
		}
		stmt.Operations = append(stmt.Operations, op)
		if !(p.curTokenIs(lexer.ADD) || p.curTokenIs(lexer.DROP)) {
			break
		}
	}
	return stmt, nil
}

func (p *Parser) parseAlterOperation() (AlterOperation, error) {
	switch p.cur.Type {
	case lexer.ADD:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if p.curTokenIs(lexer.FOREIGN_KEY) {
			fk, err := p.parseForeignKeyClause()
			if err != nil {
				return nil, err
			}
			return &AddForeignKeyOp{ForeignKey: fk}, nil
		}
		if _, err := p.expect(lexer.COLUMN); err != nil {
			return nil, err
		}
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		return &AddColumnOp{Column: col}, nil
	case lexer.DROP:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLUMN); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &DropColumnOp{Name: name.Literal}, nil
	default:
		return nil, newParseError("ADD or DROP", p.cur)
	}
}

func (p *Parser) parseDropTable() (*DropTableStatement, error) {
	if _, err := p.expect(lexer.DROP); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TABLE); err != nil {
		return nil, err
	}
	table, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return &DropTableStatement{Table: table.Literal}, nil
}
