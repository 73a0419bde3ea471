package sqltree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// Conformance selects how forgiving the grammar parser is.
type Conformance int

const (
	// Lenient accepts partially parsed DDL statements.
	Lenient Conformance = iota
	// Strict rejects any statement the grammar cannot fully parse.
	Strict
)

func (c Conformance) String() string {
	if c == Strict {
		return "strict"
	}
	return "lenient"
}

// ParseConformance parses a conformance name. The empty string means Lenient.
func ParseConformance(s string) (Conformance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("unknown conformance %q (expected lenient or strict)", s)
	}
}

// ErrEmptyQuery is returned when the text holds no statement at all.
var ErrEmptyQuery = errors.New("query text is empty")

// Tree is the parsed form of one statement.
type Tree struct {
	Root        Node
	Text        string
	Conformance Conformance
}

// StatementKind returns the top-level statement kind, e.g. SELECT, UNION or UPDATE.
func (t *Tree) StatementKind() string {
	return StatementKind(t.Root)
}

// Select returns the root as a SELECT block, if it is one.
func (t *Tree) Select() (*Select, bool) {
	s, ok := t.Root.(*Select)
	return s, ok
}

// StatementKind returns the statement kind of a query or statement node.
func StatementKind(n Node) string {
	switch x := n.(type) {
	case *Select:
		return "SELECT"
	case *Union:
		return "UNION"
	case *Statement:
		return x.Verb
	case nil:
		return "EMPTY"
	default:
		return x.Kind().String()
	}
}

// Parse parses a single SQL statement. Parser errors are returned unchanged.
func Parse(text string, conf Conformance) (*Tree, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	parse := sqlparser.Parse
	if conf == Strict {
		parse = sqlparser.ParseStrictDDL
	}

	stmt, err := parse(text)
	if err != nil {
		return nil, err
	}

	return &Tree{
		Root:        convertStatement(stmt, text),
		Text:        text,
		Conformance: conf,
	}, nil
}

func convertStatement(stmt sqlparser.Statement, text string) Node {
	if q, ok := stmt.(sqlparser.SelectStatement); ok {
		return convertQuery(q, nil, ClauseNone)
	}
	return &Statement{
		base: base{text: strings.TrimSpace(text)},
		Verb: statementVerb(stmt, text),
	}
}

func statementVerb(stmt sqlparser.Statement, text string) string {
	switch s := stmt.(type) {
	case *sqlparser.Insert:
		return strings.ToUpper(s.Action)
	case *sqlparser.Update:
		return "UPDATE"
	case *sqlparser.Delete:
		return "DELETE"
	case *sqlparser.DDL:
		return strings.ToUpper(s.Action)
	case *sqlparser.DBDDL:
		return strings.ToUpper(s.Action) + " DATABASE"
	}
	return sqlparser.StmtType(sqlparser.Preview(text))
}
