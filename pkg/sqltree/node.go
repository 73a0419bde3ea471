package sqltree

// Kind identifies the concrete type of a Node.
type Kind int

// Node kinds.
const (
	KindSelect Kind = iota
	KindUnion
	KindSubquery
	KindJoin
	KindTable
	KindIdentifier
	KindLiteral
	KindFunc
	KindOperator
	KindStar
	KindStatement
)

var kindNames = [...]string{
	KindSelect:     "SELECT",
	KindUnion:      "UNION",
	KindSubquery:   "SUBQUERY",
	KindJoin:       "JOIN",
	KindTable:      "TABLE",
	KindIdentifier: "IDENTIFIER",
	KindLiteral:    "LITERAL",
	KindFunc:       "FUNC",
	KindOperator:   "OPERATOR",
	KindStar:       "STAR",
	KindStatement:  "STATEMENT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Clause names the part of a SELECT a node sits in.
type Clause int

// Clauses of a SELECT. ClauseNone is used for nodes that have no enclosing SELECT.
const (
	ClauseNone Clause = iota
	ClauseProjection
	ClauseFrom
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseOrderBy
	ClauseLimit
)

var clauseNames = [...]string{
	ClauseNone:       "NONE",
	ClauseProjection: "SELECT",
	ClauseFrom:       "FROM",
	ClauseWhere:      "WHERE",
	ClauseGroupBy:    "GROUP BY",
	ClauseHaving:     "HAVING",
	ClauseOrderBy:    "ORDER BY",
	ClauseLimit:      "LIMIT",
}

func (c Clause) String() string {
	if int(c) < len(clauseNames) {
		return clauseNames[c]
	}
	return "UNKNOWN"
}

// Node is implemented by every syntax tree node.
// The set of implementations is closed: Select, Union, Subquery, Join,
// Table, Identifier, Literal, Func, Operator, Star and Statement.
type Node interface {
	Kind() Kind
	// Parent returns the enclosing node, or nil for the root.
	Parent() Node
	// Clause returns the clause of the nearest enclosing SELECT (or UNION)
	// this node belongs to.
	Clause() Clause
	// Children returns the direct children in document order.
	Children() []Node
	// String returns the SQL text of the node.
	String() string

	node()
}

type base struct {
	parent Node
	clause Clause
	text   string
}

func (b *base) Parent() Node   { return b.parent }
func (b *base) Clause() Clause { return b.clause }
func (b *base) String() string { return b.text }
func (b *base) node()          {}

// Select is a single SELECT query block.
type Select struct {
	base
	Distinct   bool
	Projection []Node
	From       []Node
	Where      Node
	GroupBy    []Node
	Having     Node
	OrderBy    []Node
	Limit      []Node
}

func (*Select) Kind() Kind { return KindSelect }

func (s *Select) Children() []Node {
	var out []Node
	out = append(out, s.Projection...)
	out = append(out, s.From...)
	if s.Where != nil {
		out = append(out, s.Where)
	}
	out = append(out, s.GroupBy...)
	if s.Having != nil {
		out = append(out, s.Having)
	}
	out = append(out, s.OrderBy...)
	out = append(out, s.Limit...)
	return out
}

// ClauseNodes returns the direct children that belong to clause c.
func (s *Select) ClauseNodes(c Clause) []Node {
	switch c {
	case ClauseProjection:
		return s.Projection
	case ClauseFrom:
		return s.From
	case ClauseWhere:
		if s.Where != nil {
			return []Node{s.Where}
		}
	case ClauseGroupBy:
		return s.GroupBy
	case ClauseHaving:
		if s.Having != nil {
			return []Node{s.Having}
		}
	case ClauseOrderBy:
		return s.OrderBy
	case ClauseLimit:
		return s.Limit
	}
	return nil
}

// Union is a set operation over two queries.
type Union struct {
	base
	Op      string
	Left    Node
	Right   Node
	OrderBy []Node
	Limit   []Node
}

func (*Union) Kind() Kind { return KindUnion }

func (u *Union) Children() []Node {
	out := []Node{u.Left, u.Right}
	out = append(out, u.OrderBy...)
	return append(out, u.Limit...)
}

// Subquery is a parenthesized query used as an expression or a derived table.
// String returns the text of the inner query without the parentheses.
type Subquery struct {
	base
	Alias string
	Query Node
}

func (*Subquery) Kind() Kind { return KindSubquery }

func (s *Subquery) Children() []Node { return []Node{s.Query} }

// Join is a join between two table expressions.
type Join struct {
	base
	Op    string
	Left  Node
	Right Node
	On    Node
	Using []string
}

func (*Join) Kind() Kind { return KindJoin }

func (j *Join) Children() []Node {
	out := []Node{j.Left, j.Right}
	if j.On != nil {
		out = append(out, j.On)
	}
	return out
}

// Table is a named table reference.
type Table struct {
	base
	Qualifier string
	Name      string
	Alias     string
}

func (*Table) Kind() Kind       { return KindTable }
func (*Table) Children() []Node { return nil }

// Identifier is a column reference.
type Identifier struct {
	base
	Qualifier string
	Name      string
}

func (*Identifier) Kind() Kind       { return KindIdentifier }
func (*Identifier) Children() []Node { return nil }

// Literal is a constant, NULL, boolean or bind parameter.
type Literal struct {
	base
	Value string
}

func (*Literal) Kind() Kind       { return KindLiteral }
func (*Literal) Children() []Node { return nil }

// Func is a function call.
type Func struct {
	base
	Name string
	Args []Node
}

func (*Func) Kind() Kind         { return KindFunc }
func (f *Func) Children() []Node { return f.Args }

// Operator is any other expression: comparisons, boolean logic, arithmetic,
// EXISTS, CASE and so on.
type Operator struct {
	base
	Op       string
	Operands []Node
}

func (*Operator) Kind() Kind         { return KindOperator }
func (o *Operator) Children() []Node { return o.Operands }

// Star is a * or t.* projection.
type Star struct {
	base
	Qualifier string
}

func (*Star) Kind() Kind       { return KindStar }
func (*Star) Children() []Node { return nil }

// Statement is any statement that is not a query (INSERT, UPDATE, DDL, ...).
type Statement struct {
	base
	Verb string
}

func (*Statement) Kind() Kind       { return KindStatement }
func (*Statement) Children() []Node { return nil }
