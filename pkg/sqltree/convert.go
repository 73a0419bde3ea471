package sqltree

import (
	"reflect"
	"strings"

	"github.com/xwb1989/sqlparser"
)

func convertQuery(q sqlparser.SelectStatement, parent Node, clause Clause) Node {
	switch s := q.(type) {
	case *sqlparser.ParenSelect:
		return convertQuery(s.Select, parent, clause)

	case *sqlparser.Union:
		u := &Union{
			base: base{parent: parent, clause: clause, text: sqlparser.String(s)},
			Op:   strings.ToUpper(s.Type),
		}
		u.Left = convertQuery(s.Left, u, ClauseNone)
		u.Right = convertQuery(s.Right, u, ClauseNone)
		for _, o := range s.OrderBy {
			u.OrderBy = append(u.OrderBy, convertExpr(o.Expr, u, ClauseOrderBy))
		}
		u.Limit = convertLimit(s.Limit, u)
		return u

	case *sqlparser.Select:
		sel := &Select{
			base:     base{parent: parent, clause: clause, text: sqlparser.String(s)},
			Distinct: s.Distinct != "",
		}
		for _, e := range s.SelectExprs {
			sel.Projection = append(sel.Projection, convertSelectExpr(e, sel, ClauseProjection))
		}
		for _, t := range s.From {
			sel.From = append(sel.From, convertTableExpr(t, sel, ClauseFrom))
		}
		if s.Where != nil && s.Where.Expr != nil {
			sel.Where = convertExpr(s.Where.Expr, sel, ClauseWhere)
		}
		for _, e := range s.GroupBy {
			sel.GroupBy = append(sel.GroupBy, convertExpr(e, sel, ClauseGroupBy))
		}
		if s.Having != nil && s.Having.Expr != nil {
			sel.Having = convertExpr(s.Having.Expr, sel, ClauseHaving)
		}
		for _, o := range s.OrderBy {
			sel.OrderBy = append(sel.OrderBy, convertExpr(o.Expr, sel, ClauseOrderBy))
		}
		sel.Limit = convertLimit(s.Limit, sel)
		return sel
	}

	return &Operator{
		base: base{parent: parent, clause: clause, text: sqlparser.String(q)},
		Op:   "query",
	}
}

func convertLimit(l *sqlparser.Limit, parent Node) []Node {
	if l == nil {
		return nil
	}
	var out []Node
	for _, e := range []sqlparser.Expr{l.Offset, l.Rowcount} {
		if !isNil(e) {
			out = append(out, convertExpr(e, parent, ClauseLimit))
		}
	}
	return out
}

func convertSubquery(sq *sqlparser.Subquery, alias string, parent Node, clause Clause) Node {
	inner := sq.Select
	for {
		p, ok := inner.(*sqlparser.ParenSelect)
		if !ok {
			break
		}
		inner = p.Select
	}

	s := &Subquery{
		base:  base{parent: parent, clause: clause, text: sqlparser.String(inner)},
		Alias: alias,
	}
	s.Query = convertQuery(inner, s, ClauseNone)
	return s
}

func convertTableExpr(te sqlparser.TableExpr, parent Node, clause Clause) Node {
	b := base{parent: parent, clause: clause, text: sqlparser.String(te)}

	switch t := te.(type) {
	case *sqlparser.AliasedTableExpr:
		switch x := t.Expr.(type) {
		case sqlparser.TableName:
			return &Table{base: b, Qualifier: x.Qualifier.String(), Name: x.Name.String(), Alias: t.As.String()}
		case *sqlparser.Subquery:
			return convertSubquery(x, t.As.String(), parent, clause)
		}

	case *sqlparser.ParenTableExpr:
		if len(t.Exprs) == 1 {
			return convertTableExpr(t.Exprs[0], parent, clause)
		}
		op := &Operator{base: b, Op: "tables"}
		for _, inner := range t.Exprs {
			op.Operands = append(op.Operands, convertTableExpr(inner, op, clause))
		}
		return op

	case *sqlparser.JoinTableExpr:
		j := &Join{base: b, Op: strings.ToUpper(t.Join)}
		j.Left = convertTableExpr(t.LeftExpr, j, clause)
		j.Right = convertTableExpr(t.RightExpr, j, clause)
		if !isNil(t.Condition.On) {
			j.On = convertExpr(t.Condition.On, j, clause)
		}
		for _, col := range t.Condition.Using {
			j.Using = append(j.Using, col.String())
		}
		return j
	}

	return &Operator{base: b, Op: "table"}
}

func convertSelectExpr(se sqlparser.SelectExpr, parent Node, clause Clause) Node {
	switch x := se.(type) {
	case *sqlparser.StarExpr:
		s := &Star{base: base{parent: parent, clause: clause, text: sqlparser.String(x)}}
		if !x.TableName.IsEmpty() {
			s.Qualifier = sqlparser.String(x.TableName)
		}
		return s
	case *sqlparser.AliasedExpr:
		return convertExpr(x.Expr, parent, clause)
	case sqlparser.Nextval:
		return convertExpr(x.Expr, parent, clause)
	}
	return convertOther(se, parent, clause)
}

func convertExpr(e sqlparser.SQLNode, parent Node, clause Clause) Node {
	b := base{parent: parent, clause: clause, text: sqlparser.String(e)}

	switch x := e.(type) {
	case *sqlparser.ParenExpr:
		return convertExpr(x.Expr, parent, clause)
	case *sqlparser.Subquery:
		return convertSubquery(x, "", parent, clause)
	case *sqlparser.ColName:
		id := &Identifier{base: b, Name: x.Name.String()}
		if !x.Qualifier.IsEmpty() {
			id.Qualifier = sqlparser.String(x.Qualifier)
		}
		return id
	case *sqlparser.SQLVal, *sqlparser.NullVal, sqlparser.BoolVal:
		return &Literal{base: b, Value: b.text}
	case *sqlparser.FuncExpr:
		f := &Func{base: b, Name: x.Name.String()}
		if !x.Qualifier.IsEmpty() {
			f.Name = x.Qualifier.String() + "." + f.Name
		}
		for _, arg := range x.Exprs {
			f.Args = append(f.Args, convertSelectExpr(arg, f, clause))
		}
		return f
	}

	return convertOther(e, parent, clause)
}

// convertOther handles every remaining expression as a generic operator
// whose operands are its converted direct children.
func convertOther(n sqlparser.SQLNode, parent Node, clause Clause) Node {
	op := &Operator{
		base: base{parent: parent, clause: clause, text: sqlparser.String(n)},
		Op:   operatorName(n),
	}
	op.Operands = convertChildren(n, op, clause)
	return op
}

func convertChildren(n sqlparser.SQLNode, parent Node, clause Clause) []Node {
	var out []Node
	for _, child := range directChildren(n) {
		switch c := child.(type) {
		case sqlparser.SelectStatement:
			out = append(out, convertQuery(c, parent, clause))
		case sqlparser.Expr:
			out = append(out, convertExpr(c, parent, clause))
		case sqlparser.SelectExpr:
			out = append(out, convertSelectExpr(c, parent, clause))
		case sqlparser.TableExpr:
			out = append(out, convertTableExpr(c, parent, clause))
		default:
			// containers such as CASE branches are flattened into the parent
			out = append(out, convertChildren(c, parent, clause)...)
		}
	}
	return out
}

// directChildren returns the non-nil nodes one level below n.
func directChildren(n sqlparser.SQLNode) []sqlparser.SQLNode {
	var out []sqlparser.SQLNode
	self := true
	_ = sqlparser.Walk(func(child sqlparser.SQLNode) (bool, error) {
		if self {
			self = false
			return true, nil
		}
		if !isNil(child) {
			out = append(out, child)
		}
		return false, nil
	}, n)
	return out
}

func operatorName(n sqlparser.SQLNode) string {
	switch x := n.(type) {
	case *sqlparser.ComparisonExpr:
		return x.Operator
	case *sqlparser.RangeCond:
		return x.Operator
	case *sqlparser.IsExpr:
		return x.Operator
	case *sqlparser.BinaryExpr:
		return x.Operator
	case *sqlparser.UnaryExpr:
		return x.Operator
	case *sqlparser.AndExpr:
		return "and"
	case *sqlparser.OrExpr:
		return "or"
	case *sqlparser.NotExpr:
		return "not"
	case *sqlparser.ExistsExpr:
		return "exists"
	case *sqlparser.CaseExpr:
		return "case"
	case sqlparser.ValTuple:
		return "tuple"
	}
	name := reflect.Indirect(reflect.ValueOf(n)).Type().Name()
	return strings.ToLower(strings.TrimSuffix(name, "Expr"))
}

// isNil reports whether n is nil, including typed nil pointers the
// parser leaves in optional fields.
func isNil(n any) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
