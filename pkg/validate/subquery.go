package validate

import "github.com/leapstack-labs/sqlinput/pkg/sqltree"

// clauseOrder is the order in which subqueries of a SELECT are checked.
var clauseOrder = []sqltree.Clause{
	sqltree.ClauseProjection,
	sqltree.ClauseWhere,
	sqltree.ClauseFrom,
	sqltree.ClauseGroupBy,
	sqltree.ClauseHaving,
	sqltree.ClauseOrderBy,
	sqltree.ClauseLimit,
}

// Subqueries checks that the tree is a SELECT and that every subquery in it,
// at any depth, is a syntactically valid SELECT sitting in the WHERE or FROM
// clause of its enclosing SELECT. It stops at the first violation.
func Subqueries(tree *sqltree.Tree, conf sqltree.Conformance) error {
	sel, ok := tree.Select()
	if !ok {
		return &StructureError{Expected: "SELECT", Found: tree.StatementKind(), Fragment: tree.Text}
	}
	return checkSelect(sel, conf)
}

func checkSelect(sel *sqltree.Select, conf sqltree.Conformance) error {
	for _, clause := range clauseOrder {
		for _, n := range sel.ClauseNodes(clause) {
			for _, sq := range sqltree.Subqueries(n) {
				if err := checkSubquery(sq, conf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkSubquery(sq *sqltree.Subquery, conf sqltree.Conformance) error {
	text := sq.String()

	parsed, err := Syntax(text, conf)
	if err != nil {
		return err
	}
	if _, ok := parsed.Select(); !ok {
		return &StructureError{Expected: "SELECT", Found: parsed.StatementKind(), Fragment: text}
	}

	_, clause, ok := sqltree.EnclosingSelect(sq)
	if !ok || (clause != sqltree.ClauseWhere && clause != sqltree.ClauseFrom) {
		return &PlacementError{Clause: clause, Fragment: text}
	}

	inner, ok := sq.Query.(*sqltree.Select)
	if !ok {
		return &StructureError{Expected: "SELECT", Found: sqltree.StatementKind(sq.Query), Fragment: text}
	}
	return checkSelect(inner, conf)
}
