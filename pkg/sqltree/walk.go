package sqltree

import (
	"fmt"
	"io"
	"strings"
)

// Inspect traverses the tree rooted at n in depth-first order.
// If fn returns false, the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, fn)
	}
}

// Subqueries returns the subqueries found below n without descending into
// them, in document order. If n itself is a Subquery it is returned alone.
func Subqueries(n Node) []*Subquery {
	var out []*Subquery
	Inspect(n, func(x Node) bool {
		if sq, ok := x.(*Subquery); ok {
			out = append(out, sq)
			return false
		}
		return true
	})
	return out
}

// EnclosingSelect walks up the parent links from n and returns the nearest
// SELECT block above it, together with the clause of that block n sits in.
// It returns false when a UNION or the root is reached first.
func EnclosingSelect(n Node) (*Select, Clause, bool) {
	child := n
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch q := p.(type) {
		case *Select:
			return q, child.Clause(), true
		case *Union:
			return nil, child.Clause(), false
		}
		child = p
	}
	return nil, ClauseNone, false
}

// Dump writes an indented outline of the tree rooted at n.
func Dump(w io.Writer, n Node) error {
	var err error
	var dump func(Node, int)
	dump = func(x Node, depth int) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), Label(x))
		for _, c := range x.Children() {
			dump(c, depth+1)
		}
	}
	if n != nil {
		dump(n, 0)
	}
	return err
}

// Label returns a one-line description of a node.
func Label(n Node) string {
	prefix := n.Kind().String()
	if n.Clause() != ClauseNone {
		prefix = fmt.Sprintf("%s [%s]", prefix, n.Clause())
	}

	switch x := n.(type) {
	case *Select:
		if x.Distinct {
			return prefix + " DISTINCT"
		}
		return prefix
	case *Union:
		return fmt.Sprintf("%s %s", prefix, x.Op)
	case *Subquery:
		if x.Alias != "" {
			return fmt.Sprintf("%s AS %s", prefix, x.Alias)
		}
		return prefix
	case *Join:
		s := fmt.Sprintf("%s %s", prefix, x.Op)
		if len(x.Using) > 0 {
			s += fmt.Sprintf(" USING (%s)", strings.Join(x.Using, ", "))
		}
		return s
	case *Table:
		s := fmt.Sprintf("%s %s", prefix, qualified(x.Qualifier, x.Name))
		if x.Alias != "" {
			s += " AS " + x.Alias
		}
		return s
	case *Identifier:
		return fmt.Sprintf("%s %s", prefix, qualified(x.Qualifier, x.Name))
	case *Literal:
		return fmt.Sprintf("%s %s", prefix, x.Value)
	case *Func:
		return fmt.Sprintf("%s %s", prefix, x.Name)
	case *Operator:
		return fmt.Sprintf("%s %s", prefix, x.Op)
	case *Star:
		return fmt.Sprintf("%s %s", prefix, qualified(x.Qualifier, "*"))
	case *Statement:
		return fmt.Sprintf("%s %s", prefix, x.Verb)
	}
	return prefix
}

func qualified(q, name string) string {
	if q == "" {
		return name
	}
	return q + "." + name
}
