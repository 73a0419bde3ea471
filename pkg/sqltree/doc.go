// Package sqltree turns SQL text into a small, closed syntax tree.
//
// Parsing is delegated to github.com/xwb1989/sqlparser. The resulting
// sqlparser AST is converted into the node kinds defined here so that
// every node knows its parent and the clause of the nearest enclosing
// SELECT it belongs to. Validators only need those two facts plus the
// text of each subquery.
package sqltree
