// Package validate checks free-form SQL before it reaches a database.
//
// Three checks run in a fixed order and the first failure wins:
//
//  1. Syntax: the text must parse (see sqltree.Parse).
//  2. Joins: if the text contains a JOIN keyword it must also contain ON.
//     Keywords are matched case-insensitively on SQL tokens, so a "join"
//     inside a string literal, quoted identifier or comment is ignored and a
//     lowercase "join b" without ON is rejected. This is stricter than a
//     plain substring search for "JOIN". One ON still satisfies every JOIN.
//  3. Subqueries: the statement must be a SELECT, and every nested
//     subquery must itself be a valid SELECT placed in a WHERE or FROM
//     clause of its enclosing SELECT.
package validate
