package sqltree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_SkipsChildren(t *testing.T) {
	tree, err := Parse("SELECT id FROM users WHERE id IN (SELECT user_id FROM orders)", Lenient)
	require.NoError(t, err)

	var tables []string
	Inspect(tree.Root, func(n Node) bool {
		if tbl, ok := n.(*Table); ok {
			tables = append(tables, tbl.Name)
		}
		_, isSub := n.(*Subquery)
		return !isSub
	})
	assert.Equal(t, []string{"users"}, tables)
}

func TestSubqueries_DoesNotDescend(t *testing.T) {
	tree, err := Parse("SELECT id FROM users WHERE id IN (SELECT user_id FROM orders WHERE sku IN (SELECT sku FROM items))", Lenient)
	require.NoError(t, err)

	subs := Subqueries(tree.Root)
	require.Len(t, subs, 1)

	nested := Subqueries(subs[0].Query)
	require.Len(t, nested, 1)
	assert.Equal(t, "select sku from items", nested[0].String())
}

func TestEnclosingSelect_Root(t *testing.T) {
	tree, err := Parse("SELECT 1", Lenient)
	require.NoError(t, err)

	_, clause, ok := EnclosingSelect(tree.Root)
	assert.False(t, ok)
	assert.Equal(t, ClauseNone, clause)
}

func TestDump(t *testing.T) {
	tree, err := Parse("SELECT id FROM users u JOIN orders o ON u.id = o.user_id", Lenient)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, tree.Root))

	out := buf.String()
	assert.Contains(t, out, "SELECT\n")
	assert.Contains(t, out, "  IDENTIFIER [SELECT] id\n")
	assert.Contains(t, out, "  JOIN [FROM] JOIN\n")
	assert.Contains(t, out, "    TABLE [FROM] users AS u\n")
	assert.Contains(t, out, "    OPERATOR [FROM] =\n")
}

func TestKindAndClauseStrings(t *testing.T) {
	assert.Equal(t, "SUBQUERY", KindSubquery.String())
	assert.Equal(t, "UNKNOWN", Kind(99).String())
	assert.Equal(t, "GROUP BY", ClauseGroupBy.String())
	assert.Equal(t, "UNKNOWN", Clause(99).String())
}
