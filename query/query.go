package query

import (
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Compile compiles an XPath expression once so it can be reused across
// many Query calls, rather than recompiling it on every lookup the way
// the QueryString convenience does.
func Compile(expr string) (*xpath.Expr, error) {
	return xpath.Compile(expr)
}

// Query evaluates a pre-compiled XPath expression against the tree,
// returning every matching node in document order.
func (t *Tree) Query(expr *xpath.Expr) ([]*xmlquery.Node, error) {
	return xmlquery.QuerySelectorAll(t.Root, expr), nil
}

// QueryOne evaluates a pre-compiled XPath expression, returning the
// first matching node, or nil if there is none.
func (t *Tree) QueryOne(expr *xpath.Expr) (*xmlquery.Node, error) {
	nodes := xmlquery.QuerySelectorAll(t.Root, expr)
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

// QueryString compiles exprStr and evaluates it in one step. Prefer
// Compile+Query when the same expression is evaluated repeatedly.
func (t *Tree) QueryString(exprStr string) ([]*xmlquery.Node, error) {
	expr, err := xpath.Compile(exprStr)
	if err != nil {
		return nil, err
	}
	return t.Query(expr)
}
