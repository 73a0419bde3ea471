package validate

import "github.com/leapstack-labs/sqlinput/pkg/sqltree"

// Syntax parses text with the given conformance and returns the tree.
func Syntax(text string, conf sqltree.Conformance) (*sqltree.Tree, error) {
	tree, err := sqltree.Parse(text, conf)
	if err != nil {
		return nil, &SyntaxError{Fragment: text, Message: err.Error(), Err: err}
	}
	return tree, nil
}
