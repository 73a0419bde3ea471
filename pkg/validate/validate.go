package validate

import (
	"log/slog"

	"github.com/leapstack-labs/sqlinput/pkg/sqltree"
)

// Validator runs the full check pipeline with a fixed conformance.
// It holds no per-query state and is safe for concurrent use.
type Validator struct {
	conformance sqltree.Conformance
	logger      *slog.Logger
}

// New creates a Validator. A nil logger discards output.
func New(conf sqltree.Conformance, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{conformance: conf, logger: logger}
}

// Conformance returns the parser conformance used by the validator.
func (v *Validator) Conformance() sqltree.Conformance {
	return v.conformance
}

// Validate runs syntax, join and subquery checks in that order and returns
// the parsed tree when all of them pass.
func (v *Validator) Validate(text string) (*sqltree.Tree, error) {
	tree, err := Syntax(text, v.conformance)
	if err != nil {
		v.logger.Debug("syntax check failed", slog.String("error", err.Error()))
		return nil, err
	}

	if err := Joins(text); err != nil {
		v.logger.Debug("join check failed", slog.String("error", err.Error()))
		return nil, err
	}

	if err := Subqueries(tree, v.conformance); err != nil {
		v.logger.Debug("subquery check failed", slog.String("error", err.Error()))
		return nil, err
	}

	v.logger.Debug("query validated", slog.String("kind", tree.StatementKind()))
	return tree, nil
}

// Query validates text with a throwaway Validator.
func Query(text string, conf sqltree.Conformance) (*sqltree.Tree, error) {
	return New(conf, nil).Validate(text)
}
