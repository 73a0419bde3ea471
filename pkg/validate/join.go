package validate

import "github.com/xwb1989/sqlparser"

// Joins reports a JoinError when text contains a JOIN keyword but no ON
// keyword anywhere. Keywords are matched on the token stream, so string
// literals, quoted identifiers and comments never count.
//
// ON is not matched to a particular JOIN: one ON satisfies any number of
// JOINs, and USING or NATURAL joins without an ON are rejected.
func Joins(text string) error {
	tkn := sqlparser.NewStringTokenizer(text)

	var sawJoin, sawOn bool
	for {
		typ, _ := tkn.Scan()
		switch typ {
		case 0, sqlparser.LEX_ERROR:
			if sawJoin && !sawOn {
				return &JoinError{Fragment: text}
			}
			return nil
		case sqlparser.JOIN, sqlparser.STRAIGHT_JOIN:
			sawJoin = true
		case sqlparser.ON:
			sawOn = true
		}
	}
}
