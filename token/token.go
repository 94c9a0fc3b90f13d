package token

import "fmt"

// Token is the source anchor the parser attaches to every AST node.
// The lowering core never inspects Literal; it only threads tokens
// through to diagnostics.
type Token struct {
	FileName string
	Literal  string
	Line     int
	Column   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s:%d:%d", t.FileName, t.Line, t.Column)
}
