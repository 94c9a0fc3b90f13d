package codegen

import (
	"fmt"

	"github.com/tilelang/tilec/token"
)

func errAt(tok token.Token, kind token.ErrKind, format string, args ...any) *token.CompileError {
	return &token.CompileError{
		Token: tok,
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// position fills in the token on errors produced by token-less helpers
// (the type translator, the attribute translator).
func position(err error, tok token.Token) error {
	if ce, ok := err.(*token.CompileError); ok && ce.Token == (token.Token{}) {
		ce.Token = tok
	}
	return err
}
