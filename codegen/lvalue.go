package codegen

import (
	"github.com/tilelang/tilec/ast"
	"github.com/tilelang/tilec/ir"
	"github.com/tilelang/tilec/token"
)

// Address-mode lowering. Assignment targets and operands of & and
// ++/-- resolve here instead of genExpr. The dispatch is total over the
// expression kinds: anything without a storage location answers with a
// NotAnLvalue error naming the kind, and no store is emitted.

// genAssign lowers an assignment expression. Its value is the stored
// (converted) value, so assignments chain right to left.
func (g *Generator) genAssign(b *ast.BinaryOp) (ir.Value, error) {
	v, err := g.genExpr(b.Rhs)
	if err != nil {
		return nil, err
	}
	return g.assign(b.Lhs, v)
}

// assign stores v into the location lhs names, converting it to the
// location's declared type first.
func (g *Generator) assign(lhs ast.Expression, v ir.Value) (ir.Value, error) {
	switch lhs := lhs.(type) {
	case *ast.Identifier, *ast.Object, *ast.UnaryOp:
		slot, ty, err := g.lvalueAddr(lhs)
		if err != nil {
			return nil, err
		}
		cv, err := g.convert(v, ty, lhs.Tok())
		if err != nil {
			return nil, err
		}
		g.bld.CreateStore(cv, slot)
		return cv, nil
	case *ast.BinaryOp:
		if lhs.Op != ast.Assign {
			return nil, errAt(lhs.Tok(), token.ErrNotAnLvalue, "%s expression is not assignable", lhs.Op)
		}
		// (a = b) = c: perform the inner assignment, then store into its
		// target.
		if _, err := g.genAssign(lhs); err != nil {
			return nil, err
		}
		return g.assign(lhs.Lhs, v)
	default:
		return nil, errAt(lhs.Tok(), token.ErrNotAnLvalue, "%T expression is not assignable", lhs)
	}
}

// lvalueAddr resolves an expression to the address it designates plus
// the type stored there. Only names bound to storage and pointer
// dereferences have addresses.
func (g *Generator) lvalueAddr(e ast.Expression) (ir.Value, ir.Type, error) {
	switch e := e.(type) {
	case *ast.Identifier:
		return g.namedAddr(e.Name, e.Token)
	case *ast.Object:
		return g.namedAddr(e.Name, e.Token)
	case *ast.UnaryOp:
		if e.Op != ast.Deref {
			return nil, nil, errAt(e.Token, token.ErrNotAnLvalue, "%s expression is not assignable", e.Op)
		}
		ptr, err := g.genExpr(e.Operand)
		if err != nil {
			return nil, nil, err
		}
		pt, ok := ptr.Type().(*ir.PointerType)
		if !ok {
			return nil, nil, errAt(e.Token, token.ErrTypeMismatch, "cannot dereference %s", ptr.Type())
		}
		return ptr, pt.Elem, nil
	default:
		return nil, nil, errAt(e.Tok(), token.ErrNotAnLvalue, "%T expression is not assignable", e)
	}
}

func (g *Generator) namedAddr(name string, tok token.Token) (ir.Value, ir.Type, error) {
	sym, ok := Get(g.scopes, name)
	if !ok {
		return nil, nil, errAt(tok, token.ErrUnboundName, "undefined name %q", name)
	}
	if !sym.Storage {
		return nil, nil, errAt(tok, token.ErrNotAnLvalue, "%s is not assignable", name)
	}
	return sym.Val, sym.Typ, nil
}
