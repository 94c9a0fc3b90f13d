package codegen

import (
	"github.com/tilelang/tilec/ast"
	"github.com/tilelang/tilec/ir"
	"github.com/tilelang/tilec/token"
)

// genExpr lowers an expression for its value. The switch is exhaustive
// over the expression kinds; an unknown kind is a front-end bug, not a
// user error.
func (g *Generator) genExpr(e ast.Expression) (ir.Value, error) {
	switch e := e.(type) {
	case *ast.BinaryOp:
		return g.genBinaryOp(e)
	case *ast.UnaryOp:
		return g.genUnaryOp(e)
	case *ast.TransOp:
		return g.genTransOp(e)
	case *ast.ConditionalOp:
		return g.genConditionalOp(e)
	case *ast.FuncCall:
		return g.genFuncCall(e)
	case *ast.Object:
		return g.genNameUse(e.Name, e.Token)
	case *ast.Identifier:
		return g.genNameUse(e.Name, e.Token)
	case *ast.Enumerator:
		return ir.NewConstInt(g.Ctx.Int32Type(), e.Value), nil
	case *ast.Constant:
		return g.genConstant(e), nil
	case *ast.TempVar:
		v, ok := g.temps[e.ID]
		if !ok {
			return nil, errAt(e.Token, token.ErrInternal, "temporary $t%d referenced before it was bound", e.ID)
		}
		return v, nil
	default:
		return nil, errAt(e.Tok(), token.ErrInternal, "expression kind %T escaped lowering dispatch", e)
	}
}

// genNameUse resolves a name and produces its current value: a load for
// storage-backed symbols, the bound value itself otherwise.
func (g *Generator) genNameUse(name string, tok token.Token) (ir.Value, error) {
	sym, ok := Get(g.scopes, name)
	if !ok {
		return nil, errAt(tok, token.ErrUnboundName, "undefined name %q", name)
	}
	if sym.Storage {
		return g.bld.CreateLoad(sym.Typ, sym.Val, name), nil
	}
	return sym.Val, nil
}

func (g *Generator) genConstant(c *ast.Constant) ir.Value {
	if c.IsFloat {
		// Unsuffixed floating literals are single precision; kernels are
		// fp32-first and f64 would force a cast at nearly every use.
		w := c.Width
		if w == 0 {
			w = 32
		}
		return ir.NewConstFloat(g.Ctx.FloatType(w), c.F)
	}
	if c.Width != 0 {
		return ir.NewConstInt(g.Ctx.IntType(c.Width, true), c.I)
	}
	// Unsuffixed integer literals take the narrowest of int and long
	// that holds the value.
	if c.I >= -(1<<31) && c.I < 1<<31 {
		return ir.NewConstInt(g.Ctx.Int32Type(), c.I)
	}
	return ir.NewConstInt(g.Ctx.Int64Type(), c.I)
}

func (g *Generator) genBinaryOp(b *ast.BinaryOp) (ir.Value, error) {
	if b.Op == ast.Assign {
		return g.genAssign(b)
	}

	l, err := g.genExpr(b.Lhs)
	if err != nil {
		return nil, err
	}
	r, err := g.genExpr(b.Rhs)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case ast.LAnd, ast.LOr:
		return g.genLogical(b.Op, l, r, b.Token)
	}

	l, r, err = g.unify(l, r, b.Token)
	if err != nil {
		return nil, err
	}
	if b.Op.IsComparison() {
		return g.genCompare(b.Op, l, r, b.Token)
	}
	return g.genArith(b.Op, l, r, b.Token)
}

// genLogical lowers && and ||. Both sides are evaluated; tiles make the
// operators elementwise, so there is no short circuit to preserve.
func (g *Generator) genLogical(op ast.Op, l, r ir.Value, tok token.Token) (ir.Value, error) {
	l, r, err := g.unify(l, r, tok)
	if err != nil {
		return nil, err
	}
	lb, err := g.toBool(l, tok)
	if err != nil {
		return nil, err
	}
	rb, err := g.toBool(r, tok)
	if err != nil {
		return nil, err
	}
	if op == ast.LAnd {
		return g.bld.CreateAnd(lb, rb, "land"), nil
	}
	return g.bld.CreateOr(lb, rb, "lor"), nil
}

func (g *Generator) genCompare(op ast.Op, l, r ir.Value, tok token.Token) (ir.Value, error) {
	switch t := ir.Scalar(l.Type()).(type) {
	case *ir.IntType:
		return g.bld.CreateICmp(intPred(op, t.Signed), l, r, "cmp"), nil
	case *ir.FloatType:
		return g.bld.CreateFCmp(floatPred(op), l, r, "cmp"), nil
	default:
		return nil, errAt(tok, token.ErrTypeMismatch, "cannot compare values of type %s", l.Type())
	}
}

func intPred(op ast.Op, signed bool) ir.Pred {
	switch op {
	case ast.Eq:
		return ir.IntEQ
	case ast.Ne:
		return ir.IntNE
	case ast.Lt:
		if signed {
			return ir.IntSLT
		}
		return ir.IntULT
	case ast.Le:
		if signed {
			return ir.IntSLE
		}
		return ir.IntULE
	case ast.Gt:
		if signed {
			return ir.IntSGT
		}
		return ir.IntUGT
	default:
		if signed {
			return ir.IntSGE
		}
		return ir.IntUGE
	}
}

func floatPred(op ast.Op) ir.Pred {
	switch op {
	case ast.Eq:
		return ir.FloatOEQ
	case ast.Ne:
		return ir.FloatONE
	case ast.Lt:
		return ir.FloatOLT
	case ast.Le:
		return ir.FloatOLE
	case ast.Gt:
		return ir.FloatOGT
	default:
		return ir.FloatOGE
	}
}

// genArith emits one arithmetic or bitwise instruction for already
// unified operands, picking the signed, unsigned or float variant from
// the shared scalar type.
func (g *Generator) genArith(op ast.Op, l, r ir.Value, tok token.Token) (ir.Value, error) {
	it, isInt := ir.Scalar(l.Type()).(*ir.IntType)
	_, isFloat := ir.Scalar(l.Type()).(*ir.FloatType)

	switch op {
	case ast.Add:
		if isFloat {
			return g.bld.CreateFAdd(l, r, "add"), nil
		}
		if isInt {
			return g.bld.CreateAdd(l, r, "add"), nil
		}
	case ast.Sub:
		if isFloat {
			return g.bld.CreateFSub(l, r, "sub"), nil
		}
		if isInt {
			return g.bld.CreateSub(l, r, "sub"), nil
		}
	case ast.Mul:
		if isFloat {
			return g.bld.CreateFMul(l, r, "mul"), nil
		}
		if isInt {
			return g.bld.CreateMul(l, r, "mul"), nil
		}
	case ast.Div:
		if isFloat {
			return g.bld.CreateFDiv(l, r, "div"), nil
		}
		if isInt && it.Signed {
			return g.bld.CreateSDiv(l, r, "div"), nil
		}
		if isInt {
			return g.bld.CreateUDiv(l, r, "div"), nil
		}
	case ast.Rem:
		if isFloat {
			return g.bld.CreateFRem(l, r, "rem"), nil
		}
		if isInt && it.Signed {
			return g.bld.CreateSRem(l, r, "rem"), nil
		}
		if isInt {
			return g.bld.CreateURem(l, r, "rem"), nil
		}
	case ast.And:
		if isInt {
			return g.bld.CreateAnd(l, r, "and"), nil
		}
	case ast.Or:
		if isInt {
			return g.bld.CreateOr(l, r, "or"), nil
		}
	case ast.Xor:
		if isInt {
			return g.bld.CreateXor(l, r, "xor"), nil
		}
	case ast.Shl:
		if isInt {
			return g.bld.CreateShl(l, r, "shl"), nil
		}
	case ast.Shr:
		if isInt && it.Signed {
			return g.bld.CreateAShr(l, r, "shr"), nil
		}
		if isInt {
			return g.bld.CreateLShr(l, r, "shr"), nil
		}
	default:
		return nil, errAt(tok, token.ErrInternal, "operator %s reached arithmetic lowering", op)
	}
	return nil, errAt(tok, token.ErrTypeMismatch, "operator %s is not defined on %s", op, l.Type())
}

func (g *Generator) genUnaryOp(u *ast.UnaryOp) (ir.Value, error) {
	switch u.Op {
	case ast.AddrOf:
		slot, _, err := g.lvalueAddr(u.Operand)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case ast.Inc, ast.Dec:
		return g.genIncDec(u)
	}

	v, err := g.genExpr(u.Operand)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case ast.Neg:
		return g.genNeg(v, u.Token)
	case ast.Not:
		b, err := g.toBool(v, u.Token)
		if err != nil {
			return nil, err
		}
		ones, err := g.onesLike(b, u.Token)
		if err != nil {
			return nil, err
		}
		return g.bld.CreateXor(b, ones, "not"), nil
	case ast.BitNot:
		if _, ok := ir.Scalar(v.Type()).(*ir.IntType); !ok {
			return nil, errAt(u.Token, token.ErrTypeMismatch, "operator ~ is not defined on %s", v.Type())
		}
		ones, err := g.onesLike(v, u.Token)
		if err != nil {
			return nil, err
		}
		return g.bld.CreateXor(v, ones, "bnot"), nil
	case ast.Deref:
		pt, ok := v.Type().(*ir.PointerType)
		if !ok {
			return nil, errAt(u.Token, token.ErrTypeMismatch, "cannot dereference %s", v.Type())
		}
		return g.bld.CreateLoad(pt.Elem, v, "deref"), nil
	default:
		return nil, errAt(u.Token, token.ErrInternal, "unary operator %s escaped lowering dispatch", u.Op)
	}
}

// genNeg lowers -x as a subtraction from zero so tiles and every
// numeric width share one path.
func (g *Generator) genNeg(v ir.Value, tok token.Token) (ir.Value, error) {
	zero, err := g.zeroLike(v)
	if err != nil {
		return nil, err
	}
	switch ir.Scalar(v.Type()).(type) {
	case *ir.IntType:
		return g.bld.CreateSub(zero, v, "neg"), nil
	case *ir.FloatType:
		return g.bld.CreateFSub(zero, v, "neg"), nil
	default:
		return nil, errAt(tok, token.ErrTypeMismatch, "operator - is not defined on %s", v.Type())
	}
}

// onesLike materializes an all-ones value of v's exact integer type.
func (g *Generator) onesLike(v ir.Value, tok token.Token) (ir.Value, error) {
	elem, ok := ir.Scalar(v.Type()).(*ir.IntType)
	if !ok {
		return nil, errAt(tok, token.ErrTypeMismatch, "no all-ones value for %s", v.Type())
	}
	ones := ir.NewConstInt(elem, -1)
	if tt, isTile := v.Type().(*ir.TileType); isTile {
		return g.bld.CreateSplat(ones, tt.Shape, "ones"), nil
	}
	return ones, nil
}

// genIncDec lowers ++ and -- as an explicit read-modify-write. The
// expression value is the old value for the postfix forms and the new
// value for the prefix forms.
func (g *Generator) genIncDec(u *ast.UnaryOp) (ir.Value, error) {
	slot, ty, err := g.lvalueAddr(u.Operand)
	if err != nil {
		return nil, err
	}
	old := g.bld.CreateLoad(ty, slot, "old")

	var one ir.Value
	switch t := ir.Scalar(ty).(type) {
	case *ir.IntType:
		one = ir.NewConstInt(t, 1)
	case *ir.FloatType:
		one = ir.NewConstFloat(t, 1)
	default:
		return nil, errAt(u.Token, token.ErrTypeMismatch, "operator %s is not defined on %s", u.Op, ty)
	}
	if tt, ok := ty.(*ir.TileType); ok {
		one = g.bld.CreateSplat(one, tt.Shape, "ones")
	}

	op := ast.Add
	if u.Op == ast.Dec {
		op = ast.Sub
	}
	next, err := g.genArith(op, old, one, u.Token)
	if err != nil {
		return nil, err
	}
	g.bld.CreateStore(next, slot)
	if u.Postfix {
		return old, nil
	}
	return next, nil
}

func (g *Generator) genTransOp(t *ast.TransOp) (ir.Value, error) {
	v, err := g.genExpr(t.Operand)
	if err != nil {
		return nil, err
	}
	tt, ok := v.Type().(*ir.TileType)
	if !ok {
		return nil, errAt(t.Token, token.ErrTypeMismatch, "cannot transpose %s", v.Type())
	}

	perm := t.Perm
	if perm == nil {
		// Bare ^x reverses the dimensions.
		perm = make([]int, tt.Rank())
		for i := range perm {
			perm[i] = tt.Rank() - 1 - i
		}
	}
	if len(perm) != tt.Rank() {
		return nil, errAt(t.Token, token.ErrInvalidTileShape, "permutation of length %d on a rank %d tile", len(perm), tt.Rank())
	}
	seen := make([]bool, len(perm))
	for _, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return nil, errAt(t.Token, token.ErrInvalidTileShape, "invalid permutation %v", perm)
		}
		seen[p] = true
	}
	return g.bld.CreateTrans(v, perm, "trans"), nil
}

// genConditionalOp lowers cond ? a : b. A tile condition selects
// elementwise; a scalar condition branches and merges through a phi, so
// only the taken arm's side effects happen.
func (g *Generator) genConditionalOp(c *ast.ConditionalOp) (ir.Value, error) {
	cond, err := g.genExpr(c.Cond)
	if err != nil {
		return nil, err
	}
	if ir.IsTile(cond.Type()) {
		return g.genSelect(c, cond)
	}

	b, err := g.toBool(cond, c.Cond.Tok())
	if err != nil {
		return nil, err
	}
	thenB := g.Ctx.AddBasicBlock(g.fn, "cond.then")
	elseB := g.Ctx.AddBasicBlock(g.fn, "cond.else")
	endB := g.Ctx.AddBasicBlock(g.fn, "cond.end")
	g.bld.CreateCondBr(b, thenB, elseB)

	g.bld.SetInsertPointAtEnd(thenB)
	tv, err := g.genExpr(c.Then)
	if err != nil {
		return nil, err
	}
	thenEnd := g.bld.GetInsertBlock()

	g.bld.SetInsertPointAtEnd(elseB)
	ev, err := g.genExpr(c.Else)
	if err != nil {
		return nil, err
	}
	elseEnd := g.bld.GetInsertBlock()

	ct, err := commonType(g.Ctx, tv.Type(), ev.Type(), c.Token)
	if err != nil {
		return nil, err
	}

	// Conversions belong to their arm, before the merge.
	g.bld.SetInsertPointAtEnd(thenEnd)
	tv, err = g.convert(tv, ct, c.Then.Tok())
	if err != nil {
		return nil, err
	}
	g.bld.CreateBr(endB)

	g.bld.SetInsertPointAtEnd(elseEnd)
	ev, err = g.convert(ev, ct, c.Else.Tok())
	if err != nil {
		return nil, err
	}
	g.bld.CreateBr(endB)

	g.bld.SetInsertPointAtEnd(endB)
	phi := g.bld.CreatePhi(ct, "cond")
	phi.AddIncoming([]ir.Value{tv, ev}, []*ir.BasicBlock{thenEnd, elseEnd})
	return phi, nil
}

func (g *Generator) genSelect(c *ast.ConditionalOp, cond ir.Value) (ir.Value, error) {
	tv, err := g.genExpr(c.Then)
	if err != nil {
		return nil, err
	}
	ev, err := g.genExpr(c.Else)
	if err != nil {
		return nil, err
	}
	ct, err := commonType(g.Ctx, tv.Type(), ev.Type(), c.Token)
	if err != nil {
		return nil, err
	}

	// The result shape is the broadcast of the condition shape and the
	// unified arm shape.
	condT := cond.Type().(*ir.TileType)
	shape := condT.Shape
	if rt, ok := ct.(*ir.TileType); ok {
		s, ok := commonShape(condT.Shape, rt.Shape)
		if !ok {
			return nil, errAt(c.Token, token.ErrIncompatibleShape, "condition shape %s does not broadcast against %s", condT, rt)
		}
		shape = s
	}
	resT := g.Ctx.TileType(ir.Scalar(ct), shape)

	cb, err := g.toBool(cond, c.Cond.Tok())
	if err != nil {
		return nil, err
	}
	cb, err = g.convert(cb, g.Ctx.TileType(g.Ctx.Int1Type(), shape), c.Cond.Tok())
	if err != nil {
		return nil, err
	}
	tv, err = g.convert(tv, resT, c.Then.Tok())
	if err != nil {
		return nil, err
	}
	ev, err = g.convert(ev, resT, c.Else.Tok())
	if err != nil {
		return nil, err
	}
	return g.bld.CreateSelect(cb, tv, ev, "sel"), nil
}

func (g *Generator) genFuncCall(c *ast.FuncCall) (ir.Value, error) {
	callee, err := g.genExpr(c.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*ir.Function)
	if !ok {
		return nil, errAt(c.Token, token.ErrTypeMismatch, "%s is not callable", c.Callee)
	}
	if len(c.Args) != len(fn.Sig.Params) {
		return nil, errAt(c.Token, token.ErrTypeMismatch, "call to %s with %d arguments, want %d", fn.Nam, len(c.Args), len(fn.Sig.Params))
	}

	args := make([]ir.Value, 0, len(c.Args))
	for i, a := range c.Args {
		v, err := g.genExpr(a)
		if err != nil {
			return nil, err
		}
		// Arguments already of the parameter type pass through with no
		// conversion instruction.
		cv, err := g.convert(v, fn.Sig.Params[i], a.Tok())
		if err != nil {
			return nil, err
		}
		args = append(args, cv)
	}

	name := "call"
	if ir.IsVoid(fn.Sig.Ret) {
		name = ""
	}
	return g.bld.CreateCall(fn, args, name), nil
}
