// Package codegen lowers a parsed translation unit into tile IR.
//
// The generator walks the AST exactly once, in program order, appending
// instructions through an ir.Builder whose cursor never rewinds. Every
// expression is lowered either for its value (Generator.genExpr) or as a
// storage target (Generator.assign); the two modes share the scope stack
// and builder but are dispatched separately, so "can this expression be
// assigned to" is a closed question over the node kinds.
package codegen

import (
	"github.com/tilelang/tilec/ast"
	"github.com/tilelang/tilec/ir"
	"github.com/tilelang/tilec/token"
	"tlog.app/go/tlog"
)

// Symbol is what a name binds to: the declared IR type plus either a
// storage address (Storage) or an immediate value such as a function.
type Symbol struct {
	Typ     ir.Type
	Val     ir.Value
	Storage bool
}

type loopFrame struct {
	latch *ir.BasicBlock // continue target
	exit  *ir.BasicBlock // break target
}

// Generator lowers one translation unit into one module. It is
// single-threaded; a driver lowering units in parallel uses one
// Generator (and one Context and Module) per unit.
type Generator struct {
	Ctx *ir.Context
	Mod *ir.Module
	bld *ir.Builder

	scopes []Scope[*Symbol]

	// Per-function state, reset by genFuncDef.
	fn      *ir.Function
	retSlot ir.Value
	exit    *ir.BasicBlock
	loops   []loopFrame
	labels  map[string]*ir.BasicBlock
	placed  map[string]bool

	temps map[int]ir.Value
}

func NewGenerator(ctx *ir.Context, moduleName string) *Generator {
	return &Generator{
		Ctx:    ctx,
		Mod:    ctx.NewModule(moduleName),
		bld:    ctx.NewBuilder(),
		scopes: []Scope[*Symbol]{NewScope[*Symbol](ModuleScope)},
		temps:  make(map[int]ir.Value),
	}
}

// BindTemp registers the value of a compiler-introduced temporary so a
// later TempVar reference can resolve it.
func (g *Generator) BindTemp(id int, v ir.Value) {
	g.temps[id] = v
}

// Gen lowers the whole unit into the generator's module. Lowering is
// all-or-nothing: on error the module may contain a truncated function
// and must be discarded by the driver.
func (g *Generator) Gen(unit *ast.TranslationUnit) (*ir.Module, error) {
	for _, d := range unit.Decls {
		switch d := d.(type) {
		case *ast.FuncDef:
			if err := g.genFuncDef(d); err != nil {
				return nil, err
			}
		case *ast.Declaration:
			if err := g.genGlobalDecl(d); err != nil {
				return nil, err
			}
		default:
			return nil, errAt(d.Tok(), token.ErrInternal, "top-level %T is neither a declaration nor a function definition", d)
		}
	}
	return g.Mod, nil
}

func (g *Generator) genFuncDef(fd *ast.FuncDef) error {
	tlog.V("codegen").Printw("lowering function", "name", fd.Name)

	sigT, err := GenIRType(fd.Typ, g.Ctx)
	if err != nil {
		return position(err, fd.Token)
	}
	sig := sigT.(*ir.FuncType)
	if len(fd.Params) != len(sig.Params) {
		return errAt(fd.Token, token.ErrInternal, "function %s declares %d parameters but its type has %d", fd.Name, len(fd.Params), len(sig.Params))
	}

	fn := g.Mod.AddFunction(fd.Name, sig)
	Put(g.scopes, fd.Name, &Symbol{Typ: sig, Val: fn})

	g.fn = fn
	g.loops = nil
	g.labels = make(map[string]*ir.BasicBlock)
	g.placed = make(map[string]bool)
	defer func() {
		g.fn = nil
		g.retSlot = nil
		g.exit = nil
	}()

	entry := g.Ctx.AddBasicBlock(fn, "entry")
	g.exit = g.Ctx.AddBasicBlock(fn, "exit")
	g.bld.SetInsertPointAtEnd(entry)

	PushScope(&g.scopes, FuncScope)
	defer PopScope(&g.scopes)

	// Parameters get stack slots so they behave like any other object.
	for i, p := range fd.Params {
		arg := fn.Args[i]
		arg.Nam = p.Name
		slot := g.bld.CreateAlloca(arg.Ty, p.Name+".addr")
		g.bld.CreateStore(arg, slot)
		Put(g.scopes, p.Name, &Symbol{Typ: arg.Ty, Val: slot, Storage: true})
		for _, a := range p.Attrs {
			ia, err := GenIRAttr(a)
			if err != nil {
				return position(err, p.Token)
			}
			fn.AddParamAttr(i, ia)
		}
	}

	if !ir.IsVoid(sig.Ret) {
		g.retSlot = g.bld.CreateAlloca(sig.Ret, "ret.addr")
	}

	if err := g.genStmt(fd.Body); err != nil {
		return err
	}

	for name := range g.labels {
		if !g.placed[name] {
			return errAt(fd.Token, token.ErrInvalidControlFlow, "label %q is referenced but never defined in %s", name, fd.Name)
		}
	}

	// Implicit fall-through into the single exit block.
	if g.bld.GetInsertBlock().Terminator() == nil {
		g.bld.CreateBr(g.exit)
	}

	g.bld.SetInsertPointAtEnd(g.exit)
	if g.retSlot != nil {
		v := g.bld.CreateLoad(sig.Ret, g.retSlot, "ret.val")
		g.bld.CreateRet(v)
	} else {
		g.bld.CreateRetVoid()
	}
	fn.MoveBlockToEnd(g.exit)
	return nil
}

func (g *Generator) genStmt(s ast.Statement) error {
	switch s := s.(type) {
	case *ast.Declaration:
		return g.genDecl(s)
	case *ast.EmptyStmt:
		return nil
	case *ast.IfStmt:
		return g.genIfStmt(s)
	case *ast.ForStmt:
		return g.genForStmt(s)
	case *ast.JumpStmt:
		return g.genJumpStmt(s)
	case *ast.ReturnStmt:
		return g.genReturnStmt(s)
	case *ast.LabelStmt:
		return g.genLabelStmt(s)
	case *ast.CompoundStmt:
		return g.genCompoundStmt(s)
	case *ast.FuncDef:
		return errAt(s.Tok(), token.ErrInternal, "nested function definition reached statement lowering")
	case ast.Expression:
		// Expression statement: evaluated for side effects.
		_, err := g.genExpr(s)
		return err
	default:
		return errAt(s.Tok(), token.ErrInternal, "statement kind %T escaped lowering dispatch", s)
	}
}

func (g *Generator) genDecl(d *ast.Declaration) error {
	if g.fn == nil {
		return g.genGlobalDecl(d)
	}

	ty, err := GenIRType(d.Obj.Typ, g.Ctx)
	if err != nil {
		return position(err, d.Token)
	}
	if ir.IsVoid(ty) {
		return errAt(d.Token, token.ErrUnsupportedType, "cannot declare %s of type void", d.Obj.Name)
	}

	slot := g.bld.CreateAlloca(ty, d.Obj.Name)
	for _, a := range d.Obj.Attrs {
		ia, err := GenIRAttr(a)
		if err != nil {
			return position(err, d.Token)
		}
		slot.SetMeta(ia)
	}
	Put(g.scopes, d.Obj.Name, &Symbol{Typ: ty, Val: slot, Storage: true})

	if d.Init == nil {
		return nil
	}
	v, err := g.genExpr(d.Init)
	if err != nil {
		return err
	}
	// Shape-aware initialization: a scalar or narrower-shaped initializer
	// is broadcast/cast into the declared tile shape here.
	cv, err := g.convert(v, ty, d.Init.Tok())
	if err != nil {
		return err
	}
	for _, a := range d.Obj.Attrs {
		setIRMetadata(a, cv)
	}
	g.bld.CreateStore(cv, slot)
	return nil
}

func (g *Generator) genGlobalDecl(d *ast.Declaration) error {
	ty, err := GenIRType(d.Obj.Typ, g.Ctx)
	if err != nil {
		return position(err, d.Token)
	}
	init, err := g.constInit(d, ty)
	if err != nil {
		return err
	}
	glob := g.Mod.AddGlobal(ty, d.Obj.Name, init)
	for _, a := range d.Obj.Attrs {
		ia, err := GenIRAttr(a)
		if err != nil {
			return position(err, d.Token)
		}
		glob.Attrs = append(glob.Attrs, ia)
	}
	Put(g.scopes, d.Obj.Name, &Symbol{Typ: ty, Val: glob, Storage: true})
	return nil
}

// constInit evaluates a file-scope initializer. Only constants and
// enumerators are materializable without a function body around them.
func (g *Generator) constInit(d *ast.Declaration, ty ir.Type) (ir.Value, error) {
	switch e := d.Init.(type) {
	case nil:
		return nil, nil
	case *ast.Constant:
		return g.foldConstant(e, ty)
	case *ast.Enumerator:
		if it, ok := ty.(*ir.IntType); ok {
			return ir.NewConstInt(it, e.Value), nil
		}
		return nil, errAt(d.Token, token.ErrTypeMismatch, "enumerator initializer for non-integer global %s", d.Obj.Name)
	default:
		return nil, errAt(d.Token, token.ErrUnsupportedType, "file-scope initializer %T is not constant", e)
	}
}

// foldConstant coerces a literal to the declared type without emitting
// instructions.
func (g *Generator) foldConstant(c *ast.Constant, ty ir.Type) (ir.Value, error) {
	switch t := ty.(type) {
	case *ir.IntType:
		if c.IsFloat {
			return ir.NewConstInt(t, int64(c.F)), nil
		}
		return ir.NewConstInt(t, c.I), nil
	case *ir.FloatType:
		if c.IsFloat {
			return ir.NewConstFloat(t, c.F), nil
		}
		return ir.NewConstFloat(t, float64(c.I)), nil
	default:
		return nil, errAt(c.Token, token.ErrTypeMismatch, "literal initializer for %s", ty)
	}
}

func (g *Generator) genIfStmt(s *ast.IfStmt) error {
	cond, err := g.genExpr(s.Cond)
	if err != nil {
		return err
	}
	if ir.IsTile(cond.Type()) {
		return errAt(s.Cond.Tok(), token.ErrTypeMismatch, "if condition must be scalar, got %s", cond.Type())
	}
	b, err := g.toBool(cond, s.Cond.Tok())
	if err != nil {
		return err
	}

	thenB := g.Ctx.AddBasicBlock(g.fn, "if.then")
	endB := g.Ctx.AddBasicBlock(g.fn, "if.end")
	elseB := endB
	if s.Else != nil {
		elseB = g.Ctx.AddBasicBlock(g.fn, "if.else")
	}
	g.bld.CreateCondBr(b, thenB, elseB)

	g.bld.SetInsertPointAtEnd(thenB)
	if err := g.genStmt(s.Then); err != nil {
		return err
	}
	if g.bld.GetInsertBlock().Terminator() == nil {
		g.bld.CreateBr(endB)
	}

	if s.Else != nil {
		g.bld.SetInsertPointAtEnd(elseB)
		if err := g.genStmt(s.Else); err != nil {
			return err
		}
		if g.bld.GetInsertBlock().Terminator() == nil {
			g.bld.CreateBr(endB)
		}
	}

	g.bld.SetInsertPointAtEnd(endB)
	return nil
}

func (g *Generator) genForStmt(s *ast.ForStmt) error {
	// The init clause scopes like C99: declarations in it are visible in
	// the condition, step and body, and die with the loop.
	PushScope(&g.scopes, BlockScope)
	defer PopScope(&g.scopes)

	if s.Init != nil {
		if err := g.genStmt(s.Init); err != nil {
			return err
		}
	}

	condB := g.Ctx.AddBasicBlock(g.fn, "for.cond")
	bodyB := g.Ctx.AddBasicBlock(g.fn, "for.body")
	stepB := g.Ctx.AddBasicBlock(g.fn, "for.step")
	exitB := g.Ctx.AddBasicBlock(g.fn, "for.exit")

	g.bld.CreateBr(condB)

	g.bld.SetInsertPointAtEnd(condB)
	if s.Cond != nil {
		cond, err := g.genExpr(s.Cond)
		if err != nil {
			return err
		}
		if ir.IsTile(cond.Type()) {
			return errAt(s.Cond.Tok(), token.ErrTypeMismatch, "for condition must be scalar, got %s", cond.Type())
		}
		b, err := g.toBool(cond, s.Cond.Tok())
		if err != nil {
			return err
		}
		g.bld.CreateCondBr(b, bodyB, exitB)
	} else {
		g.bld.CreateBr(bodyB)
	}

	g.bld.SetInsertPointAtEnd(bodyB)
	g.loops = append(g.loops, loopFrame{latch: stepB, exit: exitB})
	err := g.genStmt(s.Body)
	g.loops = g.loops[:len(g.loops)-1]
	if err != nil {
		return err
	}
	if g.bld.GetInsertBlock().Terminator() == nil {
		g.bld.CreateBr(stepB)
	}

	g.bld.SetInsertPointAtEnd(stepB)
	if s.Step != nil {
		if _, err := g.genExpr(s.Step); err != nil {
			return err
		}
	}
	g.bld.CreateBr(condB)

	g.bld.SetInsertPointAtEnd(exitB)
	return nil
}

func (g *Generator) genJumpStmt(s *ast.JumpStmt) error {
	switch s.Kind {
	case ast.Break, ast.Continue:
		if len(g.loops) == 0 {
			return errAt(s.Token, token.ErrInvalidControlFlow, "%s outside of a loop", s.Kind)
		}
		frame := g.loops[len(g.loops)-1]
		if s.Kind == ast.Break {
			g.bld.CreateBr(frame.exit)
		} else {
			g.bld.CreateBr(frame.latch)
		}
	case ast.Goto:
		g.bld.CreateBr(g.labelBlock(s.Label))
	default:
		return errAt(s.Token, token.ErrInternal, "jump kind %d", int(s.Kind))
	}
	g.startDeadBlock()
	return nil
}

func (g *Generator) genReturnStmt(s *ast.ReturnStmt) error {
	if s.Expr == nil {
		if g.retSlot != nil {
			return errAt(s.Token, token.ErrTypeMismatch, "return with no value in a function returning %s", g.fn.Sig.Ret)
		}
		g.bld.CreateBr(g.exit)
		g.startDeadBlock()
		return nil
	}
	if g.retSlot == nil {
		return errAt(s.Token, token.ErrTypeMismatch, "return with a value in a void function")
	}
	v, err := g.genExpr(s.Expr)
	if err != nil {
		return err
	}
	cv, err := g.convert(v, g.fn.Sig.Ret, s.Expr.Tok())
	if err != nil {
		return err
	}
	g.bld.CreateStore(cv, g.retSlot)
	g.bld.CreateBr(g.exit)
	g.startDeadBlock()
	return nil
}

func (g *Generator) genLabelStmt(s *ast.LabelStmt) error {
	bb := g.labelBlock(s.Name)
	if g.placed[s.Name] {
		return errAt(s.Token, token.ErrInvalidControlFlow, "duplicate label %q", s.Name)
	}
	g.placed[s.Name] = true
	if g.bld.GetInsertBlock().Terminator() == nil {
		g.bld.CreateBr(bb)
	}
	g.bld.SetInsertPointAtEnd(bb)
	if s.Stmt != nil {
		return g.genStmt(s.Stmt)
	}
	return nil
}

// labelBlock returns the block for a label, creating it on first
// mention so forward gotos resolve when the label is reached later.
func (g *Generator) labelBlock(name string) *ir.BasicBlock {
	if bb, ok := g.labels[name]; ok {
		return bb
	}
	bb := g.Ctx.AddBasicBlock(g.fn, "label."+name)
	g.labels[name] = bb
	return bb
}

func (g *Generator) genCompoundStmt(s *ast.CompoundStmt) error {
	PushScope(&g.scopes, BlockScope)
	defer PopScope(&g.scopes)
	for _, stmt := range s.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// startDeadBlock gives statements after an unconditional jump somewhere
// to land so each block keeps exactly one terminator. The block is
// unreachable and trivially removable downstream.
func (g *Generator) startDeadBlock() {
	bb := g.Ctx.AddBasicBlock(g.fn, "dead")
	g.bld.SetInsertPointAtEnd(bb)
}
