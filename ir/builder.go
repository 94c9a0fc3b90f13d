package ir

import "fmt"

// Builder appends instructions at an insertion cursor. The cursor only
// moves forward within a function: lowering never rewrites an
// instruction once emitted. Structural misuse (no insertion point,
// malformed operands) is a non-recoverable bug in the caller and panics.
type Builder struct {
	ctx   *Context
	block *BasicBlock
}

// SetInsertPointAtEnd moves the cursor to the end of bb.
func (b *Builder) SetInsertPointAtEnd(bb *BasicBlock) {
	b.block = bb
}

// GetInsertBlock returns the block the cursor points into.
func (b *Builder) GetInsertBlock() *BasicBlock {
	return b.block
}

func (b *Builder) insert(i *Instr) *Instr {
	if b.block == nil {
		panic("ir: builder has no insertion point")
	}
	i.Parent = b.block
	b.block.Instrs = append(b.block.Instrs, i)
	return i
}

func (b *Builder) binary(op Op, l, r Value, name string) *Instr {
	return b.insert(&Instr{Op: op, Ty: l.Type(), Nam: name, Ops: []Value{l, r}})
}

func (b *Builder) CreateAdd(l, r Value, name string) *Instr  { return b.binary(OpAdd, l, r, name) }
func (b *Builder) CreateFAdd(l, r Value, name string) *Instr { return b.binary(OpFAdd, l, r, name) }
func (b *Builder) CreateSub(l, r Value, name string) *Instr  { return b.binary(OpSub, l, r, name) }
func (b *Builder) CreateFSub(l, r Value, name string) *Instr { return b.binary(OpFSub, l, r, name) }
func (b *Builder) CreateMul(l, r Value, name string) *Instr  { return b.binary(OpMul, l, r, name) }
func (b *Builder) CreateFMul(l, r Value, name string) *Instr { return b.binary(OpFMul, l, r, name) }
func (b *Builder) CreateSDiv(l, r Value, name string) *Instr { return b.binary(OpSDiv, l, r, name) }
func (b *Builder) CreateUDiv(l, r Value, name string) *Instr { return b.binary(OpUDiv, l, r, name) }
func (b *Builder) CreateFDiv(l, r Value, name string) *Instr { return b.binary(OpFDiv, l, r, name) }
func (b *Builder) CreateSRem(l, r Value, name string) *Instr { return b.binary(OpSRem, l, r, name) }
func (b *Builder) CreateURem(l, r Value, name string) *Instr { return b.binary(OpURem, l, r, name) }
func (b *Builder) CreateFRem(l, r Value, name string) *Instr { return b.binary(OpFRem, l, r, name) }
func (b *Builder) CreateAnd(l, r Value, name string) *Instr  { return b.binary(OpAnd, l, r, name) }
func (b *Builder) CreateOr(l, r Value, name string) *Instr   { return b.binary(OpOr, l, r, name) }
func (b *Builder) CreateXor(l, r Value, name string) *Instr  { return b.binary(OpXor, l, r, name) }
func (b *Builder) CreateShl(l, r Value, name string) *Instr  { return b.binary(OpShl, l, r, name) }
func (b *Builder) CreateLShr(l, r Value, name string) *Instr { return b.binary(OpLShr, l, r, name) }
func (b *Builder) CreateAShr(l, r Value, name string) *Instr { return b.binary(OpAShr, l, r, name) }

// cmpType is i1 for scalars and a same-shape tile of i1 for tiles.
func (b *Builder) cmpType(operand Type) Type {
	if tt, ok := operand.(*TileType); ok {
		return b.ctx.TileType(b.ctx.Int1Type(), tt.Shape)
	}
	return b.ctx.Int1Type()
}

func (b *Builder) CreateICmp(pred Pred, l, r Value, name string) *Instr {
	return b.insert(&Instr{
		Op: OpICmp, Ty: b.cmpType(l.Type()), Nam: name,
		Ops: []Value{l, r}, Pred: pred,
	})
}

func (b *Builder) CreateFCmp(pred Pred, l, r Value, name string) *Instr {
	return b.insert(&Instr{
		Op: OpFCmp, Ty: b.cmpType(l.Type()), Nam: name,
		Ops: []Value{l, r}, Pred: pred,
	})
}

func (b *Builder) CreateAlloca(t Type, name string) *Instr {
	return b.insert(&Instr{Op: OpAlloca, Ty: b.ctx.PointerType(t, 0), Nam: name})
}

func (b *Builder) CreateLoad(t Type, ptr Value, name string) *Instr {
	if _, ok := ptr.Type().(*PointerType); !ok {
		panic(fmt.Sprintf("ir: load through non-pointer %s", ptr.Type()))
	}
	return b.insert(&Instr{Op: OpLoad, Ty: t, Nam: name, Ops: []Value{ptr}})
}

func (b *Builder) CreateStore(v, ptr Value) *Instr {
	if _, ok := ptr.Type().(*PointerType); !ok {
		panic(fmt.Sprintf("ir: store through non-pointer %s", ptr.Type()))
	}
	return b.insert(&Instr{Op: OpStore, Ty: b.ctx.VoidType(), Ops: []Value{v, ptr}})
}

func (b *Builder) CreateCall(fn *Function, args []Value, name string) *Instr {
	if len(args) != len(fn.Sig.Params) {
		panic(fmt.Sprintf("ir: call to %s with %d args, want %d", fn.Nam, len(args), len(fn.Sig.Params)))
	}
	return b.insert(&Instr{Op: OpCall, Ty: fn.Sig.Ret, Nam: name, Ops: args, Callee: fn})
}

// CreateSplat replicates a scalar into every element of a tile.
func (b *Builder) CreateSplat(v Value, shape []int64, name string) *Instr {
	if IsTile(v.Type()) {
		panic("ir: splat of a tile value")
	}
	return b.insert(&Instr{
		Op: OpSplat, Ty: b.ctx.TileType(v.Type(), shape), Nam: name,
		Ops: []Value{v},
	})
}

// CreateBroadcast expands unit dimensions of a tile to a wider shape.
// Shape legality is the caller's concern; the builder only fixes the
// result type.
func (b *Builder) CreateBroadcast(v Value, shape []int64, name string) *Instr {
	tt, ok := v.Type().(*TileType)
	if !ok {
		panic("ir: broadcast of a non-tile value")
	}
	return b.insert(&Instr{
		Op: OpBroadcast, Ty: b.ctx.TileType(tt.Elem, shape), Nam: name,
		Ops: []Value{v},
	})
}

// CreateTrans permutes the dimensions of a tile. perm must be a valid
// permutation of the operand's rank.
func (b *Builder) CreateTrans(v Value, perm []int, name string) *Instr {
	tt, ok := v.Type().(*TileType)
	if !ok {
		panic("ir: trans of a non-tile value")
	}
	if len(perm) != tt.Rank() {
		panic(fmt.Sprintf("ir: trans perm rank %d on tile rank %d", len(perm), tt.Rank()))
	}
	shape := make([]int64, len(perm))
	for i, p := range perm {
		shape[i] = tt.Shape[p]
	}
	p := make([]int, len(perm))
	copy(p, perm)
	return b.insert(&Instr{
		Op: OpTrans, Ty: b.ctx.TileType(tt.Elem, shape), Nam: name,
		Ops: []Value{v}, Perm: p,
	})
}

func (b *Builder) CreateCast(kind CastKind, v Value, t Type, name string) *Instr {
	return b.insert(&Instr{Op: OpCast, Ty: t, Nam: name, Ops: []Value{v}, Cast: kind})
}

func (b *Builder) CreateSelect(cond, then, els Value, name string) *Instr {
	return b.insert(&Instr{
		Op: OpSelect, Ty: then.Type(), Nam: name,
		Ops: []Value{cond, then, els},
	})
}

func (b *Builder) CreatePhi(t Type, name string) *Instr {
	return b.insert(&Instr{Op: OpPhi, Ty: t, Nam: name})
}

func (b *Builder) CreateBr(dest *BasicBlock) *Instr {
	return b.insert(&Instr{Op: OpBr, Ty: b.ctx.VoidType(), Blocks: []*BasicBlock{dest}})
}

func (b *Builder) CreateCondBr(cond Value, then, els *BasicBlock) *Instr {
	return b.insert(&Instr{
		Op: OpCondBr, Ty: b.ctx.VoidType(),
		Ops: []Value{cond}, Blocks: []*BasicBlock{then, els},
	})
}

func (b *Builder) CreateRet(v Value) *Instr {
	return b.insert(&Instr{Op: OpRet, Ty: b.ctx.VoidType(), Ops: []Value{v}})
}

func (b *Builder) CreateRetVoid() *Instr {
	return b.insert(&Instr{Op: OpRet, Ty: b.ctx.VoidType()})
}
