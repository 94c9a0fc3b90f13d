package ir

// Op is an instruction opcode.
type Op int

const (
	// Binary arithmetic. Integer and float variants are distinct ops so
	// the printed form needs no type inspection.
	OpAdd Op = iota
	OpFAdd
	OpSub
	OpFSub
	OpMul
	OpFMul
	OpSDiv
	OpUDiv
	OpFDiv
	OpSRem
	OpURem
	OpFRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr

	// Comparisons
	OpICmp
	OpFCmp

	// Memory
	OpAlloca
	OpLoad
	OpStore

	// Tile
	OpSplat
	OpBroadcast
	OpTrans

	// Misc
	OpCast
	OpSelect
	OpPhi
	OpCall

	// Terminators
	OpBr
	OpCondBr
	OpRet
)

var opNames = [...]string{
	OpAdd: "add", OpFAdd: "fadd", OpSub: "sub", OpFSub: "fsub",
	OpMul: "mul", OpFMul: "fmul", OpSDiv: "sdiv", OpUDiv: "udiv",
	OpFDiv: "fdiv", OpSRem: "srem", OpURem: "urem", OpFRem: "frem",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpShl: "shl", OpLShr: "lshr", OpAShr: "ashr",
	OpICmp: "icmp", OpFCmp: "fcmp",
	OpAlloca: "alloca", OpLoad: "load", OpStore: "store",
	OpSplat: "splat", OpBroadcast: "broadcast", OpTrans: "trans",
	OpCast: "cast", OpSelect: "select", OpPhi: "phi", OpCall: "call",
	OpBr: "br", OpCondBr: "br", OpRet: "ret",
}

func (op Op) String() string { return opNames[op] }

// Pred is a comparison predicate.
type Pred int

const (
	IntEQ Pred = iota
	IntNE
	IntSLT
	IntSLE
	IntSGT
	IntSGE
	IntULT
	IntULE
	IntUGT
	IntUGE

	FloatOEQ
	FloatONE
	FloatOLT
	FloatOLE
	FloatOGT
	FloatOGE
)

var predNames = [...]string{
	IntEQ: "eq", IntNE: "ne",
	IntSLT: "slt", IntSLE: "sle", IntSGT: "sgt", IntSGE: "sge",
	IntULT: "ult", IntULE: "ule", IntUGT: "ugt", IntUGE: "uge",
	FloatOEQ: "oeq", FloatONE: "one",
	FloatOLT: "olt", FloatOLE: "ole", FloatOGT: "ogt", FloatOGE: "oge",
}

func (p Pred) String() string { return predNames[p] }

// CastKind selects the flavor of an OpCast instruction.
type CastKind int

const (
	CastTrunc CastKind = iota
	CastZExt
	CastSExt
	CastFPTrunc
	CastFPExt
	CastSIToFP
	CastUIToFP
	CastFPToSI
	CastFPToUI
	CastPtrToInt
	CastIntToPtr
	CastBit
	// CastSemantic reinterprets a value under a related type without
	// changing bits: address-space/qualifier adjustments and
	// signedness-only retyping.
	CastSemantic
)

var castNames = [...]string{
	CastTrunc: "trunc", CastZExt: "zext", CastSExt: "sext",
	CastFPTrunc: "fptrunc", CastFPExt: "fpext",
	CastSIToFP: "sitofp", CastUIToFP: "uitofp",
	CastFPToSI: "fptosi", CastFPToUI: "fptoui",
	CastPtrToInt: "ptrtoint", CastIntToPtr: "inttoptr",
	CastBit: "bitcast", CastSemantic: "semcast",
}

func (k CastKind) String() string { return castNames[k] }

// Instr is a single IR instruction. An instruction producing a non-void
// result is itself the Value consumers refer to.
type Instr struct {
	Op     Op
	Ty     Type
	Nam    string
	Ops    []Value
	Pred   Pred          // OpICmp / OpFCmp
	Cast   CastKind      // OpCast
	Perm   []int         // OpTrans
	Callee *Function     // OpCall
	Blocks []*BasicBlock // branch targets / phi predecessors
	Meta   []Attribute
	Parent *BasicBlock
}

func (i *Instr) Type() Type   { return i.Ty }
func (i *Instr) Name() string { return i.Nam }

func (i *Instr) IsTerminator() bool {
	switch i.Op {
	case OpBr, OpCondBr, OpRet:
		return true
	}
	return false
}

// SetMeta attaches a metadata attribute to the instruction.
func (i *Instr) SetMeta(a Attribute) {
	i.Meta = append(i.Meta, a)
}

// AddIncoming appends (value, predecessor) pairs to a phi.
func (i *Instr) AddIncoming(vals []Value, preds []*BasicBlock) {
	if i.Op != OpPhi {
		panic("ir: AddIncoming on non-phi instruction")
	}
	if len(vals) != len(preds) {
		panic("ir: AddIncoming length mismatch")
	}
	i.Ops = append(i.Ops, vals...)
	i.Blocks = append(i.Blocks, preds...)
}
