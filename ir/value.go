package ir

import "fmt"

// Value is anything that can appear as an instruction operand: constants,
// arguments, globals, functions and instructions themselves. Every value
// carries a valid type. Values are owned by the module's value graph;
// consumers hold non-owning references.
type Value interface {
	Type() Type
	Name() string
}

// ConstInt is an integer constant. V holds the bit pattern for both
// signed and unsigned types.
type ConstInt struct {
	Ty *IntType
	V  int64
}

func (c *ConstInt) Type() Type   { return c.Ty }
func (c *ConstInt) Name() string { return fmt.Sprintf("%d", c.V) }

type ConstFloat struct {
	Ty *FloatType
	V  float64
}

func (c *ConstFloat) Type() Type   { return c.Ty }
func (c *ConstFloat) Name() string { return fmt.Sprintf("%g", c.V) }

// Undef is an unspecified value of a given type.
type Undef struct {
	Ty Type
}

func (u *Undef) Type() Type   { return u.Ty }
func (u *Undef) Name() string { return "undef" }

// Argument is a formal parameter of a function.
type Argument struct {
	Ty    Type
	Nam   string
	Index int
	Fn    *Function
}

func (a *Argument) Type() Type   { return a.Ty }
func (a *Argument) Name() string { return a.Nam }

// AttrKind enumerates IR attributes attached to function parameters or
// values. They are metadata for downstream passes.
type AttrKind int

const (
	AttrAligned AttrKind = iota
	AttrMultipleOf
	AttrReadOnly
	AttrWriteOnly
)

func (k AttrKind) String() string {
	switch k {
	case AttrAligned:
		return "aligned"
	case AttrMultipleOf:
		return "multipleof"
	case AttrReadOnly:
		return "readonly"
	default:
		return "writeonly"
	}
}

// Attribute is a tag plus an optional integer payload.
type Attribute struct {
	Kind  AttrKind
	Value int64
}

func (a Attribute) String() string {
	switch a.Kind {
	case AttrAligned, AttrMultipleOf:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Value)
	default:
		return a.Kind.String()
	}
}

// Function is a function definition (or declaration, when Blocks is
// empty). Its Value type is the signature; calls consume it directly.
type Function struct {
	Nam        string
	Sig        *FuncType
	Args       []*Argument
	Blocks     []*BasicBlock
	ParamAttrs map[int][]Attribute
	Mod        *Module
}

func (f *Function) Type() Type   { return f.Sig }
func (f *Function) Name() string { return f.Nam }

// AddParamAttr attaches an attribute to the i-th parameter.
func (f *Function) AddParamAttr(i int, a Attribute) {
	if f.ParamAttrs == nil {
		f.ParamAttrs = make(map[int][]Attribute)
	}
	f.ParamAttrs[i] = append(f.ParamAttrs[i], a)
}

// EntryBlock returns the first block, or nil for declarations.
func (f *Function) EntryBlock() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// MoveBlockToEnd reorders bb to the end of the block list. Used to keep
// the single exit block last in the printed form.
func (f *Function) MoveBlockToEnd(bb *BasicBlock) {
	for i, b := range f.Blocks {
		if b == bb {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			f.Blocks = append(f.Blocks, bb)
			return
		}
	}
}

// BasicBlock is a straight-line instruction sequence ending in a
// terminator.
type BasicBlock struct {
	Nam    string
	Instrs []*Instr
	Fn     *Function
}

func (b *BasicBlock) Name() string      { return b.Nam }
func (b *BasicBlock) Parent() *Function { return b.Fn }

// Terminator returns the block's terminator instruction, or nil if the
// block is not yet terminated.
func (b *BasicBlock) Terminator() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	last := b.Instrs[len(b.Instrs)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

// Global is a module-scope variable. Its value is the address, so its
// type is a pointer to the content type.
type Global struct {
	Ty    *PointerType
	Nam   string
	Init  Value // constant initializer, may be nil
	Attrs []Attribute
}

func (g *Global) Type() Type   { return g.Ty }
func (g *Global) Name() string { return g.Nam }

// Module is the single output accumulator of a lowering run. It grows in
// program order and is never rolled back; a failed unit leaves a
// truncated module the driver must discard.
type Module struct {
	Name    string
	Ctx     *Context
	Globals []*Global
	Funcs   []*Function
}

// AddFunction registers a new function with the given signature.
func (m *Module) AddFunction(name string, sig *FuncType) *Function {
	fn := &Function{Nam: name, Sig: sig, Mod: m}
	for i, p := range sig.Params {
		fn.Args = append(fn.Args, &Argument{
			Ty:    p,
			Nam:   fmt.Sprintf("arg%d", i),
			Index: i,
			Fn:    fn,
		})
	}
	m.Funcs = append(m.Funcs, fn)
	return fn
}

// NamedFunction returns the function with the given name, or nil.
func (m *Module) NamedFunction(name string) *Function {
	for _, f := range m.Funcs {
		if f.Nam == name {
			return f
		}
	}
	return nil
}

// AddGlobal registers a module-scope variable of the given content type.
func (m *Module) AddGlobal(content Type, name string, init Value) *Global {
	g := &Global{
		Ty:   m.Ctx.PointerType(content, 0),
		Nam:  name,
		Init: init,
	}
	m.Globals = append(m.Globals, g)
	return g
}

// NamedGlobal returns the global with the given name, or nil.
func (m *Module) NamedGlobal(name string) *Global {
	for _, g := range m.Globals {
		if g.Nam == name {
			return g
		}
	}
	return nil
}
