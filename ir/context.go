package ir

import "fmt"

// Context owns and interns types. Every module, builder and generated
// type hangs off one Context; types from different contexts must never
// mix. Interning makes type equality a pointer comparison.
type Context struct {
	void   *VoidType
	ints   map[intKey]*IntType
	floats map[uint32]*FloatType
	comps  map[string]Type // composite types, keyed by their printed form
}

type intKey struct {
	width  uint32
	signed bool
}

func NewContext() *Context {
	return &Context{
		void:   &VoidType{},
		ints:   make(map[intKey]*IntType),
		floats: make(map[uint32]*FloatType),
		comps:  make(map[string]Type),
	}
}

func (c *Context) VoidType() *VoidType { return c.void }

func (c *Context) IntType(width uint32, signed bool) *IntType {
	k := intKey{width, signed}
	if t, ok := c.ints[k]; ok {
		return t
	}
	t := &IntType{Width: width, Signed: signed}
	c.ints[k] = t
	return t
}

func (c *Context) Int1Type() *IntType  { return c.IntType(1, true) }
func (c *Context) Int8Type() *IntType  { return c.IntType(8, true) }
func (c *Context) Int16Type() *IntType { return c.IntType(16, true) }
func (c *Context) Int32Type() *IntType { return c.IntType(32, true) }
func (c *Context) Int64Type() *IntType { return c.IntType(64, true) }

func (c *Context) FloatType(width uint32) *FloatType {
	if t, ok := c.floats[width]; ok {
		return t
	}
	t := &FloatType{Width: width}
	c.floats[width] = t
	return t
}

func (c *Context) intern(t Type) Type {
	key := t.String()
	if got, ok := c.comps[key]; ok {
		return got
	}
	c.comps[key] = t
	return t
}

func (c *Context) PointerType(elem Type, addrSpace int) *PointerType {
	return c.intern(&PointerType{Elem: elem, AddrSpace: addrSpace}).(*PointerType)
}

func (c *Context) TileType(elem Type, shape []int64) *TileType {
	if len(shape) == 0 {
		panic("ir: tile type needs at least one dimension")
	}
	s := make([]int64, len(shape))
	copy(s, shape)
	return c.intern(&TileType{Elem: elem, Shape: s}).(*TileType)
}

func (c *Context) ArrayType(elem Type, n int64) *ArrayType {
	return c.intern(&ArrayType{Elem: elem, Len: n}).(*ArrayType)
}

func (c *Context) StructType(fields []Type) *StructType {
	f := make([]Type, len(fields))
	copy(f, fields)
	return c.intern(&StructType{Fields: f}).(*StructType)
}

func (c *Context) FuncType(ret Type, params []Type) *FuncType {
	p := make([]Type, len(params))
	copy(p, params)
	return c.intern(&FuncType{Ret: ret, Params: p}).(*FuncType)
}

// NewModule creates an empty module bound to this context.
func (c *Context) NewModule(name string) *Module {
	return &Module{Name: name, Ctx: c}
}

// NewBuilder creates a builder with no insertion point.
func (c *Context) NewBuilder() *Builder {
	return &Builder{ctx: c}
}

// AddBasicBlock appends a new block to fn.
func (c *Context) AddBasicBlock(fn *Function, name string) *BasicBlock {
	bb := &BasicBlock{Nam: name, Fn: fn}
	fn.Blocks = append(fn.Blocks, bb)
	return bb
}

func (c *Context) String() string {
	return fmt.Sprintf("ir.Context(%d interned types)", len(c.ints)+len(c.floats)+len(c.comps))
}
